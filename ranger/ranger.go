// Package ranger drives the external ranger random forest trainer and scores
// candidate hyperparameter sets by cross-validated log loss.
package ranger

import (
	"log"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dasnellings/forestTools/dataset"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"gonum.org/v1/gonum/stat"
)

// Hyperparameters are the forest-building knobs forwarded to the trainer.
// Nil fields fall back to the trainer's own defaults.
type Hyperparameters struct {
	Trees       *int `json:"trees"`
	MinNodeSize *int `json:"min_node_size"`
	MaxDepth    *int `json:"max_depth"`
}

func intp(i int) *int {
	return &i
}

// Default is used when no hyperparameter sweep is configured.
func Default() Hyperparameters {
	return Hyperparameters{Trees: intp(500), MinNodeSize: intp(10)}
}

func (h Hyperparameters) String() string {
	var words []string
	if h.Trees != nil {
		words = append(words, "trees="+strconv.Itoa(*h.Trees))
	}
	if h.MinNodeSize != nil {
		words = append(words, "min_node_size="+strconv.Itoa(*h.MinNodeSize))
	}
	if h.MaxDepth != nil {
		words = append(words, "max_depth="+strconv.Itoa(*h.MaxDepth))
	}
	return strings.Join(words, " ")
}

func run(bin string, args ...string) {
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Run()
}

func trainArgs(dataFile string, hp Hyperparameters, threads int, outPrefix string, seed int) []string {
	args := []string{"--file", dataFile, "--depvarname", "TP", "--probability",
		"--nthreads", strconv.Itoa(threads), "--outprefix", outPrefix,
		"--write", "--impmeasure", "1", "--verbose"}
	if hp.Trees != nil {
		args = append(args, "--ntree", strconv.Itoa(*hp.Trees))
	}
	if hp.MinNodeSize != nil {
		args = append(args, "--targetpartitionsize", strconv.Itoa(*hp.MinNodeSize))
	}
	if hp.MaxDepth != nil {
		args = append(args, "--maxdepth", strconv.Itoa(*hp.MaxDepth))
	}
	if seed >= 0 {
		args = append(args, "--seed", strconv.Itoa(seed))
	}
	return args
}

// Train grows a probability forest on a headered data file. seed < 0 leaves
// seeding to the trainer.
func Train(bin, dataFile string, hp Hyperparameters, threads int, outPrefix string, seed int) {
	run(bin, trainArgs(dataFile, hp, threads, outPrefix, seed)...)
}

// Predict applies a trained forest to a headered data file.
func Predict(bin, forestFile, dataFile string, threads int, outPrefix string) {
	run(bin, "--file", dataFile, "--predict", forestFile, "--probability",
		"--nthreads", strconv.Itoa(threads), "--outprefix", outPrefix, "--verbose")
}

// ReadPredictions parses the class probabilities written by a prediction run.
// The first column past the three banner lines is the positive class.
func ReadPredictions(file string) []float64 {
	var ans []float64
	var lineNum int
	in := fileio.EasyOpen(file)
	for line, done := fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		lineNum++
		if lineNum <= 3 {
			continue
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		p, err := strconv.ParseFloat(words[0], 64)
		exception.PanicOnErr(err)
		ans = append(ans, p)
	}
	err := in.Close()
	exception.PanicOnErr(err)
	return ans
}

// ReadLabels pulls the TP column from a headered data file.
func ReadLabels(dataFile string) []int {
	var ans []int
	var labelIdx int = -1
	in := fileio.EasyOpen(dataFile)
	for line, done := fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		words := strings.Fields(line)
		if labelIdx == -1 {
			for i := range words {
				if words[i] == "TP" {
					labelIdx = i
				}
			}
			if labelIdx == -1 {
				log.Fatalf("ERROR: no TP column in header of %s", dataFile)
			}
			continue
		}
		label, err := strconv.Atoi(words[labelIdx])
		exception.PanicOnErr(err)
		ans = append(ans, label)
	}
	err := in.Close()
	exception.PanicOnErr(err)
	return ans
}

// ReadImportance parses the name: value lines of an importance report.
func ReadImportance(file string) map[string]float64 {
	ans := make(map[string]float64)
	in := fileio.EasyOpen(file)
	for line, done := fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		name, val, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		exception.PanicOnErr(err)
		ans[strings.TrimSpace(name)] = f
	}
	err := in.Close()
	exception.PanicOnErr(err)
	return ans
}

const probEpsilon = 1e-15

// LogLoss is the mean binary cross entropy of predicted positive-class
// probabilities against 0/1 labels.
func LogLoss(labels []int, probs []float64) float64 {
	if len(labels) != len(probs) {
		log.Fatalf("ERROR: %d labels but %d predictions", len(labels), len(probs))
	}
	losses := make([]float64, len(labels))
	for i := range labels {
		p := math.Min(math.Max(probs[i], probEpsilon), 1-probEpsilon)
		if labels[i] == 1 {
			losses[i] = -math.Log(p)
		} else {
			losses[i] = -math.Log(1 - p)
		}
	}
	return stat.Mean(losses, nil)
}

// Select picks hyperparameters for the final forest. With no candidates the
// fixed default is used; one candidate short-circuits; otherwise each
// candidate forest is trained on a partition of the master data and scored by
// log loss on the held-out rows.
func Select(bin, masterData string, candidates []Hyperparameters, validationFraction float64, threads int, scratchDir, prefix string) Hyperparameters {
	if len(candidates) == 0 {
		return Default()
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	trainData := strings.Replace(masterData, ".dat", ".train.data", 1)
	validateData := strings.Replace(masterData, ".dat", ".validate.data", 1)
	dataset.Partition(masterData, validationFraction, trainData, validateData)

	err := os.MkdirAll(scratchDir, 0755)
	exception.PanicOnErr(err)
	outPrefix := filepath.Join(scratchDir, prefix)
	forestFile := outPrefix + ".forest"
	predictionFile := outPrefix + ".prediction"

	labels := ReadLabels(validateData)
	var best Hyperparameters
	minLoss := math.Inf(1)
	for _, hp := range candidates {
		log.Printf("training cross validation forest with %v\n", hp)
		Train(bin, trainData, hp, threads, outPrefix, 10)
		Predict(bin, forestFile, validateData, threads, outPrefix)
		loss := LogLoss(labels, ReadPredictions(predictionFile))
		log.Printf("binary cross entropy = %f\n", loss)
		if loss < minLoss {
			minLoss, best = loss, hp
		}
	}
	err = os.RemoveAll(scratchDir)
	exception.PanicOnErr(err)
	return best
}
