package ranger

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

func writeTestFile(t *testing.T, name string, lines []string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	out := fileio.EasyCreate(file)
	for i := range lines {
		fmt.Fprintln(out, lines[i])
	}
	err := out.Close()
	exception.PanicOnErr(err)
	return file
}

func TestTrainArgs(t *testing.T) {
	hp := Hyperparameters{Trees: intp(300), MinNodeSize: intp(20)}
	args := strings.Join(trainArgs("data.dat", hp, 4, "out/octopus", 10), " ")

	for _, want := range []string{"--file data.dat", "--depvarname TP", "--probability",
		"--nthreads 4", "--outprefix out/octopus", "--write", "--impmeasure 1",
		"--ntree 300", "--targetpartitionsize 20", "--seed 10"} {
		if !strings.Contains(args, want) {
			t.Errorf("problem with train args: missing %q in %q", want, args)
		}
	}
	if strings.Contains(args, "--maxdepth") {
		t.Error("problem with train args: unset max depth should be omitted", args)
	}

	args = strings.Join(trainArgs("data.dat", Hyperparameters{}, 1, "out", -1), " ")
	if strings.Contains(args, "--seed") || strings.Contains(args, "--ntree") {
		t.Error("problem with train args: empty hyperparameters should add nothing", args)
	}
}

func TestReadPredictions(t *testing.T) {
	file := writeTestFile(t, "out.prediction", []string{
		"Prediction file",
		"TP FP",
		"1 0",
		"0.91 0.09",
		"0.25 0.75",
	})
	got := ReadPredictions(file)
	if len(got) != 2 || got[0] != 0.91 || got[1] != 0.25 {
		t.Error("problem reading predictions", got)
	}
}

func TestReadLabels(t *testing.T) {
	file := writeTestFile(t, "validate.data", []string{
		"GQ DP TP",
		"99 30 1",
		"12 22 0",
		"50 18 1",
	})
	got := ReadLabels(file)
	if len(got) != 3 || got[0] != 1 || got[1] != 0 || got[2] != 1 {
		t.Error("problem reading labels", got)
	}
}

func TestReadImportance(t *testing.T) {
	file := writeTestFile(t, "octopus.importance", []string{
		"GQ: 1.25",
		"DP: 0.5",
		"SB: 0",
	})
	got := ReadImportance(file)
	if len(got) != 3 || got["GQ"] != 1.25 || got["DP"] != 0.5 || got["SB"] != 0 {
		t.Error("problem reading importance", got)
	}
}

func TestLogLoss(t *testing.T) {
	labels := []int{1, 0}
	probs := []float64{0.8, 0.2}
	want := -math.Log(0.8)
	if got := LogLoss(labels, probs); math.Abs(got-want) > 1e-12 {
		t.Error("problem with log loss", got, want)
	}

	// perfect confident predictions are clamped rather than yielding 0*Inf
	if got := LogLoss([]int{1, 0}, []float64{1, 0}); math.IsInf(got, 0) || math.IsNaN(got) {
		t.Error("problem with log loss clamping", got)
	}
}

func TestSelectSingleCandidate(t *testing.T) {
	hp := Hyperparameters{Trees: intp(100)}
	got := Select("ranger", "master.dat", []Hyperparameters{hp}, 0.25, 1, "scratch", "octopus")
	if got.Trees == nil || *got.Trees != 100 {
		t.Error("problem with single candidate selection", got)
	}

	got = Select("ranger", "master.dat", nil, 0.25, 1, "scratch", "octopus")
	if got.Trees == nil || *got.Trees != 500 || got.MinNodeSize == nil || *got.MinNodeSize != 10 {
		t.Error("problem with default hyperparameters", got)
	}
}
