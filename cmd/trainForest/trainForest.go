package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dasnellings/forestTools/config"
	"github.com/dasnellings/forestTools/dataset"
	"github.com/dasnellings/forestTools/eval"
	"github.com/dasnellings/forestTools/measures"
	"github.com/dasnellings/forestTools/octopus"
	"github.com/dasnellings/forestTools/ranger"
	"github.com/dasnellings/forestTools/vcftools"
	"github.com/guptarohit/asciigraph"
	"github.com/vertgenlab/gonomics/exception"
	"golang.org/x/exp/slices"
)

func usage() {
	fmt.Print(
		"trainForest - Train a random forest for variant call filtering from labeled caller output.\n" +
			"Calls variants for each configured example, grades them against a truth set with\n" +
			"rtg vcfeval, and trains a ranger probability forest on the annotated tp/fp calls.\n" +
			"Usage:\n" +
			"trainForest [options] -config training.json -o outputDir\n\n")
	flag.PrintDefaults()
}

func main() {
	configFile := flag.String("config", "", "Training data config in json format.")
	outDir := flag.String("o", "", "Output directory.")
	octopusBin := flag.String("octopus", "octopus", "Octopus binary.")
	rtgBin := flag.String("rtg", "rtg", "RTG Tools binary.")
	rangerBin := flag.String("ranger", "ranger", "Ranger binary.")
	prefix := flag.String("prefix", "octopus", "Output files prefix.")
	threads := flag.Int("t", 1, "Number of threads for octopus, vcfeval, and ranger.")
	missingValue := flag.Float64("missingValue", -1, "Value recorded for missing measures.")
	kind := flag.String("kind", "germline", "Kind of forest to train [germline, somatic].")
	overwrite := flag.Bool("overwrite", false, "Overwrite existing calls and evaluation files.")
	keepExampleData := flag.Bool("keepExampleData", false, "Do not delete the per-example training data files.")
	plotFile := flag.String("plot", "", "Write a measure importance bar chart to this pdf file.")
	ascii := flag.Bool("ascii", false, "Print a measure importance graph to the console.")
	flag.Parse()

	if *configFile == "" || *outDir == "" {
		usage()
		log.Fatal("ERROR: must specify config (-config) and output directory (-o).")
	}
	if *kind != "germline" && *kind != "somatic" {
		usage()
		log.Fatal("ERROR: -kind must be germline or somatic.")
	}

	trainForest(*configFile, *outDir, *octopusBin, *rtgBin, *rangerBin, *prefix,
		*threads, *missingValue, *kind, *overwrite, *keepExampleData, *plotFile, *ascii)
}

func trainForest(configFile, outDir, octopusBin, rtgBin, rangerBin, prefix string,
	threads int, missingValue float64, kind string, overwrite, keepExampleData bool, plotFile string, ascii bool) {
	err := os.MkdirAll(outDir, 0755)
	exception.PanicOnErr(err)

	examples, training := config.Load(configFile, outDir, rtgBin, overwrite)

	for _, ex := range examples {
		if len(ex.Reads) > 0 {
			version, commit := octopus.Version(octopusBin)
			if commit != "" {
				log.Printf("calling variants with octopus %s (%s)\n", version, commit)
			} else {
				log.Printf("calling variants with octopus %s\n", version)
			}
			break
		}
	}

	meas := measures.Germline
	if kind == "somatic" {
		meas = measures.Somatic
	}

	evalOpts := eval.Options{
		OctopusBin: octopusBin,
		RtgBin:     rtgBin,
		OutDir:     outDir,
		Threads:    threads,
		Kind:       kind,
		Measures:   meas,
		Overwrite:  overwrite,
	}

	var dataFiles, tmpFiles []string
	for _, ex := range examples {
		for _, evalDir := range eval.Example(ex, evalOpts) {
			tp := exampleRows(evalDir, "tp", ex.Regions, true, meas, missingValue, ex.TpFraction, overwrite)
			fp := exampleRows(evalDir, "fp", ex.Regions, false, meas, missingValue, ex.FpFraction, overwrite)
			dataFiles = append(dataFiles, tp.dat, fp.dat)
			tmpFiles = append(tmpFiles, tp.vcf, fp.vcf)
		}
	}

	masterData := filepath.Join(outDir, prefix+".dat")
	dataset.Concat(dataFiles, masterData)
	if !keepExampleData {
		for _, file := range tmpFiles {
			vcftools.Remove(file)
		}
		for _, file := range dataFiles {
			err = os.Remove(file)
			exception.PanicOnErr(err)
		}
	}
	dataset.Shuffle(masterData)
	dataset.AddHeader(masterData, measures.Header(meas))

	var candidates []ranger.Hyperparameters
	cvFraction := 0.25
	if training != nil {
		candidates = training.Hyperparameters
		cvFraction = training.CrossValidationFraction
	}
	scratchDir := filepath.Join(outDir, "cross_validation")
	hp := ranger.Select(rangerBin, masterData, candidates, cvFraction, threads, scratchDir, prefix)

	outPrefix := filepath.Join(outDir, prefix)
	log.Printf("training final forest with %v\n", hp)
	ranger.Train(rangerBin, masterData, hp, threads, outPrefix, -1)

	reportImportance(outPrefix+".importance", plotFile, ascii)
}

type rowFiles struct {
	vcf string // region-subset vcf, removed after training unless retained
	dat string // labeled measure rows
}

// exampleRows subsets one graded vcf to the calling regions and writes its
// labeled rows. Both artifacts are reused from a previous run when present.
func exampleRows(evalDir, set, regions string, label bool, meas []string, missingValue, fraction float64, overwrite bool) rowFiles {
	var ans rowFiles
	gradedVcf := filepath.Join(evalDir, set+".vcf.gz")
	ans.vcf = strings.Replace(gradedVcf, set+".vcf", set+".train.vcf", 1)
	if _, err := os.Stat(ans.vcf); err != nil || overwrite {
		vcftools.SubsetRegions(gradedVcf, ans.vcf, regions)
	}
	ans.dat = strings.Replace(ans.vcf, ".vcf.gz", ".dat", 1)
	if _, err := os.Stat(ans.dat); err != nil || overwrite {
		measures.WriteRows(ans.vcf, ans.dat, label, meas, missingValue, fraction)
	}
	return ans
}

type importancePair struct {
	name  string
	value float64
}

func reportImportance(importanceFile, plotFile string, ascii bool) {
	imp := ranger.ReadImportance(importanceFile)
	if len(imp) == 0 {
		log.Printf("no importance report found at %s\n", importanceFile)
		return
	}

	pairs := make([]importancePair, 0, len(imp))
	for name, value := range imp {
		pairs = append(pairs, importancePair{name, value})
	}
	slices.SortFunc(pairs, func(a, b importancePair) int {
		switch {
		case a.value > b.value:
			return -1
		case a.value < b.value:
			return 1
		default:
			return strings.Compare(a.name, b.name)
		}
	})

	names := make([]string, len(pairs))
	values := make([]float64, len(pairs))
	var unused []string
	for i := range pairs {
		names[i] = pairs[i].name
		values[i] = pairs[i].value
		if pairs[i].value == 0 {
			unused = append(unused, pairs[i].name)
		}
	}

	for i := range pairs {
		log.Printf("%s\t%f\n", names[i], values[i])
	}
	if len(unused) > 0 {
		log.Printf("measures with zero importance: %s\n", strings.Join(unused, " "))
	}

	if ascii {
		fmt.Println(asciigraph.Plot(values, asciigraph.Height(10), asciigraph.Caption("measure importance (descending)")))
		fmt.Println(strings.Join(names, " "))
	}
	if plotFile != "" {
		plotImportance(names, values, plotFile)
	}
}
