package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/dasnellings/forestTools/dataset"
	"github.com/dasnellings/forestTools/measures"
)

func usage() {
	fmt.Print(
		"makeRangerData - Write annotated vcf records as labeled whitespace-delimited rows\n" +
			"for ranger training.\n" +
			"Usage:\n" +
			"makeRangerData [options] -i graded.vcf.gz -label tp -o rows.dat\n\n")
	flag.PrintDefaults()
}

func main() {
	input := flag.String("i", "", "Input single-sample vcf with caller annotations.")
	output := flag.String("o", "", "Output data file.")
	label := flag.String("label", "", "Class label for every record [tp, fp].")
	somatic := flag.Bool("somatic", false, "Use the somatic measure set instead of the germline set.")
	missingValue := flag.Float64("missingValue", -1, "Value recorded for missing measures.")
	fraction := flag.Float64("fraction", 1, "Fraction of records to keep, sampled at random.")
	header := flag.Bool("header", false, "Prepend the measure name header line.")
	flag.Parse()

	if *input == "" || *output == "" {
		usage()
		log.Fatal("ERROR: must specify input vcf (-i) and output file (-o).")
	}
	if *label != "tp" && *label != "fp" {
		usage()
		log.Fatal("ERROR: -label must be tp or fp.")
	}

	meas := measures.Germline
	if *somatic {
		meas = measures.Somatic
	}

	measures.WriteRows(*input, *output, *label == "tp", meas, *missingValue, *fraction)
	if *header {
		dataset.AddHeader(*output, measures.Header(meas))
	}
}
