package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dasnellings/forestTools/truth"
	"github.com/vertgenlab/gonomics/exception"
)

func usage() {
	fmt.Print(
		"fetchTruthSet - Download a named public benchmark truth set.\n" +
			"Usage:\n" +
			"fetchTruthSet [options] -name GIAB//GRCh38//HG002 -o outputDir\n\n")
	flag.PrintDefaults()
}

func main() {
	name := flag.String("name", "", "Truth set name in LIBRARY//REFERENCE//SAMPLE form.")
	outDir := flag.String("o", "", "Output directory.")
	overwrite := flag.Bool("overwrite", false, "Re-download files already present in the output directory.")
	flag.Parse()

	if *name == "" || *outDir == "" {
		usage()
		log.Fatal("ERROR: must specify truth set name (-name) and output directory (-o).")
	}

	err := os.MkdirAll(*outDir, 0755)
	exception.PanicOnErr(err)

	library, reference, sample := truth.Parse(*name)
	set := truth.Download(library, reference, sample, *outDir, *overwrite)
	fmt.Printf("vcf: %s\nbed: %s\n", set.Vcf, set.Bed)
}
