// Package dataset assembles per-example training rows into one master file
// ready for the forest trainer.
package dataset

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

func readLines(file string) []string {
	var ans []string
	in := fileio.EasyOpen(file)
	for line, done := fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		ans = append(ans, line)
	}
	err := in.Close()
	exception.PanicOnErr(err)
	return ans
}

func writeLines(file string, lines []string) {
	out := fileio.EasyCreate(file)
	for i := range lines {
		fmt.Fprintln(out, lines[i])
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

// Concat appends the rows of each input file to out in order.
func Concat(files []string, out string) {
	w := fileio.EasyCreate(out)
	for _, file := range files {
		in := fileio.EasyOpen(file)
		for line, done := fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
			fmt.Fprintln(w, line)
		}
		err := in.Close()
		exception.PanicOnErr(err)
	}
	err := w.Close()
	exception.PanicOnErr(err)
}

// Shuffle randomly reorders the rows of file in place.
func Shuffle(file string) {
	lines := readLines(file)
	rand.Shuffle(len(lines), func(i, j int) {
		lines[i], lines[j] = lines[j], lines[i]
	})
	writeLines(file, lines)
}

// AddHeader prepends a header line to file.
func AddHeader(file, header string) {
	lines := readLines(file)
	out := fileio.EasyCreate(file)
	fmt.Fprintln(out, header)
	for i := range lines {
		fmt.Fprintln(out, lines[i])
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

// Partition randomly splits the rows of a headered data file into training
// and validation files, copying the header to both.
func Partition(dataFile string, validationFraction float64, trainFile, validateFile string) {
	lines := readLines(dataFile)
	if len(lines) == 0 {
		log.Fatalf("ERROR: no rows to partition in %s", dataFile)
	}
	train := fileio.EasyCreate(trainFile)
	validate := fileio.EasyCreate(validateFile)
	fmt.Fprintln(train, lines[0])
	fmt.Fprintln(validate, lines[0])
	for _, line := range lines[1:] {
		if rand.Float64() < validationFraction {
			fmt.Fprintln(validate, line)
		} else {
			fmt.Fprintln(train, line)
		}
	}
	err := train.Close()
	exception.PanicOnErr(err)
	err = validate.Close()
	exception.PanicOnErr(err)
}
