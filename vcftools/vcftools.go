// Package vcftools shells out to bcftools and tabix for compressed variant
// file manipulation. Exit codes are not inspected; a failed command leaves a
// missing or empty output file for downstream stages to trip over.
package vcftools

import (
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
)

func run(name string, args ...string) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Run()
}

// Index builds a tabix index for vcfFile, replacing any existing index.
func Index(vcfFile string) {
	run("tabix", "-f", vcfFile)
}

// RemoveIndex deletes the tabix index of vcfFile if one exists.
func RemoveIndex(vcfFile string) {
	idx := vcfFile + ".tbi"
	if _, err := os.Stat(idx); err == nil {
		err = os.Remove(idx)
		exception.PanicOnErr(err)
	}
}

// Remove deletes vcfFile and its tabix index.
func Remove(vcfFile string) {
	err := os.Remove(vcfFile)
	exception.PanicOnErr(err)
	RemoveIndex(vcfFile)
}

func subsetSamplesArgs(in string, samples []string, out string, dropUncalled, dropHomRef bool) []string {
	args := []string{"view", "-s", strings.Join(samples, ","), "-Oz", "-o", out}
	if dropUncalled {
		args = append(args, "-U")
	}
	if dropHomRef {
		args = append(args, "-c1")
	}
	return append(args, in)
}

// SubsetSamples restricts a vcf to the given samples with bcftools view. An
// empty out rewrites the input in place. The result is indexed.
func SubsetSamples(in string, samples []string, out string, dropUncalled, dropHomRef bool) {
	inplace := out == ""
	if inplace {
		out = in + ".tmp"
	}
	run("bcftools", subsetSamplesArgs(in, samples, out, dropUncalled, dropHomRef)...)
	if inplace {
		err := os.Rename(out, in)
		exception.PanicOnErr(err)
		Index(in)
	} else {
		Index(out)
	}
}

// SubsetRegions restricts a vcf to records overlapping the bed regions.
func SubsetRegions(in, out, bedRegions string) {
	run("bcftools", "view", "-R", bedRegions, "-O", "z", "-o", out, in)
}

// Complement writes records of src absent from every target vcf.
func Complement(src string, targets []string, dst string) {
	args := append([]string{"isec", "-C", src}, targets...)
	args = append(args, "-w1", "-Oz", "-o", dst)
	run("bcftools", args...)
	Index(dst)
}

// Intersect writes records present in all src vcfs, taken from the first.
func Intersect(srcs []string, dst string) {
	args := append([]string{"isec"}, srcs...)
	args = append(args, "-n", strconv.Itoa(len(srcs)), "-w1", "-Oz", "-o", dst)
	run("bcftools", args...)
	Index(dst)
}

// Concat combines indexed vcfs with bcftools concat -a, optionally dropping
// records duplicated between inputs.
func Concat(vcfs []string, out string, dropDuplicates bool) {
	if len(vcfs) < 2 {
		log.Fatal("ERROR: concat requires at least two vcf files")
	}
	args := []string{"concat", "-a", "-Oz", "-o", out}
	if dropDuplicates {
		args = append(args, "-D")
	}
	args = append(args, vcfs...)
	run("bcftools", args...)
	Index(out)
}
