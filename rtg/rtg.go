// Package rtg wraps the RTG Tools commands used for grading variant calls
// against a truth set.
package rtg

import (
	"os"
	"os/exec"
)

func run(bin string, args ...string) {
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Run()
}

// Format converts a fasta reference into the SDF layout vcfeval requires.
func Format(bin, fastaRef, outSdf string) {
	run(bin, "format", "-o", outSdf, fastaRef)
}

// VcfEvalArgs describes one vcfeval run. Sample and BedRegions are optional.
// Somatic squashes ploidy and grades ALT alleles only.
type VcfEvalArgs struct {
	Sdf        string
	TruthVcf   string
	Confident  string
	CallsVcf   string
	OutDir     string
	BedRegions string
	Sample     string
	Somatic    bool
}

func vcfEvalArgs(a VcfEvalArgs) []string {
	args := []string{"vcfeval",
		"-t", a.Sdf,
		"-b", a.TruthVcf,
		"--evaluation-regions", a.Confident,
		"-c", a.CallsVcf,
		"-o", a.OutDir}
	if a.BedRegions != "" {
		args = append(args, "--bed-regions", a.BedRegions)
	}
	if a.Somatic {
		args = append(args, "--squash-ploidy", "--sample", "ALT")
	} else if a.Sample != "" {
		args = append(args, "--sample", a.Sample)
	}
	return args
}

// VcfEval compares a call set against a truth set, writing tp/fp/fn vcfs to
// the output directory.
func VcfEval(bin string, a VcfEvalArgs) {
	run(bin, vcfEvalArgs(a)...)
}
