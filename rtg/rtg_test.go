package rtg

import (
	"strings"
	"testing"
)

func TestVcfEvalArgs(t *testing.T) {
	args := strings.Join(vcfEvalArgs(VcfEvalArgs{
		Sdf:        "ref.sdf",
		TruthVcf:   "truth.vcf.gz",
		Confident:  "confident.bed",
		CallsVcf:   "calls.vcf.gz",
		OutDir:     "out.eval",
		BedRegions: "regions.bed",
	}), " ")

	for _, want := range []string{"vcfeval", "-t ref.sdf", "-b truth.vcf.gz",
		"--evaluation-regions confident.bed", "-c calls.vcf.gz", "-o out.eval",
		"--bed-regions regions.bed"} {
		if !strings.Contains(args, want) {
			t.Errorf("problem with vcfeval args: missing %q in %q", want, args)
		}
	}
	if strings.Contains(args, "--sample") {
		t.Error("problem with vcfeval args: no sample expected", args)
	}
}

func TestVcfEvalArgsSomatic(t *testing.T) {
	args := strings.Join(vcfEvalArgs(VcfEvalArgs{
		Sdf:       "ref.sdf",
		TruthVcf:  "truth.vcf.gz",
		Confident: "confident.bed",
		CallsVcf:  "calls.vcf.gz",
		OutDir:    "out.eval",
		Sample:    "TUMOUR",
		Somatic:   true,
	}), " ")

	if !strings.Contains(args, "--squash-ploidy") || !strings.Contains(args, "--sample ALT") {
		t.Error("problem with somatic vcfeval args", args)
	}
	if strings.Contains(args, "--sample TUMOUR") {
		t.Error("problem with somatic vcfeval args: named sample should be ignored", args)
	}
}

func TestVcfEvalArgsNamedSample(t *testing.T) {
	args := strings.Join(vcfEvalArgs(VcfEvalArgs{
		Sdf:       "ref.sdf",
		TruthVcf:  "truth.vcf.gz",
		Confident: "confident.bed",
		CallsVcf:  "calls.vcf.gz",
		OutDir:    "out.eval",
		Sample:    "HG002,SAMPLE1",
	}), " ")
	if !strings.Contains(args, "--sample HG002,SAMPLE1") {
		t.Error("problem with named sample vcfeval args", args)
	}
}
