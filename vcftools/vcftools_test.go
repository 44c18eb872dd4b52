package vcftools

import (
	"strings"
	"testing"
)

func TestSubsetSamplesArgs(t *testing.T) {
	args := strings.Join(subsetSamplesArgs("in.vcf.gz", []string{"HG002", "HG003"}, "out.vcf.gz", false, false), " ")
	if args != "view -s HG002,HG003 -Oz -o out.vcf.gz in.vcf.gz" {
		t.Error("problem with subset samples args", args)
	}

	args = strings.Join(subsetSamplesArgs("in.vcf.gz", []string{"HG002"}, "out.vcf.gz", true, true), " ")
	if !strings.Contains(args, "-U") || !strings.Contains(args, "-c1") {
		t.Error("problem with drop flags", args)
	}
	if !strings.HasSuffix(args, "in.vcf.gz") {
		t.Error("problem with input ordering: input must come last", args)
	}
}
