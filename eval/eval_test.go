package eval

import (
	"testing"

	"github.com/vertgenlab/gonomics/vcf"
)

func TestVcfStem(t *testing.T) {
	if got := vcfStem("/out/HG002.GRCh38.octopus.germline.vcf.gz"); got != "HG002.GRCh38.octopus.germline.vcf" {
		t.Error("problem with vcf stem", got)
	}
	if got := vcfStem("calls.vcf"); got != "calls.vcf" {
		t.Error("problem with uncompressed vcf stem", got)
	}
}

func TestIsHomRef(t *testing.T) {
	var v vcf.Vcf
	v.Samples = []vcf.Sample{
		{Alleles: []int16{0, 0}},
		{Alleles: []int16{0, 1}},
		{Alleles: []int16{}},
	}
	if !isHomRef(v, 0) {
		t.Error("problem with hom-ref genotype")
	}
	if isHomRef(v, 1) {
		t.Error("problem with het genotype")
	}
	if isHomRef(v, 2) {
		t.Error("problem with uncalled genotype")
	}
	if isHomRef(v, 5) {
		t.Error("problem with out of range sample index")
	}
}

func TestHasHomRef(t *testing.T) {
	if !HasHomRef("testdata/calls.vcf", "NORMAL") {
		t.Error("problem detecting hom-ref calls in NORMAL")
	}
	if HasHomRef("testdata/calls.vcf", "TUMOUR") {
		t.Error("problem with TUMOUR: no hom-ref calls expected")
	}
}
