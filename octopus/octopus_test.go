package octopus

import (
	"strings"
	"testing"

	"github.com/vertgenlab/gonomics/vcf"
)

func TestOutputName(t *testing.T) {
	got := OutputName("/refs/GRCh38.fa", []string{"/reads/HG002.bam"}, "germline")
	if got != "HG002.GRCh38.octopus.germline.vcf.gz" {
		t.Error("problem with output name", got)
	}

	got = OutputName("GRCh37.fasta", []string{"tumour.bam", "normal.bam"}, "somatic")
	if got != "tumour_normal.GRCh37.octopus.somatic.vcf.gz" {
		t.Error("problem with multi-bam output name", got)
	}
}

func TestCallArgs(t *testing.T) {
	args := strings.Join(callArgs(CallArgs{
		Reference: "ref.fa",
		Reads:     []string{"a.bam", "b.bam"},
		Regions:   "regions.bed",
		Threads:   4,
		Output:    "out.vcf.gz",
	}), " ")

	for _, want := range []string{"-R ref.fa", "-I a.bam b.bam", "-t regions.bed",
		"--ignore-unmapped-contigs", "--disable-call-filtering", "--threads 4",
		"-o out.vcf.gz", "--annotations all"} {
		if !strings.Contains(args, want) {
			t.Errorf("problem with call args: missing %q in %q", want, args)
		}
	}
	if strings.Contains(args, "--caller cancer") {
		t.Error("problem with call args: germline run should not use the cancer caller")
	}

	args = strings.Join(callArgs(CallArgs{
		Reference:   "ref.fa",
		Reads:       []string{"a.bam"},
		Regions:     "regions.bed",
		Threads:     1,
		Output:      "out.vcf.gz",
		Config:      "octopus.config",
		FilterVcf:   "prior.vcf.gz",
		Kind:        "somatic",
		Annotations: []string{"GQ", "DP"},
	}), " ")
	for _, want := range []string{"--annotations GQ DP", "--config octopus.config",
		"--filter-vcf prior.vcf.gz", "--caller cancer", "--somatics-only"} {
		if !strings.Contains(args, want) {
			t.Errorf("problem with somatic call args: missing %q in %q", want, args)
		}
	}
}

func TestParseVersion(t *testing.T) {
	version, commit := parseVersion("octopus version 0.7.4\ncopyright notice\n")
	if version != "0.7.4" || commit != "" {
		t.Error("problem with version parsing", version, commit)
	}

	version, commit = parseVersion("octopus version 0.7.4 (e9eb301)\n")
	if version != "0.7.4" || commit != "e9eb301" {
		t.Error("problem with version commit parsing", version, commit)
	}
}

func TestHeaderOptions(t *testing.T) {
	var header vcf.Header
	header.Text = []string{
		"##fileformat=VCFv4.3",
		"##octopus=<ID=octopus,version=0.7.4,options=\"-R ref.fa -I tumour.bam normal.bam --normal-sample NORMAL --threads 4\">",
	}
	opts := headerOptions(header)
	if !strings.HasPrefix(opts, "-R ref.fa") || !strings.Contains(opts, "--normal-sample NORMAL") {
		t.Error("problem with header options", opts)
	}

	normals := normalSamples(opts)
	if len(normals) != 1 || normals[0] != "NORMAL" {
		t.Error("problem with normal samples", normals)
	}
}

func TestNormalSamplesMultiple(t *testing.T) {
	got := normalSamples("--caller cancer --normal-samples N1 N2 --threads 2")
	if len(got) != 2 || got[0] != "N1" || got[1] != "N2" {
		t.Error("problem with multiple normal samples", got)
	}
	if len(normalSamples("--caller cancer --threads 2")) != 0 {
		t.Error("problem with absent normal samples")
	}
}

func TestIsSomatic(t *testing.T) {
	var v vcf.Vcf
	v.Format = []string{"GT", "SOMATIC"}
	v.Samples = []vcf.Sample{
		{Alleles: []int16{0, 0}, FormatData: []string{"", "0"}},
		{Alleles: []int16{0, 1}, FormatData: []string{"", "1"}},
	}
	if !isSomatic(v) {
		t.Error("problem detecting somatic record")
	}
	v.Samples[1].FormatData[1] = "0"
	if isSomatic(v) {
		t.Error("problem with non-somatic record")
	}
}
