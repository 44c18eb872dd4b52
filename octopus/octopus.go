// Package octopus invokes the octopus variant caller and inspects its output
// vcfs. Calling runs with filtering disabled and all requested annotations
// emitted so every candidate call becomes a training example.
package octopus

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dasnellings/forestTools/measures"
	"github.com/dasnellings/forestTools/vcftools"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/vcf"
)

// CallArgs collects everything needed for one octopus run.
type CallArgs struct {
	Reference   string
	Reads       []string
	Regions     string
	Threads     int
	Output      string
	Config      string   // optional octopus config forwarded with --config
	FilterVcf   string   // optional pre-computed call set to re-annotate
	Kind        string   // germline or somatic
	Annotations []string // nil requests all annotations
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputName builds the canonical call set filename for a set of read files
// called against a reference.
func OutputName(reference string, reads []string, kind string) string {
	stems := make([]string, len(reads))
	for i := range reads {
		stems[i] = stem(reads[i])
	}
	return strings.Join(stems, "_") + "." + stem(reference) + ".octopus." + kind + ".vcf.gz"
}

func callArgs(a CallArgs) []string {
	args := []string{"-R", a.Reference, "-I"}
	args = append(args, a.Reads...)
	args = append(args,
		"-t", a.Regions,
		"--ignore-unmapped-contigs",
		"--disable-call-filtering",
		"--threads", strconv.Itoa(a.Threads),
		"-o", a.Output)
	if len(a.Annotations) == 0 {
		args = append(args, "--annotations", "all")
	} else {
		args = append(args, "--annotations")
		args = append(args, a.Annotations...)
	}
	if a.Config != "" {
		args = append(args, "--config", a.Config)
	}
	if a.FilterVcf != "" {
		args = append(args, "--filter-vcf", a.FilterVcf)
	}
	if a.Kind == "somatic" {
		args = append(args, "--caller", "cancer", "--somatics-only")
	}
	return args
}

// Call runs the caller. The exit code is not inspected; a failed run leaves
// no output vcf behind.
func Call(bin string, a CallArgs) {
	cmd := exec.Command(bin, callArgs(a)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Run()
}

// Version reports the version string, and commit hash when present, of the
// caller binary.
func Version(bin string) (version, commit string) {
	out, err := exec.Command(bin, "--version").Output()
	exception.PanicOnErr(err)
	return parseVersion(string(out))
}

func parseVersion(out string) (version, commit string) {
	lines := strings.Split(out, "\n")
	words := strings.Fields(lines[0])
	if len(words) < 3 {
		log.Fatalf("ERROR: unexpected version output: %q", lines[0])
	}
	version = words[2]
	if len(words) > 3 {
		commit = strings.TrimSuffix(words[len(words)-1], ")")
		commit = strings.TrimPrefix(commit, "(")
	}
	return version, commit
}

// Samples returns the sample names of a vcf in column order.
func Samples(vcfFile string) []string {
	records, header := vcf.GoReadToChan(vcfFile)
	go drain(records)
	ans := make([]string, len(header.Samples))
	for name, idx := range header.Samples {
		ans[idx] = name
	}
	return ans
}

// drain discards the record stream when only the header is of interest.
func drain(records <-chan vcf.Vcf) {
	for range records {
	}
}

func isSomatic(v vcf.Vcf) bool {
	for i := range v.Samples {
		val, err := strconv.Atoi(measures.Annotation(v, i, "SOMATIC"))
		if err == nil && val != 0 {
			return true
		}
	}
	return false
}

// FilterSomatic rewrites a vcf in place keeping only records where any sample
// carries a somatic call. The training mode of the caller ignores
// --somatics-only, so germline records must be dropped here.
func FilterSomatic(vcfFile string) {
	records, header := vcf.GoReadToChan(vcfFile)
	tmpFile := strings.Replace(vcfFile, ".vcf", ".tmp.vcf", 1)
	out := fileio.EasyCreate(tmpFile)
	vcf.NewWriteHeader(out, header)
	var kept, dropped int
	for v := range records {
		if isSomatic(v) {
			vcf.WriteVcf(out, v)
			kept++
		} else {
			dropped++
		}
	}
	err := out.Close()
	exception.PanicOnErr(err)
	err = os.Rename(tmpFile, vcfFile)
	exception.PanicOnErr(err)
	vcftools.Index(vcfFile)
	log.Printf("somatic filter kept %d records, dropped %d\n", kept, dropped)
}

// headerOptions recovers the command line options string recorded in the
// ##octopus header line.
func headerOptions(header vcf.Header) string {
	for _, line := range header.Text {
		if !strings.HasPrefix(line, "##octopus=") {
			continue
		}
		_, after, found := strings.Cut(line, "options=")
		if !found {
			continue
		}
		after = strings.TrimPrefix(after, "\"")
		if i := strings.IndexByte(after, '"'); i != -1 {
			after = after[:i]
		}
		return strings.TrimSuffix(strings.TrimSuffix(after, ">"), "\"")
	}
	return ""
}

func normalSamples(options string) []string {
	words := strings.Fields(options)
	var ans []string
	var inFlag bool
	for _, w := range words {
		switch {
		case w == "--normal-sample" || w == "--normal-samples":
			inFlag = true
		case strings.HasPrefix(w, "--"):
			inFlag = false
		case inFlag:
			ans = append(ans, w)
		}
	}
	return ans
}

// NormalSamples lists the samples declared normal when the vcf was called.
func NormalSamples(vcfFile string) []string {
	records, header := vcf.GoReadToChan(vcfFile)
	go drain(records)
	return normalSamples(headerOptions(header))
}

// IsNormal reports whether sample was declared normal when the vcf was called.
func IsNormal(sample, vcfFile string) bool {
	for _, s := range NormalSamples(vcfFile) {
		if s == sample {
			return true
		}
	}
	return false
}
