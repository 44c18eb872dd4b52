// Package eval grades caller output against truth sets with rtg vcfeval and
// reconciles the hom-ref calls vcfeval leaves behind, yielding the tp/fp
// variant subsets the training data is built from.
package eval

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dasnellings/forestTools/config"
	"github.com/dasnellings/forestTools/octopus"
	"github.com/dasnellings/forestTools/rtg"
	"github.com/dasnellings/forestTools/vcftools"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/vcf"
)

// Options hold pipeline-level settings shared by every example.
type Options struct {
	OctopusBin string
	RtgBin     string
	OutDir     string
	Threads    int
	Kind       string // germline or somatic
	Measures   []string
	Overwrite  bool
}

func sampleIndex(header vcf.Header, sample string) int {
	if sample == "" {
		if len(header.Samples) != 1 {
			log.Fatalf("ERROR: expected a single-sample vcf, found %d samples", len(header.Samples))
		}
		return 0
	}
	idx, ok := header.Samples[sample]
	if !ok {
		log.Fatalf("ERROR: sample %s not present in vcf", sample)
	}
	return idx
}

func isHomRef(v vcf.Vcf, sampleIdx int) bool {
	if sampleIdx >= len(v.Samples) || len(v.Samples[sampleIdx].Alleles) == 0 {
		return false
	}
	for _, allele := range v.Samples[sampleIdx].Alleles {
		if allele != 0 {
			return false
		}
	}
	return true
}

// HasHomRef reports whether any record genotypes the sample as homozygous
// reference. An empty sample requires a single-sample vcf.
func HasHomRef(vcfFile, sample string) bool {
	records, header := vcf.GoReadToChan(vcfFile)
	idx := sampleIndex(header, sample)
	var found bool
	for v := range records {
		if isHomRef(v, idx) {
			found = true
		}
	}
	return found
}

// vcfStem trims the compression suffix only, so out.vcf.gz becomes out.vcf
// and derived artifact names stay distinct from the source.
func vcfStem(vcfFile string) string {
	return strings.TrimSuffix(filepath.Base(vcfFile), ".gz")
}

// subsetResultSamples restricts the graded tp/fp outputs to one sample.
func subsetResultSamples(evalDir, sample string) {
	vcftools.SubsetSamples(filepath.Join(evalDir, "tp.vcf.gz"), []string{sample}, "", false, false)
	vcftools.SubsetSamples(filepath.Join(evalDir, "fp.vcf.gz"), []string{sample}, "", false, false)
}

// addMissingHomRefs patches the vcfeval output for hom-ref calls, which
// vcfeval does not grade. Source records absent from tp and fp are correct
// hom-ref calls and join the tp set; source records vcfeval counted as
// missed (fn) are hom-ref calls over true variants and join the fp set.
func addMissingHomRefs(evalDir, callsVcf, sample string) {
	var subsetted bool
	if sample != "" {
		sampleVcf := filepath.Join(evalDir, vcfStem(callsVcf)+"."+sample+".vcf.gz")
		vcftools.SubsetSamples(callsVcf, []string{sample}, sampleVcf, false, false)
		callsVcf = sampleVcf
		subsetted = true
	}

	tpVcf := filepath.Join(evalDir, "tp.vcf.gz")
	fpVcf := filepath.Join(evalDir, "fp.vcf.gz")

	tpHomRef := filepath.Join(evalDir, "tp.homref.vcf.gz")
	vcftools.Complement(callsVcf, []string{tpVcf, fpVcf}, tpHomRef)
	newTp := filepath.Join(evalDir, "tp.with_hom_ref.vcf.gz")
	vcftools.Concat([]string{tpVcf, tpHomRef}, newTp, true)
	err := os.Rename(newTp, tpVcf)
	exception.PanicOnErr(err)
	vcftools.RemoveIndex(newTp)
	vcftools.Index(tpVcf)
	vcftools.Remove(tpHomRef)

	fpHomRef := filepath.Join(evalDir, "fp.homref.vcf.gz")
	vcftools.Intersect([]string{callsVcf, filepath.Join(evalDir, "fn.vcf.gz")}, fpHomRef)
	newFp := filepath.Join(evalDir, "fp.with_hom_ref.vcf.gz")
	// concat with duplicate removal keeps records already graded fp
	vcftools.Concat([]string{fpVcf, fpHomRef}, newFp, true)
	err = os.Rename(newFp, fpVcf)
	exception.PanicOnErr(err)
	vcftools.RemoveIndex(newFp)
	vcftools.Index(fpVcf)
	vcftools.Remove(fpHomRef)

	if subsetted {
		vcftools.Remove(callsVcf)
	}
}

// runVcfEval grades one call set, or one sample of one call set, against a
// truth set, then repairs the hom-ref blind spot of vcfeval.
func runVcfEval(rtgBin, sdf, truthVcf, confidentBed, callsVcf, outDir, bedRegions, sample, kind string) {
	args := rtg.VcfEvalArgs{
		Sdf:        sdf,
		TruthVcf:   truthVcf,
		Confident:  confidentBed,
		CallsVcf:   callsVcf,
		OutDir:     outDir,
		BedRegions: bedRegions,
		Somatic:    kind == "somatic",
	}
	if !args.Somatic && sample != "" {
		truthSamples := octopus.Samples(truthVcf)
		if len(truthSamples) > 1 {
			log.Fatalf("ERROR: more than one sample in truth %s", truthVcf)
		}
		if sample == truthSamples[0] {
			args.Sample = sample
		} else {
			args.Sample = truthSamples[0] + "," + sample
		}
	}
	rtg.VcfEval(rtgBin, args)
	if sample != "" {
		subsetResultSamples(outDir, sample)
	}
	if HasHomRef(callsVcf, sample) {
		addMissingHomRefs(outDir, callsVcf, sample)
	}
}

// Example calls variants for one training example if needed, grades each
// sample with a configured truth set, and returns the eval directories.
// Existing call sets and eval directories are reused unless overwrite is set.
func Example(ex config.Example, o Options) []string {
	var callsVcf string
	if len(ex.Reads) > 0 {
		callsVcf = filepath.Join(o.OutDir, octopus.OutputName(ex.Reference, ex.Reads, o.Kind))
		if _, err := os.Stat(callsVcf); err != nil || o.Overwrite {
			octopus.Call(o.OctopusBin, octopus.CallArgs{
				Reference:   ex.Reference,
				Reads:       ex.Reads,
				Regions:     ex.Regions,
				Threads:     o.Threads,
				Output:      callsVcf,
				Config:      ex.CallerConfig,
				FilterVcf:   ex.CallsVcf,
				Kind:        o.Kind,
				Annotations: o.Measures,
			})
		}
	} else {
		callsVcf = ex.CallsVcf
	}

	if o.Kind == "somatic" {
		octopus.FilterSomatic(callsVcf)
	}

	samples := octopus.Samples(callsVcf)
	var ans []string
	if len(samples) == 1 {
		evalDir := filepath.Join(o.OutDir, vcfStem(callsVcf)+".eval")
		if _, err := os.Stat(evalDir); err != nil || o.Overwrite {
			err = os.RemoveAll(evalDir)
			exception.PanicOnErr(err)
			runVcfEval(o.RtgBin, ex.Sdf, ex.Truth, ex.Confident, callsVcf, evalDir, ex.Regions, "", o.Kind)
		}
		ans = append(ans, evalDir)
		return ans
	}

	for _, sample := range samples {
		truthVcf, ok := ex.TruthBySample[sample]
		if !ok {
			continue
		}
		evalDir := filepath.Join(o.OutDir, vcfStem(callsVcf)+"."+sample+".eval")
		if _, err := os.Stat(evalDir); err == nil && !o.Overwrite {
			ans = append(ans, evalDir)
			continue
		}
		err := os.RemoveAll(evalDir)
		exception.PanicOnErr(err)
		sampleKind := o.Kind
		if o.Kind == "somatic" && octopus.IsNormal(sample, callsVcf) {
			sampleKind = "germline"
		}
		runVcfEval(o.RtgBin, ex.Sdf, truthVcf, ex.ConfidentBySample[sample], callsVcf, evalDir, ex.Regions, sample, sampleKind)
		ans = append(ans, evalDir)
	}
	return ans
}
