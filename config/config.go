// Package config loads the json description of forest training examples and
// resolves each example's truth set and formatted reference before the
// pipeline runs.
package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dasnellings/forestTools/ranger"
	"github.com/dasnellings/forestTools/rtg"
	"github.com/dasnellings/forestTools/truth"
	"github.com/vertgenlab/gonomics/exception"
)

// Example is one fully resolved training example. Exactly one of Reads or
// CallsVcf is populated from the config; single-sample examples carry Truth
// and Confident directly while multi-sample examples carry the per-sample
// maps instead.
type Example struct {
	Reference         string
	Sdf               string
	Reads             []string
	CallsVcf          string
	Regions           string
	Truth             string
	Confident         string
	TruthBySample     map[string]string
	ConfidentBySample map[string]string
	TpFraction        float64
	FpFraction        float64
	CallerConfig      string
}

// Options control forest training and model selection.
type Options struct {
	CrossValidationFraction float64
	Hyperparameters         []ranger.Hyperparameters
}

type flexStrings []string

func (f *flexStrings) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*f = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*f = many
	return nil
}

type flexExamples []rawExample

func (f *flexExamples) UnmarshalJSON(b []byte) error {
	var many []rawExample
	if err := json.Unmarshal(b, &many); err == nil {
		*f = many
		return nil
	}
	var single rawExample
	if err := json.Unmarshal(b, &single); err != nil {
		return err
	}
	*f = []rawExample{single}
	return nil
}

type rawExample struct {
	Reference        string          `json:"reference"`
	ReferenceSdf     string          `json:"reference_sdf"`
	Reads            flexStrings     `json:"reads"`
	OctopusVcf       string          `json:"octopus_vcf"`
	CallingRegions   string          `json:"calling_regions"`
	Truth            json.RawMessage `json:"truth"`
	ConfidentRegions json.RawMessage `json:"confident_regions"`
	TpFraction       *float64        `json:"tp_fraction"`
	FpFraction       *float64        `json:"fp_fraction"`
	OctopusConfig    string          `json:"octopus_config"`
}

type truthPaths struct {
	Vcf string `json:"vcf"`
	Bed string `json:"bed"`
}

type rawTraining struct {
	CrossValidationFraction *float64                 `json:"cross_validation_fraction"`
	Hyperparameters         []ranger.Hyperparameters `json:"hyperparameters"`
}

type rawConfig struct {
	Examples flexExamples          `json:"examples"`
	Truths   map[string]truthPaths `json:"truths"`
	Training *rawTraining          `json:"training"`
}

func checkExists(path string) {
	if _, err := os.Stat(path); err != nil {
		log.Fatalf("ERROR: %s does not exist", path)
	}
}

func checkExistsOrEmpty(path string) {
	if path != "" {
		checkExists(path)
	}
}

func parse(file string) rawConfig {
	data, err := os.ReadFile(file)
	exception.PanicOnErr(err)

	var cfg rawConfig
	if err = json.Unmarshal(data, &cfg); err == nil && len(cfg.Examples) > 0 {
		return cfg
	}

	// a bare example list or a single bare example object is also accepted
	var examples flexExamples
	if err = json.Unmarshal(data, &examples); err == nil {
		return rawConfig{Examples: examples, Truths: cfg.Truths, Training: cfg.Training}
	}
	var single rawExample
	err = json.Unmarshal(data, &single)
	exception.PanicOnErr(err)
	return rawConfig{Examples: []rawExample{single}, Truths: cfg.Truths, Training: cfg.Training}
}

// resolver caches downloaded truth sets and formatted references across
// examples within one load.
type resolver struct {
	outDir    string
	rtgBin    string
	overwrite bool
	given     map[string]truthPaths
	known     map[string]truth.Set
	sdf       map[string]string
}

func (r *resolver) truthSet(name string) truth.Set {
	if paths, ok := r.given[name]; ok {
		return truth.Set{Vcf: paths.Vcf, Bed: paths.Bed}
	}
	if set, ok := r.known[name]; ok {
		return set
	}
	library, reference, sample := truth.Parse(name)
	set := truth.Download(library, reference, sample, r.outDir, r.overwrite)
	r.known[name] = set
	return set
}

func (r *resolver) sdfFor(ex *Example, rawSdf string) {
	if rawSdf != "" {
		checkExists(rawSdf)
		ex.Sdf = rawSdf
		return
	}
	if cached, ok := r.sdf[ex.Reference]; ok {
		ex.Sdf = cached
		return
	}
	base := filepath.Base(ex.Reference)
	out := filepath.Join(r.outDir, strings.TrimSuffix(base, filepath.Ext(base))+".sdf")
	if _, err := os.Stat(out); err != nil {
		rtg.Format(r.rtgBin, ex.Reference, out)
	}
	r.sdf[ex.Reference] = out
	ex.Sdf = out
}

func (r *resolver) resolveTruth(ex *Example, raw rawExample) {
	var bySample map[string]string
	if err := json.Unmarshal(raw.Truth, &bySample); err == nil {
		ex.TruthBySample = make(map[string]string)
		ex.ConfidentBySample = make(map[string]string)
		// confident_regions may pre-declare per-sample beds for direct truth paths
		json.Unmarshal(raw.ConfidentRegions, &ex.ConfidentBySample)
		for sample, name := range bySample {
			if _, err := os.Stat(name); err == nil {
				ex.TruthBySample[sample] = name
				checkExists(ex.ConfidentBySample[sample])
				continue
			}
			set := r.truthSet(name)
			ex.TruthBySample[sample] = set.Vcf
			ex.ConfidentBySample[sample] = set.Bed
		}
		return
	}

	var name string
	err := json.Unmarshal(raw.Truth, &name)
	exception.PanicOnErr(err)
	if _, err := os.Stat(name); err == nil {
		ex.Truth = name
		err = json.Unmarshal(raw.ConfidentRegions, &ex.Confident)
		exception.PanicOnErr(err)
		checkExists(ex.Confident)
		return
	}
	set := r.truthSet(name)
	ex.Truth, ex.Confident = set.Vcf, set.Bed
}

// Load parses a training config and resolves every example. Truth sets named
// from the public library are downloaded into outDir and references without
// an SDF are formatted there with rtg.
func Load(file, outDir, rtgBin string, overwrite bool) ([]Example, *Options) {
	cfg := parse(file)

	for label, paths := range cfg.Truths {
		if _, err := os.Stat(paths.Vcf); err != nil {
			log.Fatalf("ERROR: truth %s vcf %s does not exist", label, paths.Vcf)
		}
		if _, err := os.Stat(paths.Bed); err != nil {
			log.Fatalf("ERROR: truth %s bed %s does not exist", label, paths.Bed)
		}
	}

	r := resolver{
		outDir:    outDir,
		rtgBin:    rtgBin,
		overwrite: overwrite,
		given:     cfg.Truths,
		known:     make(map[string]truth.Set),
		sdf:       make(map[string]string),
	}

	examples := make([]Example, len(cfg.Examples))
	for i, raw := range cfg.Examples {
		if len(raw.Reads) == 0 && raw.OctopusVcf == "" {
			log.Fatal("ERROR: each example must give reads or octopus_vcf")
		}
		ex := Example{
			Reference:    raw.Reference,
			Reads:        raw.Reads,
			CallsVcf:     raw.OctopusVcf,
			Regions:      raw.CallingRegions,
			TpFraction:   1,
			FpFraction:   1,
			CallerConfig: raw.OctopusConfig,
		}
		if raw.TpFraction != nil {
			ex.TpFraction = *raw.TpFraction
		}
		if raw.FpFraction != nil {
			ex.FpFraction = *raw.FpFraction
		}
		checkExists(ex.Reference)
		checkExists(ex.Regions)
		for _, reads := range ex.Reads {
			checkExists(reads)
		}
		checkExistsOrEmpty(ex.CallsVcf)
		checkExistsOrEmpty(ex.CallerConfig)

		r.sdfFor(&ex, raw.ReferenceSdf)
		r.resolveTruth(&ex, raw)
		examples[i] = ex
	}

	if cfg.Training == nil {
		return examples, nil
	}
	opts := Options{CrossValidationFraction: 0.25, Hyperparameters: cfg.Training.Hyperparameters}
	if cfg.Training.CrossValidationFraction != nil {
		opts.CrossValidationFraction = *cfg.Training.CrossValidationFraction
	}
	return examples, &opts
}
