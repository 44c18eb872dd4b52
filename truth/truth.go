// Package truth resolves named public benchmark truth sets to local files,
// downloading them from the hosting archive when they are not already on disk.
package truth

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
)

// Set points to a truth variant file and its high-confidence region bed on local disk.
type Set struct {
	Vcf string
	Bed string
}

type urlSet struct {
	vcf    string
	vcfIdx string
	bed    string
}

// knownTruthSets is keyed by library name, then reference version, then sample name.
// The NCBI GIAB release files are served from ftp-trace over https.
var knownTruthSets = map[string]map[string]map[string]urlSet{
	"GIAB": {
		"GRCh37": {
			"NA12878": {
				vcf:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/NA12878_HG001/NISTv3.3.2/GRCh37/HG001_GRCh37_GIAB_highconf_CG-IllFB-IllGATKHC-Ion-10X-SOLID_CHROM1-X_v.3.3.2_highconf_PGandRTGphasetransfer.vcf.gz",
				vcfIdx: "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/NA12878_HG001/NISTv3.3.2/GRCh37/HG001_GRCh37_GIAB_highconf_CG-IllFB-IllGATKHC-Ion-10X-SOLID_CHROM1-X_v.3.3.2_highconf_PGandRTGphasetransfer.vcf.gz.tbi",
				bed:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/NA12878_HG001/NISTv3.3.2/GRCh37/HG001_GRCh37_GIAB_highconf_CG-IllFB-IllGATKHC-Ion-10X-SOLID_CHROM1-X_v.3.3.2_highconf_nosomaticdel.bed",
			},
			"NA24385": {
				vcf:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/AshkenazimTrio/HG002_NA24385_son/NISTv3.3.2/GRCh37/HG002_GRCh37_GIAB_highconf_CG-IllFB-IllGATKHC-Ion-10X-SOLID_CHROM1-22_v.3.3.2_highconf_triophased.vcf.gz",
				vcfIdx: "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/AshkenazimTrio/HG002_NA24385_son/NISTv3.3.2/GRCh37/HG002_GRCh37_GIAB_highconf_CG-IllFB-IllGATKHC-Ion-10X-SOLID_CHROM1-22_v.3.3.2_highconf_triophased.vcf.gz.tbi",
				bed:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/AshkenazimTrio/HG002_NA24385_son/NISTv3.3.2/GRCh37/HG002_GRCh37_GIAB_highconf_CG-IllFB-IllGATKHC-Ion-10X-SOLID_CHROM1-22_v.3.3.2_highconf_noinconsistent.bed",
			},
			"NA24631": {
				vcf:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/ChineseTrio/HG005_NA24631_son/NISTv3.3.2/GRCh37/HG005_GRCh37_highconf_CG-IllFB-IllGATKHC-Ion-SOLID_CHROM1-22_v.3.3.2_highconf.vcf.gz",
				vcfIdx: "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/ChineseTrio/HG005_NA24631_son/NISTv3.3.2/GRCh37/HG005_GRCh37_highconf_CG-IllFB-IllGATKHC-Ion-SOLID_CHROM1-22_v.3.3.2_highconf.vcf.gz.tbi",
				bed:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/ChineseTrio/HG005_NA24631_son/NISTv3.3.2/GRCh37/HG005_GRCh37_highconf_CG-IllFB-IllGATKHC-Ion-SOLID_CHROM1-22_v.3.3.2_highconf_noMetaSV.bed",
			},
		},
		"GRCh38": {
			"NA12878": {
				vcf:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/NA12878_HG001/NISTv3.3.2/GRCh38/HG001_GRCh38_GIAB_highconf_CG-IllFB-IllGATKHC-Ion-10X-SOLID_CHROM1-X_v.3.3.2_highconf_PGandRTGphasetransfer.vcf.gz",
				vcfIdx: "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/NA12878_HG001/NISTv3.3.2/GRCh38/HG001_GRCh38_GIAB_highconf_CG-IllFB-IllGATKHC-Ion-10X-SOLID_CHROM1-X_v.3.3.2_highconf_PGandRTGphasetransfer.vcf.gz.tbi",
				bed:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/NA12878_HG001/NISTv3.3.2/GRCh38/HG001_GRCh38_GIAB_highconf_CG-IllFB-IllGATKHC-Ion-10X-SOLID_CHROM1-X_v.3.3.2_highconf_nosomaticdel_noCENorHET7.bed",
			},
			"NA24385": {
				vcf:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/AshkenazimTrio/HG002_NA24385_son/NISTv3.3.2/GRCh38/HG002_GRCh38_GIAB_highconf_CG-Illfb-IllsentieonHC-Ion-10XsentieonHC-SOLIDgatkHC_CHROM1-22_v.3.3.2_highconf_triophased.vcf.gz",
				vcfIdx: "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/AshkenazimTrio/HG002_NA24385_son/NISTv3.3.2/GRCh38/HG002_GRCh38_GIAB_highconf_CG-Illfb-IllsentieonHC-Ion-10XsentieonHC-SOLIDgatkHC_CHROM1-22_v.3.3.2_highconf_triophased.vcf.gz.tbi",
				bed:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/AshkenazimTrio/HG002_NA24385_son/NISTv3.3.2/GRCh38/HG002_GRCh38_GIAB_highconf_CG-Illfb-IllsentieonHC-Ion-10XsentieonHC-SOLIDgatkHC_CHROM1-22_v.3.3.2_highconf_noinconsistent.bed",
			},
			"NA24631": {
				vcf:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/ChineseTrio/HG005_NA24631_son/NISTv3.3.2/GRCh38/HG005_GRCh38_GIAB_highconf_CG-Illfb-IllsentieonHC-Ion-10XsentieonHC-SOLIDgatkHC_CHROM1-22_v.3.3.2_highconf.vcf.gz",
				vcfIdx: "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/ChineseTrio/HG005_NA24631_son/NISTv3.3.2/GRCh38/HG005_GRCh38_GIAB_highconf_CG-Illfb-IllsentieonHC-Ion-10XsentieonHC-SOLIDgatkHC_CHROM1-22_v.3.3.2_highconf.vcf.gz.tbi",
				bed:    "https://ftp-trace.ncbi.nlm.nih.gov/giab/ftp/release/ChineseTrio/HG005_NA24631_son/NISTv3.3.2/GRCh38/HG005_GRCh38_GIAB_highconf_CG-Illfb-IllsentieonHC-Ion-10XsentieonHC-SOLIDgatkHC_CHROM1-22_v.3.3.2_highconf.bed",
			},
		},
	},
}

// sampleAliases maps GIAB HG numbering onto the Coriell sample names used in the url table.
var sampleAliases = map[string]string{
	"HG001": "NA12878",
	"HG002": "NA24385",
	"HG005": "NA24631",
}

// Parse splits a truth set name of the form LIBRARY//REFERENCE//SAMPLE.
func Parse(name string) (library, reference, sample string) {
	words := strings.Split(name, "//")
	if len(words) != 3 {
		log.Fatalf("ERROR: malformed truth set name %q. Expected LIBRARY//REFERENCE//SAMPLE (e.g. GIAB//GRCh38//HG002).", name)
	}
	return words[0], words[1], words[2]
}

// IsKnown reports whether name refers to an entry in the truth set library.
func IsKnown(name string) bool {
	if strings.Count(name, "//") != 2 {
		return false
	}
	library, reference, sample := Parse(name)
	_, err := lookup(library, reference, sample)
	return err == nil
}

func lookup(library, reference, sample string) (urlSet, error) {
	refs, ok := knownTruthSets[library]
	if !ok {
		return urlSet{}, fmt.Errorf("unknown truth set library %q", library)
	}
	samples, ok := refs[reference]
	if !ok {
		return urlSet{}, fmt.Errorf("unknown reference version %q in library %q", reference, library)
	}
	if alias, ok := sampleAliases[sample]; ok {
		sample = alias
	}
	urls, ok := samples[sample]
	if !ok {
		return urlSet{}, fmt.Errorf("unknown sample %q for %s %s", sample, library, reference)
	}
	return urls, nil
}

// Download fetches the truth vcf, vcf index, and high-confidence bed for the
// named truth set into outDir and returns the local paths. Files already
// present are reused unless overwrite is set.
func Download(library, reference, sample, outDir string, overwrite bool) Set {
	urls, err := lookup(library, reference, sample)
	if err != nil {
		log.Fatalf("ERROR: %s", err)
	}
	var ans Set
	ans.Vcf = fetch(urls.vcf, outDir, overwrite)
	fetch(urls.vcfIdx, outDir, overwrite)
	ans.Bed = fetch(urls.bed, outDir, overwrite)
	return ans
}

func fetch(url, outDir string, overwrite bool) string {
	local := filepath.Join(outDir, path.Base(url))
	if !overwrite {
		if _, err := os.Stat(local); err == nil {
			log.Printf("using existing %s\n", local)
			return local
		}
	}
	log.Printf("downloading %s\n", url)
	resp, err := http.Get(url)
	exception.PanicOnErr(err)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("ERROR: fetching %s failed with status %s", url, resp.Status)
	}
	out, err := os.Create(local)
	exception.PanicOnErr(err)
	_, err = io.Copy(out, resp.Body)
	exception.PanicOnErr(err)
	err = out.Close()
	exception.PanicOnErr(err)
	return local
}
