// Package measures extracts caller annotation fields from vcf records and
// writes them as whitespace-delimited rows for forest training.
package measures

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/vcf"
)

// Germline is the default measure set for germline forests. Order is fixed:
// it defines the column order of the training data.
var Germline = strings.Split("AC AD ADP AF ARF BMQ BQ CC CRF DAD DAF DC DENOVO DP DPC ER ERS FRF GC GQ GQD ITV MC MF MP MRC MQ MQ0 MQD PP PPD QD QUAL REB RSB RTB SB SD SF STRL STRP VL", " ")

// Somatic is the default measure set for somatic forests.
var Somatic = strings.Split("AC AD ADP AF ARF BMQ BQ CC CRF DAD DAF DP DPC ER ERS FRF GC GQ GQD ITV NC MC MF MP MRC MQ MQ0 MQD PP PPD QD QUAL REB RSB RTB SB SD SF SHC SMQ SOMATIC STRL STRP VL", " ")

// Annotation returns the raw string value of a measure for one record.
// QUAL is special cased, then the sample FORMAT fields are searched, then
// INFO. A field found nowhere is treated as an unset flag and reads "0".
// Multi-valued entries yield their first value. sampleIdx < 0 requires a
// single-sample record.
// missingQual is the value the vcf reader assigns when the QUAL column is ".".
const missingQual = 255

func Annotation(v vcf.Vcf, sampleIdx int, field string) string {
	if field == "QUAL" {
		if math.IsNaN(v.Qual) || v.Qual == missingQual {
			return "."
		}
		return strconv.FormatFloat(v.Qual, 'g', -1, 64)
	}
	if sampleIdx < 0 {
		if len(v.Samples) != 1 {
			log.Fatalf("ERROR: no sample given for multi-sample record at %s:%d", v.Chr, v.Pos)
		}
		sampleIdx = 0
	}
	for i := range v.Format {
		if v.Format[i] == field {
			if sampleIdx >= len(v.Samples) {
				return "."
			}
			return firstValue(v.Samples[sampleIdx].FormatData[i])
		}
	}
	if val, found := infoValue(v.Info, field); found {
		return val
	}
	return "0"
}

// infoValue pulls one key from the raw INFO string. Flag keys read as "1".
func infoValue(info, field string) (string, bool) {
	if info == "" || info == "." {
		return "", false
	}
	for _, entry := range strings.Split(info, ";") {
		key, val, hasValue := strings.Cut(entry, "=")
		if key != field {
			continue
		}
		if !hasValue {
			return "1", true
		}
		return firstValue(val), true
	}
	return "", false
}

func firstValue(s string) string {
	if i := strings.IndexByte(s, ','); i != -1 {
		return s[:i]
	}
	return s
}

// IsMissing reports whether a raw annotation value carries no information.
func IsMissing(s string) bool {
	if s == "" || s == "." {
		return true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && math.IsNaN(f) {
		return true
	}
	return false
}

func formatValue(s string, missing float64) string {
	if IsMissing(s) {
		return strconv.FormatFloat(missing, 'g', -1, 64)
	}
	return s
}

// Row builds the ordered measure vector for one record with the label
// appended as 1 or 0.
func Row(v vcf.Vcf, names []string, missing float64, label bool) []string {
	ans := make([]string, len(names)+1)
	for i := range names {
		ans[i] = formatValue(Annotation(v, -1, names[i]), missing)
	}
	if label {
		ans[len(names)] = "1"
	} else {
		ans[len(names)] = "0"
	}
	return ans
}

// WriteRows streams a single-sample vcf and writes one labeled row per
// record. fraction < 1 randomly downsamples the records kept.
func WriteRows(vcfFile, outFile string, label bool, names []string, missing float64, fraction float64) {
	records, _ := vcf.GoReadToChan(vcfFile)
	out := fileio.EasyCreate(outFile)
	for v := range records {
		if fraction < 1 && rand.Float64() > fraction {
			continue
		}
		fmt.Fprintln(out, strings.Join(Row(v, names, missing, label), " "))
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

// Header is the column header line matching Row output.
func Header(names []string) string {
	return strings.Join(append(append([]string{}, names...), "TP"), " ")
}
