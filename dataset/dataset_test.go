package dataset

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

func writeTestFile(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	file := filepath.Join(dir, name)
	out := fileio.EasyCreate(file)
	for i := range lines {
		fmt.Fprintln(out, lines[i])
	}
	err := out.Close()
	exception.PanicOnErr(err)
	return file
}

func TestConcat(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.dat", []string{"1 2 1", "3 4 1"})
	b := writeTestFile(t, dir, "b.dat", []string{"5 6 0"})
	out := filepath.Join(dir, "out.dat")

	Concat([]string{a, b}, out)

	lines := readLines(out)
	if len(lines) != 3 {
		t.Fatal("problem with concat row count", lines)
	}
	if lines[0] != "1 2 1" || lines[2] != "5 6 0" {
		t.Error("problem with concat ordering", lines)
	}
}

func TestShuffle(t *testing.T) {
	dir := t.TempDir()
	var rows []string
	for i := 0; i < 100; i++ {
		rows = append(rows, fmt.Sprintf("%d %d", i, i%2))
	}
	file := writeTestFile(t, dir, "rows.dat", rows)

	rand.Seed(1)
	Shuffle(file)

	got := readLines(file)
	if len(got) != len(rows) {
		t.Fatal("problem with shuffle row count", len(got))
	}
	sorted := append([]string{}, got...)
	sort.Strings(sorted)
	wantSorted := append([]string{}, rows...)
	sort.Strings(wantSorted)
	for i := range sorted {
		if sorted[i] != wantSorted[i] {
			t.Fatal("problem with shuffle: rows changed", sorted[i], wantSorted[i])
		}
	}
}

func TestAddHeader(t *testing.T) {
	dir := t.TempDir()
	file := writeTestFile(t, dir, "rows.dat", []string{"1 0", "2 1"})

	AddHeader(file, "GQ TP")

	lines := readLines(file)
	if len(lines) != 3 || lines[0] != "GQ TP" {
		t.Error("problem with header", lines)
	}
	if lines[1] != "1 0" || lines[2] != "2 1" {
		t.Error("problem with rows after header", lines)
	}
}

func TestPartition(t *testing.T) {
	dir := t.TempDir()
	lines := []string{"GQ TP"}
	for i := 0; i < 200; i++ {
		lines = append(lines, fmt.Sprintf("%d %d", i, i%2))
	}
	file := writeTestFile(t, dir, "master.dat", lines)
	trainFile := filepath.Join(dir, "train.dat")
	validateFile := filepath.Join(dir, "validate.dat")

	rand.Seed(1)
	Partition(file, 0.25, trainFile, validateFile)

	train := readLines(trainFile)
	validate := readLines(validateFile)
	if train[0] != "GQ TP" || validate[0] != "GQ TP" {
		t.Error("problem with partition headers", train[0], validate[0])
	}
	if len(train)+len(validate) != len(lines)+1 {
		t.Error("problem with partition row count", len(train), len(validate))
	}
	if len(validate) < 2 || len(train) < len(validate) {
		t.Error("problem with partition balance", len(train), len(validate))
	}
	if strings.Count(strings.Join(train, "\n"), "TP") != 1 {
		t.Error("problem with duplicated header in training partition")
	}
}
