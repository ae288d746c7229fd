package reads_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andrew-torda/bsi_collect/pkg/reads"
)

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	for _, tt := range []struct {
		in   string
		want reads.Shape
	}{
		{twoRecs, reads.Shape{Lines: 8, Records: 2}},
		{"@r1 x\nACGT\n+r1 x\nIIII\n@r2\nGG\n", reads.Shape{Lines: 6, Records: 1, Trailing: 2}},
		{"@r\nA\n+\nI", reads.Shape{Lines: 4, Records: 1}},
		{"", reads.Shape{}},
	} {
		fname := filepath.Join(dir, "x.fastq")
		if err := os.WriteFile(fname, []byte(tt.in), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := reads.Check(fname)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("%q: got %+v want %+v", tt.in, got, tt.want)
		}
		if got.Short() != (tt.want.Trailing != 0) {
			t.Errorf("%q: Short() wrong", tt.in)
		}
	}
	if _, err := reads.Check(filepath.Join(dir, "nothing")); err == nil {
		t.Error("no error on missing file")
	}
}
