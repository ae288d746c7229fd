package report_test

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/bsi_collect/pkg/common"
	"github.com/andrew-torda/bsi_collect/pkg/report"
	"github.com/andrew-torda/bsi_collect/pkg/sample"
)

const rpt = "sample_accession\texperiment_alias\tfastq_ftp\n" +
	"SAMEA1\tP1.20230615.Blood\tftp.x/a_1.fastq.gz;ftp.x/a_2.fastq.gz\n" +
	"SAMEA2\tCapsule.3\t\n" +
	"SAMEA3\tP1.20230616.FMT\n"

var want = []sample.PropertyMap{
	{"sample_accession": "SAMEA1", "experiment_alias": "P1.20230615.Blood",
		"fastq_ftp": "ftp.x/a_1.fastq.gz;ftp.x/a_2.fastq.gz"},
	{"sample_accession": "SAMEA2", "experiment_alias": "Capsule.3"},
	{"sample_accession": "SAMEA3", "experiment_alias": "P1.20230616.FMT"},
}

func TestRead(t *testing.T) {
	got, err := report.Read(strings.NewReader(rpt))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal("rows differ (-want +got)\n", diff)
	}
}

func TestLoadPlainAndGzipped(t *testing.T) {
	fname, err := common.WrtTemp(rpt)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	got, err := report.Load(fname)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Write([]byte(rpt))
	w.Close()
	gzname := filepath.Join(t.TempDir(), report.DefaultName+".gz")
	if err := os.WriteFile(gzname, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	if got, err = report.Load(gzname); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestBroken(t *testing.T) {
	if _, err := report.Read(strings.NewReader("")); !errors.Is(err, report.ErrNoHeader) {
		t.Error("empty report: wanted ErrNoHeader, got", err)
	}
	if _, err := report.Read(strings.NewReader("a\tb\n1\t2\t3\n")); err == nil {
		t.Error("no error on a row longer than the header")
	}
	if _, err := report.Load("/does/not/exist"); err == nil {
		t.Error("no error on missing file")
	}
}
