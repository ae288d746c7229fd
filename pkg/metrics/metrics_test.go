package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/andrew-torda/bsi_collect/pkg/metrics"
)

func TestNilSet(t *testing.T) {
	var s *metrics.Set
	s.Sample("Blood")
	s.Unresolve()
	s.Fetch()
	s.FetchFail(metrics.KindFetch)
	s.Read()
	s.Partial()
	if err := s.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatal(err)
	}
}

func TestCountAndWrite(t *testing.T) {
	s := metrics.New()
	s.Sample("Blood")
	s.Sample("Blood")
	s.FetchFail(metrics.KindDecompress)
	s.Partial()
	if got := testutil.ToFloat64(s.Samples.WithLabelValues("Blood")); got != 2 {
		t.Fatal("blood samples", got)
	}
	if got := testutil.ToFloat64(s.PartialRead); got != 1 {
		t.Fatal("partial", got)
	}
	fname := filepath.Join(t.TempDir(), "bsi.prom")
	if err := s.WriteTextfile(fname); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `bsi_fetch_failures_total{kind="decompress"} 1`) {
		t.Fatalf("textfile lacks failure counter:\n%s", b)
	}
}

// Each Set has its own registry, so two of them do not collide.
func TestOwnRegistry(t *testing.T) {
	a, b := metrics.New(), metrics.New()
	a.Fetch()
	a.Fetch()
	b.Sample("FMT")
	n, err := testutil.GatherAndCount(a.Registry(), "bsi_fetch_attempts_total", "bsi_samples_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("a has %d series, wanted only the fetch counter", n)
	}
	if got := testutil.ToFloat64(a.Fetches); got != 2 {
		t.Fatal("fetches", got)
	}
	if n, _ := testutil.GatherAndCount(b.Registry(), "bsi_samples_total"); n != 1 {
		t.Fatalf("b has %d sample series", n)
	}
}
