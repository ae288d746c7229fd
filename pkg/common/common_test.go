package common_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/andrew-torda/bsi_collect/pkg/common"
)

func TestWrtTemp(t *testing.T) {
	const s = "sample_accession\n"
	fname, err := common.WrtTemp(s)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	if b, err := os.ReadFile(fname); err != nil || string(b) != s {
		t.Fatalf("read back %q, %v", b, err)
	}
}

func TestExitCode(t *testing.T) {
	for _, tt := range []struct {
		err  error
		want int
	}{
		{nil, common.ExitSuccess},
		{errors.New("disk on fire"), common.ExitFailure},
		{common.Usage(errors.New("accepts 1 arg")), common.ExitUsageError},
		{fmt.Errorf("fetch: %w", common.Usage(errors.New("x"))), common.ExitUsageError},
	} {
		if got := common.ExitCode(tt.err); got != tt.want {
			t.Errorf("%v: got %d want %d", tt.err, got, tt.want)
		}
	}
	if common.Usage(nil) != nil {
		t.Fatal("Usage(nil) should be nil")
	}
}
