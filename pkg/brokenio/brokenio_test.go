package brokenio_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/andrew-torda/bsi_collect/pkg/brokenio"
)

var longstring = "0123456789012345678901234567890123456789"

func TestNeverBreaks(t *testing.T) {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
	b, err := io.ReadAll(rdr)
	if err != nil || string(b) != longstring {
		t.Fatalf("got %q, %v", b, err)
	}
}

func TestFailAfter(t *testing.T) {
	for _, n := range []int{0, 1, 7, len(longstring) - 1} {
		rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
		rdr.SetFailAfter(n)
		b, err := io.ReadAll(rdr)
		if !errors.Is(err, brokenio.ErrBroken) {
			t.Errorf("n %d: wanted ErrBroken, got %v", n, err)
		}
		if string(b) != longstring[:n] {
			t.Errorf("n %d: got %q", n, b)
		}
		if rdr.NByte() != n {
			t.Errorf("n %d: counted %d bytes", n, rdr.NByte())
		}
		if err := rdr.Close(); err != nil {
			t.Error(err)
		}
	}
}
