package fetch_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/andrew-torda/bsi_collect/pkg/sample"
)

func gz(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// fakeFetcher serves files from memory. Anything not in files fails.
type fakeFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	calls map[string]int
}

func newFake(files map[string][]byte) *fakeFetcher {
	return &fakeFetcher{files: files, calls: make(map[string]int)}
}

var errNoSuchFile = errors.New("no such remote file")

func (f *fakeFetcher) Fetch(ctx context.Context, uri, dest string) error {
	f.mu.Lock()
	f.calls[uri]++
	data, ok := f.files[uri]
	f.mu.Unlock()
	if !ok {
		return errNoSuchFile
	}
	return os.WriteFile(dest, data, 0644)
}

func (f *fakeFetcher) nCalls(uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[uri]
}

func bsi(t *testing.T, acc, alias, uris string) *sample.BSISample {
	t.Helper()
	props := sample.PropertyMap{sample.AccessionProp: acc, sample.AliasProp: alias}
	if uris != "" {
		props[sample.FastqProp] = uris
	}
	b, err := sample.NewBSI(props)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
