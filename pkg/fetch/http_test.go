package fetch_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/bsi_collect/pkg/brokenio"
	"github.com/andrew-torda/bsi_collect/pkg/fetch"
)

func TestHTTPURL(t *testing.T) {
	for _, tt := range []struct {
		in, want string
		ok       bool
	}{
		{"ftp.sra.ebi.ac.uk/vol1/fastq/ERR1/ERR1_1.fastq.gz", "http://ftp.sra.ebi.ac.uk/vol1/fastq/ERR1/ERR1_1.fastq.gz", true},
		{"ftp://anonymous@ftp.sra.ebi.ac.uk/vol1/a.gz", "http://ftp.sra.ebi.ac.uk/vol1/a.gz", true},
		{"https://example.org/a.gz", "https://example.org/a.gz", true},
		{"gopher://example.org/a.gz", "", false},
	} {
		got, err := fetch.HTTPURL(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("%s: got %q, %v", tt.in, got, err)
		}
	}
}

func noKeepAlive() *http.Client {
	return &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
}

func TestHTTPFetch(t *testing.T) {
	body := []byte("not really gzip, the fetcher does not care")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vol1/a_1.fastq.gz" {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	f := &fetch.HTTPFetcher{Client: noKeepAlive()}
	dir := t.TempDir()
	dest := filepath.Join(dir, "a_1.fastq.gz")
	// The archive style, with no scheme
	uri := strings.TrimPrefix(srv.URL, "http://") + "/vol1/a_1.fastq.gz"
	if err := f.Fetch(context.Background(), uri, dest); err != nil {
		t.Fatal(err)
	}
	if got, _ := os.ReadFile(dest); !bytes.Equal(got, body) {
		t.Fatalf("got %q", got)
	}
	if fi, err := os.Stat(dest); err != nil || fi.Mode().Perm() != 0o644 {
		t.Fatal("downloads should be readable by all", err)
	}

	err := f.Fetch(context.Background(), srv.URL+"/vol1/gone.fastq.gz", filepath.Join(dir, "gone.fastq.gz"))
	var fe *fetch.FetchError
	if !errors.As(err, &fe) || !fe.Permanent {
		t.Fatal("wanted permanent fetch error on 404, got", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "gone.fastq.gz")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("nothing should be written on 404")
	}
}

// brokenTransport answers every request, but the body breaks
// after a few bytes.
type brokenTransport struct{}

func (brokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	b := brokenio.NewReader(io.NopCloser(strings.NewReader(strings.Repeat("ACGT", 100))))
	b.SetFailAfter(10)
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       b,
		Request:    req,
		Header:     make(http.Header),
	}, nil
}

func TestHTTPBrokenTransfer(t *testing.T) {
	f := &fetch.HTTPFetcher{Client: &http.Client{Transport: brokenTransport{}}}
	dir := t.TempDir()
	err := f.Fetch(context.Background(), "http://example.org/a.gz", filepath.Join(dir, "a.gz"))
	var fe *fetch.FetchError
	if !errors.As(err, &fe) || fe.Permanent || !errors.Is(err, brokenio.ErrBroken) {
		t.Fatal("wanted temporary fetch error, got", err)
	}
	if ents, _ := os.ReadDir(dir); len(ents) != 0 {
		t.Fatalf("half a download left behind: %v", ents)
	}
}

func TestMux(t *testing.T) {
	plain, s3 := newFake(map[string][]byte{"host/a": []byte("a")}), newFake(map[string][]byte{"s3://b/k": []byte("k")})
	m := fetch.NewMux()
	m.Handle("", plain)
	m.Handle("S3", s3)
	dir := t.TempDir()
	if err := m.Fetch(context.Background(), "host/a", filepath.Join(dir, "a")); err != nil {
		t.Fatal(err)
	}
	if err := m.Fetch(context.Background(), "s3://b/k", filepath.Join(dir, "k")); err != nil {
		t.Fatal(err)
	}
	if plain.nCalls("host/a") != 1 || s3.nCalls("s3://b/k") != 1 {
		t.Fatal("uris went to the wrong fetcher")
	}
	err := m.Fetch(context.Background(), "gopher://x/y", filepath.Join(dir, "y"))
	var fe *fetch.FetchError
	if !errors.As(err, &fe) || !fe.Permanent {
		t.Fatal("unknown scheme should be a permanent error, got", err)
	}
}
