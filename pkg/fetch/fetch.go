// Package fetch gets a sample's remote files onto local disk.
// The work is split between a Fetcher, which copies one remote file
// to a local path, and a Decompressor, which unpacks it in place.
// An Ensurer puts the two together for whole samples.
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andrew-torda/bsi_collect/pkg/zwrap"
)

// Fetcher copies the resource at uri to the file dest.
// dest should either be complete afterwards, or not exist.
type Fetcher interface {
	Fetch(ctx context.Context, uri, dest string) error
}

// Decompressor turns a compressed file into its decompressed sibling
// and returns the new path.
type Decompressor interface {
	Decompress(fname string) (string, error)
}

// FetchError is a failure to get a remote file. Permanent is set when
// there is no point in trying again, like a 404.
type FetchError struct {
	URI       string
	Permanent bool
	Err       error
}

func (e *FetchError) Error() string { return "fetch " + e.URI + ": " + e.Err.Error() }

func (e *FetchError) Unwrap() error { return e.Err }

// DecompressError is a failure to unpack a file we did get.
type DecompressError struct {
	Path string
	Err  error
}

func (e *DecompressError) Error() string { return "decompress " + e.Path + ": " + e.Err.Error() }

func (e *DecompressError) Unwrap() error { return e.Err }

// Gunzipper decompresses gzip files with zwrap.
type Gunzipper struct{}

func (Gunzipper) Decompress(fname string) (string, error) { return zwrap.Gunzip(fname) }

// save copies rdr to dest via a temporary file in the same directory,
// so a half finished download never sits at dest.
func save(rdr io.Reader, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".part")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err = tmp.Chmod(zwrap.FileMode); err == nil {
		_, err = io.Copy(tmp, rdr)
	}
	if e := tmp.Close(); err == nil {
		err = e
	}
	if err == nil {
		err = os.Rename(tmpName, dest)
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}
