// Package zwrap wraps a reader so it decompresses gzip on the way
// through. Close shuts the decompressor, then the underlying source.
// Gunzip does the same job for a file on disk, leaving the
// decompressed file next to it.
package zwrap

import (
	"compress/gzip"
	"errors"
	"io"
)

// FpGzip is what we return. If zrdr is nil, the source was not
// compressed and reads go straight through.
type FpGzip struct {
	fp   io.ReadCloser
	zrdr *gzip.Reader
}

// Close closes the decompressor, then the backing reader.
// It should work if the source is a file or an http stream.
func (fc *FpGzip) Close() error {
	if fc.zrdr == nil {
		return fc.fp.Close()
	}
	return errors.Join(fc.zrdr.Close(), fc.fp.Close())
}

// Read reads from the compressed stream if there is one.
func (fc *FpGzip) Read(p []byte) (int, error) {
	if fc.zrdr != nil {
		return fc.zrdr.Read(p)
	}
	return fc.fp.Read(p)
}

// Wrap takes a file pointer or http body and says it is gzipped.
// If the header is wrong, the error comes back.
func Wrap(fp io.ReadCloser) (*FpGzip, error) {
	zrdr, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	return &FpGzip{fp: fp, zrdr: zrdr}, nil
}

// ReadSeekCloser lets WrapMaybe rewind after peeking.
type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// WrapMaybe decides if the stream is compressed and wraps it if
// necessary. If it is not, we seek back to the start and hand the
// plain stream back. Seeking is lost either way.
func WrapMaybe(fpIn ReadSeekCloser) (*FpGzip, error) {
	if out, err := Wrap(fpIn); err == nil {
		return out, nil
	}
	if _, err := fpIn.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &FpGzip{fp: fpIn}, nil
}
