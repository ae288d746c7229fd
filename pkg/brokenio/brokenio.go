// brokenio is a wrapper around an io.ReadCloser which breaks on
// purpose. Typical use: you have an http body or a file pointer and
// write reader = brokenio.NewReader(reader). Everything then works
// as before until the chosen number of bytes has gone through, then
// every Read fails. This is what a dropped connection looks like
// half way through a download.

package brokenio

import (
	"errors"
	"io"
)

var ErrBroken = errors.New("brokenio: connection dropped")

// BrknRdrClsr passes reads through until failAfter bytes have gone.
// A negative failAfter means it never breaks.
type BrknRdrClsr struct {
	rdr_orig  io.ReadCloser // Wrapped reader
	failAfter int
	nByte     int
}

// NewReader returns a new Reader, a wrapper around the old one,
// which does not break until told to.
func NewReader(rIn io.ReadCloser) *BrknRdrClsr {
	return &BrknRdrClsr{rdr_orig: rIn, failAfter: -1}
}

// SetFailAfter sets how many bytes get through before the break.
func (r *BrknRdrClsr) SetFailAfter(n int) { r.failAfter = n }

// NByte says how much data has gone through.
func (r *BrknRdrClsr) NByte() int { return r.nByte }

// Read wraps the underlying reader, counting bytes. Once the limit is
// reached it returns ErrBroken, including on a read that crosses it.
func (r *BrknRdrClsr) Read(p []byte) (int, error) {
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, ErrBroken
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	n, err := r.rdr_orig.Read(p)
	r.nByte += n
	if err == nil && r.failAfter >= 0 && r.nByte >= r.failAfter {
		err = ErrBroken
	}
	return n, err
}

// Close wraps the underlying Close method.
func (r *BrknRdrClsr) Close() error {
	return r.rdr_orig.Close()
}
