// Package reads turns the local files of a sample into reads.
// Files have four lines per record: identifier, sequence, a separator
// line we throw away, and quality. Reads come out one at a time and
// files are never held in memory whole.
package reads

import (
	"bufio"
	"errors"
	"io"
)

// ErrShort is reported when a file ends part way through a record.
// Those last lines are dropped.
var ErrShort = errors.New("file ends with an incomplete record")

const (
	linesPerRecord = 4
	maxLine        = 16 * 1024 * 1024
)

// Read is identifier, sequence and quality, without line ends.
type Read [3]string

func (r Read) ID() string   { return r[0] }
func (r Read) Seq() string  { return r[1] }
func (r Read) Qual() string { return r[2] }

// Scanner reads records from a stream, in the manner of bufio.Scanner.
type Scanner struct {
	sc       *bufio.Scanner
	rd       Read
	ndx      int // line within the current record
	trailing int
}

func NewScanner(rdr io.Reader) *Scanner {
	sc := bufio.NewScanner(rdr)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Scanner{sc: sc}
}

// Scan moves on to the next complete record. It returns false at the
// end of input or on error.
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		switch s.ndx { // line 2 is the separator and is dropped
		case 0:
			s.rd[0] = s.sc.Text()
		case 1:
			s.rd[1] = s.sc.Text()
		case 3:
			s.rd[2] = s.sc.Text()
		}
		s.ndx = (s.ndx + 1) % linesPerRecord
		if s.ndx == 0 {
			return true
		}
	}
	s.trailing = s.ndx
	return false
}

// Read returns the last record found by Scan.
func (s *Scanner) Read() Read { return s.rd }

// Err returns the first error which was not EOF.
func (s *Scanner) Err() error { return s.sc.Err() }

// Trailing says how many lines were left over at the end, after Scan
// has returned false. Non-zero means the file was short.
func (s *Scanner) Trailing() int { return s.trailing }
