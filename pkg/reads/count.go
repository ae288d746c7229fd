package reads

import (
	"bytes"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Shape describes a local file in terms of records.
type Shape struct {
	Lines    int
	Records  int // complete ones
	Trailing int // lines after the last complete record
}

// Short says if the file ends part way through a record.
func (s Shape) Short() bool { return s.Trailing != 0 }

// CountLines counts lines by mapping the file into memory. A last
// line without a newline still counts.
func CountLines(fname string) (int, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return 0, err
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return 0, err
	}
	if fi.Size() == 0 { // cannot map nothing
		return 0, nil
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return 0, err
	}
	defer mm.Unmap()
	n := bytes.Count(mm, []byte{'\n'})
	if mm[len(mm)-1] != '\n' {
		n++
	}
	return n, nil
}

// Check looks at a file without decoding it.
func Check(fname string) (Shape, error) {
	n, err := CountLines(fname)
	if err != nil {
		return Shape{}, err
	}
	return Shape{Lines: n, Records: n / linesPerRecord, Trailing: n % linesPerRecord}, nil
}
