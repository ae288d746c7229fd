// Package report reads the tab separated file report listing the
// samples of a study, one row per sample, with a header line of
// column names. The file may be gzipped.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andrew-torda/bsi_collect/pkg/sample"
	"github.com/andrew-torda/bsi_collect/pkg/zwrap"
)

// DefaultName is what the archive calls the report when you download it.
const DefaultName = "fastq_file_report.txt"

var ErrNoHeader = errors.New("report has no header line")

// Read reads rows from rdr. Empty cells are left out of the row, so
// they look like missing properties rather than empty strings.
func Read(rdr io.Reader) ([]sample.PropertyMap, error) {
	cr := csv.NewReader(rdr)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1 // short rows are allowed, long ones are not
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	} else if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	var rows []sample.PropertyMap
	for {
		cols, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if len(cols) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %d fields, header has %d", line, len(cols), len(header))
		}
		row := make(sample.PropertyMap, len(cols))
		for i, c := range cols {
			if c = strings.TrimSpace(c); c != "" {
				row[header[i]] = c
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Load reads the report in fname.
func Load(fname string) ([]sample.PropertyMap, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	rdr, err := zwrap.WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	defer rdr.Close()
	rows, err := Read(rdr)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	return rows, nil
}
