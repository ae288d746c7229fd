// 18 Oct 2026

// Package sample holds one row of a sequencing report. A Sample is
// just the row. A BSISample knows how to decide if it is a blood,
// faecal transplant or capsule sample and which patient it came from.
// Both know which files should be fetched for them and where they
// live on local disk.
package sample

import (
	"sort"
)

// Column names in the report which we rely on.
const (
	AccessionProp = "sample_accession"
	AliasProp     = "experiment_alias"
	FastqProp     = "fastq_ftp"
)

// PropertyMap is one row of the report, column name to value.
type PropertyMap map[string]string

// Sample wraps a row. Treat the map as read-only once it is here.
type Sample struct {
	props PropertyMap
}

// New wraps a row. The map is copied, so later changes by the caller
// do not leak in.
func New(props PropertyMap) *Sample {
	m := make(PropertyMap, len(props))
	for k, v := range props {
		m[k] = v
	}
	return &Sample{props: m}
}

// Properties returns the property names, sorted.
func (s *Sample) Properties() []string {
	names := make([]string, 0, len(s.props))
	for k := range s.props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Value returns the value of a property and whether it was there at all.
func (s *Sample) Value(prop string) (string, bool) {
	v, ok := s.props[prop]
	return v, ok
}

// need is Value, but a missing property is an error.
func (s *Sample) need(prop string) (string, error) {
	if v, ok := s.props[prop]; ok {
		return v, nil
	}
	acc := s.props[AccessionProp]
	return "", &MissingPropertyError{Accession: acc, Property: prop}
}
