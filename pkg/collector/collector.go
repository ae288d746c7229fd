// 18 Oct 2026

// Package collector reads a study report and sorts the samples. Capsules
// go in one list. Blood and FMT samples are grouped by patient.
// Rows which cannot be placed are kept to one side with the reason.
package collector

import (
	"errors"

	"github.com/andrew-torda/matrix"
	"go.uber.org/zap"

	"github.com/andrew-torda/bsi_collect/pkg/metrics"
	"github.com/andrew-torda/bsi_collect/pkg/report"
	"github.com/andrew-torda/bsi_collect/pkg/sample"
)

// Options are the optional helpers for Build. A nil *Options is fine.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Set
}

// Unresolved is a report row we could not place. Sample is nil if the
// row did not even have an accession.
type Unresolved struct {
	Row    sample.PropertyMap
	Sample *sample.BSISample
	Err    error
}

type patientSamples struct {
	blood []*sample.BSISample
	fmt   []*sample.BSISample
}

// Registry is built once from a report and not changed afterwards.
type Registry struct {
	capsules   []*sample.BSISample
	patients   []string // in the order first seen
	byPatient  map[string]*patientSamples
	byID       map[string]*sample.BSISample
	unresolved []Unresolved
}

// Build sorts rows into a registry. Bad rows do not stop the build.
// They are logged, counted and can be had from Unresolved().
func Build(rows []sample.PropertyMap, opts *Options) *Registry {
	if opts == nil {
		opts = &Options{}
	}
	lgr := opts.Logger
	if lgr == nil {
		lgr = zap.NewNop()
	}
	r := &Registry{
		byPatient: make(map[string]*patientSamples),
		byID:      make(map[string]*sample.BSISample),
	}
	for i, row := range rows {
		b, err := r.add(row)
		if err == nil {
			t, _ := b.Type()
			opts.Metrics.Sample(t.String())
			continue
		}
		lgr.Warn("cannot place report row", zap.Int("row", i+1), zap.Error(err))
		opts.Metrics.Unresolve()
		r.unresolved = append(r.unresolved, Unresolved{Row: row, Sample: b, Err: err})
	}
	lgr.Debug("registry built",
		zap.Int("capsules", len(r.capsules)),
		zap.Int("patients", len(r.patients)),
		zap.Int("unresolved", len(r.unresolved)))
	return r
}

// add places one row. On failure the sample, if we got that far,
// comes back with the error.
func (r *Registry) add(row sample.PropertyMap) (*sample.BSISample, error) {
	b, err := sample.NewBSI(row)
	if err != nil {
		return nil, err
	}
	t, err := b.Type()
	if err != nil {
		return b, err
	}
	if t == sample.Capsule {
		r.capsules = append(r.capsules, b)
		r.byID[b.ID()] = b
		return b, nil
	}
	p, err := b.Patient()
	if err != nil {
		return b, err
	}
	ps, ok := r.byPatient[p]
	if !ok {
		ps = new(patientSamples)
		r.byPatient[p] = ps
		r.patients = append(r.patients, p)
	}
	switch t {
	case sample.Blood:
		ps.blood = append(ps.blood, b)
	case sample.FMT:
		ps.fmt = append(ps.fmt, b)
	default:
		return b, errors.New("programming bug, type " + t.String())
	}
	r.byID[b.ID()] = b
	return b, nil
}

// FromFile loads a report and builds the registry.
func FromFile(fname string, opts *Options) (*Registry, error) {
	rows, err := report.Load(fname)
	if err != nil {
		return nil, err
	}
	return Build(rows, opts), nil
}

// Patients returns the patients, in the order first seen in the report.
func (r *Registry) Patients() []string { return append([]string(nil), r.patients...) }

// Capsules returns the capsule samples.
func (r *Registry) Capsules() []*sample.BSISample { return r.capsules }

// Blood returns a patient's blood samples, empty for an unknown patient.
func (r *Registry) Blood(patient string) []*sample.BSISample {
	if ps, ok := r.byPatient[patient]; ok {
		return ps.blood
	}
	return nil
}

// FMT returns a patient's faecal transplant samples.
func (r *Registry) FMT(patient string) []*sample.BSISample {
	if ps, ok := r.byPatient[patient]; ok {
		return ps.fmt
	}
	return nil
}

// Unresolved returns the rows which are in neither list.
func (r *Registry) Unresolved() []Unresolved { return r.unresolved }

// Find looks up a placed sample by accession.
func (r *Registry) Find(accession string) (*sample.BSISample, bool) {
	b, ok := r.byID[accession]
	return b, ok
}

// Tally columns
const (
	BloodCol = iota
	FMTCol
	nCol
)

// Tally counts samples per patient. Row i of the matrix belongs to
// patients[i]. Columns are BloodCol and FMTCol.
func (r *Registry) Tally() ([]string, *matrix.FMatrix2d) {
	patients := r.Patients()
	m := matrix.NewFMatrix2d(len(patients), nCol)
	for i, p := range patients {
		ps := r.byPatient[p]
		m.Mat[i][BloodCol] = float32(len(ps.blood))
		m.Mat[i][FMTCol] = float32(len(ps.fmt))
	}
	return patients, m
}
