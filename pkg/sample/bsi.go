package sample

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Type says what kind of sample we have.
type Type byte

const (
	Unknown Type = iota // Not looked at, or no marker in the alias
	Blood
	Capsule
	FMT
)

func (t Type) String() string {
	switch t {
	case Blood:
		return "Blood"
	case Capsule:
		return "Capsule"
	case FMT:
		return "FMT"
	}
	return "Unknown"
}

// Markers are searched for in this order. First match wins, so an alias
// with both "Blood" and "FMT" is a blood sample.
var markers = []struct {
	s string
	t Type
}{
	{"Blood", Blood},
	{"FMT", FMT},
	{"Capsule", Capsule},
}

const (
	aliasSep   = "."
	dateLayout = "20060102"
)

// derived is a value worked out once from the alias, along with the
// error, if there was one. Errors are cached too.
type derived[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (d *derived[T]) get(f func() (T, error)) (T, error) {
	d.once.Do(func() { d.val, d.err = f() })
	return d.val, d.err
}

// BSISample is a sample from the blood stream infection study.
// Type, patient and date come from the experiment alias, which looks
// like "P123.20230615.Blood.rest". They are computed on first use
// and never again. It is safe for use by more than one goroutine.
type BSISample struct {
	*Sample
	id      string
	typ     derived[Type]
	patient derived[string]
	date    derived[time.Time]
}

// NewBSI wraps a row. It fails if there is no accession.
func NewBSI(props PropertyMap) (*BSISample, error) {
	s := New(props)
	id, err := s.need(AccessionProp)
	if err != nil {
		return nil, err
	}
	return &BSISample{Sample: s, id: id}, nil
}

// ID returns the sample accession.
func (b *BSISample) ID() string { return b.id }

// Type classifies the sample from markers in the alias. If the alias
// is missing or has no marker, we get Unknown and an error.
func (b *BSISample) Type() (Type, error) {
	return b.typ.get(func() (Type, error) {
		alias, err := b.need(AliasProp)
		if err != nil {
			return Unknown, err
		}
		for _, m := range markers {
			if strings.Contains(alias, m.s) {
				return m.t, nil
			}
		}
		return Unknown, fmt.Errorf("sample %s alias %q: %w", b.id, alias, ErrUnclassified)
	})
}

// resolved returns the type, but an Unknown type is an error.
func (b *BSISample) resolved() (Type, error) {
	t, err := b.Type()
	if err != nil {
		return Unknown, fmt.Errorf("%w: %w", ErrUnresolvedType, err)
	}
	return t, nil
}

// Patient is the part of the alias before the first dot.
// Capsules do not belong to a patient and give ErrNotApplicable.
func (b *BSISample) Patient() (string, error) {
	return b.patient.get(func() (string, error) {
		t, err := b.resolved()
		if err != nil {
			return "", err
		}
		if t == Capsule {
			return "", ErrNotApplicable
		}
		alias, _ := b.Value(AliasProp)
		p, _, _ := strings.Cut(alias, aliasSep)
		if p == "" {
			return "", fmt.Errorf("sample %s alias %q: empty patient: %w", b.id, alias, ErrMissingProperty)
		}
		return p, nil
	})
}

// Date is the YYYYMMDD token between the first and second dots of
// the alias. Capsules give ErrNotApplicable.
func (b *BSISample) Date() (time.Time, error) {
	return b.date.get(func() (time.Time, error) {
		t, err := b.resolved()
		if err != nil {
			return time.Time{}, err
		}
		if t == Capsule {
			return time.Time{}, ErrNotApplicable
		}
		alias, _ := b.Value(AliasProp)
		_, rest, found := strings.Cut(alias, aliasSep)
		if !found {
			return time.Time{}, &DateError{Alias: alias}
		}
		tok, _, _ := strings.Cut(rest, aliasSep)
		return parseDate(alias, tok)
	})
}

// parseDate wants exactly eight digits forming a real calendar date.
func parseDate(alias, tok string) (time.Time, error) {
	if len(tok) != len(dateLayout) {
		return time.Time{}, &DateError{Alias: alias, Token: tok}
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return time.Time{}, &DateError{Alias: alias, Token: tok}
		}
	}
	d, err := time.Parse(dateLayout, tok)
	if err != nil {
		return time.Time{}, &DateError{Alias: alias, Token: tok, Err: err}
	}
	return d, nil
}

// String gives a multi-line summary. Anything we could not work out
// is shown as NA.
func (b *BSISample) String() string {
	const na = "NA"
	typ := na
	if t, err := b.Type(); err == nil {
		typ = t.String()
	}
	patient := na
	if p, err := b.Patient(); err == nil {
		patient = p
	}
	date := na
	if d, err := b.Date(); err == nil {
		date = d.Format(time.DateOnly)
	}
	return fmt.Sprintf("[\n\tSample ID:\t%s\n\tPatient:\t%s\n\tType:\t\t%s\n\tDate:\t\t%s\n]",
		b.id, patient, typ, date)
}
