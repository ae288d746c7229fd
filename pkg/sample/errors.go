package sample

import (
	"errors"
	"fmt"
)

var (
	ErrMissingProperty = errors.New("missing property")
	ErrBadDate         = errors.New("bad date")
	ErrUnclassified    = errors.New("no sample type marker")
	ErrNotApplicable   = errors.New("not applicable to capsules")
	ErrNotDownloadable = errors.New("sample is not downloadable")
	ErrUnresolvedType  = errors.New("sample type not resolved")
)

// MissingPropertyError says a row lacked a column we needed.
type MissingPropertyError struct {
	Accession string // may be empty, if that is what is missing
	Property  string
}

func (e *MissingPropertyError) Error() string {
	if e.Accession == "" {
		return fmt.Sprintf("missing property %q", e.Property)
	}
	return fmt.Sprintf("sample %s: missing property %q", e.Accession, e.Property)
}

func (e *MissingPropertyError) Is(target error) bool { return target == ErrMissingProperty }

// DateError is returned when the date token in an alias is not YYYYMMDD.
type DateError struct {
	Alias string
	Token string
	Err   error // underlying reason, may be nil
}

func (e *DateError) Error() string {
	s := fmt.Sprintf("alias %q: bad date token %q", e.Alias, e.Token)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *DateError) Is(target error) bool { return target == ErrBadDate }

func (e *DateError) Unwrap() error { return e.Err }
