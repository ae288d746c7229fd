// 18 Oct 2026

// Package common has the bits every command and test wants.
package common

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// ErrUsage marks errors that are the caller's fault, bad flags or the
// wrong number of arguments.
var ErrUsage = errors.New("usage")

// Usage wraps err so ExitCode sees it as a usage error.
func Usage(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUsage, err)
}

// ExitCode turns the error from running a command into what the
// process should return.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	}
	return ExitFailure
}

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
func WrtTemp(s string) (string, error) {
	fp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", fmt.Errorf("tempfile fail: %w", err)
	}
	_, err = io.WriteString(fp, s)
	if cerr := fp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(fp.Name())
		return "", fmt.Errorf("writing temp file %s: %w", fp.Name(), err)
	}
	return fp.Name(), nil
}
