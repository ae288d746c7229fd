package fetch

import (
	"context"
	"errors"
	"strings"
)

// Mux hands each uri to the Fetcher registered for its scheme.
// Uris without a scheme use the one registered for "".
type Mux struct {
	byScheme map[string]Fetcher
}

func NewMux() *Mux { return &Mux{byScheme: make(map[string]Fetcher)} }

// Handle registers f for scheme. Later calls replace earlier ones.
func (m *Mux) Handle(scheme string, f Fetcher) { m.byScheme[strings.ToLower(scheme)] = f }

func scheme(uri string) string {
	if i := strings.Index(uri, "://"); i > 0 {
		return strings.ToLower(uri[:i])
	}
	return ""
}

func (m *Mux) Fetch(ctx context.Context, uri, dest string) error {
	f, ok := m.byScheme[scheme(uri)]
	if !ok {
		return &FetchError{URI: uri, Permanent: true, Err: errors.New("no fetcher for scheme " + scheme(uri))}
	}
	return f.Fetch(ctx, uri, dest)
}
