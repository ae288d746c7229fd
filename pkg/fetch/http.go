package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// HTTPFetcher gets files over http or https.
// The archive lists files as host/path with no scheme, or with ftp://.
// The same host serves the same path over http, so that is what we use.
type HTTPFetcher struct {
	Client *http.Client // nil means http.DefaultClient
}

// httpURL works out the url we will really ask for.
func httpURL(uri string) (string, error) {
	if scheme(uri) == "" {
		return "http://" + uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "ftp":
		u.Scheme = "http"
		u.User = nil
		return u.String(), nil
	case "http", "https":
		return uri, nil
	}
	return "", errors.New("cannot fetch scheme " + u.Scheme + " over http")
}

// Fetch gets uri and writes it to dest.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri, dest string) error {
	u, err := httpURL(uri)
	if err != nil {
		return &FetchError{URI: uri, Permanent: true, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &FetchError{URI: uri, Permanent: true, Err: err}
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return &FetchError{URI: uri, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &FetchError{
			URI:       uri,
			Permanent: permanent(resp.StatusCode),
			Err:       fmt.Errorf("wanted %s, got %s", u, resp.Status),
		}
	}
	if err := save(resp.Body, dest); err != nil {
		return &FetchError{URI: uri, Err: err}
	}
	return nil
}

// permanent says a status will not get better by asking again.
func permanent(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return status >= 400 && status < 500
}
