package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/bsi_collect/pkg/metrics"
	"github.com/andrew-torda/bsi_collect/pkg/sample"
)

const dirPerm = 0o755

// Ensurer makes sure a sample's files are decompressed in its storage
// directory under Root, fetching whatever is missing.
// Work on one directory is serialised. Different directories can be
// worked on at the same time, up to Workers of them.
type Ensurer struct {
	Root         string // "" means sample.DefaultRoot
	Fetcher      Fetcher
	Decompressor Decompressor // nil means Gunzipper
	Workers      int          // for EnsureLocalAll, less than 1 means 1
	Logger       *zap.Logger
	Metrics      *metrics.Set

	locks sync.Map // directory -> *sync.Mutex
}

// Outcome is the result for one sample of EnsureLocalAll.
type Outcome struct {
	Sample *sample.BSISample
	Dir    string
	Err    error
}

func (e *Ensurer) log() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Ensurer) root() string {
	if e.Root == "" {
		return sample.DefaultRoot
	}
	return e.Root
}

func (e *Ensurer) decompressor() Decompressor {
	if e.Decompressor == nil {
		return Gunzipper{}
	}
	return e.Decompressor
}

func (e *Ensurer) lock(dir string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(dir, new(sync.Mutex))
	return mu.(*sync.Mutex)
}

// Dir is where a sample's files go.
func (e *Ensurer) Dir(b *sample.BSISample) (string, error) {
	return sample.StoragePath(e.root(), b)
}

// EnsureLocal fetches and decompresses any of the sample's files which
// are not already in its directory and returns the directory.
// A file that fails does not stop the others. The errors come back
// joined, each one a *FetchError or *DecompressError.
func (e *Ensurer) EnsureLocal(ctx context.Context, b *sample.BSISample) (string, error) {
	dir, err := e.Dir(b)
	if err != nil {
		return "", err
	}
	mu := e.lock(dir)
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return dir, err
	}
	missing, err := b.MissingFiles(dir)
	if err != nil {
		e.log().Warn("sample not downloadable", zap.String("sample", b.ID()), zap.Error(err))
		return dir, err
	}
	var errs []error
	for fname, uri := range missing {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := e.one(ctx, dir, fname, uri); err != nil {
			e.log().Warn("file not fetched", zap.String("sample", b.ID()), zap.String("uri", uri), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return dir, errors.Join(errs...)
}

// one fetches a single file and decompresses it.
func (e *Ensurer) one(ctx context.Context, dir, fname, uri string) error {
	dest := filepath.Join(dir, fname)
	e.Metrics.Fetch()
	if err := e.Fetcher.Fetch(ctx, uri, dest); err != nil {
		e.Metrics.FetchFail(metrics.KindFetch)
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = &FetchError{URI: uri, Err: err}
		}
		return err
	}
	out, err := e.decompressor().Decompress(dest)
	if err != nil {
		e.Metrics.FetchFail(metrics.KindDecompress)
		// With no extension, dest is the name of the decompressed file.
		if rmErr := os.Remove(dest); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, rmErr)
		}
		return &DecompressError{Path: dest, Err: err}
	}
	e.log().Debug("fetched", zap.String("uri", uri), zap.String("file", out))
	return nil
}

// EnsureLocalAll runs EnsureLocal on each sample. One sample failing
// does not stop or cancel the others. There is one Outcome per sample,
// in the order given, and the error joins all the failures.
func (e *Ensurer) EnsureLocalAll(ctx context.Context, samples []*sample.BSISample) ([]Outcome, error) {
	out := make([]Outcome, len(samples))
	var g errgroup.Group // not WithContext, a failure must not cancel the rest
	g.SetLimit(max(e.Workers, 1))
	for i, b := range samples {
		g.Go(func() error {
			dir, err := e.EnsureLocal(ctx, b)
			out[i] = Outcome{Sample: b, Dir: dir, Err: err}
			return nil
		})
	}
	g.Wait()
	var errs []error
	for _, o := range out {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("sample %s: %w", o.Sample.ID(), o.Err))
		}
	}
	return out, errors.Join(errs...)
}
