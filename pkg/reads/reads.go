package reads

import (
	"context"
	"fmt"
	"iter"
	"os"

	"go.uber.org/zap"

	"github.com/andrew-torda/bsi_collect/pkg/fetch"
	"github.com/andrew-torda/bsi_collect/pkg/metrics"
	"github.com/andrew-torda/bsi_collect/pkg/sample"
)

// Decoder gives the reads of a sample, fetching files first if need be.
type Decoder struct {
	Ensurer *fetch.Ensurer
	Logger  *zap.Logger
	Metrics *metrics.Set
}

func (d *Decoder) log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Reads makes sure the sample's files are local, then goes through
// them in report order, giving one Read per complete record.
// If fetching fails we carry on with whatever files are there. The
// fetch error is only yielded if there are none at all.
// The sequence can be walked once. Stopping early closes the file.
func (d *Decoder) Reads(ctx context.Context, b *sample.BSISample) iter.Seq2[Read, error] {
	return func(yield func(Read, error) bool) {
		dir, ensureErr := d.Ensurer.EnsureLocal(ctx, b)
		if ensureErr != nil {
			d.log().Warn("sample not completely local", zap.String("sample", b.ID()), zap.Error(ensureErr))
			if dir == "" {
				yield(Read{}, ensureErr)
				return
			}
		}
		local, err := b.ExistingLocalFiles(dir)
		if err != nil {
			yield(Read{}, err)
			return
		}
		nFile := 0
		for fname := range local {
			nFile++
			if !d.file(fname, yield) {
				return
			}
		}
		if nFile == 0 && ensureErr != nil {
			yield(Read{}, ensureErr)
		}
	}
}

// file yields the records of one file. It returns false if the caller
// wants no more.
func (d *Decoder) file(fname string, yield func(Read, error) bool) bool {
	fp, err := os.Open(fname)
	if err != nil {
		return yield(Read{}, err)
	}
	defer fp.Close()
	sc := NewScanner(fp)
	for sc.Scan() {
		d.Metrics.Read()
		if !yield(sc.Read(), nil) {
			return false
		}
	}
	if err := sc.Err(); err != nil {
		return yield(Read{}, fmt.Errorf("%s: %w", fname, err))
	}
	if n := sc.Trailing(); n > 0 {
		d.Metrics.Partial()
		d.log().Warn("dropped trailing lines", zap.String("file", fname), zap.Int("lines", n), zap.Error(ErrShort))
	}
	return true
}
