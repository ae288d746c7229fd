package zwrap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const Suffix = ".gz"

// FileMode is what decompressed files get, as from gzip -d.
const FileMode = 0o644

// Gunzip decompresses fname, which must end in .gz, into the same
// path without the suffix and returns that path. An old file there
// is overwritten. The compressed file is removed afterwards, whether
// or not decompression worked, so a broken download is not mistaken
// for a good one.
func Gunzip(fname string) (string, error) {
	if !strings.HasSuffix(fname, Suffix) {
		return "", fmt.Errorf("gunzip %s: name does not end in %s", fname, Suffix)
	}
	out := strings.TrimSuffix(fname, Suffix)
	err := gunzipTo(fname, out)
	if rmErr := os.Remove(fname); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		err = errors.Join(err, rmErr)
	}
	if err != nil {
		return "", fmt.Errorf("gunzip %s: %w", fname, err)
	}
	return out, nil
}

// gunzipTo writes to a temporary file in the same directory and
// renames it, so out is either complete or untouched.
func gunzipTo(in, out string) error {
	fp, err := os.Open(in)
	if err != nil {
		return err
	}
	rdr, err := Wrap(fp)
	if err != nil {
		fp.Close()
		return err
	}
	defer rdr.Close()

	tmp, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+".part")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err = tmp.Chmod(FileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if _, err = io.Copy(tmp, rdr); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err = os.Rename(tmpName, out); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
