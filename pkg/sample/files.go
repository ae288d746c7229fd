package sample

import (
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	uriSep     = ";"
	capsuleDir = "Capsules"
)

// DefaultRoot is where sample directories go if nobody says otherwise.
const DefaultRoot = "Data"

// Unzipped takes a remote file name like x_1.fastq.gz and returns the
// name it has after decompression, x_1.fastq. Only the last extension
// is removed.
func Unzipped(fname string) string {
	return strings.TrimSuffix(fname, filepath.Ext(fname))
}

// uris splits the fastq column. Empty entries, like the one after
// a trailing semicolon, are skipped.
func (s *Sample) uris() ([]string, error) {
	if _, err := s.need(AccessionProp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotDownloadable, err)
	}
	v, err := s.need(FastqProp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotDownloadable, err)
	}
	var out []string
	for _, u := range strings.Split(v, uriSep) {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out, nil
}

// FilenamesAndURIs gives (filename, uri) pairs in the order they appear
// in the report. The filename is the last path element of the uri.
func (s *Sample) FilenamesAndURIs() (iter.Seq2[string, string], error) {
	uris, err := s.uris()
	if err != nil {
		return nil, err
	}
	return func(yield func(string, string) bool) {
		for _, u := range uris {
			if !yield(path.Base(u), u) {
				return
			}
		}
	}, nil
}

// exists is only about whether something is at the path.
func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// MissingFiles is FilenamesAndURIs, restricted to entries whose
// decompressed file is not in dir. The check happens as the
// sequence is walked, not when MissingFiles is called.
func (s *Sample) MissingFiles(dir string) (iter.Seq2[string, string], error) {
	all, err := s.FilenamesAndURIs()
	if err != nil {
		return nil, err
	}
	return func(yield func(string, string) bool) {
		for fname, uri := range all {
			if exists(filepath.Join(dir, Unzipped(fname))) {
				continue
			}
			if !yield(fname, uri) {
				return
			}
		}
	}, nil
}

// ExistingLocalFiles gives full paths of decompressed files in dir.
func (s *Sample) ExistingLocalFiles(dir string) (iter.Seq[string], error) {
	all, err := s.FilenamesAndURIs()
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		for fname := range all {
			p := filepath.Join(dir, Unzipped(fname))
			if !exists(p) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}, nil
}

// StoragePath says where a sample's files live under root:
// root/Capsules, root/<patient>/Blood or root/<patient>/FMT.
// Type and patient must be resolvable.
func StoragePath(root string, b *BSISample) (string, error) {
	t, err := b.resolved()
	if err != nil {
		return "", err
	}
	if t == Capsule {
		return filepath.Join(root, capsuleDir), nil
	}
	p, err := b.Patient()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, p, t.String()), nil
}
