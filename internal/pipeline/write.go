package pipeline

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// writeFileAtomic replaces path with data through a temp file in the same
// directory and a rename, so readers never see a half-written header. An
// existing file with identical content is left untouched; the result tells
// whether anything was written.
func writeFileAtomic(path string, data []byte) (bool, error) {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, data) {
		return false, nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, errors.Wrapf(err, "create %s", dir)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return false, errors.Wrap(err, "create temp file")
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return false, errors.Wrapf(err, "write %s", tmp)
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return false, errors.Wrapf(err, "chmod %s", tmp)
	}
	if err := f.Close(); err != nil {
		return false, errors.Wrapf(err, "close %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return false, errors.Wrapf(err, "rename to %s", path)
	}
	return true, nil
}
