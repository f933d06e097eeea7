//go:build windows

package writer

import (
	"os"
	"path/filepath"

	"github.com/frozenfs/frozenfs/errs"
)

// FileWriter writes a finished container's bytes to a path atomically.
// renameio has no Windows implementation, so this platform falls back to
// a manual temp-file-plus-rename sequence.
type FileWriter struct {
	Path string
}

// WriteContainer replaces the configured path's contents with buf.
func (w *FileWriter) WriteContainer(buf []byte) error {
	dir := filepath.Dir(w.Path)
	tmp, err := os.CreateTemp(dir, ".frozenfs-tmp-*")
	if err != nil {
		return errs.New(errs.KindIO, "create temp container file", err)
	}
	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(buf); err != nil {
		return errs.New(errs.KindIO, "write temp container file", err)
	}
	if err := tmp.Sync(); err != nil {
		return errs.New(errs.KindIO, "sync temp container file", err)
	}
	if err := tmp.Close(); err != nil {
		return errs.New(errs.KindIO, "close temp container file", err)
	}
	if err := os.Rename(tmp.Name(), w.Path); err != nil {
		_ = os.Remove(tmp.Name())
		return errs.New(errs.KindIO, "rename temp container file", err)
	}
	ok = true
	return nil
}
