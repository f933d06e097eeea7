//go:build !windows

// Package writer persists completed container bytes to a filesystem path.
package writer

import (
	"github.com/google/renameio/v2"

	"github.com/frozenfs/frozenfs/errs"
)

// FileWriter writes a finished container's bytes to a path atomically: a
// reader either sees the previous contents or the full new contents,
// never a partially written file.
type FileWriter struct {
	Path string
}

// WriteContainer replaces the configured path's contents with buf.
func (w *FileWriter) WriteContainer(buf []byte) error {
	pf, err := renameio.NewPendingFile(w.Path)
	if err != nil {
		return errs.New(errs.KindIO, "open pending container file", err)
	}
	defer pf.Cleanup()

	if _, err := pf.Write(buf); err != nil {
		return errs.New(errs.KindIO, "write pending container file", err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return errs.New(errs.KindIO, "replace container file", err)
	}
	return nil
}
