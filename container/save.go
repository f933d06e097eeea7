package container

import (
	"bytes"

	"github.com/frozenfs/frozenfs/internal/writer"
)

// SaveFile builds a ZIP container in memory via build, then writes the
// finished bytes to path atomically. build must call Commit on the
// serializer it receives (or on any of its sub-structures) before
// returning; SaveFile does not commit on build's behalf, since a caller
// that errors partway through a multi-entry container should not have a
// truncated archive persisted.
func SaveFile(path string, build func(s *ZipSerializer) error) error {
	var out bytes.Buffer
	zs := NewZipSerializer(&out)
	if err := build(zs); err != nil {
		return err
	}
	w := &writer.FileWriter{Path: path}
	return w.WriteContainer(out.Bytes())
}
