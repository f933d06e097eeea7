package container_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/frozenfs/frozenfs/container"
	"github.com/frozenfs/frozenfs/region"
	"github.com/stretchr/testify/require"
)

func TestSaveFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ffz")

	err := container.SaveFile(path, func(s *container.ZipSerializer) error {
		if err := s.AddRegion(mustElement(t, "a"), region.NewFrozen([]byte("hello"), nil)); err != nil {
			return err
		}
		return s.Commit()
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	mapped := region.NewFrozen(data, nil)
	rc, err := container.NewZipReconstituter(mapped)
	require.NoError(t, err)

	a, err := rc.GetRegion(mustElement(t, "a"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(a.Bytes()))
}

func TestSaveFileLeavesNoTempOnBuildError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ffz")

	wantErr := os.ErrInvalid
	err := container.SaveFile(path, func(s *container.ZipSerializer) error {
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
