//go:build frozenfs_debug

package serial

import "github.com/frozenfs/frozenfs/errs"

// debugVerifyLength asserts the file's actual on-disk size matches the
// serializer's bookkeeping, restoring the original implementation's
// verifyLength assertion as an opt-in debug check rather than a
// production invariant.
func (s *File) debugVerifyLength() error {
	info, err := s.f.Stat()
	if err != nil {
		return errs.New(errs.KindIO, "debugVerifyLength: stat", err)
	}
	if info.Size() != s.size {
		return errs.New(errs.KindIO, "debugVerifyLength: size mismatch", nil)
	}
	return nil
}
