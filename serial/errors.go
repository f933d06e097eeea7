package serial

import "github.com/frozenfs/frozenfs/errs"

var (
	errClosedSink    = errs.New(errs.KindIO, "write to closed sink", nil)
	errInvalidWhence = errs.New(errs.KindIO, "invalid seek whence", nil)
)
