// Package mmfile provides platform-specific helpers for mapping a byte
// range of a file into memory, used by container.MapFile to satisfy the
// file:// mapping interface.
package mmfile

import "errors"

var errOutOfRange = errors.New("mmfile: requested range outside file")
