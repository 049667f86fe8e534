package timeline

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDFunc produces a fresh message identifier on every call.
type IDFunc func() string

// UUIDs returns random v4 identifiers.
func UUIDs() IDFunc {
	return uuid.NewString
}

// Sequence returns a monotonic counter generator: prefix-1, prefix-2, ...
func Sequence(prefix string) IDFunc {
	var n atomic.Uint64
	return func() string {
		return prefix + "-" + strconv.FormatUint(n.Add(1), 10)
	}
}
