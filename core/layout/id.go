package layout

import (
	"encoding/binary"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// minIDLength keeps ids visually uniform; shorter base-36 values are left-padded with zeros.
const minIDLength = 8

// IDGenerator produces unique opaque node identifiers.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a plain function to the IDGenerator interface.
type IDGeneratorFunc func() string

// NewID calls f.
func (f IDGeneratorFunc) NewID() string {
	return f()
}

// DefaultIDGenerator is used by factories, the decoder and the action sanitizer
// unless another generator is injected.
var DefaultIDGenerator IDGenerator = IDGeneratorFunc(NewID)

// NewID returns a short base-36 identifier derived from a random UUID.
// Both halves of the UUID are folded together so the fixed version and variant
// bits don't reduce the entropy of the result.
func NewID() string {
	u := uuid.New()
	n := binary.BigEndian.Uint64(u[:8]) ^ binary.BigEndian.Uint64(u[8:])
	id := strconv.FormatUint(n, 36)
	if len(id) < minIDLength {
		id = strings.Repeat("0", minIDLength-len(id)) + id
	}
	return id
}

// SequenceIDGenerator returns a deterministic generator yielding prefix1, prefix2, ...
// Safe for concurrent use.
func SequenceIDGenerator(prefix string) IDGenerator {
	var n atomic.Uint64
	return IDGeneratorFunc(func() string {
		return prefix + strconv.FormatUint(n.Add(1), 10)
	})
}
