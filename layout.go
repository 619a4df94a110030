package prefixvec

import (
	"encoding/binary"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/exp/constraints"
)

// MaxPreallocation is the byte budget a decoder may reserve on the strength of
// an unverified count prefix. Anything beyond it is allocated only as element
// bytes actually arrive.
const MaxPreallocation = 4096

// layout describes an element type once, so per-call dispatch never repeats
// reflection.
type layout struct {
	size int // in-memory size of one value
	wire int // encoding/binary size of one value, -1 if it has none
}

// layoutCache avoids the cost of reflection in binary.Size on every call.
var layoutCache = xsync.NewMap[reflect.Type, layout]()

func layoutOf[T any]() layout {
	t := reflect.TypeFor[T]()
	if l, ok := layoutCache.Load(t); ok {
		return l
	}
	var zero T
	l := layout{size: int(t.Size()), wire: binary.Size(&zero)}
	layoutCache.Store(t, l)
	return l
}

// Cautious returns the capacity to reserve for claimed elements of T read from
// a count prefix. It never exceeds MaxPreallocation bytes (but is at least one
// element), and when remaining >= 0 it is further capped by the number of
// elements the remaining input could hold. Zero-sized types need no reservation.
func Cautious[T any](claimed, remaining int) int {
	size := layoutOf[T]().size
	if size == 0 || claimed <= 0 {
		return 0
	}
	hint := min(claimed, max(1, MaxPreallocation/size))
	if remaining >= 0 {
		hint = min(hint, max(1, remaining/size))
	}
	return hint
}

// fits reports whether n is a valid element count no larger than limit.
func fits[N constraints.Integer](n N, limit uint64) bool {
	return n >= 0 && uint64(n) <= limit
}
