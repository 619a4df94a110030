package prefixvec

import "sync"

const CHUNK_SIZE = 32 * 1024

// bufPool holds scratch buffers for the big-endian conversion of bulk reads.
// CHUNK_SIZE is larger than MaxPreallocation, so one buffer always holds a
// full bulk-read chunk.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, CHUNK_SIZE)
		return &b
	},
}
