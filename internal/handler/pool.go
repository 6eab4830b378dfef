package handler

import (
	"bytes"
	"sync"
)

const (
	bufferInitialSize = 1 << 10
	bufferMaxRetained = 64 << 10
)

// bufferPool reuses JSON encoding buffers across responses. Buffers that grew
// past bufferMaxRetained, typically from a large audit page, are dropped.
var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, bufferInitialSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > bufferMaxRetained {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
