package util

import (
	"bytes"

	"github.com/natefinch/atomic"
)

// WriteFileAtomic writes data to path using a write-rename sequence, so a
// crashed export never leaves a half-written file behind.
func WriteFileAtomic(path string, data []byte) error {
	return atomic.WriteFile(path, bytes.NewReader(data))
}
