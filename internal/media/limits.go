package media

import (
	"fmt"
	"io"
)

// LimitWriter copies from reader into dst and rejects payloads larger than maxBytes.
// A maxBytes of 0 or less disables the limit.
func LimitWriter(dst io.Writer, reader io.Reader, maxBytes int64) (int64, error) {
	if reader == nil {
		return 0, fmt.Errorf("reader is required")
	}
	if maxBytes <= 0 {
		return io.Copy(dst, reader)
	}
	limited := &io.LimitedReader{
		R: reader,
		N: maxBytes + 1,
	}
	written, err := io.Copy(dst, limited)
	if err != nil {
		return written, err
	}
	if written > maxBytes {
		return written, fmt.Errorf("%w: max %d bytes", ErrFileTooLarge, maxBytes)
	}
	return written, nil
}
