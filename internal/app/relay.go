package app

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// Relay forwards src to dst in fixed-size chunks until the source is
// exhausted, the context is cancelled, or either side fails. It returns the
// number of bytes written to dst.
//
// Once the first chunk has been written the HTTP status is already on the
// wire, so upstream failures can only truncate the stream; the returned
// error is for logging, not for the client. Relay does not close src.
func Relay(ctx context.Context, dst io.Writer, src io.Reader, chunkSize int) (int64, error) {
	if chunkSize < 1 {
		chunkSize = 64 * 1024
	}

	flusher, _ := dst.(http.Flusher)
	buf := make([]byte, chunkSize)
	var written int64

	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			wn, writeErr := dst.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				// Client went away; the caller releases the source
				return written, writeErr
			}
			if wn < n {
				return written, io.ErrShortWrite
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return written, nil
			}
			return written, readErr
		}
	}
}
