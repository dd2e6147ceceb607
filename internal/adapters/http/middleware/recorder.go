package middleware

import (
	"fmt"
	"net/http"
)

// Recorder wraps http.ResponseWriter to capture status code and body size.
type Recorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

// Wrap returns w as a Recorder, reusing it when w already is one.
func Wrap(w http.ResponseWriter) *Recorder {
	if rec, ok := w.(*Recorder); ok {
		return rec
	}
	return &Recorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader captures the status before forwarding it.
func (rw *Recorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *Recorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *Recorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// Status returns the status written so far (200 if none).
func (rw *Recorder) Status() int { return rw.status }

// Bytes returns the number of body bytes written.
func (rw *Recorder) Bytes() int64 { return rw.bytes }
