package server

import (
	"bytes"
	"net/http"
)

// responseRecorder tees the response body and status code so the audit
// middleware can log what was actually sent to the client.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (w *responseRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseRecorder) StatusCode() int {
	return w.statusCode
}

func (w *responseRecorder) Body() []byte {
	return w.body.Bytes()
}
