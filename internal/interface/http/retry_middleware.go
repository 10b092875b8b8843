package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/aerosense/internal/infra/config"
)

const retryBodyLimit = 1 << 20

var errBodyTooLarge = errors.New("request body exceeds retry limit")

// withRetry replays requests that end in 502, 503 or 504. Paths listed in
// cfg.Exclude (exact or as a "/"-bounded prefix) are never replayed, since they
// are not safe to execute twice.
func withRetry(next http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return next
	}
	excluded := func(path string) bool {
		for _, prefix := range cfg.Exclude {
			if path == prefix || strings.HasPrefix(path, strings.TrimRight(prefix, "/")+"/") {
				return true
			}
		}
		return false
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !replayableMethod(r.Method) || excluded(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		body, err := bufferBody(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, err.Error(), status)
			return
		}

		for attempt := 1; ; attempt++ {
			rec := newBufferedResponse()
			attemptReq := r.Clone(r.Context())
			attemptReq.Body = io.NopCloser(bytes.NewReader(body))
			attemptReq.ContentLength = int64(len(body))
			next.ServeHTTP(rec, attemptReq)

			if !transientStatus(rec.status) || attempt >= cfg.MaxAttempts {
				rec.flushTo(w)
				return
			}
			delay := cfg.BaseBackoff << (attempt - 1)
			logger.Warn("transient failure, retrying request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "attempt", attempt, "backoff", delay)
			select {
			case <-r.Context().Done():
				rec.flushTo(w)
				return
			case <-time.After(delay):
			}
		}
	})
}

func replayableMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func transientStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func bufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, retryBodyLimit+1))
	if err != nil {
		return nil, err
	}
	if len(data) > retryBodyLimit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// bufferedResponse holds one attempt's response until it is known to be final.
type bufferedResponse struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) WriteHeader(status int) {
	if b.wroteHeader {
		return
	}
	b.status = status
	b.wroteHeader = true
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	b.wroteHeader = true
	return b.body.Write(p)
}

// Flush satisfies http.Flusher for handlers that probe for it; output stays buffered.
func (b *bufferedResponse) Flush() {}

func (b *bufferedResponse) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, v := range b.header {
		dst[k] = append([]string(nil), v...)
	}
	w.WriteHeader(b.status)
	if b.body.Len() > 0 {
		_, _ = w.Write(b.body.Bytes())
	}
}
