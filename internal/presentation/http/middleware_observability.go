package httppresentation

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/Zhima-Mochi/minishop-store/internal/observability/logctx"
	"github.com/google/uuid"
)

const maxRequestIDLen = 128

// requestScope gives every request a logger carrying request_id (and the
// server span's ids) and records per-route request count and latency.
type requestScope struct {
	base      observability.Logger
	requests  observability.Counter
	durations observability.Histogram
}

func newRequestScope(base observability.Logger, tel observability.Observability) *requestScope {
	if base == nil {
		base = observability.LoggerOf(tel)
	}
	metrics := observability.MetricsOf(tel)
	return &requestScope{
		base:      base,
		requests:  metrics.Counter(observability.MHTTPRequests),
		durations: metrics.Histogram(observability.MHTTPRequestDuration),
	}
}

// wrap expects the server span to be on the request context already.
func (s *requestScope) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rid := requestIDFrom(r)
		w.Header().Set(headerRequestID, rid)

		fields := append([]observability.Field{observability.F("request_id", rid)}, logctx.SpanFields(ctx)...)
		ctx = logctx.With(ctx, s.base.With(fields...))

		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r.WithContext(ctx))

		labels := []observability.Label{
			observability.L("method", r.Method),
			observability.L("route", routeFromContext(ctx)),
			observability.L("status", strconv.Itoa(rec.status)),
		}
		s.requests.Add(1, labels...)
		s.durations.Observe(time.Since(start).Seconds(), labels...)
	})
}

// requestIDFrom echoes a caller's X-Request-ID when it is short printable
// ASCII and generates a uuid otherwise.
func requestIDFrom(r *http.Request) string {
	rid := r.Header.Get(headerRequestID)
	if rid == "" || len(rid) > maxRequestIDLen {
		return uuid.NewString()
	}
	for i := 0; i < len(rid); i++ {
		if c := rid[i]; c < 0x21 || c > 0x7e {
			return uuid.NewString()
		}
	}
	return rid
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusRecorder) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
