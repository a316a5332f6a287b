package handlers

import (
	"fmt"
	"net/http"

	"dtapi/internal/logger"
	"dtapi/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// Instrument wraps the handler of operation op with a span, a request
// counter and a panic boundary answering 500 with the operation's message.
func (h *Handlers) Instrument(op string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := observability.Tracer().Start(r.Context(), "booking."+op)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r = r.WithContext(ctx)

		defer func() {
			if p := recover(); p != nil {
				err := fmt.Errorf("panic: %v", p)
				if rec.wroteHeader {
					// Too late to answer 500; the partial response stands.
					logger.FromContext(r.Context(), h.logger).Error("panic after response started", "operation", op, "error", err)
					span.SetStatus(codes.Error, err.Error())
				} else {
					h.fail(rec, r, op, err)
				}
			}
			span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
			if rec.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, failMessage(op))
			}
			h.metrics.RecordRequest(ctx, op, rec.status)
		}()

		next(rec, r)
	})
}
