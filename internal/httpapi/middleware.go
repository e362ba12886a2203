package httpapi

import (
	"context"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"seedling/internal/common"
	"seedling/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

type accessInfoKey struct{}

// accessInfo lets inner middleware report the caller back to the access log.
type accessInfo struct {
	userID string
}

// statusRecorder captures the status code and size for access logs and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// requestIDMiddleware reuses X-Request-ID when the client sends one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, rid)
		next.ServeHTTP(w, r.WithContext(common.WithRequestID(r.Context(), rid)))
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// accessLogMiddleware logs one line per request and feeds the HTTP collectors.
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		info := &accessInfo{}
		rec := &statusRecorder{ResponseWriter: w}
		path := routeTemplate(r)

		metrics.HTTPInflight.Inc()
		defer metrics.HTTPInflight.Dec()

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), accessInfoKey{}, info)))

		latency := time.Since(start)
		status := rec.code()
		metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPLatency.WithLabelValues(r.Method, path).Observe(latency.Seconds())

		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev.Str("request_id", common.RequestIDFromContext(r.Context())).
			Str("user_id", info.userID).
			Str("method", r.Method).
			Str("path", path).
			Int("status", status).
			Int("bytes_out", rec.bytes).
			Dur("latency", latency).
			Msg("http request")
	})
}

// recoveryMiddleware turns a handler panic into a 500 envelope.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", common.RequestIDFromContext(r.Context())).
					Msg("panic recovered")
				writeError(w, r, common.Internal("panic", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware requires a valid bearer token and puts the caller on the context.
func authMiddleware(tokens *common.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := common.ParseBearer(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, r, common.Unauthenticated("authorization required"))
				return
			}
			claims, err := tokens.ValidToken(tokenString)
			if err != nil {
				writeError(w, r, common.Unauthenticated("invalid or expired token"))
				return
			}
			if info, ok := r.Context().Value(accessInfoKey{}).(*accessInfo); ok {
				info.userID = claims.UserID
			}
			ctx := common.WithIdentity(r.Context(), claims.UserID, claims.Handle)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func callerID(r *http.Request) string {
	id, _ := common.UserIDFromContext(r.Context())
	return id
}
