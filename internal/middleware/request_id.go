package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

type reqIDKeyType struct{}

var requestIDKey reqIDKeyType

var reqCounter atomic.Uint64

func newReqID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36) + "-" + strconv.FormatUint(reqCounter.Add(1), 36)
}

func RequestIDFrom(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDKey).(string); ok {
		return s
	}
	return ""
}

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := newReqID()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
