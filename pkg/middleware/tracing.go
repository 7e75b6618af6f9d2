package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/smartdine/restaurant-service/pkg/tracing"
)

// HeaderTraceID carries the trace ID back to clients so a failed
// request can be looked up in the tracing backend.
const HeaderTraceID = "X-Trace-Id"

// Tracing opens a server span per request and propagates it through
// the request context to the layers below.
func Tracing(tp *tracing.TracerProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		ctx, span := tp.StartSpan(c.Request.Context(), c.Request.Method+" "+route)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		if traceID := tracing.GetTraceID(ctx); traceID != "" {
			c.Header(HeaderTraceID, traceID)
		}

		c.Next()

		span.SetAttributes(tracing.HTTPSpanAttributes(c.Request.Method, route, c.Writer.Status())...)
	}
}
