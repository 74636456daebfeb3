package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return tp, sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	router := okRouter(TracingWithConfig(TracingConfig{Enabled: false}))

	w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTracing_EnrichesSpanWithCaller(t *testing.T) {
	tp, sr := setupTestTracer(t)
	svc := newTestJWTService()

	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "labstock-test", TracerProvider: tp}))
	api := router.Group("/api/v1", JWTAuthMiddleware(jwtAuthenticator{svc}), TracingAttributeInjector())
	api.POST("/issues", func(c *gin.Context) { c.Status(http.StatusOK) })
	api.POST("/overflow-requests/:id/approve", func(c *gin.Context) { c.Status(http.StatusConflict) })

	req := authedRequest(http.MethodPost, "/api/v1/issues", accessToken(t, svc, storeStaff))
	req.Header.Set(RequestIDHeader, "req-trace-1")
	serve(router, req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/issues")
	attrs := spanAttrs(spans[0])
	assert.Equal(t, "req-trace-1", attrs["http.request_id"].AsString())
	assert.Equal(t, "sklad", attrs["lab.actor"].AsString())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	serve(router, authedRequest(http.MethodPost, "/api/v1/overflow-requests/3/approve", accessToken(t, svc, qaStaff)))

	spans = sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
