package apiutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aidin1998/itemsvc/pkg/metrics"
	"github.com/Aidin1998/itemsvc/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestTraceIDMiddlewareGeneratesID(t *testing.T) {
	r := newTestEngine()
	r.Use(TraceIDMiddleware())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = GetTraceID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	got := w.Header().Get(TraceIDHeader)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
	assert.Equal(t, got, seen)
}

func TestTraceIDMiddlewareKeepsCallerID(t *testing.T) {
	r := newTestEngine()
	r.Use(TraceIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(TraceIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(TraceIDHeader))
}

func TestWriteErrorResponse(t *testing.T) {
	r := newTestEngine()
	r.POST("/x", func(c *gin.Context) {
		WriteErrorResponse(c, http.StatusBadRequest, validation.FieldError{Field: "price", Message: "bad"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":[{"field":"price","message":"bad"}]}`, w.Body.String())
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry(), nil)
	r := newTestEngine()
	r.Use(MetricsMiddleware(m))
	r.GET("/items/:id", func(c *gin.Context) { WriteEmptyStatus(c, http.StatusNotFound) })

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/items/:id", "GET", "404")))
}
