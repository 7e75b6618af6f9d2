package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdine/restaurant-service/pkg/tracing"
)

func TestTracing_RequestPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config := tracing.DefaultConfig("test-service")
	config.Enabled = false
	tp, err := tracing.Initialize(context.Background(), config)
	require.NoError(t, err)

	router := gin.New()
	router.Use(Tracing(tp))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}
