package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	r := gin.New()
	r.GET("/live", NewHealthHandler(nil).Live)
	r.GET("/ok", NewHealthHandler(map[string]Pinger{"postgres": ok}).Ready)
	r.GET("/down", NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": down}).Ready)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/live", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/ok", nil).Code)

	w := doJSON(r, http.MethodGet, "/down", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}
