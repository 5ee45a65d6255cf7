package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewHealthHandler("achievement-log-backend", "1.0.0", "test", true, true, nil)
	handler.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))

	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "achievement-log-backend", response.Service)
	assert.Equal(t, "1.0.0", response.Version)
	assert.True(t, response.GithubTokenConfigured)
	assert.True(t, response.GitIdentityConfigured)
	assert.Equal(t, "disabled", response.DB)
}

func TestHealthzAlias(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewHealthHandler("achievement-log-backend", "1.0.0", "test", false, false, nil)
	handler.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.False(t, response.GithubTokenConfigured)
}
