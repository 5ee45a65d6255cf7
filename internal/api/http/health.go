package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthResponse struct {
	Status                string    `json:"status"`
	Timestamp             time.Time `json:"timestamp"`
	Service               string    `json:"service"`
	Version               string    `json:"version"`
	Environment           string    `json:"environment"`
	GithubTokenConfigured bool      `json:"github_token_configured"`
	GitIdentityConfigured bool      `json:"git_identity_configured"`
	DB                    string    `json:"db,omitempty"`
}

type HealthHandler struct {
	serviceName           string
	version               string
	environment           string
	githubTokenConfigured bool
	gitIdentityConfigured bool
	db                    *pgxpool.Pool
}

func NewHealthHandler(serviceName, version, environment string, githubTokenConfigured, gitIdentityConfigured bool, db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{
		serviceName:           serviceName,
		version:               version,
		environment:           environment,
		githubTokenConfigured: githubTokenConfigured,
		gitIdentityConfigured: gitIdentityConfigured,
		db:                    db,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "disabled"
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.db.Ping(pingCtx); err != nil {
			dbStatus = "down"
		} else {
			dbStatus = "up"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:                "healthy",
		Timestamp:             time.Now().UTC(),
		Service:               h.serviceName,
		Version:               h.version,
		Environment:           h.environment,
		GithubTokenConfigured: h.githubTokenConfigured,
		GitIdentityConfigured: h.gitIdentityConfigured,
		DB:                    dbStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
