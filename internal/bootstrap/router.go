package bootstrap

import (
	"math/rand"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/resume-kb/achievement-log-backend/config"
	httpapi "github.com/resume-kb/achievement-log-backend/internal/api/http"
	"github.com/resume-kb/achievement-log-backend/internal/api/http/middleware"
	capturehttp "github.com/resume-kb/achievement-log-backend/internal/capture/http"
	capturerepo "github.com/resume-kb/achievement-log-backend/internal/capture/repository"
	captureservice "github.com/resume-kb/achievement-log-backend/internal/capture/service"
	"github.com/resume-kb/achievement-log-backend/internal/logentry/gitops"
	logentryhttp "github.com/resume-kb/achievement-log-backend/internal/logentry/http"
	logentryrepo "github.com/resume-kb/achievement-log-backend/internal/logentry/repository"
	logentryservice "github.com/resume-kb/achievement-log-backend/internal/logentry/service"
	"github.com/resume-kb/achievement-log-backend/internal/structuring"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	Sessions    capturerepo.SessionRepo
	DB          *pgxpool.Pool // nil disables the entry index
	GitRunner   gitops.Runner // nil uses the real git binary
	Rand        *rand.Rand
	Log         *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	cfg := dep.Config

	healthHandler := httpapi.NewHealthHandler(
		dep.ServiceName,
		cfg.App.Version,
		cfg.App.Environment,
		cfg.Git.Token != "",
		cfg.Git.BotName != "" && cfg.Git.BotEmail != "",
		dep.DB,
	)
	healthHandler.RegisterRoutes(r)

	var index *logentryrepo.EntryIndexRepo
	if dep.DB != nil {
		index = logentryrepo.NewEntryIndexRepo(dep.DB)
	}

	gitClient := gitops.NewClient(cfg.Git.RepoDir)
	if dep.GitRunner != nil {
		gitClient = gitops.NewClientWithRunner(cfg.Git.RepoDir, dep.GitRunner)
	}
	logSvc := logentryservice.NewService(cfg.Git, gitClient, index, dep.Log)

	// Original wire contract lives at the root path, not under /api/v1.
	logentryhttp.NewHandler(logSvc, dep.Log).Register(r)

	structurer := structuring.NewStructurer(structuring.NewClient(cfg.LLM), dep.Log)
	captureSvc := captureservice.NewService(dep.Sessions, structurer, logSvc, dep.Rand, dep.Log)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID(dep.Log))

	captureGroup := api.Group("/capture")
	capturehttp.NewHandler(captureSvc).Register(captureGroup)

	return r
}
