package app

import (
	"github.com/gin-gonic/gin"

	"github.com/wakeupmh/sensory-profile-backend/internal/http"
	httpH "github.com/wakeupmh/sensory-profile-backend/internal/http/handlers"
	httpMW "github.com/wakeupmh/sensory-profile-backend/internal/http/middleware"
	"github.com/wakeupmh/sensory-profile-backend/internal/observability"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	Examiner   *httpH.ExaminerHandler
	Child      *httpH.ChildHandler
	Assessment *httpH.AssessmentHandler
	Report     *httpH.ReportHandler
	Job        *httpH.JobHandler
	Realtime   *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(serviceset.Auth),
		Examiner:   httpH.NewExaminerHandler(serviceset.Examiner),
		Child:      httpH.NewChildHandler(serviceset.Child),
		Assessment: httpH.NewAssessmentHandler(serviceset.Assessment),
		Report:     httpH.NewReportHandler(serviceset.Report),
		Job:        httpH.NewJobHandler(serviceset.JobService),
		Realtime:   httpH.NewRealtimeHandler(log, sseHub),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, serviceset.Auth),
	}
}

func wireRouter(log *logger.Logger, metrics *observability.Metrics, handlerset Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:     log,
		Metrics: metrics,

		AuthMiddleware: middleware.Auth,

		HealthHandler:     handlerset.Health,
		AuthHandler:       handlerset.Auth,
		ExaminerHandler:   handlerset.Examiner,
		ChildHandler:      handlerset.Child,
		AssessmentHandler: handlerset.Assessment,
		ReportHandler:     handlerset.Report,
		JobHandler:        handlerset.Job,
		RealtimeHandler:   handlerset.Realtime,
	})
}
