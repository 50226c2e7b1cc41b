package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/wakeupmh/sensory-profile-backend/internal/http/handlers"
	httpMW "github.com/wakeupmh/sensory-profile-backend/internal/http/middleware"
	"github.com/wakeupmh/sensory-profile-backend/internal/observability"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	AuthHandler       *httpH.AuthHandler
	ExaminerHandler   *httpH.ExaminerHandler
	ChildHandler      *httpH.ChildHandler
	AssessmentHandler *httpH.AssessmentHandler
	ReportHandler     *httpH.ReportHandler
	JobHandler        *httpH.JobHandler
	RealtimeHandler   *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.CORS())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(otelgin.Middleware("sensory-profile-backend"))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Examiner profile
		if cfg.ExaminerHandler != nil {
			protected.GET("/me", cfg.ExaminerHandler.GetMe)
			protected.PUT("/me", cfg.ExaminerHandler.UpdateProfile)
			protected.POST("/me/password", cfg.ExaminerHandler.ChangePassword)
		}

		// Children and caregivers
		if cfg.ChildHandler != nil {
			protected.POST("/children", cfg.ChildHandler.CreateChild)
			protected.GET("/children", cfg.ChildHandler.ListChildren)
			protected.GET("/children/:id", cfg.ChildHandler.GetChild)
			protected.PUT("/children/:id", cfg.ChildHandler.UpdateChild)
			protected.DELETE("/children/:id", cfg.ChildHandler.DeleteChild)
			protected.POST("/children/:id/caregivers", cfg.ChildHandler.AddCaregiver)
			protected.PUT("/children/:id/caregivers/:caregiverId", cfg.ChildHandler.UpdateCaregiver)
			protected.DELETE("/children/:id/caregivers/:caregiverId", cfg.ChildHandler.DeleteCaregiver)
		}

		// Assessments
		if cfg.AssessmentHandler != nil {
			protected.POST("/children/:id/assessments", cfg.AssessmentHandler.CreateAssessment)
			protected.GET("/children/:id/assessments", cfg.AssessmentHandler.ListAssessments)
			protected.GET("/assessments/:id", cfg.AssessmentHandler.GetAssessment)
			protected.PUT("/assessments/:id/responses", cfg.AssessmentHandler.ReplaceResponses)
			protected.POST("/assessments/:id/score", cfg.AssessmentHandler.Score)
			protected.POST("/assessments/:id/validate", cfg.AssessmentHandler.Validate)
			protected.GET("/assessments/:id/results", cfg.AssessmentHandler.Results)
			protected.DELETE("/assessments/:id", cfg.AssessmentHandler.DeleteAssessment)
		}

		// Reports
		if cfg.ReportHandler != nil {
			protected.POST("/assessments/:id/reports", cfg.ReportHandler.RequestReport)
			protected.GET("/assessments/:id/reports", cfg.ReportHandler.ListReports)
		}

		// Jobs
		if cfg.JobHandler != nil {
			protected.GET("/jobs/:id", cfg.JobHandler.GetJob)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}
	}

	return r
}
