package app

import (
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

type Repos struct {
	Examiner  repos.ExaminerRepo
	UserToken repos.UserTokenRepo

	Child     repos.ChildRepo
	Caregiver repos.CaregiverRepo

	Assessment repos.AssessmentRepo
	Response   repos.ResponseRepo

	AuditLog repos.AuditLogRepo

	JobRun repos.JobRunRepo

	ReportArtifact repos.ReportArtifactRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Examiner:       repos.NewExaminerRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		Child:          repos.NewChildRepo(db, log),
		Caregiver:      repos.NewCaregiverRepo(db, log),
		Assessment:     repos.NewAssessmentRepo(db, log),
		Response:       repos.NewResponseRepo(db, log),
		AuditLog:       repos.NewAuditLogRepo(db, log),
		JobRun:         repos.NewJobRunRepo(db, log),
		ReportArtifact: repos.NewReportArtifactRepo(db, log),
	}
}
