package repos

import (
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos/assessment"
	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos/audit"
	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos/child"
	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos/jobs"
	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos/report"
	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos/user"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

type ExaminerRepo = user.ExaminerRepo
type UserTokenRepo = user.UserTokenRepo

type ChildRepo = child.ChildRepo
type CaregiverRepo = child.CaregiverRepo

type AssessmentRepo = assessment.AssessmentRepo
type ResponseRepo = assessment.ResponseRepo

type AuditLogRepo = audit.AuditLogRepo

type JobRunRepo = jobs.JobRunRepo

type ReportArtifactRepo = report.ReportArtifactRepo

func NewExaminerRepo(db *gorm.DB, baseLog *logger.Logger) ExaminerRepo {
	return user.NewExaminerRepo(db, baseLog)
}
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return user.NewUserTokenRepo(db, baseLog)
}

func NewChildRepo(db *gorm.DB, baseLog *logger.Logger) ChildRepo {
	return child.NewChildRepo(db, baseLog)
}
func NewCaregiverRepo(db *gorm.DB, baseLog *logger.Logger) CaregiverRepo {
	return child.NewCaregiverRepo(db, baseLog)
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return assessment.NewAssessmentRepo(db, baseLog)
}
func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return assessment.NewResponseRepo(db, baseLog)
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return audit.NewAuditLogRepo(db, baseLog)
}

func NewJobRunRepo(db *gorm.DB, baseLog *logger.Logger) JobRunRepo {
	return jobs.NewJobRunRepo(db, baseLog)
}

func NewReportArtifactRepo(db *gorm.DB, baseLog *logger.Logger) ReportArtifactRepo {
	return report.NewReportArtifactRepo(db, baseLog)
}
