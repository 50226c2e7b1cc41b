package domain

import (
	"github.com/wakeupmh/sensory-profile-backend/internal/domain/assessment"
	"github.com/wakeupmh/sensory-profile-backend/internal/domain/audit"
	"github.com/wakeupmh/sensory-profile-backend/internal/domain/child"
	"github.com/wakeupmh/sensory-profile-backend/internal/domain/jobs"
	"github.com/wakeupmh/sensory-profile-backend/internal/domain/report"
	"github.com/wakeupmh/sensory-profile-backend/internal/domain/user"
)

type Examiner = user.Examiner
type UserToken = user.UserToken

type Child = child.Child
type Caregiver = child.Caregiver

type Assessment = assessment.Assessment
type AssessmentResponse = assessment.Response

type AuditLog = audit.Log

type JobRun = jobs.JobRun

type ReportArtifact = report.Artifact

const (
	AssessmentStatusDraft     = assessment.StatusDraft
	AssessmentStatusCompleted = assessment.StatusCompleted
	AssessmentStatusValidated = assessment.StatusValidated

	JobStatusQueued    = jobs.StatusQueued
	JobStatusRunning   = jobs.StatusRunning
	JobStatusSucceeded = jobs.StatusSucceeded
	JobStatusFailed    = jobs.StatusFailed

	JobTypeReportGenerate   = jobs.TypeReportGenerate
	JobTypeConsistencySweep = jobs.TypeConsistencySweep

	ReportKindChartPNG    = report.KindChartPNG
	ReportKindSummaryJSON = report.KindSummaryJSON
)
