package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/cache"
	"github.com/wakeupmh/sensory-profile-backend/internal/data/db"
	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/ctxutil"
	errs "github.com/wakeupmh/sensory-profile-backend/internal/pkg/errors"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/platform/envutil"
	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
	"github.com/wakeupmh/sensory-profile-backend/internal/services"
)

type SeedFile struct {
	Examiners []SeedExaminer `yaml:"examiners"`
}

type SeedExaminer struct {
	Email          string      `yaml:"email"`
	FullName       string      `yaml:"full_name"`
	RegistrationID string      `yaml:"registration_id"`
	Password       string      `yaml:"password"`
	Children       []SeedChild `yaml:"children"`
}

type SeedChild struct {
	FullName    string           `yaml:"full_name"`
	BirthDate   string           `yaml:"birth_date"`
	Gender      string           `yaml:"gender"`
	Notes       string           `yaml:"notes"`
	Caregivers  []SeedCaregiver  `yaml:"caregivers"`
	Assessments []SeedAssessment `yaml:"assessments"`
}

type SeedCaregiver struct {
	FullName     string `yaml:"full_name"`
	Relationship string `yaml:"relationship"`
	Phone        string `yaml:"phone"`
	Email        string `yaml:"email"`
}

type SeedAssessment struct {
	AssessmentDate string `yaml:"assessment_date"`
	// DefaultResponse fills every item not listed explicitly, so a
	// fixture can describe a complete assessment in one line.
	DefaultResponse string         `yaml:"default_response"`
	Responses       []SeedResponse `yaml:"responses"`
	Score           bool           `yaml:"score"`
}

type SeedResponse struct {
	ItemID   int    `yaml:"item_id"`
	Response string `yaml:"response"`
}

func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load examiners, children and assessments from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read fixture: %w", err)
			}
			fixture, err := parseSeedFile(raw)
			if err != nil {
				return err
			}

			log, gdb, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := db.AutoMigrateAll(gdb); err != nil {
				return fmt.Errorf("automigrate: %w", err)
			}

			summary, err := runSeed(cmd.Context(), log, gdb, fixture)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d examiners, %d children, %d assessments (%d scored)\n",
				summary.Examiners, summary.Children, summary.Assessments, summary.Scored)
			return nil
		},
	}
}

func parseSeedFile(raw []byte) (*SeedFile, error) {
	var fixture SeedFile
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if len(fixture.Examiners) == 0 {
		return nil, fmt.Errorf("fixture has no examiners")
	}
	for i, ex := range fixture.Examiners {
		if strings.TrimSpace(ex.Email) == "" {
			return nil, fmt.Errorf("examiner %d: email is required", i)
		}
		if strings.TrimSpace(ex.Password) == "" {
			return nil, fmt.Errorf("examiner %q: password is required", ex.Email)
		}
		for _, c := range ex.Children {
			if _, err := parseSeedDate(c.BirthDate); err != nil {
				return nil, fmt.Errorf("child %q: %w", c.FullName, err)
			}
			for _, sa := range c.Assessments {
				if _, err := parseSeedDate(sa.AssessmentDate); err != nil {
					return nil, fmt.Errorf("child %q assessment: %w", c.FullName, err)
				}
				if _, err := sa.responseInputs(); err != nil {
					return nil, fmt.Errorf("child %q assessment: %w", c.FullName, err)
				}
			}
		}
	}
	return &fixture, nil
}

// responseInputs expands the fixture shorthand into the full response
// set: explicit rows win, default_response fills the remaining items.
func (sa SeedAssessment) responseInputs() ([]services.ResponseInput, error) {
	byItem := make(map[int]string, scoring.MaxItemID)
	for _, r := range sa.Responses {
		if r.ItemID < scoring.MinItemID || r.ItemID > scoring.MaxItemID {
			return nil, fmt.Errorf("item id %d out of range", r.ItemID)
		}
		if _, dup := byItem[r.ItemID]; dup {
			return nil, fmt.Errorf("duplicate item id %d", r.ItemID)
		}
		byItem[r.ItemID] = r.Response
	}
	if def := strings.TrimSpace(sa.DefaultResponse); def != "" {
		for id := scoring.MinItemID; id <= scoring.MaxItemID; id++ {
			if _, ok := byItem[id]; !ok {
				byItem[id] = def
			}
		}
	}
	inputs := make([]services.ResponseInput, 0, len(byItem))
	for id := scoring.MinItemID; id <= scoring.MaxItemID; id++ {
		if resp, ok := byItem[id]; ok {
			inputs = append(inputs, services.ResponseInput{ItemID: id, Response: resp})
		}
	}
	return inputs, nil
}

func parseSeedDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return t, nil
}

type seedSummary struct {
	Examiners   int
	Children    int
	Assessments int
	Scored      int
}

// runSeed loads the fixture through the regular services so seeded rows
// pass the same validation as API writes. Existing examiner emails are
// reused rather than duplicated.
func runSeed(ctx context.Context, log *logger.Logger, gdb *gorm.DB, fixture *SeedFile) (*seedSummary, error) {
	examinerRepo := repos.NewExaminerRepo(gdb, log)
	userTokenRepo := repos.NewUserTokenRepo(gdb, log)
	childRepo := repos.NewChildRepo(gdb, log)
	caregiverRepo := repos.NewCaregiverRepo(gdb, log)
	assessmentRepo := repos.NewAssessmentRepo(gdb, log)
	responseRepo := repos.NewResponseRepo(gdb, log)
	artifactRepo := repos.NewReportArtifactRepo(gdb, log)
	auditRepo := repos.NewAuditLogRepo(gdb, log)

	auditService := services.NewAuditService(gdb, log, auditRepo)
	authService := services.NewAuthService(
		gdb, log,
		examinerRepo,
		userTokenRepo,
		auditService,
		envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret"),
		time.Hour,
		24*time.Hour,
	)
	childService := services.NewChildService(gdb, log, childRepo, caregiverRepo, auditService)

	var engineOpts []scoring.Option
	if envutil.GetEnvAsBool("SCORE_ITEM86_QUADRANT", false) {
		engineOpts = append(engineOpts, scoring.WithItem86Quadrant(true))
	}
	assessmentService := services.NewAssessmentService(
		gdb, log,
		assessmentRepo,
		responseRepo,
		childRepo,
		caregiverRepo,
		artifactRepo,
		auditService,
		cache.NewScoreCache(nil, log),
		engineOpts...,
	)

	summary := &seedSummary{}
	for _, ex := range fixture.Examiners {
		examiner := types.Examiner{
			Email:          ex.Email,
			FullName:       ex.FullName,
			RegistrationID: ex.RegistrationID,
			Password:       ex.Password,
		}
		err := authService.Register(ctx, &examiner)
		switch {
		case err == nil:
			summary.Examiners++
		case errors.Is(err, errs.ErrConflict):
			existing, lookupErr := examinerRepo.GetByEmails(ctx, nil, []string{strings.ToLower(strings.TrimSpace(ex.Email))})
			if lookupErr != nil || len(existing) == 0 {
				return nil, fmt.Errorf("examiner %q exists but could not be loaded: %v", ex.Email, lookupErr)
			}
			examiner = *existing[0]
			log.Info("Examiner already present, reusing", "email", examiner.Email)
		default:
			return nil, fmt.Errorf("register examiner %q: %w", ex.Email, err)
		}

		exCtx := ctxutil.WithRequestData(ctx, &ctxutil.RequestData{ExaminerID: examiner.ID})
		for _, sc := range ex.Children {
			birthDate, err := parseSeedDate(sc.BirthDate)
			if err != nil {
				return nil, err
			}
			child := types.Child{
				FullName:  sc.FullName,
				BirthDate: birthDate,
				Gender:    sc.Gender,
				Notes:     sc.Notes,
			}
			caregivers := make([]*types.Caregiver, 0, len(sc.Caregivers))
			for _, cg := range sc.Caregivers {
				caregivers = append(caregivers, &types.Caregiver{
					FullName:     cg.FullName,
					Relationship: cg.Relationship,
					Phone:        cg.Phone,
					Email:        cg.Email,
				})
			}
			if err := childService.Create(exCtx, &child, caregivers); err != nil {
				return nil, fmt.Errorf("create child %q: %w", sc.FullName, err)
			}
			summary.Children++

			for _, sa := range sc.Assessments {
				assessmentDate, err := parseSeedDate(sa.AssessmentDate)
				if err != nil {
					return nil, err
				}
				inputs, err := sa.responseInputs()
				if err != nil {
					return nil, err
				}
				created, err := assessmentService.Create(exCtx, child.ID, nil, assessmentDate, inputs)
				if err != nil {
					return nil, fmt.Errorf("create assessment for child %q: %w", sc.FullName, err)
				}
				summary.Assessments++

				if sa.Score {
					if _, _, err := assessmentService.Score(exCtx, created.ID); err != nil {
						return nil, fmt.Errorf("score assessment %s: %w", created.ID, err)
					}
					summary.Scored++
				}
			}
		}
	}
	return summary, nil
}
