package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wakeupmh/sensory-profile-backend/internal/data/db"
	"github.com/wakeupmh/sensory-profile-backend/internal/data/repos"
	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/domain/audit"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/ctxutil"
	errs "github.com/wakeupmh/sensory-profile-backend/internal/pkg/errors"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// JWTClaims is the access token payload. Subject carries the examiner id.
type JWTClaims struct {
	jwt.RegisteredClaims
}

// AuthService owns examiner accounts and their sessions. Access tokens
// are short-lived JWTs; each login writes one user_token row pairing the
// access token with a rotating refresh token, and logout deletes it, so
// a token row missing at parse time means the session was revoked.
type AuthService interface {
	Register(ctx context.Context, examiner *types.Examiner) error
	Login(ctx context.Context, email, password string) (string, string, error)
	Refresh(ctx context.Context) (string, string, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	examinerRepo  repos.ExaminerRepo
	userTokenRepo repos.UserTokenRepo
	auditService  AuditService
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	examinerRepo repos.ExaminerRepo,
	userTokenRepo repos.UserTokenRepo,
	auditService AuditService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		examinerRepo:  examinerRepo,
		userTokenRepo: userTokenRepo,
		auditService:  auditService,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Register creates the examiner account. The caller passes the plain
// password in examiner.Password; it is replaced by the bcrypt hash
// before the row is written.
func (as *authService) Register(ctx context.Context, examiner *types.Examiner) error {
	if examiner == nil {
		return fmt.Errorf("%w: missing examiner", errs.ErrInvalidArgument)
	}
	examiner.Email = strings.ToLower(strings.TrimSpace(examiner.Email))
	examiner.FullName = strings.TrimSpace(examiner.FullName)
	examiner.RegistrationID = strings.TrimSpace(examiner.RegistrationID)

	if !emailRe.MatchString(examiner.Email) {
		return fmt.Errorf("%w: invalid email", errs.ErrInvalidArgument)
	}
	if len(examiner.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", errs.ErrInvalidArgument)
	}
	if examiner.FullName == "" {
		return fmt.Errorf("%w: full name is required", errs.ErrInvalidArgument)
	}

	exists, err := as.examinerRepo.EmailExists(ctx, nil, examiner.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: email already registered", errs.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(examiner.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	examiner.Password = string(hash)

	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		examiner.ID = uuid.New()
		if _, err := as.examinerRepo.Create(ctx, tx, []*types.Examiner{examiner}); err != nil {
			// The EmailExists pre-check races with concurrent registers;
			// the unique index is the authority.
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("%w: email already registered", errs.ErrConflict)
			}
			return fmt.Errorf("failed to create examiner: %w", err)
		}
		_ = as.auditService.Record(ctx, tx, examiner.ID, audit.ActionExaminerRegistered, "examiner", examiner.ID, nil)
		return nil
	})
}

// Login verifies credentials and issues a fresh token pair. Any token
// rows left over from earlier sessions are dropped first, so an
// examiner holds at most one active session.
func (as *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", fmt.Errorf("%w: email and password are required", errs.ErrInvalidArgument)
	}

	examiners, err := as.examinerRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", fmt.Errorf("failed to look up examiner: %w", err)
	}
	if len(examiners) == 0 {
		return "", "", fmt.Errorf("%w: invalid email or password", errs.ErrUnauthorized)
	}
	examiner := examiners[0]
	if err := bcrypt.CompareHashAndPassword([]byte(examiner.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("%w: invalid email or password", errs.ErrUnauthorized)
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteByExaminerIDs(ctx, tx, []uuid.UUID{examiner.ID}); err != nil {
			return fmt.Errorf("failed to clear previous sessions: %w", err)
		}
		tok, err := as.generateAccessToken(examiner)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := &types.UserToken{
			ID:           uuid.New(),
			ExaminerID:   examiner.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
			return fmt.Errorf("failed to create user token: %w", err)
		}
		_ = as.auditService.Record(ctx, tx, examiner.ID, audit.ActionExaminerLogin, "examiner", examiner.ID, nil)
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Refresh rotates the session: the presented refresh token is spent and
// a new access/refresh pair replaces it atomically.
func (as *authService) Refresh(ctx context.Context) (string, string, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return "", "", fmt.Errorf("%w: no refresh token in request", errs.ErrUnauthorized)
	}

	var accessToken, refreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
		if err != nil {
			return fmt.Errorf("failed to fetch refresh token: %w", err)
		}
		if len(found) == 0 {
			return fmt.Errorf("%w: unknown refresh token", errs.ErrUnauthorized)
		}
		existing := found[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
				as.log.Warn("Failed to delete expired token", "error", err)
			}
			return fmt.Errorf("%w: refresh token expired", errs.ErrUnauthorized)
		}
		examiners, err := as.examinerRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.ExaminerID})
		if err != nil {
			return fmt.Errorf("failed to load examiner for refresh: %w", err)
		}
		if len(examiners) == 0 {
			return fmt.Errorf("%w: examiner no longer exists", errs.ErrUnauthorized)
		}
		examiner := examiners[0]
		tok, err := as.generateAccessToken(examiner)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		replacement := &types.UserToken{
			ID:           uuid.New(),
			ExaminerID:   examiner.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{replacement}); err != nil {
			return fmt.Errorf("failed to create replacement token: %w", err)
		}
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("failed to remove spent refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Logout drops the session's token row. Logging out an already
// logged-out session is a no-op.
func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return fmt.Errorf("%w: no session token in request", errs.ErrUnauthorized)
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
		if err != nil {
			return fmt.Errorf("failed to look up session token: %w", err)
		}
		if len(found) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, 0, len(found))
		for _, t := range found {
			ids = append(ids, t.ID)
		}
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete session token: %w", err)
		}
		return nil
	})
}

func (as *authService) generateAccessToken(examiner *types.Examiner) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   examiner.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken parses the access token, confirms its session row
// still exists and attaches the request identity to the context. An
// empty token returns the context unchanged; the auth middleware decides
// whether anonymous requests may pass.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("%w: invalid or expired token", errs.ErrUnauthorized)
	}
	examinerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid examiner id in token", errs.ErrUnauthorized)
	}

	found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("failed to fetch session token: %w", err)
	}
	if len(found) == 0 {
		return ctx, fmt.Errorf("%w: session revoked", errs.ErrUnauthorized)
	}
	row := found[0]

	rd := &ctxutil.RequestData{
		ExaminerID:   examinerID,
		TokenID:      row.ID,
		TokenString:  tokenString,
		RefreshToken: row.RefreshToken,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
