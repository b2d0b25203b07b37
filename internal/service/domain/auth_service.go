package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs-lzh/movie-list/internal/form"
	"github.com/qs-lzh/movie-list/internal/mail"
	"github.com/qs-lzh/movie-list/internal/model"
	"github.com/qs-lzh/movie-list/internal/password"
	"github.com/qs-lzh/movie-list/internal/repository"
	"github.com/qs-lzh/movie-list/internal/service"
	"github.com/qs-lzh/movie-list/internal/token"
)

const (
	ResetMailSubject = "MovieList Password Reset Request"
	resetMailBody    = "Your password reset link is %s"
)

// Outcome is the result of one form submission. User is set after a
// successful login or signup.
type Outcome struct {
	Result *form.Result
	User   *model.User
}

type AuthService interface {
	// Submit validates f and, when every field passes, performs the action
	// of its kind. The returned Outcome always carries the validation result,
	// including alongside a submission error.
	Submit(ctx context.Context, f form.Form) (*Outcome, error)
	// VerifyResetToken returns the email bound to a password reset token.
	VerifyResetToken(tokenString string) (string, error)
	CurrentUser(ctx context.Context, id uint) (*model.User, error)
}

type authService struct {
	db        *gorm.DB
	repo      repository.UserRepo
	validator *form.Validator
	hasher    *password.Hasher
	signer    *token.Signer
	mailer    mail.Sender
	baseURL   string
	logger    *zap.Logger
}

var _ AuthService = (*authService)(nil)

func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepo,
	hasher *password.Hasher,
	signer *token.Signer,
	mailer mail.Sender,
	baseURL string,
	logger *zap.Logger,
) *authService {
	return &authService{
		db:        db,
		repo:      userRepo,
		validator: form.NewValidator(userRepo, hasher),
		hasher:    hasher,
		signer:    signer,
		mailer:    mailer,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger.Named("auth_service"),
	}
}

func (s *authService) Submit(ctx context.Context, f form.Form) (*Outcome, error) {
	result, err := s.validator.Validate(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("validate %s form: %w", f.Kind(), err)
	}
	outcome := &Outcome{Result: result}
	if !result.Valid() {
		return outcome, nil
	}

	switch f := f.(type) {
	case form.LoginForm:
		user, err := s.repo.GetByEmail(ctx, f.Email)
		if err != nil {
			return outcome, fmt.Errorf("load user: %w", err)
		}
		outcome.User = user
	case form.SignupForm:
		user, err := s.signup(ctx, f)
		if err != nil {
			s.logger.Error("failed to add user", zap.String("username", f.Username), zap.Error(err))
			return outcome, fmt.Errorf("%w: %w", service.ErrAddUser, err)
		}
		outcome.User = user
	case form.ForgotForm:
		if err := s.sendResetLink(ctx, f.Email); err != nil {
			s.logger.Error("failed to send reset link", zap.Error(err))
			return outcome, fmt.Errorf("%w: %w", service.ErrSendEmail, err)
		}
	case form.ResetForm:
		if err := s.resetPassword(ctx, f); err != nil {
			s.logger.Error("failed to reset password", zap.Error(err))
			return outcome, fmt.Errorf("%w: %w", service.ErrUpdatePassword, err)
		}
	}
	return outcome, nil
}

// signup re-checks uniqueness and inserts in one transaction. The unique
// indexes remain the final word when two signups race.
func (s *authService) signup(ctx context.Context, f form.SignupForm) (*model.User, error) {
	hash, err := s.hasher.Hash(f.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     f.Username,
		Email:        f.Email,
		PasswordHash: hash,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.GetByUsername(ctx, f.Username); err == nil {
			return gorm.ErrDuplicatedKey
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if _, err := repo.GetByEmail(ctx, f.Email); err == nil {
			return gorm.ErrDuplicatedKey
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return repo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) sendResetLink(ctx context.Context, email string) error {
	tokenString, err := s.signer.IssueReset(email)
	if err != nil {
		return err
	}
	link := s.baseURL + "/reset-password/" + tokenString
	return s.mailer.Send(ctx, mail.Message{
		To:      email,
		Subject: ResetMailSubject,
		Body:    fmt.Sprintf(resetMailBody, link),
	})
}

func (s *authService) resetPassword(ctx context.Context, f form.ResetForm) error {
	hash, err := s.hasher.Hash(f.Password)
	if err != nil {
		return err
	}
	rows, err := s.repo.UpdatePasswordHash(ctx, f.Email, hash)
	if err != nil {
		return err
	}
	if rows == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *authService) VerifyResetToken(tokenString string) (string, error) {
	return s.signer.VerifyReset(tokenString)
}

func (s *authService) CurrentUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
