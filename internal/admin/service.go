package admin

import (
	"context"
	"errors"
	"io"

	"github.com/bienestar-institucional/backend/internal/common/constants"
	commoncrypto "github.com/bienestar-institucional/backend/internal/common/crypto"
	"github.com/bienestar-institucional/backend/internal/common/db"
	commonerrors "github.com/bienestar-institucional/backend/internal/common/errors"
	"github.com/bienestar-institucional/backend/internal/common/logger"
	"github.com/bienestar-institucional/backend/internal/observability/metrics"
	"github.com/bienestar-institucional/backend/internal/user/domain"
	"github.com/bienestar-institucional/backend/internal/user/repository"
)

type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomePasswordReset Outcome = "password_reset"
	OutcomeDeclined      Outcome = "declined"
	OutcomeEmptyPassword Outcome = "empty_password"
)

// Service inspects the admin account, creating it when missing or resetting
// its password when the operator confirms.
type Service struct {
	store    repository.Store
	hasher   commoncrypto.PasswordHasher
	prompter Prompter
	report   *report
	log      *logger.Logger
	ids      commoncrypto.IDGenerator
}

func NewService(
	store repository.Store,
	hasher commoncrypto.PasswordHasher,
	prompter Prompter,
	out io.Writer,
	log *logger.Logger,
	ids commoncrypto.IDGenerator,
) *Service {
	return &Service{
		store:    store,
		hasher:   hasher,
		prompter: prompter,
		report:   &report{out: out},
		log:      log,
		ids:      ids,
	}
}

// Run performs one lookup-or-create pass. Lookup and create share a session;
// a password reset is written in a fresh session opened after the prompts.
// Nothing is written unless the run ends in OutcomeCreated or
// OutcomePasswordReset.
func (s *Service) Run(ctx context.Context) (Outcome, error) {
	if s.ids != nil {
		if runID, err := s.ids.NewID(); err == nil {
			ctx = context.WithValue(ctx, constants.TraceIDKey, runID)
		}
	}

	outcome, err := s.run(ctx)
	if err != nil {
		metrics.AdminCredentialOperations.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"action":   "admin_credentials",
			"username": Username,
		}).Errorf("admin credential run failed: %v", err)
		return "", err
	}

	metrics.AdminCredentialOperations.WithLabelValues(string(outcome)).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"action":   "admin_credentials",
		"username": Username,
		"outcome":  string(outcome),
	}).Info("admin credential run finished")

	s.report.closing()
	return outcome, nil
}

func (s *Service) run(ctx context.Context) (outcome Outcome, err error) {
	session, err := s.store.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if rbErr := session.Rollback(ctx); rbErr != nil && err == nil {
			err = rbErr
		}
	}()

	user, err := session.FindByUsername(ctx, Username)
	switch {
	case errors.Is(err, commonerrors.ErrUserNotFound):
		return s.create(ctx, session)
	case err != nil:
		return "", err
	}

	// The lookup session must not stay open across the prompts: on SQLite a
	// read transaction that later upgrades to a write fails with
	// SQLITE_BUSY_SNAPSHOT if anyone else wrote in between.
	if err := session.Rollback(ctx); err != nil {
		return "", err
	}

	return s.reset(ctx, user)
}

func (s *Service) create(ctx context.Context, session repository.Session) (Outcome, error) {
	s.report.notFound()

	user := NewAdmin()
	if err := user.SetPassword(s.hasher, DefaultPassword); err != nil {
		return "", err
	}
	if err := user.Validate(); err != nil {
		return "", err
	}
	if err := db.Finish(ctx, session, session.Create(ctx, &user)); err != nil {
		return "", err
	}

	s.report.created()
	return OutcomeCreated, nil
}

func (s *Service) reset(ctx context.Context, user domain.User) (Outcome, error) {
	if !user.IsAdmin() {
		s.log.WithFields(ctx, logger.Fields{
			"action":   "admin_credentials",
			"username": user.Username,
			"role":     user.Role,
		}).Warnf("account %q has role %q instead of %q", user.Username, user.Role, domain.RoleAdmin)
	}

	s.report.found(user)

	confirmed, err := s.prompter.Confirm("\n¿Deseas restablecer la contraseña? (s/n): ")
	if err != nil {
		return "", err
	}
	if !confirmed {
		s.report.declined()
		return OutcomeDeclined, nil
	}

	password, err := s.prompter.Secret("Ingresa la nueva contraseña: ")
	if err != nil {
		return "", err
	}

	if err := user.SetPassword(s.hasher, password); err != nil {
		if errors.Is(err, commonerrors.ErrEmptyPassword) {
			s.report.emptyPassword()
			return OutcomeEmptyPassword, nil
		}
		return "", err
	}

	// A row deleted while the operator was typing surfaces as
	// ErrUserNotFound from UpdatePassword.
	session, err := s.store.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = session.Rollback(ctx) }()

	if err := db.Finish(ctx, session, session.UpdatePassword(ctx, &user)); err != nil {
		return "", err
	}

	s.report.passwordReset(password)
	return OutcomePasswordReset, nil
}
