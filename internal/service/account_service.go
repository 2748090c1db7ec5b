package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"barter-auth/internal/domain"
	"barter-auth/internal/repository"
)

// VerificationMailer despacha el correo de verificacion (best-effort).
type VerificationMailer interface {
	SendVerificationEmail(ctx context.Context, msg domain.VerificationEmail) error
}

// Notifier registra notificaciones para el usuario (best-effort).
type Notifier interface {
	RecordNotification(ctx context.Context, n domain.Notification) error
}

// TokenIssuer es lo que AccountService necesita de TokenService.
type TokenIssuer interface {
	IssueSessionToken(account domain.Account) (string, error)
	ParseVerificationToken(token string) (string, error)
}

// AccountService coordina registro, login y verificacion de email.
type AccountService struct {
	logger   *zap.Logger
	accounts repository.AccountRepository
	profiles repository.ProfileRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	mailer   VerificationMailer
	notifier Notifier
	appName  string
}

func NewAccountService(
	logger *zap.Logger,
	accounts repository.AccountRepository,
	profiles repository.ProfileRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	mailer VerificationMailer,
	notifier Notifier,
	appName string,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultBcryptCost)
	}
	return &AccountService{
		logger:   logger,
		accounts: accounts,
		profiles: profiles,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		notifier: notifier,
		appName:  appName,
	}
}

type RegisterInput struct {
	LoginName  string
	Email      string
	Password   string
	FirstName  string
	SecondName string
}

type LoginResult struct {
	Account domain.Account
	Token   string
}

var errNotConfigured = errors.New("account service not configured")

// Register crea la cuenta y su perfil, y dispara el email de verificacion y las notificaciones de bienvenida.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (domain.Account, error) {
	if s.accounts == nil {
		return domain.Account{}, errNotConfigured
	}

	email := normalizeEmail(input.Email)
	loginName := strings.TrimSpace(input.LoginName)

	// Chequeo rapido para fijar la precedencia email > login name; la unicidad real la garantizan los constraints.
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return domain.Account{}, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.Account{}, err
	}
	if _, err := s.accounts.GetByLoginName(ctx, loginName); err == nil {
		return domain.Account{}, ErrDuplicateLoginName
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.Account{}, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.Account{}, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:              uuid.NewString(),
		LoginName:       loginName,
		Email:           email,
		PasswordHash:    passwordHash,
		IsEmailVerified: false,
		CreatedAt:       now,
	}
	profile := domain.ProfileDetails{
		ID:         uuid.NewString(),
		AccountID:  account.ID,
		FirstName:  strings.TrimSpace(input.FirstName),
		SecondName: strings.TrimSpace(input.SecondName),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.accounts.CreateWithProfile(ctx, account, profile); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return domain.Account{}, ErrDuplicateEmail
		case errors.Is(err, repository.ErrLoginNameTaken):
			return domain.Account{}, ErrDuplicateLoginName
		default:
			return domain.Account{}, err
		}
	}

	s.sendVerification(ctx, domain.VerificationEmail{
		AccountID:  account.ID,
		Email:      account.Email,
		FirstName:  profile.FirstName,
		SecondName: profile.SecondName,
	})
	s.notify(ctx, account.ID,
		fmt.Sprintf("Welcome to %s! We suggest that you complete your profile before applying to jobs.", s.appName), "/me")
	s.notify(ctx, account.ID, "Congrats you just got 15 points as a welcome bonus", "/")

	return account, nil
}

// Login resuelve el identificador (email o login name), verifica la password y aplica el gate de verificacion.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	if s.accounts == nil {
		return LoginResult{}, errNotConfigured
	}

	identifier = strings.TrimSpace(identifier)
	account, err := s.accounts.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if strings.Contains(identifier, "@") {
				return LoginResult{}, ErrEmailNotFound
			}
			return LoginResult{}, ErrUsernameNotFound
		}
		return LoginResult{}, err
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		return LoginResult{}, ErrIncorrectPassword
	}

	if !account.IsEmailVerified {
		msg := domain.VerificationEmail{AccountID: account.ID, Email: account.Email}
		if s.profiles != nil {
			profile, err := s.profiles.GetByAccountID(ctx, account.ID)
			if err != nil {
				s.logger.Warn("profile lookup for verification reminder failed",
					zap.Error(err), zap.String("account_id", account.ID))
			} else {
				msg.FirstName = profile.FirstName
				msg.SecondName = profile.SecondName
			}
		}
		s.sendVerification(ctx, msg)
		return LoginResult{}, &EmailNotVerifiedError{Email: account.Email}
	}

	if s.tokens == nil {
		return LoginResult{}, fmt.Errorf("%w: token issuer not configured", ErrSigning)
	}
	token, err := s.tokens.IssueSessionToken(account)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Account: account, Token: token}, nil
}

// VerifyEmail consume un token de verificacion y marca la cuenta como verificada.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (domain.Account, error) {
	if s.accounts == nil || s.tokens == nil {
		return domain.Account{}, errNotConfigured
	}

	accountID, err := s.tokens.ParseVerificationToken(token)
	if err != nil {
		return domain.Account{}, err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	if account.IsEmailVerified {
		return account, nil
	}

	if err := s.accounts.MarkEmailVerified(ctx, account.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	account.IsEmailVerified = true
	return account, nil
}

// SaveProfileDetails crea o actualiza el perfil de la cuenta.
func (s *AccountService) SaveProfileDetails(ctx context.Context, accountID string, details domain.ProfileDetails) (domain.ProfileDetails, error) {
	if s.profiles == nil {
		return domain.ProfileDetails{}, errNotConfigured
	}
	now := time.Now().UTC()
	details.ID = uuid.NewString()
	details.AccountID = accountID
	details.FirstName = strings.TrimSpace(details.FirstName)
	details.SecondName = strings.TrimSpace(details.SecondName)
	details.CreatedAt = now
	details.UpdatedAt = now
	return s.profiles.Upsert(ctx, details)
}

func (s *AccountService) sendVerification(ctx context.Context, msg domain.VerificationEmail) {
	if s.mailer == nil {
		s.logger.Warn("verification mailer not configured", zap.String("account_id", msg.AccountID))
		return
	}
	if err := s.mailer.SendVerificationEmail(ctx, msg); err != nil {
		s.logger.Warn("dispatch verification email failed",
			zap.Error(err), zap.String("account_id", msg.AccountID))
	}
}

func (s *AccountService) notify(ctx context.Context, accountID, message, link string) {
	if s.notifier == nil {
		return
	}
	n := domain.Notification{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Message:   message,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifier.RecordNotification(ctx, n); err != nil {
		s.logger.Warn("record notification failed",
			zap.Error(err), zap.String("account_id", accountID))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
