// Package account содержит бизнес-логику регистрации пользователей,
// активации учетных записей и выдачи персональных API-токенов.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/mail-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/mail-gateway/internal/metrics"
	"github.com/magabrotheeeer/mail-gateway/internal/models"
	"github.com/magabrotheeeer/mail-gateway/internal/storage"
)

var (
	ErrInvalidInput       = errors.New("required fields are missing")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooLong    = errors.New("password is too long")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrDomainNotAllowed   = errors.New("email domain is not allowed")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("user is already verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotActivated       = errors.New("account is not activated")
	ErrActivationMail     = errors.New("failed to send activation email")
	ErrTokenNotFound      = errors.New("token not found")
)

const tokenCachePrefix = "token:"

// maxPasswordBytes предел длины пароля в bcrypt.
const maxPasswordBytes = 72

// UserRepository описывает хранилище пользователей.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByIDAndEmail(ctx context.Context, id uuid.UUID, email string) (*models.User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) error
}

// TokenRepository описывает хранилище API-токенов.
type TokenRepository interface {
	CreateToken(ctx context.Context, token *models.Token) error
	GetTokenByUserID(ctx context.Context, userID uuid.UUID) (*models.Token, error)
	GetTokenByValue(ctx context.Context, value string) (*models.Token, error)
}

// Hasher хеширует и сравнивает пароли.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) (bool, error)
}

// TokenGenerator выпускает новые значения токенов.
type TokenGenerator interface {
	Generate() (string, error)
}

// Mailer отправляет письмо активации.
type Mailer interface {
	SendActivation(ctx context.Context, user *models.User, link string) error
}

// Cache описывает кеш результатов поиска токенов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Options зависимости и настройки Service, не являющиеся хранилищами.
type Options struct {
	Hasher    Hasher
	Generator TokenGenerator
	Cache     Cache // может быть nil
	Policy    Policy
	AppURL    string
	CacheTTL  time.Duration
	Metrics   *metrics.Metrics
}

// RegisterInput данные формы регистрации.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// Service реализует регистрацию, активацию и выдачу токенов.
type Service struct {
	users  UserRepository
	tokens TokenRepository
	mailer Mailer
	opts   Options
	log    *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, tokens TokenRepository, mailer Mailer, opts Options, log *slog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		opts:   opts,
		log:    log,
	}
}

// Register проверяет данные формы, создает пользователя с ролью GUEST и
// отправляет письмо активации. Пользователь остается в базе, даже если письмо
// отправить не удалось: в этом случае возвращается ErrActivationMail.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "account.Register"

	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, ErrInvalidInput
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return nil, ErrInvalidEmail
	}
	if !s.opts.Policy.Allows(email) {
		return nil, ErrDomainNotAllowed
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		s.opts.Metrics.Registration(false)
		return nil, ErrEmailTaken
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.opts.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := &models.User{
		Email:    email,
		Password: hash,
		Role:     models.RoleGuest,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.opts.Metrics.Registration(false)
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()),
		sl.Email(email),
	)

	if err := s.mailer.SendActivation(ctx, user, s.ActivationLink(user)); err != nil {
		s.opts.Metrics.Registration(false)
		return user, fmt.Errorf("%s: %w: %w", op, ErrActivationMail, err)
	}
	s.opts.Metrics.Registration(true)
	return user, nil
}

// ActivationLink строит ссылку вида {AppURL}/user/activate/{id}?email={email}.
func (s *Service) ActivationLink(user *models.User) string {
	base := strings.TrimRight(s.opts.AppURL, "/")
	q := url.Values{}
	q.Set("email", user.Email)
	return base + "/user/activate/" + user.ID.String() + "?" + q.Encode()
}

// Activate переводит пользователя с ролью GUEST в USER. Пользователь ищется
// по паре id и email; некорректный id считается ненайденным пользователем.
func (s *Service) Activate(ctx context.Context, id, email string) error {
	const op = "account.Activate"

	email = normalizeEmail(email)
	if id == "" || email == "" {
		return ErrInvalidInput
	}
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrUserNotFound
	}

	user, err := s.users.GetUserByIDAndEmail(ctx, userID, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.Role.IsActivated() {
		return ErrAlreadyVerified
	}

	if err := s.users.UpdateUserRole(ctx, user.ID, models.RoleUser); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user activated", slog.String("op", op), slog.String("user_id", user.ID.String()))
	return nil
}

// IssueToken проверяет пароль и возвращает токен пользователя, создавая его
// при первом обращении. Повторный вызов возвращает тот же токен.
func (s *Service) IssueToken(ctx context.Context, email, password string) (string, error) {
	const op = "account.IssueToken"

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrInvalidInput
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	ok, err := s.opts.Hasher.Compare(user.Password, password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	if !user.Role.IsActivated() {
		return "", ErrNotActivated
	}

	existing, err := s.tokens.GetTokenByUserID(ctx, user.ID)
	switch {
	case err == nil:
		s.opts.Metrics.TokenIssued(true)
		return existing.Token, nil
	case !errors.Is(err, storage.ErrNotFound):
		return "", fmt.Errorf("%s: %w", op, err)
	}

	value, err := s.opts.Generator.Generate()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	tok := &models.Token{Token: value, UserID: user.ID}
	if err := s.tokens.CreateToken(ctx, tok); err != nil {
		if !errors.Is(err, storage.ErrAlreadyExists) {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		// параллельный запрос успел создать токен первым
		existing, err = s.tokens.GetTokenByUserID(ctx, user.ID)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		s.opts.Metrics.TokenIssued(true)
		return existing.Token, nil
	}

	s.log.Info("token issued", slog.String("op", op), slog.String("user_id", user.ID.String()))
	s.opts.Metrics.TokenIssued(false)
	return value, nil
}

// LookupToken находит токен по значению, используя кеш, если он настроен.
func (s *Service) LookupToken(ctx context.Context, value string) (*models.Token, error) {
	const op = "account.LookupToken"

	if value == "" {
		return nil, ErrTokenNotFound
	}
	key := tokenCachePrefix + value

	if s.opts.Cache != nil {
		var cached models.Token
		found, err := s.opts.Cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("token cache read failed", slog.String("op", op), sl.Err(err))
		} else if found {
			return &cached, nil
		}
	}

	tok, err := s.tokens.GetTokenByValue(ctx, value)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.opts.Cache != nil {
		if err := s.opts.Cache.Set(ctx, key, tok, s.opts.CacheTTL); err != nil {
			s.log.Warn("token cache write failed", slog.String("op", op), sl.Err(err))
		}
	}
	return tok, nil
}

// normalizeEmail приводит адрес к виду, в котором он хранится в базе.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
