// Package services – AuthService
//
// AuthService owns account creation and sign-in: email registration with a
// bcrypt password hash, email login, Telegram sign-in (find or create by
// Telegram id) and linking a Telegram account to an existing user. Every
// successful call returns a signed HS256 access token.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// Telegram log action types written by AuthService.
const (
	ActionTelegramAuth    = "auth"
	ActionTelegramConnect = "connect"
)

const (
	minPasswordLen = 6
	// bcrypt only looks at the first 72 bytes.
	maxPasswordBytes = 72
	maxNameRunes     = 255
)

// UserRepo defines the repository contract required by AuthService.
type UserRepo interface {
	// CreateUser inserts an email-registered user with an already hashed password.
	CreateUser(ctx context.Context, db *gorm.DB, email, passwordHash, name string) (*domain.User, error)

	// CreateTelegramUser inserts a user known only by Telegram identity.
	CreateTelegramUser(ctx context.Context, db *gorm.DB, telegramID int64, username *string, name string) (*domain.User, error)

	// FindUserByID returns the user or nil when absent.
	FindUserByID(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error)

	// FindUserByEmail returns the user with that exact email or nil.
	FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)

	// FindUserByTelegramID returns the user linked to telegramID or nil.
	FindUserByTelegramID(ctx context.Context, db *gorm.DB, telegramID int64) (*domain.User, error)

	// LinkTelegram attaches a Telegram identity to an existing user.
	LinkTelegram(ctx context.Context, db *gorm.DB, userID uint, telegramID int64, username *string) error

	// CreateTelegramLog appends a bot audit entry.
	CreateTelegramLog(ctx context.Context, db *gorm.DB, userID uint, actionType string, message *string) (*domain.TelegramBotLog, error)

	// IsDuplicate reports whether err is a unique-constraint violation.
	IsDuplicate(err error) bool

	// IsNotFound reports whether err means the targeted row does not exist.
	IsNotFound(err error) bool
}

// TelegramIdentity is the subset of a Telegram login payload the backend keeps.
type TelegramIdentity struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// AuthResult is returned by every sign-in path.
type AuthResult struct {
	User  *domain.User
	Token string
	// Created is true when the call inserted the user.
	Created bool
}

// AuthService implements registration, login and token handling.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo UserRepo

	// Secret signs access tokens (HS256).
	Secret []byte
	// TTL is the lifetime of issued tokens.
	TTL time.Duration
	// BcryptCost is the work factor of password hashes.
	BcryptCost int
	// NameLocale drives title-casing of names assembled from Telegram.
	NameLocale language.Tag

	now func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB, r UserRepo, secret string, ttl time.Duration, bcryptCost int) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		DB:         db,
		Repo:       r,
		Secret:     []byte(secret),
		TTL:        ttl,
		BcryptCost: bcryptCost,
		NameLocale: language.Und,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an email account. The email is lower-cased before it is
// stored. A second registration with the same email yields ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "Register")
	defer span.End()

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, invalid("password", "must be at least 6 characters")
	}
	if len(password) > maxPasswordBytes {
		return nil, invalid("password", "must be at most 72 bytes")
	}
	name = normalizeText(name)
	if name == "" {
		name = email[:strings.IndexByte(email, '@')]
	}
	name = clip(name, maxNameRunes)

	existing, err := s.Repo.FindUserByEmail(ctx, s.DB, email)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.BcryptCost)
	if err != nil {
		return nil, s.fail(span, err)
	}
	u, err := s.Repo.CreateUser(ctx, s.DB, email, string(hash), name)
	if err != nil {
		if s.Repo.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.Int64("user.id", int64(u.ID)))
	return s.result(u, true)
}

// Login verifies email and password. Unknown emails, accounts without a
// password and wrong passwords all yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Repo.FindUserByEmail(ctx, s.DB, email)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if u == nil || u.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	span.SetAttributes(attribute.Int64("user.id", int64(u.ID)))
	return s.result(u, false)
}

// TelegramAuth signs in the user linked to id.ID, creating the account on
// first contact. Each call appends an "auth" entry to the bot log.
func (s *AuthService) TelegramAuth(ctx context.Context, id TelegramIdentity) (*AuthResult, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "TelegramAuth",
		trace.WithAttributes(attribute.Int64("telegram.id", id.ID)),
	)
	defer span.End()

	if id.ID <= 0 {
		return nil, invalid("telegram_id", "must be a positive integer")
	}
	username := optionalText(&id.Username)

	var (
		user    *domain.User
		created bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := s.Repo.FindUserByTelegramID(ctx, tx, id.ID)
		if err != nil {
			return err
		}
		if u == nil {
			u, err = s.Repo.CreateTelegramUser(ctx, tx, id.ID, username, s.telegramName(id))
			if err != nil {
				return err
			}
			created = true
		}
		msg := "telegram sign-in"
		if created {
			msg = "telegram account created"
		}
		if _, err := s.Repo.CreateTelegramLog(ctx, tx, u.ID, ActionTelegramAuth, &msg); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if s.Repo.IsDuplicate(err) {
			// A concurrent first contact won the insert; sign in as that user.
			u, ferr := s.Repo.FindUserByTelegramID(ctx, s.DB, id.ID)
			if ferr == nil && u != nil {
				return s.result(u, false)
			}
		}
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)), attribute.Bool("user.created", created))
	return s.result(user, created)
}

// ConnectTelegram links a Telegram account to userID. Linking the account a
// user already has is a no-op apart from the log entry; linking one owned by
// somebody else yields ErrTelegramLinked.
func (s *AuthService) ConnectTelegram(ctx context.Context, userID uint, id TelegramIdentity) (*AuthResult, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "ConnectTelegram",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("telegram.id", id.ID),
		),
	)
	defer span.End()

	if id.ID <= 0 {
		return nil, invalid("telegram_id", "must be a positive integer")
	}
	username := optionalText(&id.Username)

	var user *domain.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, err := s.Repo.FindUserByTelegramID(ctx, tx, id.ID)
		if err != nil {
			return err
		}
		if owner != nil && owner.ID != userID {
			return ErrTelegramLinked
		}
		if err := s.Repo.LinkTelegram(ctx, tx, userID, id.ID, username); err != nil {
			if s.Repo.IsNotFound(err) {
				return ErrUserNotFound
			}
			if s.Repo.IsDuplicate(err) {
				return ErrTelegramLinked
			}
			return err
		}
		msg := "telegram account connected"
		if _, err := s.Repo.CreateTelegramLog(ctx, tx, userID, ActionTelegramConnect, &msg); err != nil {
			return err
		}
		user, err = s.Repo.FindUserByID(ctx, tx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrTelegramLinked) || errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, s.fail(span, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.result(user, false)
}

// Claims are the registered claims carried by access tokens.
type Claims = jwt.RegisteredClaims

// IssueToken signs an access token for u.
func (s *AuthService) IssueToken(u *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		Subject:   strconv.FormatUint(uint64(u.ID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// ParseToken validates raw and returns the user id in its subject.
func (s *AuthService) ParseToken(raw string) (uint, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

func (s *AuthService) result(u *domain.User, created bool) (*AuthResult, error) {
	tok, err := s.IssueToken(u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: tok, Created: created}, nil
}

func (s *AuthService) telegramName(id TelegramIdentity) string {
	name := displayName(s.NameLocale, id.FirstName, id.LastName)
	if name == "" {
		name = normalizeText(id.Username)
	}
	if name == "" {
		name = "Telegram user " + strconv.FormatInt(id.ID, 10)
	}
	return clip(name, maxNameRunes)
}

func (s *AuthService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", invalid("email", "is not a valid address")
	}
	return raw, nil
}
