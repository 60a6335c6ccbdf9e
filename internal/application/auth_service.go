package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/mailer"
	tpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// Publisher enqueues a JSON message; implemented by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService registers users, checks their credentials and issues access tokens.
type AuthService struct {
	Users      repo.UserRepository
	JWT        *helpers.JWTManager
	Pub        Publisher
	Logger     *logrus.Logger
	BCryptCost int

	AppName         string
	AppURL          string
	MailSendEnabled bool

	dummyOnce sync.Once
	dummyHash string
	hashFn    func(plain string, cost int) (string, error)
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, bcryptCost int) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Logger: logger, BCryptCost: bcryptCost}
}

// WithWelcomeEmail makes Register enqueue a welcome email on pub.
func (s *AuthService) WithWelcomeEmail(pub Publisher, appName, appURL string) *AuthService {
	s.Pub = pub
	s.AppName = appName
	s.AppURL = appURL
	s.MailSendEnabled = pub != nil
	return s
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthUser is the public view of a user returned with a token.
type AuthUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"-"`
	User      AuthUser  `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.Users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailExists
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := helpers.HashPassword(in.Password, s.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		// lost a race against a concurrent registration; the unique index decided
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	registrations.Add(1)
	s.enqueueWelcome(ctx, u)
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && u == nil) {
		// burn a comparable amount of time so response latency does not reveal unknown emails
		helpers.CompareHashAndPassword(s.placeholderHash(), in.Password)
		loginFailures.Add(1)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, in.Password) {
		loginFailures.Add(1)
		return nil, ErrInvalidCredentials
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	logins.Add(1)
	return res, nil
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		ExpiresAt: exp,
		User:      AuthUser{ID: u.ID, Name: u.Name, Email: u.Email},
	}, nil
}

// fallbackPlaceholderHash is a well-formed cost-10 bcrypt hash, used when
// the placeholder cannot be generated at startup cost.
const fallbackPlaceholderHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// placeholderHash is compared against on unknown emails so the response
// time does not reveal whether an account exists.
func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		hash := s.hashFn
		if hash == nil {
			hash = helpers.HashPassword
		}
		h, err := hash("placeholder-password", s.BCryptCost)
		if err != nil {
			helpers.LogError(s.Logger, "generate placeholder hash failed, using fallback", err, nil)
			h = fallbackPlaceholderHash
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *AuthService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if !s.MailSendEnabled || s.Pub == nil {
		return
	}
	data := tpl.NewWelcomeData(s.AppName, u.Name, u.Email,
		tpl.WithAppURL(s.AppURL),
		tpl.WithTime(u.CreatedAt),
	)
	job := mailer.EmailJob{To: u.Email, Template: tpl.Welcome, Data: data}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		helpers.LogWarn(s.Logger, "enqueue welcome email failed", err, logrus.Fields{"user_id": u.ID})
	}
}
