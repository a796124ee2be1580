package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ndanilov/inventory_api/internal/apperror"
	"github.com/ndanilov/inventory_api/internal/hash"
	"github.com/ndanilov/inventory_api/internal/logging"
	"github.com/ndanilov/inventory_api/internal/models"
	"github.com/ndanilov/inventory_api/internal/mykafka"
	"github.com/ndanilov/inventory_api/internal/repo"
	"github.com/ndanilov/inventory_api/internal/token"
)

const minPasswordLen = 6

type AuthService struct {
	Users    repo.UserStore
	Tokens   *token.Issuer
	Producer EventPublisher
}

type LoginResult struct {
	Token      string
	Expiration time.Time
	User       models.User
}

// Login verifies credentials and issues a one-hour bearer token. The same
// message comes back whether the username or the password was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if username == "" || password == "" {
		return nil, apperror.New(apperror.InvalidInput, "username and password are required")
	}

	user, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "unknown username")
			return nil, apperror.New(apperror.Unauthenticated, "invalid username or password")
		}
		return nil, apperror.Wrap(apperror.Internal, "cannot look up user", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "password mismatch")
		return nil, apperror.New(apperror.Unauthenticated, "invalid username or password")
	}

	signed, exp, err := s.Tokens.Issue(*user)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "cannot issue token", err)
	}

	publish(ctx, s.Producer, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("login_success", "username", user.Username)
	return &LoginResult{Token: signed, Expiration: exp, User: *user}, nil
}

// Register creates a user with role defaulting to "User". Passwords are
// stored bcrypt-hashed, never raw.
func (s *AuthService) Register(ctx context.Context, username, password, email, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || password == "" {
		return nil, apperror.New(apperror.InvalidInput, "username and password are required")
	}
	if len(password) < minPasswordLen {
		return nil, apperror.New(apperror.InvalidInput, "password must be at least 6 characters")
	}

	if _, err := s.Users.FindByUsername(ctx, username); err == nil {
		l.Warn("register_failed", "reason", "username taken")
		return nil, apperror.New(apperror.Conflict, "username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Wrap(apperror.Internal, "cannot look up user", err)
	}

	if role == "" {
		role = models.RoleUser
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "cannot hash password", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Email:        email,
		Role:         role,
	}
	if err := s.Users.Insert(ctx, &user); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "cannot create user", err)
	}

	publish(ctx, s.Producer, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("register_success", "username", user.Username)
	return &user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Users.ListAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "cannot list users", err)
	}
	return users, nil
}

// Profile returns the stored record behind the authenticated identity.
func (s *AuthService) Profile(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, apperror.New(apperror.Unauthenticated, "no identity on request")
	}

	user, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.NotFound, "user not found")
		}
		return nil, apperror.Wrap(apperror.Internal, "cannot look up user", err)
	}
	return user, nil
}
