package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"
	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/festboard/internal/models"
)

// Login checks the password and issues a bearer token for the account.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.Session, error) {
	user, err := s.Store.GetUser(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		logger.Debug.Printf("Login for unknown user %s", username)
		return "", nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Error.Printf("Failed to compare password hash for %s: %v", username, err)
		}
		return "", nil, ErrUnauthorized
	}

	sess := models.Session{Username: user.Username, Role: user.Role, Team: user.Team}
	token, err := s.Sessions.Issue(ctx, sess)
	if err != nil {
		return "", nil, err
	}
	return token, &sess, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.Sessions.Revoke(ctx, token)
}

// Authenticate resolves a bearer token into a session. With auth disabled any token,
// including none, resolves through the static sessions.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" && s.Config.Server.EnableAuth {
		return nil, ErrUnauthorized
	}
	return s.Sessions.Resolve(ctx, token)
}

// SeedUsers stores the accounts listed in config, hashing their passwords.
func (s *Service) SeedUsers(ctx context.Context) error {
	for _, u := range s.Config.Auth.Users {
		user := models.User{
			Username: u.Username,
			Role:     models.Role(u.Role),
			Team:     models.Team(u.Team),
		}
		if err := validate.Struct(user); err != nil {
			return fmt.Errorf("user %q: %w", u.Username, fromValidator(err))
		}
		if user.Team != "" && !user.Team.Valid() {
			return fmt.Errorf("user %q: unknown team %s", u.Username, u.Team)
		}
		if u.Password == "" {
			return fmt.Errorf("user %q: password is empty", u.Username)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}
		user.PasswordHash = string(hash)

		if err := s.Store.UpsertUser(ctx, &user); err != nil {
			return err
		}
		logger.Debug.Printf("Seeded user %s (%s)", user.Username, user.Role)
	}
	return nil
}
