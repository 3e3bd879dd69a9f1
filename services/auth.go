package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"problemscout-be/models"
	"problemscout-be/store"
	authUtils "problemscout-be/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrNotConfirmed       = errors.New("email not confirmed")
	ErrInvalidConfirmLink = errors.New("invalid or expired confirmation link")
)

// Session is the result of a successful sign-in or auto-confirmed
// sign-up: the user, their token and the ensured profile. Profile may
// be nil when profile setup failed; the sign-in itself still stands.
type Session struct {
	User    *models.User
	Token   string
	Profile *models.Profile
}

type AuthService interface {
	// Register creates a user. When email confirmation is required it
	// returns (nil, true): no session yet, the confirmation link was
	// issued. Otherwise it returns an immediate session.
	Register(ctx context.Context, name, email, password string) (*Session, bool, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// ConfirmEmail handles the confirmation-link landing: marks the
	// user confirmed and ensures their profile exists.
	ConfirmEmail(ctx context.Context, token string) (*Session, error)
}

type authService struct {
	users               store.UserStore
	profiles            ProfileService
	requireConfirmation bool
}

func NewAuthService(users store.UserStore, profiles ProfileService, requireConfirmation bool) AuthService {
	return &authService{
		users:               users,
		profiles:            profiles,
		requireConfirmation: requireConfirmation,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*Session, bool, error) {
	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, false, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to check existing user: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  password,
		Confirmed: !s.requireConfirmation,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.HashPassword(); err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, false, err
	}

	if s.requireConfirmation {
		confirmToken, err := authUtils.GenerateConfirmToken(userID)
		if err != nil {
			return nil, false, err
		}
		// Mail delivery is out of scope; the link is logged so dev
		// setups can complete the flow by hand.
		log.Printf("Confirmation link for %s: /api/auth/callback?token=%s", email, confirmToken)
		return nil, true, nil
	}

	token, err := authUtils.GenerateAndSetToken(userID)
	if err != nil {
		return nil, false, err
	}

	return &Session{
		User:    user,
		Token:   token,
		Profile: s.ensureProfile(ctx, userID),
	}, false, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.ComparePassword(password) {
		return nil, ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, ErrNotConfirmed
	}

	token, err := authUtils.GenerateAndSetToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	return &Session{
		User:    user,
		Token:   token,
		Profile: s.ensureProfile(ctx, user.ID.Hex()),
	}, nil
}

func (s *authService) ConfirmEmail(ctx context.Context, token string) (*Session, error) {
	claims, err := authUtils.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidConfirmLink
	}
	if purpose, _ := claims["purpose"].(string); purpose != "confirm" {
		return nil, ErrInvalidConfirmLink
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidConfirmLink
	}

	if err := s.users.ConfirmUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidConfirmLink
		}
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessionToken, err := authUtils.GenerateAndSetToken(userID)
	if err != nil {
		return nil, err
	}

	return &Session{
		User:    user,
		Token:   sessionToken,
		Profile: s.ensureProfile(ctx, userID),
	}, nil
}

// ensureProfile runs the lazy profile creation and degrades to a nil
// profile on failure: the session is already established and the
// profile can be retried via the profile endpoint.
func (s *authService) ensureProfile(ctx context.Context, userID string) *models.Profile {
	profile, err := s.profiles.EnsureProfile(ctx, userID)
	if err != nil {
		log.Println("Error ensuring profile:", err)
		return nil
	}
	return profile
}
