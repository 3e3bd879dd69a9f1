package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"problemscout-be/models"
	"problemscout-be/store"
)

// ProfileService keeps the single source of truth for per-user
// profiles. Every sign-in path (password login and the email
// confirmation landing) funnels through EnsureProfile, so the lazy
// creation logic lives in exactly one place.
type ProfileService interface {
	EnsureProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type profileService struct {
	users    store.UserStore
	profiles store.ProfileStore
}

func NewProfileService(users store.UserStore, profiles store.ProfileStore) ProfileService {
	return &profileService{users: users, profiles: profiles}
}

// EnsureProfile fetches the profile for a user, creating it on first
// sign-in when the store reports zero rows. A missing profile is a
// recoverable signal, not an error; any other fetch failure is logged
// and returned without a retry.
func (s *profileService) EnsureProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("no user id")
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Println("Error fetching profile:", err)
		return nil, err
	}

	// Profile missing: re-fetch the user's record for display data,
	// then insert through the privileged path.
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for profile creation: %w", err)
	}

	created := &models.Profile{
		ID:       userID,
		Username: usernameFor(user),
	}
	if err := s.profiles.CreateProfile(ctx, created); err != nil {
		return nil, fmt.Errorf("profile setup failed: %w", err)
	}

	// Re-fetch so callers see the stored row, not the local draft.
	return s.profiles.GetProfile(ctx, userID)
}

// usernameFor picks the display name for a fresh profile: the user's
// name, else the email local-part, else null.
func usernameFor(user *models.User) *string {
	if user.Name != "" {
		name := user.Name
		return &name
	}
	if user.Email != "" {
		local := user.Email
		if i := strings.Index(local, "@"); i >= 0 {
			local = local[:i]
		}
		if local != "" {
			return &local
		}
	}
	return nil
}
