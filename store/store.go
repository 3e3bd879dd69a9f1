package store

import (
	"context"
	"errors"
	"time"

	"problemscout-be/models"
)

// ErrNotFound is the zero-rows signal shared by every store. Callers
// that can compensate (lazy profile creation) branch on it; everything
// else treats it as a plain error.
var ErrNotFound = errors.New("not found")

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ConfirmUser(ctx context.Context, id string) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	// CreateProfile inserts unconditionally. It is the privileged path
	// reached only from the ErrNotFound branch of a profile fetch.
	CreateProfile(ctx context.Context, profile *models.Profile) error
}

// ProblemFilter narrows and pages a problem listing.
type ProblemFilter struct {
	Category string
	Status   string
	Search   string
	Sort     string // "newest" or "oldest"
	Page     int
	Limit    int
}

type ProblemStore interface {
	// InsertProblem persists the record and reads the inserted row back.
	InsertProblem(ctx context.Context, problem *models.Problem) (*models.Problem, error)
	GetProblem(ctx context.Context, id string) (*models.Problem, error)
	ListProblems(ctx context.Context, filter ProblemFilter) ([]models.Problem, int64, error)
	ListProblemsByUser(ctx context.Context, userID string) ([]models.Problem, error)
	// RecentLocatedProblems returns the newest problems that carry a
	// real map position, excluding the no-location sentinel.
	RecentLocatedProblems(ctx context.Context, limit int) ([]models.Problem, error)
	AdjustUpvotes(ctx context.Context, id string, delta int64) error
	CountProblems(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, statuses ...models.ProblemStatus) (int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	TopVoted(ctx context.Context, limit int) ([]models.Problem, error)
}

type VoteStore interface {
	HasVoted(ctx context.Context, problemID, userID string) (bool, error)
	AddVote(ctx context.Context, vote *models.Vote) error
	RemoveVote(ctx context.Context, problemID, userID string) error
	CountVotes(ctx context.Context) (int64, error)
}
