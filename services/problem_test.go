package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"problemscout-be/models"
	"problemscout-be/store"
)

type fakeProblemStore struct {
	insertProblemFn       func(ctx context.Context, problem *models.Problem) (*models.Problem, error)
	getProblemFn          func(ctx context.Context, id string) (*models.Problem, error)
	listProblemsFn        func(ctx context.Context, filter store.ProblemFilter) ([]models.Problem, int64, error)
	listByUserFn          func(ctx context.Context, userID string) ([]models.Problem, error)
	recentLocatedFn       func(ctx context.Context, limit int) ([]models.Problem, error)
	adjustUpvotesFn       func(ctx context.Context, id string, delta int64) error
	countProblemsFn       func(ctx context.Context) (int64, error)
	countByStatusFn       func(ctx context.Context, statuses ...models.ProblemStatus) (int64, error)
	countByCategoryFn     func(ctx context.Context) (map[string]int64, error)
	countCreatedBetweenFn func(ctx context.Context, from, to time.Time) (int64, error)
	topVotedFn            func(ctx context.Context, limit int) ([]models.Problem, error)

	insertCalls int
}

func (f *fakeProblemStore) InsertProblem(ctx context.Context, problem *models.Problem) (*models.Problem, error) {
	f.insertCalls++
	if f.insertProblemFn == nil {
		return nil, errors.New("InsertProblem not implemented")
	}
	return f.insertProblemFn(ctx, problem)
}

func (f *fakeProblemStore) GetProblem(ctx context.Context, id string) (*models.Problem, error) {
	if f.getProblemFn == nil {
		return nil, errors.New("GetProblem not implemented")
	}
	return f.getProblemFn(ctx, id)
}

func (f *fakeProblemStore) ListProblems(ctx context.Context, filter store.ProblemFilter) ([]models.Problem, int64, error) {
	if f.listProblemsFn == nil {
		return nil, 0, errors.New("ListProblems not implemented")
	}
	return f.listProblemsFn(ctx, filter)
}

func (f *fakeProblemStore) ListProblemsByUser(ctx context.Context, userID string) ([]models.Problem, error) {
	if f.listByUserFn == nil {
		return nil, errors.New("ListProblemsByUser not implemented")
	}
	return f.listByUserFn(ctx, userID)
}

func (f *fakeProblemStore) RecentLocatedProblems(ctx context.Context, limit int) ([]models.Problem, error) {
	if f.recentLocatedFn == nil {
		return nil, errors.New("RecentLocatedProblems not implemented")
	}
	return f.recentLocatedFn(ctx, limit)
}

func (f *fakeProblemStore) AdjustUpvotes(ctx context.Context, id string, delta int64) error {
	if f.adjustUpvotesFn == nil {
		return errors.New("AdjustUpvotes not implemented")
	}
	return f.adjustUpvotesFn(ctx, id, delta)
}

func (f *fakeProblemStore) CountProblems(ctx context.Context) (int64, error) {
	if f.countProblemsFn == nil {
		return 0, errors.New("CountProblems not implemented")
	}
	return f.countProblemsFn(ctx)
}

func (f *fakeProblemStore) CountByStatus(ctx context.Context, statuses ...models.ProblemStatus) (int64, error) {
	if f.countByStatusFn == nil {
		return 0, errors.New("CountByStatus not implemented")
	}
	return f.countByStatusFn(ctx, statuses...)
}

func (f *fakeProblemStore) CountByCategory(ctx context.Context) (map[string]int64, error) {
	if f.countByCategoryFn == nil {
		return nil, errors.New("CountByCategory not implemented")
	}
	return f.countByCategoryFn(ctx)
}

func (f *fakeProblemStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	if f.countCreatedBetweenFn == nil {
		return 0, errors.New("CountCreatedBetween not implemented")
	}
	return f.countCreatedBetweenFn(ctx, from, to)
}

func (f *fakeProblemStore) TopVoted(ctx context.Context, limit int) ([]models.Problem, error) {
	if f.topVotedFn == nil {
		return nil, errors.New("TopVoted not implemented")
	}
	return f.topVotedFn(ctx, limit)
}

type fakeVoteStore struct {
	hasVotedFn   func(ctx context.Context, problemID, userID string) (bool, error)
	addVoteFn    func(ctx context.Context, vote *models.Vote) error
	removeVoteFn func(ctx context.Context, problemID, userID string) error
	countVotesFn func(ctx context.Context) (int64, error)
}

func (f *fakeVoteStore) HasVoted(ctx context.Context, problemID, userID string) (bool, error) {
	if f.hasVotedFn == nil {
		return false, errors.New("HasVoted not implemented")
	}
	return f.hasVotedFn(ctx, problemID, userID)
}

func (f *fakeVoteStore) AddVote(ctx context.Context, vote *models.Vote) error {
	if f.addVoteFn == nil {
		return errors.New("AddVote not implemented")
	}
	return f.addVoteFn(ctx, vote)
}

func (f *fakeVoteStore) RemoveVote(ctx context.Context, problemID, userID string) error {
	if f.removeVoteFn == nil {
		return errors.New("RemoveVote not implemented")
	}
	return f.removeVoteFn(ctx, problemID, userID)
}

func (f *fakeVoteStore) CountVotes(ctx context.Context) (int64, error) {
	if f.countVotesFn == nil {
		return 0, errors.New("CountVotes not implemented")
	}
	return f.countVotesFn(ctx)
}

func echoInsert(ctx context.Context, problem *models.Problem) (*models.Problem, error) {
	return problem, nil
}

func TestReport_RequiresUser(t *testing.T) {
	problems := &fakeProblemStore{insertProblemFn: echoInsert}
	service := NewProblemService(problems, &fakeVoteStore{})

	_, err := service.Report(context.Background(), "", ReportProblemInput{
		Title:       "Broken streetlight here",
		Description: "It has been dark for a week",
		Category:    models.Utilities,
	})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if problems.insertCalls != 0 {
		t.Fatalf("expected no store call, got %d", problems.insertCalls)
	}
}

func TestReport_ScenarioStreetlight(t *testing.T) {
	problems := &fakeProblemStore{insertProblemFn: echoInsert}
	service := NewProblemService(problems, &fakeVoteStore{})

	problem, err := service.Report(context.Background(), "u1", ReportProblemInput{
		Title:       "Broken streetlight here",
		Description: "It has been dark for a week",
		Category:    models.Utilities,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if problem.ID == "" {
		t.Fatal("expected a generated id")
	}
	if problem.UserID != "u1" {
		t.Fatalf("unexpected user id: %s", problem.UserID)
	}
	if problem.Status != models.Pending {
		t.Fatalf("expected pending status, got %s", problem.Status)
	}
	if problem.Upvotes != 0 {
		t.Fatalf("expected zero upvotes, got %d", problem.Upvotes)
	}
	if problem.Location.Lat != 0 || problem.Location.Lng != 0 {
		t.Fatalf("expected sentinel coordinates, got %v", problem.Location)
	}
	if problem.Location.Address == nil || *problem.Location.Address != models.NoLocationAddress {
		t.Fatalf("expected sentinel address, got %v", problem.Location.Address)
	}
	if problem.CreatedAt.IsZero() || problem.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestReport_KeepsProvidedLocation(t *testing.T) {
	problems := &fakeProblemStore{insertProblemFn: echoInsert}
	service := NewProblemService(problems, &fakeVoteStore{})

	address := "5th and Main"
	problem, err := service.Report(context.Background(), "u1", ReportProblemInput{
		Title:       "Pothole near the crossing",
		Description: "Deep enough to damage wheels",
		Category:    models.Roads,
		Location:    &models.ProblemLocation{Lat: 40.7128, Lng: -74.006, Address: &address},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if problem.Location.Lat != 40.7128 || problem.Location.Lng != -74.006 {
		t.Fatalf("unexpected coordinates: %v", problem.Location)
	}
	if problem.Location.Address == nil || *problem.Location.Address != address {
		t.Fatalf("unexpected address: %v", problem.Location.Address)
	}
}

func TestReport_StoreErrorPropagates(t *testing.T) {
	problems := &fakeProblemStore{
		insertProblemFn: func(ctx context.Context, problem *models.Problem) (*models.Problem, error) {
			return nil, errors.New("network error")
		},
	}
	service := NewProblemService(problems, &fakeVoteStore{})

	_, err := service.Report(context.Background(), "u1", ReportProblemInput{
		Title:       "Broken streetlight here",
		Description: "It has been dark for a week",
		Category:    models.Utilities,
	})
	if err == nil || !strings.Contains(err.Error(), "network error") {
		t.Fatalf("expected the store's message, got %v", err)
	}
}

func TestToggleVote_CastsWhenNotVoted(t *testing.T) {
	var addedVote *models.Vote
	var adjusted int64
	problems := &fakeProblemStore{
		getProblemFn: func(ctx context.Context, id string) (*models.Problem, error) {
			return &models.Problem{ID: id, Upvotes: 3}, nil
		},
		adjustUpvotesFn: func(ctx context.Context, id string, delta int64) error {
			adjusted = delta
			return nil
		},
	}
	votes := &fakeVoteStore{
		hasVotedFn: func(ctx context.Context, problemID, userID string) (bool, error) {
			return false, nil
		},
		addVoteFn: func(ctx context.Context, vote *models.Vote) error {
			addedVote = vote
			return nil
		},
	}
	service := NewProblemService(problems, votes)

	result, err := service.ToggleVote(context.Background(), "p1", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Voted {
		t.Fatal("expected the vote to be cast")
	}
	if result.Upvotes != 4 {
		t.Fatalf("expected 4 upvotes, got %d", result.Upvotes)
	}
	if adjusted != 1 {
		t.Fatalf("expected +1 adjustment, got %d", adjusted)
	}
	if addedVote == nil || addedVote.Problem != "p1" || addedVote.User != "u1" {
		t.Fatalf("unexpected vote record: %+v", addedVote)
	}
}

func TestToggleVote_RemovesWhenAlreadyVoted(t *testing.T) {
	removed := false
	var adjusted int64
	problems := &fakeProblemStore{
		getProblemFn: func(ctx context.Context, id string) (*models.Problem, error) {
			return &models.Problem{ID: id, Upvotes: 3}, nil
		},
		adjustUpvotesFn: func(ctx context.Context, id string, delta int64) error {
			adjusted = delta
			return nil
		},
	}
	votes := &fakeVoteStore{
		hasVotedFn: func(ctx context.Context, problemID, userID string) (bool, error) {
			return true, nil
		},
		removeVoteFn: func(ctx context.Context, problemID, userID string) error {
			removed = true
			return nil
		},
	}
	service := NewProblemService(problems, votes)

	result, err := service.ToggleVote(context.Background(), "p1", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Voted {
		t.Fatal("expected the vote to be removed")
	}
	if result.Upvotes != 2 {
		t.Fatalf("expected 2 upvotes, got %d", result.Upvotes)
	}
	if !removed || adjusted != -1 {
		t.Fatalf("expected removal with -1 adjustment, removed=%v adjusted=%d", removed, adjusted)
	}
}

func TestToggleVote_UnknownProblem(t *testing.T) {
	problems := &fakeProblemStore{
		getProblemFn: func(ctx context.Context, id string) (*models.Problem, error) {
			return nil, store.ErrNotFound
		},
	}
	service := NewProblemService(problems, &fakeVoteStore{})

	_, err := service.ToggleVote(context.Background(), "missing", "u1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_PaginatesAndFlagsVotes(t *testing.T) {
	problems := &fakeProblemStore{
		listProblemsFn: func(ctx context.Context, filter store.ProblemFilter) ([]models.Problem, int64, error) {
			if filter.Page != 1 || filter.Limit != 5 {
				t.Fatalf("unexpected paging: %+v", filter)
			}
			return []models.Problem{{ID: "p1"}, {ID: "p2"}}, 12, nil
		},
	}
	votes := &fakeVoteStore{
		hasVotedFn: func(ctx context.Context, problemID, userID string) (bool, error) {
			return problemID == "p2", nil
		},
	}
	service := NewProblemService(problems, votes)

	page, err := service.List(context.Background(), store.ProblemFilter{Page: 1, Limit: 5}, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalProblems != 12 || page.TotalPages != 3 || page.CurrentPage != 1 {
		t.Fatalf("unexpected page info: %+v", page)
	}
	if page.Problems[0].UserHasVoted || !page.Problems[1].UserHasVoted {
		t.Fatalf("unexpected vote flags: %+v", page.Problems)
	}
}

func TestRecentPins_ProjectsLocation(t *testing.T) {
	address := "Riverside park"
	problems := &fakeProblemStore{
		recentLocatedFn: func(ctx context.Context, limit int) ([]models.Problem, error) {
			return []models.Problem{{
				ID:       "p1",
				Title:    "Fallen tree blocking the path",
				Category: models.Environment,
				Location: models.ProblemLocation{Lat: 51.5, Lng: -0.12, Address: &address},
			}}, nil
		},
	}
	service := NewProblemService(problems, &fakeVoteStore{})

	pins, err := service.RecentPins(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pins) != 1 {
		t.Fatalf("expected one pin, got %d", len(pins))
	}
	pin := pins[0]
	if pin.ID != "p1" || pin.Lat != 51.5 || pin.Lng != -0.12 {
		t.Fatalf("unexpected pin: %+v", pin)
	}
	if pin.Address == nil || *pin.Address != address {
		t.Fatalf("unexpected pin address: %v", pin.Address)
	}
}
