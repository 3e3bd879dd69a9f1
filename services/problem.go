package services

import (
	"context"
	"errors"
	"time"

	"problemscout-be/models"
	"problemscout-be/store"

	"github.com/google/uuid"
)

// ErrUnauthenticated rejects a write attempted without a signed-in
// user before any store call is made.
var ErrUnauthenticated = errors.New("you must be logged in to report a problem")

// ReportProblemInput is the validated form payload. Length and enum
// checks belong to the binding layer; the service trusts its caller.
type ReportProblemInput struct {
	Title       string
	Description string
	Category    models.ProblemCategory
	Location    *models.ProblemLocation
	ImageURL    *string
}

// ProblemWithVote decorates a problem with the caller's vote state.
type ProblemWithVote struct {
	models.Problem
	UserHasVoted bool `json:"userHasVoted"`
}

type ProblemPage struct {
	Problems      []ProblemWithVote `json:"problems"`
	TotalProblems int64             `json:"totalProblems"`
	TotalPages    int               `json:"totalPages"`
	CurrentPage   int               `json:"currentPage"`
}

// MapPin is the projection the map view renders.
type MapPin struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Lat       float64                `json:"lat"`
	Lng       float64                `json:"lng"`
	Address   *string                `json:"address,omitempty"`
	Category  models.ProblemCategory `json:"category,omitempty"`
	CreatedAt time.Time              `json:"createdAt,omitempty"`
}

type VoteResult struct {
	Voted   bool  `json:"voted"`
	Upvotes int64 `json:"upvotes"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type TopProblem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Upvotes  int64  `json:"upvotes"`
}

type AnalyticsReport struct {
	ProblemsByCategory []CategoryCount  `json:"problemsByCategory"`
	Last7Days          []DayCount       `json:"last7Days"`
	TopVotedProblems   []TopProblem     `json:"topVotedProblems"`
	StatusCounts       map[string]int64 `json:"statusCounts"`
	TotalProblems      int64            `json:"totalProblems"`
	TotalVotes         int64            `json:"totalVotes"`
	OpenProblems       int64            `json:"openProblems"`
}

type ProblemService interface {
	Report(ctx context.Context, userID string, input ReportProblemInput) (*models.Problem, error)
	List(ctx context.Context, filter store.ProblemFilter, userID string) (*ProblemPage, error)
	Get(ctx context.Context, id, userID string) (*ProblemWithVote, error)
	ListMine(ctx context.Context, userID string) ([]models.Problem, error)
	RecentPins(ctx context.Context) ([]MapPin, error)
	ToggleVote(ctx context.Context, problemID, userID string) (*VoteResult, error)
	Analytics(ctx context.Context) (*AnalyticsReport, error)
}

type problemService struct {
	problems store.ProblemStore
	votes    store.VoteStore
}

func NewProblemService(problems store.ProblemStore, votes store.VoteStore) ProblemService {
	return &problemService{problems: problems, votes: votes}
}

// Report turns a validated form input plus an optional map-click
// location into a persisted problem record. Reports without a location
// are accepted and stored with the sentinel location.
func (s *problemService) Report(ctx context.Context, userID string, input ReportProblemInput) (*models.Problem, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	location := models.NoLocation()
	if input.Location != nil {
		location = *input.Location
	}

	now := time.Now()
	problem := &models.Problem{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      models.Pending,
		Location:    location,
		ImageURL:    input.ImageURL,
		Upvotes:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.problems.InsertProblem(ctx, problem)
}

func (s *problemService) List(ctx context.Context, filter store.ProblemFilter, userID string) (*ProblemPage, error) {
	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	filter.Page = page
	filter.Limit = limit

	problems, totalCount, err := s.problems.ListProblems(ctx, filter)
	if err != nil {
		return nil, err
	}

	withVotes := make([]ProblemWithVote, 0, len(problems))
	for _, problem := range problems {
		userHasVoted := false
		if userID != "" {
			voted, err := s.votes.HasVoted(ctx, problem.ID, userID)
			if err == nil {
				userHasVoted = voted
			}
		}
		withVotes = append(withVotes, ProblemWithVote{Problem: problem, UserHasVoted: userHasVoted})
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	return &ProblemPage{
		Problems:      withVotes,
		TotalProblems: totalCount,
		TotalPages:    totalPages,
		CurrentPage:   page,
	}, nil
}

func (s *problemService) Get(ctx context.Context, id, userID string) (*ProblemWithVote, error) {
	problem, err := s.problems.GetProblem(ctx, id)
	if err != nil {
		return nil, err
	}

	userHasVoted := false
	if userID != "" {
		voted, err := s.votes.HasVoted(ctx, id, userID)
		if err == nil {
			userHasVoted = voted
		}
	}
	return &ProblemWithVote{Problem: *problem, UserHasVoted: userHasVoted}, nil
}

func (s *problemService) ListMine(ctx context.Context, userID string) ([]models.Problem, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.problems.ListProblemsByUser(ctx, userID)
}

func (s *problemService) RecentPins(ctx context.Context) ([]MapPin, error) {
	problems, err := s.problems.RecentLocatedProblems(ctx, 19)
	if err != nil {
		return nil, err
	}

	pins := make([]MapPin, 0, len(problems))
	for _, problem := range problems {
		pins = append(pins, MapPin{
			ID:        problem.ID,
			Title:     problem.Title,
			Lat:       problem.Location.Lat,
			Lng:       problem.Location.Lng,
			Address:   problem.Location.Address,
			Category:  problem.Category,
			CreatedAt: problem.CreatedAt,
		})
	}
	return pins, nil
}

// ToggleVote casts the user's vote on a problem, or removes it when
// one already exists. The problems record's upvote counter mirrors the
// votes collection.
func (s *problemService) ToggleVote(ctx context.Context, problemID, userID string) (*VoteResult, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	problem, err := s.problems.GetProblem(ctx, problemID)
	if err != nil {
		return nil, err
	}

	voted, err := s.votes.HasVoted(ctx, problemID, userID)
	if err != nil {
		return nil, err
	}

	if voted {
		if err := s.votes.RemoveVote(ctx, problemID, userID); err != nil {
			return nil, err
		}
		if err := s.problems.AdjustUpvotes(ctx, problemID, -1); err != nil {
			return nil, err
		}
		return &VoteResult{Voted: false, Upvotes: problem.Upvotes - 1}, nil
	}

	vote := &models.Vote{Problem: problemID, User: userID}
	if err := s.votes.AddVote(ctx, vote); err != nil {
		return nil, err
	}
	if err := s.problems.AdjustUpvotes(ctx, problemID, 1); err != nil {
		return nil, err
	}
	return &VoteResult{Voted: true, Upvotes: problem.Upvotes + 1}, nil
}

func (s *problemService) Analytics(ctx context.Context) (*AnalyticsReport, error) {
	categoryCounts, err := s.problems.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	byCategory := make([]CategoryCount, 0, len(categoryCounts))
	for name, value := range categoryCounts {
		byCategory = append(byCategory, CategoryCount{Name: name, Value: value})
	}

	var last7Days []DayCount
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		nextDate := date.AddDate(0, 0, 1)

		count, err := s.problems.CountCreatedBetween(ctx, date, nextDate)
		if err != nil {
			count = 0
		}
		last7Days = append(last7Days, DayCount{Date: date.Format("2006-01-02"), Count: count})
	}

	top, err := s.problems.TopVoted(ctx, 5)
	if err != nil {
		return nil, err
	}
	topVoted := make([]TopProblem, 0, len(top))
	for _, problem := range top {
		topVoted = append(topVoted, TopProblem{
			ID:       problem.ID,
			Title:    problem.Title,
			Category: string(problem.Category),
			Upvotes:  problem.Upvotes,
		})
	}

	statusCounts := make(map[string]int64, 3)
	for _, status := range []models.ProblemStatus{models.Pending, models.InProgress, models.Resolved} {
		count, err := s.problems.CountByStatus(ctx, status)
		if err != nil {
			count = 0
		}
		statusCounts[string(status)] = count
	}

	totalProblems, err := s.problems.CountProblems(ctx)
	if err != nil {
		totalProblems = 0
	}
	totalVotes, err := s.votes.CountVotes(ctx)
	if err != nil {
		totalVotes = 0
	}
	openProblems, err := s.problems.CountByStatus(ctx, models.Pending, models.InProgress)
	if err != nil {
		openProblems = 0
	}

	return &AnalyticsReport{
		ProblemsByCategory: byCategory,
		Last7Days:          last7Days,
		TopVotedProblems:   topVoted,
		StatusCounts:       statusCounts,
		TotalProblems:      totalProblems,
		TotalVotes:         totalVotes,
		OpenProblems:       openProblems,
	}, nil
}
