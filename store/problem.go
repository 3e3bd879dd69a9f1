package store

import (
	"context"
	"fmt"
	"time"

	"problemscout-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProblemStore struct {
	col *mongo.Collection
}

func NewMongoProblemStore(db *mongo.Database) ProblemStore {
	return &mongoProblemStore{col: db.Collection("problems")}
}

func (s *mongoProblemStore) InsertProblem(ctx context.Context, problem *models.Problem) (*models.Problem, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, problem); err != nil {
		return nil, fmt.Errorf("failed to insert problem: %w", err)
	}

	// Read the inserted row back so callers get the store's view of it.
	var inserted models.Problem
	if err := s.col.FindOne(ctx, bson.M{"_id": problem.ID}).Decode(&inserted); err != nil {
		return nil, fmt.Errorf("failed to read back inserted problem: %w", err)
	}
	return &inserted, nil
}

func (s *mongoProblemStore) GetProblem(ctx context.Context, id string) (*models.Problem, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var problem models.Problem
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&problem)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	return &problem, nil
}

func (s *mongoProblemStore) ListProblems(ctx context.Context, filter ProblemFilter) ([]models.Problem, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := bson.M{}
	if filter.Category != "" && filter.Category != "all" {
		query["category"] = filter.Category
	}
	if filter.Status != "" && filter.Status != "all" {
		query["status"] = filter.Status
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	var sortOptions bson.D
	switch filter.Sort {
	case "oldest":
		sortOptions = bson.D{{Key: "created_at", Value: 1}}
	case "newest":
		fallthrough
	default:
		sortOptions = bson.D{{Key: "created_at", Value: -1}}
	}

	totalCount, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count problems: %w", err)
	}

	skip := (page - 1) * limit
	findOptions := options.Find().
		SetSort(sortOptions).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list problems: %w", err)
	}
	defer cursor.Close(ctx)

	var problems []models.Problem
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, 0, fmt.Errorf("failed to decode problems: %w", err)
	}
	return problems, totalCount, nil
}

func (s *mongoProblemStore) ListProblemsByUser(ctx context.Context, userID string) ([]models.Problem, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems by user: %w", err)
	}
	defer cursor.Close(ctx)

	var problems []models.Problem
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, fmt.Errorf("failed to decode problems: %w", err)
	}
	return problems, nil
}

func (s *mongoProblemStore) RecentLocatedProblems(ctx context.Context, limit int) ([]models.Problem, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// The sentinel location is identified by its fixed address.
	query := bson.M{
		"location.address": bson.M{"$ne": models.NoLocationAddress},
	}

	projection := bson.M{
		"_id":        1,
		"title":      1,
		"location":   1,
		"category":   1,
		"created_at": 1,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(projection)

	cursor, err := s.col.Find(ctx, query, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent problems: %w", err)
	}
	defer cursor.Close(ctx)

	var problems []models.Problem
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, fmt.Errorf("failed to decode recent problems: %w", err)
	}
	return problems, nil
}

func (s *mongoProblemStore) AdjustUpvotes(ctx context.Context, id string, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"upvotes": delta},
		"$set": bson.M{"updated_at": time.Now()},
	}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to adjust upvotes: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoProblemStore) CountProblems(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *mongoProblemStore) CountByStatus(ctx context.Context, statuses ...models.ProblemStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.col.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": statuses},
	})
}

func (s *mongoProblemStore) CountByCategory(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":   "$category",
				"count": bson.M{"$sum": 1},
			},
		},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode category counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

func (s *mongoProblemStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.col.CountDocuments(ctx, bson.M{
		"created_at": bson.M{
			"$gte": from,
			"$lt":  to,
		},
	})
}

func (s *mongoProblemStore) TopVoted(ctx context.Context, limit int) ([]models.Problem, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "upvotes", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list top voted problems: %w", err)
	}
	defer cursor.Close(ctx)

	var problems []models.Problem
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, fmt.Errorf("failed to decode top voted problems: %w", err)
	}
	return problems, nil
}
