package store

import (
	"context"
	"fmt"
	"time"

	"problemscout-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoVoteStore struct {
	col *mongo.Collection
}

func NewMongoVoteStore(db *mongo.Database) VoteStore {
	return &mongoVoteStore{col: db.Collection("votes")}
}

func (s *mongoVoteStore) HasVoted(ctx context.Context, problemID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := s.col.CountDocuments(ctx, bson.M{
		"problem": problemID,
		"user":    userID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check existing votes: %w", err)
	}
	return count > 0, nil
}

func (s *mongoVoteStore) AddVote(ctx context.Context, vote *models.Vote) error {
	if vote.ID.IsZero() {
		vote.ID = primitive.NewObjectID()
	}
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, vote); err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}
	return nil
}

func (s *mongoVoteStore) RemoveVote(ctx context.Context, problemID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.col.DeleteOne(ctx, bson.M{
		"problem": problemID,
		"user":    userID,
	}); err != nil {
		return fmt.Errorf("failed to remove vote: %w", err)
	}
	return nil
}

func (s *mongoVoteStore) CountVotes(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.col.CountDocuments(ctx, bson.M{})
}
