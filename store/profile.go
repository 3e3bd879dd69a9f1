package store

import (
	"context"
	"fmt"
	"time"

	"problemscout-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoProfileStore struct {
	col *mongo.Collection
}

func NewMongoProfileStore(db *mongo.Database) ProfileStore {
	return &mongoProfileStore{col: db.Collection("profiles")}
}

func (s *mongoProfileStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var profile models.Profile
	err := s.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (s *mongoProfileStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}
