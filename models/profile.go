package models

import "time"

// Profile is the application-owned display record for a user, keyed by
// the user's identifier. It is sparser than User and is created lazily
// on first sign-in.
type Profile struct {
	ID        string    `bson:"_id" json:"id"`
	Username  *string   `bson:"username" json:"username"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
