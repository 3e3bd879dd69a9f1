package models

import (
	"time"
)

// ProblemCategory enum
type ProblemCategory string

const (
	Roads       ProblemCategory = "roads"
	Utilities   ProblemCategory = "utilities"
	Environment ProblemCategory = "environment"
	Safety      ProblemCategory = "safety"
	Facilities  ProblemCategory = "facilities"
	Other       ProblemCategory = "other"
)

// ProblemStatus enum
type ProblemStatus string

const (
	Pending    ProblemStatus = "pending"
	InProgress ProblemStatus = "in-progress"
	Resolved   ProblemStatus = "resolved"
)

// NoLocationAddress marks a report submitted without a map click.
const NoLocationAddress = "No specific location provided"

// ProblemLocation pairs map coordinates with an optional human-readable address
type ProblemLocation struct {
	Lat     float64 `bson:"lat" json:"lat"`
	Lng     float64 `bson:"lng" json:"lng"`
	Address *string `bson:"address,omitempty" json:"address,omitempty"`
}

// NoLocation returns the sentinel location stored for location-less reports
func NoLocation() ProblemLocation {
	address := NoLocationAddress
	return ProblemLocation{Lat: 0, Lng: 0, Address: &address}
}

// Problem represents a community-reported issue placed on the map
type Problem struct {
	ID          string          `bson:"_id" json:"id"`
	UserID      string          `bson:"user_id" json:"userId"`
	Title       string          `bson:"title" json:"title"`
	Description string          `bson:"description" json:"description"`
	Category    ProblemCategory `bson:"category" json:"category"`
	Status      ProblemStatus   `bson:"status" json:"status"`
	Location    ProblemLocation `bson:"location" json:"location"`
	ImageURL    *string         `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Upvotes     int64           `bson:"upvotes" json:"upvotes"`
	CreatedAt   time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updatedAt"`
}

// HasLocation reports whether the problem carries a real map position
// rather than the sentinel.
func (p *Problem) HasLocation() bool {
	return p.Location.Address == nil || *p.Location.Address != NoLocationAddress
}
