package models

import "time"

// Rating is unique per (UserID, StoreID); resubmission updates the row.
type Rating struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_ratings_user_store,priority:1"`
	StoreID   uint   `gorm:"not null;uniqueIndex:idx_ratings_user_store,priority:2;index"`
	Rating    int    `gorm:"not null;check:chk_ratings_rating,rating >= 1 AND rating <= 5"`
	User      *User  `gorm:"constraint:OnDelete:CASCADE;"`
	Store     *Store `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	MinRating = 1
	MaxRating = 5
)

// RatingWithUser is a store's rating joined with the rater's identity.
type RatingWithUser struct {
	ID        uint
	UserID    uint
	StoreID   uint
	Rating    int
	UserName  string
	UserEmail string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingWithStore is a user's rating joined with the rated store's name.
type RatingWithStore struct {
	ID        uint
	UserID    uint
	StoreID   uint
	Rating    int
	StoreName string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingAggregate is the average and count over a store's ratings.
type RatingAggregate struct {
	Average *float64
	Count   int64
}
