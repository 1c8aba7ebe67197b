package models

import "time"

// Store keeps existing when its owner is deleted; OwnerID becomes NULL.
type Store struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Email     string `gorm:"uniqueIndex;size:191;not null"`
	Address   string `gorm:"size:400;not null"`
	OwnerID   *uint  `gorm:"index"`
	Owner     *User  `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoreSummary is a store row joined with its owner name and rating
// aggregates. AverageRating is nil when the store has no ratings.
type StoreSummary struct {
	ID            uint
	Name          string
	Email         string
	Address       string
	OwnerID       *uint
	OwnerName     *string
	AverageRating *float64
	RatingCount   int64
	CreatedAt     time.Time
}
