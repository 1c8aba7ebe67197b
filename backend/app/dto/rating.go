package dto

import (
	"time"

	"store-rating/backend/app/models"
)

type SubmitRatingRequest struct {
	StoreID uint `json:"store_id"`
	Rating  int  `json:"rating"`
}

type UpdateRatingRequest struct {
	Rating int `json:"rating"`
}

type RatingResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	StoreID   uint      `json:"store_id"`
	Rating    int       `json:"rating"`
	UserName  string    `json:"user_name,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
	StoreName string    `json:"store_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRatingResponse(r *models.Rating) RatingResponse {
	return RatingResponse{ID: r.ID, UserID: r.UserID, StoreID: r.StoreID, Rating: r.Rating, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func NewStoreRatingList(rs []models.RatingWithUser) []RatingResponse {
	out := make([]RatingResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, RatingResponse{
			ID: r.ID, UserID: r.UserID, StoreID: r.StoreID, Rating: r.Rating,
			UserName: r.UserName, UserEmail: r.UserEmail,
			CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
		})
	}
	return out
}

func NewUserRatingList(rs []models.RatingWithStore) []RatingResponse {
	out := make([]RatingResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, RatingResponse{
			ID: r.ID, UserID: r.UserID, StoreID: r.StoreID, Rating: r.Rating,
			StoreName: r.StoreName, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
		})
	}
	return out
}
