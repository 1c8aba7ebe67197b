package dto

import (
	"time"

	"store-rating/backend/app/models"
)

type CreateStoreRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	OwnerID uint   `json:"owner_id,omitempty"`
}

type StoreResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	OwnerID       *uint     `json:"owner_id"`
	OwnerName     *string   `json:"owner_name"`
	AverageRating *float64  `json:"average_rating"`
	RatingCount   int64     `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewStoreList(ss []models.StoreSummary) []StoreResponse {
	out := make([]StoreResponse, 0, len(ss))
	for _, s := range ss {
		out = append(out, StoreResponse{
			ID: s.ID, Name: s.Name, Email: s.Email, Address: s.Address,
			OwnerID: s.OwnerID, OwnerName: s.OwnerName,
			AverageRating: s.AverageRating, RatingCount: s.RatingCount,
			CreatedAt: s.CreatedAt,
		})
	}
	return out
}

// NewStoreResponse renders a freshly created store, which has no ratings yet.
func NewStoreResponse(s *models.Store) StoreResponse {
	return StoreResponse{ID: s.ID, Name: s.Name, Email: s.Email, Address: s.Address, OwnerID: s.OwnerID, CreatedAt: s.CreatedAt}
}
