package services

import (
	"context"

	"store-rating/backend/app/apperr"
	"store-rating/backend/app/models"
	"store-rating/backend/app/repo"
)

type SubmitRatingInput struct {
	StoreID uint
	Rating  int
}

type RatingService struct {
	ratings *repo.RatingRepository
	stores  *repo.StoreRepository
}

func NewRatingService(ratings *repo.RatingRepository, stores *repo.StoreRepository) *RatingService {
	return &RatingService{ratings: ratings, stores: stores}
}

// Submit records userID's rating for a store, creating it or overwriting
// the previous value. The returned row is read back after the write.
func (s *RatingService) Submit(ctx context.Context, userID uint, in SubmitRatingInput) (*models.Rating, error) {
	if in.StoreID == 0 || in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return nil, apperr.Validation("Valid store ID and rating (1-5) are required")
	}
	if err := s.requireStore(ctx, in.StoreID); err != nil {
		return nil, err
	}
	rt := &models.Rating{UserID: userID, StoreID: in.StoreID, Rating: in.Rating}
	if err := s.ratings.Upsert(ctx, rt); err != nil {
		return nil, err
	}
	return s.ratings.FindByUserAndStore(ctx, userID, in.StoreID)
}

func (s *RatingService) Get(ctx context.Context, id uint) (*models.Rating, error) {
	return s.ratings.FindByID(ctx, id)
}

func (s *RatingService) ListByStore(ctx context.Context, storeID uint) ([]models.RatingWithUser, error) {
	if err := s.requireStore(ctx, storeID); err != nil {
		return nil, err
	}
	return s.ratings.ListByStore(ctx, storeID)
}

func (s *RatingService) ListByUser(ctx context.Context, userID uint) ([]models.RatingWithStore, error) {
	return s.ratings.ListByUser(ctx, userID)
}

func (s *RatingService) StoreAggregate(ctx context.Context, storeID uint) (models.RatingAggregate, error) {
	if err := s.requireStore(ctx, storeID); err != nil {
		return models.RatingAggregate{}, err
	}
	return s.ratings.Aggregate(ctx, storeID)
}

func (s *RatingService) Count(ctx context.Context) (int64, error) { return s.ratings.Count(ctx) }

func (s *RatingService) requireStore(ctx context.Context, id uint) error {
	ok, err := s.stores.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("store not found")
	}
	return nil
}
