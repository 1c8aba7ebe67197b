package services

import (
	"context"
	"strings"

	"store-rating/backend/app/apperr"
	"store-rating/backend/app/models"
	"store-rating/backend/app/repo"
)

type CreateStoreInput struct {
	Name    string
	Email   string
	Address string
	OwnerID uint
}

type StoreService struct {
	stores *repo.StoreRepository
	users  *repo.UserRepository
}

func NewStoreService(stores *repo.StoreRepository, users *repo.UserRepository) *StoreService {
	return &StoreService{stores: stores, users: users}
}

// Create adds a store owned by in.OwnerID, which must be an existing user.
func (s *StoreService) Create(ctx context.Context, in CreateStoreInput) (*models.Store, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := ValidateStore(in); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, in.OwnerID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("owner not found")
		}
		return nil, err
	}
	owner := in.OwnerID
	st := &models.Store{Name: in.Name, Email: in.Email, Address: in.Address, OwnerID: &owner}
	if err := s.stores.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// List returns all stores, or those whose name or address contains search.
func (s *StoreService) List(ctx context.Context, search string) ([]models.StoreSummary, error) {
	return s.stores.ListSummaries(ctx, repo.StoreFilter{Search: strings.TrimSpace(search)})
}

func (s *StoreService) ListByOwner(ctx context.Context, ownerID uint) ([]models.StoreSummary, error) {
	return s.stores.ListSummaries(ctx, repo.StoreFilter{OwnerID: &ownerID})
}

func (s *StoreService) Delete(ctx context.Context, id uint) error { return s.stores.Delete(ctx, id) }

func (s *StoreService) Count(ctx context.Context) (int64, error) { return s.stores.Count(ctx) }
