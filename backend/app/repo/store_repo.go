package repo

import (
	"context"

	"store-rating/backend/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoreRepository struct{ db *gorm.DB }

func NewStoreRepository(db *gorm.DB) *StoreRepository { return &StoreRepository{db: db} }

// StoreFilter narrows ListSummaries. Search matches name or address.
type StoreFilter struct {
	Search  string
	OwnerID *uint
}

func (r *StoreRepository) Create(ctx context.Context, s *models.Store) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error, "store")
}

func (r *StoreRepository) FindByID(ctx context.Context, id uint) (*models.Store, error) {
	var s models.Store
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err, "store")
	}
	return &s, nil
}

func (r *StoreRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Store{}).Where("id = ?", id).Count(&count).Error
	return count > 0, translate(err, "store")
}

func (r *StoreRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Store{}).Count(&count).Error
	return count, translate(err, "store")
}

// ListSummaries returns stores with owner name, average rating and rating
// count computed by the database at query time.
func (r *StoreRepository) ListSummaries(ctx context.Context, f StoreFilter) ([]models.StoreSummary, error) {
	q := r.db.WithContext(ctx).
		Table("stores AS s").
		Select("s.id, s.name, s.email, s.address, s.owner_id, s.created_at, " +
			"u.name AS owner_name, AVG(r.rating) AS average_rating, COUNT(r.id) AS rating_count").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Joins("LEFT JOIN users u ON u.id = s.owner_id")
	if f.Search != "" {
		p := like(f.Search)
		q = q.Where("s.name LIKE ? ESCAPE '!' OR s.address LIKE ? ESCAPE '!'", p, p)
	}
	if f.OwnerID != nil {
		q = q.Where("s.owner_id = ?", *f.OwnerID)
	}
	var out []models.StoreSummary
	err := q.Group("s.id, s.name, s.email, s.address, s.owner_id, s.created_at, u.name").
		Order("s.id").
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, "store")
	}
	return out, nil
}

// Delete removes the store; its ratings go with it through ON DELETE CASCADE.
func (r *StoreRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Store{}, id)
	if res.Error != nil {
		return translate(res.Error, "store")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "store")
	}
	return nil
}
