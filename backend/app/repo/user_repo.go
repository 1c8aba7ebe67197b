package repo

import (
	"context"
	"strings"

	"store-rating/backend/app/models"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

// UserFilter narrows List. Empty fields are ignored; text fields match
// substrings.
type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    models.Role
}

func (r *UserRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count, translate(err, "user")
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, translate(err, "user")
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, "user")
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]models.User, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if f.Name != "" {
		q = q.Where("name LIKE ? ESCAPE '!'", like(f.Name))
	}
	if f.Email != "" {
		q = q.Where("email LIKE ? ESCAPE '!'", like(strings.ToLower(f.Email)))
	}
	if f.Address != "" {
		q = q.Where("address LIKE ? ESCAPE '!'", like(f.Address))
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	var users []models.User
	if err := q.Order("id").Find(&users).Error; err != nil {
		return nil, translate(err, "user")
	}
	return users, nil
}

// UpdatePassword stores a new password hash for the user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

// UpgradeLegacyPassword replaces a plaintext password with its hash only
// while the stored value still equals that plaintext. It reports false when
// the password was changed in the meantime.
func (r *UserRepository) UpgradeLegacyPassword(ctx context.Context, id uint, plaintext, hash string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND password = ?", id, plaintext).
		Update("password", hash)
	if res.Error != nil {
		return false, translate(res.Error, "user")
	}
	return res.RowsAffected == 1, nil
}

// Delete removes the user. Owned stores keep existing with a NULL owner and
// the user's ratings are removed by the foreign key actions.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

// like builds a substring pattern for use with ESCAPE '!'.
func like(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(s) + "%"
}
