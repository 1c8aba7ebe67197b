package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"store-rating/backend/app/apperr"
	"store-rating/backend/app/db/dbtest"
	"store-rating/backend/app/repo"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func asAppErr(err error, target **apperr.Error) bool { return errors.As(err, target) }

type env struct {
	db      *gorm.DB
	users   *UserService
	stores  *StoreService
	ratings *RatingService
	userRep *repo.UserRepository
}

func newEnv(t *testing.T, limiter LoginLimiter) *env {
	t.Helper()
	gdb := dbtest.Open(t)
	userRepo := repo.NewUserRepository(gdb)
	storeRepo := repo.NewStoreRepository(gdb)
	ratingRepo := repo.NewRatingRepository(gdb)
	log := zerolog.New(io.Discard)
	return &env{
		db:      gdb,
		users:   NewUserService(userRepo, NewPasswordHasher(bcrypt.MinCost), limiter, log),
		stores:  NewStoreService(storeRepo, userRepo),
		ratings: NewRatingService(ratingRepo, storeRepo),
		userRep: userRepo,
	}
}

// memLimiter is an in-memory LoginLimiter for tests.
type memLimiter struct {
	mu       sync.Mutex
	max      int
	failures map[string]int
}

func newMemLimiter(max int) *memLimiter { return &memLimiter{max: max, failures: map[string]int{}} }

func (m *memLimiter) Allow(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures[email] >= m.max {
		return apperr.TooManyRequests("too many failed login attempts")
	}
	return nil
}

func (m *memLimiter) RecordFailure(_ context.Context, email string) {
	m.mu.Lock()
	m.failures[email]++
	m.mu.Unlock()
}

func (m *memLimiter) Reset(_ context.Context, email string) {
	m.mu.Lock()
	delete(m.failures, email)
	m.mu.Unlock()
}
