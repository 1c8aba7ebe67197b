package services

import (
	"context"
	"sync"
	"time"

	"store-rating/backend/app/apperr"
	"store-rating/backend/app/models"
	"store-rating/backend/app/repo"

	"github.com/rs/zerolog"
)

// fallbackDummyHash is a cost-10 bcrypt hash used when the configured
// hasher cannot produce one at startup.
const fallbackDummyHash = "$2b$10$abcdefghijklmnopqrstuuWZOWHCdnuOVFb9VpY4mOQM06pyJg9PK"

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

type CreateUserInput struct {
	RegisterInput
	Role models.Role
}

type UserService struct {
	users   *repo.UserRepository
	hasher  PasswordHasher
	limiter LoginLimiter
	log     zerolog.Logger

	// compared against when the e-mail is unknown so both failure paths
	// cost one bcrypt comparison
	dummyHash string
	upgrades  sync.WaitGroup
}

func NewUserService(users *repo.UserRepository, hasher PasswordHasher, limiter LoginLimiter, log zerolog.Logger) *UserService {
	if limiter == nil {
		limiter = NewNoopLimiter()
	}
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		dummy = fallbackDummyHash
	}
	return &UserService{users: users, hasher: hasher, limiter: limiter, log: log, dummyHash: dummy}
}

// Register creates an account with role user.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.create(ctx, in, models.RoleUser)
}

// CreateUser creates an account with an explicit role; role defaults to user.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.Validation("validation failed", apperr.FieldError{Field: "role", Message: "Role must be one of admin, user, store_owner"})
	}
	return s.create(ctx, in.RegisterInput, role)
}

func (s *UserService) create(ctx context.Context, in RegisterInput, role models.Role) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := ValidateRegistration(in); err != nil {
		return nil, err
	}
	n, err := s.users.CountByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apperr.Conflict("User already exists")
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal(err, "could not hash password")
	}
	u := &models.User{Name: in.Name, Email: in.Email, Password: hash, Address: in.Address, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks credentials. Unknown e-mail and wrong password both
// yield the same Unauthorized error. A legacy plaintext password that
// matches is re-hashed in the background.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}
	if err := s.limiter.Allow(ctx, email); err != nil {
		return nil, err
	}
	u, err := s.users.FindByEmail(ctx, email)
	if apperr.Is(err, apperr.KindNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		s.limiter.RecordFailure(ctx, email)
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	ok, legacy := s.hasher.Verify(password, u.Password)
	if !ok {
		s.limiter.RecordFailure(ctx, email)
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	s.limiter.Reset(ctx, email)
	if legacy {
		s.upgradeLegacyPassword(ctx, u.ID, password)
	}
	return u, nil
}

func (s *UserService) upgradeLegacyPassword(ctx context.Context, id uint, password string) {
	s.upgrades.Add(1)
	go func() {
		defer s.upgrades.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		log := s.log.With().Uint("user_id", id).Logger()
		hash, err := s.hasher.Hash(password)
		if err != nil {
			log.Error().Err(err).Msg("hash legacy password")
			return
		}
		ok, err := s.users.UpgradeLegacyPassword(ctx, id, password, hash)
		if err != nil {
			log.Error().Err(err).Msg("store upgraded password hash")
			return
		}
		if !ok {
			log.Debug().Msg("password changed before legacy upgrade, skipped")
			return
		}
		log.Info().Msg("legacy plaintext password upgraded to bcrypt")
	}()
}

// Drain waits for background password upgrades to finish.
func (s *UserService) Drain() { s.upgrades.Wait() }

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, f repo.UserFilter) ([]models.User, error) {
	if f.Role != "" && !f.Role.Valid() {
		return nil, apperr.Validation("unknown role filter")
	}
	return s.users.List(ctx, f)
}

func (s *UserService) ChangePassword(ctx context.Context, id uint, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperr.Internal(err, "could not hash password")
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

func (s *UserService) Delete(ctx context.Context, id uint) error { return s.users.Delete(ctx, id) }

func (s *UserService) Count(ctx context.Context) (int64, error) { return s.users.Count(ctx) }

// EnsureAdmin creates an admin account unless one with the e-mail exists.
// Existing accounts are left untouched.
func (s *UserService) EnsureAdmin(ctx context.Context, in RegisterInput) (bool, error) {
	n, err := s.users.CountByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.create(ctx, in, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
