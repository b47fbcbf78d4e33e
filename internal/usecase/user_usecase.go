package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/bankledger/internal/domain"
)

// UserUseCase is the account directory: registration, authentication and
// counterparty resolution. Username and email uniqueness is enforced by the
// store's unique constraints; everything downstream assumes it.
type UserUseCase struct {
	userRepo  UserRepository
	cache     Cache
	auditRepo AuditRepository
	idGen     IDGenerator
}

// NewUserUseCase creates a new UserUseCase. cache, auditRepo and idGen may
// be nil.
func NewUserUseCase(userRepo UserRepository, cache Cache, auditRepo AuditRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		cache:     cache,
		auditRepo: auditRepo,
		idGen:     idGen,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user with a bcrypt-hashed password.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       strings.TrimSpace(input.Username),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		HashedPassword: string(hashed),
		CreatedAt:      time.Now().UTC(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		uc.audit(ctx, 0, domain.AuditActionUserRegister, domain.AuditStatusError, err)
		return nil, err
	}

	uc.audit(ctx, user.ID, domain.AuditActionUserRegister, domain.AuditStatusSuccess, nil)

	return user, nil
}

// Authenticate verifies credentials and returns the user.
func (uc *UserUseCase) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		uc.audit(ctx, 0, domain.AuditActionUserLogin, domain.AuditStatusFailure, domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		uc.audit(ctx, user.ID, domain.AuditActionUserLogin, domain.AuditStatusFailure, domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}

	uc.audit(ctx, user.ID, domain.AuditActionUserLogin, domain.AuditStatusSuccess, nil)

	return user, nil
}

func (uc *UserUseCase) audit(ctx context.Context, userID int64, action domain.AuditAction, status domain.AuditStatus, opErr error) {
	if uc.auditRepo == nil {
		return
	}

	entry := &domain.AuditLog{
		UserID:       userID,
		Action:       string(action),
		ResourceType: "user",
		Status:       string(status),
		CreatedAt:    time.Now().UTC(),
	}

	if uc.idGen != nil {
		entry.ID = uc.idGen.Generate()
	}

	if userID != 0 {
		entry.ResourceID = formatID(userID)
	}

	if opErr != nil {
		entry.ErrorMessage = opErr.Error()
	}

	if err := uc.auditRepo.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", string(action)).Msg("failed to write audit log")
	}
}

// ResolveUser finds a transfer counterparty by numeric id or username.
// Identity records are immutable after registration, so resolved lookups are
// cached briefly.
func (uc *UserUseCase) ResolveUser(ctx context.Context, identifier string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, domain.ErrUserNotFound
	}

	if cached := uc.cacheGet(ctx, identifier); cached != nil {
		return cached, nil
	}

	var (
		user *domain.User
		err  error
	)

	if id, convErr := strconv.ParseInt(identifier, 10, 64); convErr == nil {
		user, err = uc.userRepo.GetByID(ctx, id)
	} else {
		user, err = uc.userRepo.GetByUsername(ctx, identifier)
	}

	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, identifier, user)

	return user, nil
}

// GetUser retrieves a user by id.
func (uc *UserUseCase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

type cachedUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (uc *UserUseCase) cacheGet(ctx context.Context, identifier string) *domain.User {
	if uc.cache == nil {
		return nil
	}

	data, err := uc.cache.Get(ctx, resolveCacheKey(identifier))
	if err != nil || data == nil {
		return nil
	}

	var cu cachedUser
	if err := json.Unmarshal(data, &cu); err != nil {
		return nil
	}

	// Credential hash is deliberately not cached.
	return &domain.User{
		ID:        cu.ID,
		Username:  cu.Username,
		Email:     cu.Email,
		CreatedAt: cu.CreatedAt,
	}
}

func (uc *UserUseCase) cacheSet(ctx context.Context, identifier string, user *domain.User) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return
	}

	_ = uc.cache.Set(ctx, resolveCacheKey(identifier), data, resolveCacheTTL)
}

func resolveCacheKey(identifier string) string {
	return "directory:resolve:" + identifier
}
