package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hotel_platform_backend/internal/models"
)

// AuthRepository defines the interface for authentication-related database operations.
type AuthRepository interface {
	CreateUser(ctx context.Context, user *models.User, hashedPassword string) (int64, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, string, error) // Returns User, HashedPassword, Error
	FindUserByID(ctx context.Context, userID int64) (*models.User, error)
}

// authRepository implements the AuthRepository interface.
type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts a new active user. The role is resolved by name when user.Role is set.
func (r *authRepository) CreateUser(ctx context.Context, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (username, password_hash, email, full_name, role_id, branch_id, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, COALESCE($5, (SELECT id FROM roles WHERE name = $6)), $7, TRUE, $8, $8)
	          RETURNING id`

	currentTime := time.Now().UTC()
	var roleID sql.NullInt64
	if user.RoleID != nil {
		roleID = sql.NullInt64{Int64: *user.RoleID, Valid: true}
	}

	var userID int64
	err := r.db.QueryRowContext(ctx, query,
		user.Username, hashedPassword, user.Email, user.FullName, roleID, user.RoleName(), user.BranchID, currentTime,
	).Scan(&userID)
	if err != nil {
		return 0, wrapWriteError(err, "creating user")
	}
	user.ID = userID
	user.IsActive = true
	user.CreatedAt, user.UpdatedAt = currentTime, currentTime
	return userID, nil
}

const userSelect = `
	SELECT u.id, u.username, u.password_hash, u.email, u.full_name, u.role_id, u.branch_id, u.is_active,
	       u.created_at, u.updated_at, COALESCE(ro.name, '') AS role_name
	FROM users u
	LEFT JOIN roles ro ON u.role_id = ro.id`

func scanUser(s scanner) (*models.User, string, error) {
	user := &models.User{}
	var hashedPassword, roleName string
	var roleID sql.NullInt64
	var email, fullName, branchID sql.NullString
	err := s.Scan(&user.ID, &user.Username, &hashedPassword, &email, &fullName, &roleID, &branchID,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt, &roleName)
	if err != nil {
		return nil, "", err
	}
	if email.Valid {
		user.Email = &email.String
	}
	if fullName.Valid {
		user.FullName = &fullName.String
	}
	if branchID.Valid {
		user.BranchID = &branchID.String
	}
	if roleID.Valid {
		user.RoleID = &roleID.Int64
		user.Role = &models.Role{ID: roleID.Int64, Name: roleName}
	}
	return user, hashedPassword, nil
}

// FindUserByUsername retrieves a user by their username.
// It returns the user model, their hashed password, and an error if any.
func (r *authRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, string, error) {
	user, hashedPassword, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.username = $1`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding user by username %s: %v", ErrDatabaseError, username, err)
	}
	return user, hashedPassword, nil
}

// FindUserByID retrieves a user by their ID.
func (r *authRepository) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user, _, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.id = $1`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %d: %v", ErrDatabaseError, userID, err)
	}
	return user, nil
}

// MemoryAuthRepository keeps back-office accounts in memory for demo mode and tests.
type MemoryAuthRepository struct {
	mu     sync.RWMutex
	users  map[int64]*models.User
	hashes map[int64]string
	nextID int64
}

// NewMemoryAuthRepository creates an empty in-memory account store.
func NewMemoryAuthRepository() *MemoryAuthRepository {
	return &MemoryAuthRepository{users: map[int64]*models.User{}, hashes: map[int64]string{}}
}

func (r *MemoryAuthRepository) CreateUser(ctx context.Context, user *models.User, hashedPassword string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) {
			return 0, fmt.Errorf("%w: username %s", ErrDuplicateKey, user.Username)
		}
	}
	r.nextID++
	now := time.Now().UTC()
	stored := *user
	stored.ID = r.nextID
	stored.IsActive = true
	stored.CreatedAt, stored.UpdatedAt = now, now
	stored.PasswordHash = ""
	r.users[stored.ID] = &stored
	r.hashes[stored.ID] = hashedPassword
	*user = stored
	return stored.ID, nil
}

func (r *MemoryAuthRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, r.hashes[id], nil
		}
	}
	return nil, "", ErrNotFound
}

func (r *MemoryAuthRepository) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}
