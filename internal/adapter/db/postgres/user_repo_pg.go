package postgres

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "user-rest-service/internal/domain/user"
	pkgerrors "user-rest-service/pkg/errors"
)

// UserRepoPG implements the Repository interface using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"` // Unique identifier with auto-increment
	Name  string `gorm:"not null"`                 // User's full name (required)
	Email string `gorm:"not null;unique"`          // User's unique email address (required, unique)
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (m *UserSchema) toDomain() *domain.User {
	return &domain.User{
		ID:    m.ID,
		Name:  m.Name,
		Email: m.Email,
	}
}

// isDuplicateKey reports whether err was caused by the unique constraint
// on the email column. GORM translates driver errors when TranslateError
// is enabled; the string checks cover drivers that do not participate.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// Create inserts a new user into the database and returns it with the
// generated ID.
func (r *UserRepoPG) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	model := UserSchema{
		Name:  u.Name,
		Email: u.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isDuplicateKey(err) {
			r.log.Warn("email already exists", zap.String("email", u.Email))
			return nil, pkgerrors.NewAlreadyExistsError("user", "email already exists")
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, pkgerrors.NewInternalError("failed to create user", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.toDomain(), nil
}

// Update modifies the name and email of an existing user and returns the
// updated row. It reports not-found when no row matched the ID.
func (r *UserRepoPG) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	result := r.db.WithContext(ctx).
		Model(&UserSchema{ID: u.ID}).
		Select("name", "email").
		Updates(UserSchema{Name: u.Name, Email: u.Email})

	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			r.log.Warn("email already exists", zap.String("email", u.Email))
			return nil, pkgerrors.NewAlreadyExistsError("user", "email already exists")
		}
		r.log.Error("failed to update user in db", zap.Error(result.Error), zap.Int64("id", u.ID))
		return nil, pkgerrors.NewInternalError("failed to update user", result.Error)
	}

	if result.RowsAffected == 0 {
		r.log.Warn("user not found for update", zap.Int64("id", u.ID))
		return nil, pkgerrors.NewNotFoundError("user", "user not found")
	}

	r.log.Info("user updated in db", zap.Int64("id", u.ID))
	return &domain.User{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// Delete removes a user from the database by ID. It reports not-found
// when no row matched the ID.
func (r *UserRepoPG) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if result.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(result.Error), zap.Int64("id", id))
		return pkgerrors.NewInternalError("failed to delete user", result.Error)
	}

	if result.RowsAffected == 0 {
		r.log.Warn("user not found for delete", zap.Int64("id", id))
		return pkgerrors.NewNotFoundError("user", "user not found")
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.Int64("id", id))
			return nil, pkgerrors.NewNotFoundError("user", "user not found")
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}

	return model.toDomain(), nil
}

// GetByEmail retrieves a user from the database by their email address.
// Returns (nil, nil) when no user has the given email.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, pkgerrors.NewInternalError("failed to get user by email", err)
	}

	return model.toDomain(), nil
}

// List retrieves all users from the database ordered by ID.
func (r *UserRepoPG) List(ctx context.Context) ([]domain.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to list users", err)
	}

	users := make([]domain.User, len(models))
	for i, model := range models {
		users[i] = *model.toDomain()
	}

	return users, nil
}
