package store

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fixpoint-backend/internal/model"
)

// UserInput holds the fields of a new account. Password is hashed before it
// reaches the database.
type UserInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FixpointID *int64 `json:"fixpoint_id"`
}

type userRegistry struct {
	db *gorm.DB
}

// Create stores a user with a bcrypt hash of the password.
func (u *userRegistry) Create(ctx context.Context, in UserInput) (int64, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return 0, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user := model.User{Email: email, PasswordHash: string(hash), FixpointID: in.FixpointID}
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.FixpointID != nil {
			if err := requireExists(tx, &model.Fixpoint{}, *in.FixpointID, "fixpoint"); err != nil {
				return err
			}
		}

		var dup int64
		if err := tx.Model(&model.User{}).Where("LOWER(email) = ?", email).Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return fmt.Errorf("%w: user %q already exists", ErrConflict, email)
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// ListForFixpoint returns the users of a fixpoint ordered by email.
func (u *userRegistry) ListForFixpoint(ctx context.Context, fixpointID int64) ([]model.User, error) {
	users := []model.User{}
	if fixpointID <= 0 {
		return users, nil
	}
	if err := u.db.WithContext(ctx).Where("fixpoint_id = ?", fixpointID).Order("email").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
