package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/TamilarasanG17/VT-Wallet/internal/auth"
	userDatamodel "github.com/TamilarasanG17/VT-Wallet/internal/core/datamodel/user"
)

// UserRepository implements auth.RepositoryAPI using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) auth.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Save(u *userDatamodel.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var record userDatamodel.User
	err := r.db.Where("email = ?", email).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var record userDatamodel.User
	err := r.db.First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
