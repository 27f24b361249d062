package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/notify"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository stores customer profiles and their delivery addresses. It
// also resolves notification recipients.
type UserRepository struct {
	db *gorm.DB
}

var _ notify.Directory = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Find(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Preload("Addresses").First(&u, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "find user")
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "phone", "name", "created_at").
		Order("created_at DESC").
		Find(&users).Error
	return users, translate(err, "list users")
}

// Save inserts the profile or updates its mutable fields.
func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "phone", "name", "device_token"}),
	}).Omit("Addresses").Create(u).Error
	return translate(err, "save user")
}

func (r *UserRepository) AddAddress(ctx context.Context, a *models.Address) error {
	return translate(r.db.WithContext(ctx).Create(a).Error, "add address")
}

func (r *UserRepository) Contact(ctx context.Context, userID string) (notify.Recipient, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		return notify.Recipient{}, translate(err, "find user")
	}
	return notify.Recipient{
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		DeviceToken: u.DeviceToken,
	}, nil
}
