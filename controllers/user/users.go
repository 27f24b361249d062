package userControllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/respond"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/services"
	"github.com/pkg/errors"
)

// Profiles is satisfied by *repository.UserRepository.
type Profiles interface {
	Find(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, u *models.User) error
	AddAddress(ctx context.Context, a *models.Address) error
}

type UpdateUserInput struct {
	Email       *string `json:"email"`
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	DeviceToken *string `json:"device_token"`
}

type AddressInput struct {
	Label      string `json:"label"`
	Country    string `json:"country" binding:"required"`
	City       string `json:"city" binding:"required"`
	Street     string `json:"street" binding:"required"`
	Building   string `json:"building"`
	PostalCode string `json:"postal_code"`
}

// GET /user
func GetUser(profiles Profiles) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := profiles.Find(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(profiles Profiles) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := profiles.List(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// PUT /user creates the profile on first call. The device token is where
// push notifications go.
func UpdateUser(profiles Profiles) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, err.Error())
			return
		}

		ctx := c.Request.Context()
		userID := middleware.UserID(c)
		user, err := profiles.Find(ctx, userID)
		if errors.Is(err, models.ErrRecordNotFound) {
			user, err = &models.User{ID: userID}, nil
		}
		if err != nil {
			respond.Error(c, err)
			return
		}

		if input.Email != nil {
			user.Email = strings.TrimSpace(*input.Email)
		}
		if input.Name != nil {
			user.Name = strings.TrimSpace(*input.Name)
		}
		if input.Phone != nil {
			user.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.DeviceToken != nil {
			user.DeviceToken = strings.TrimSpace(*input.DeviceToken)
		}
		if user.Email == "" {
			respond.Error(c, services.InvalidArgument("email is required"))
			return
		}

		if err := profiles.Save(ctx, user); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// POST /user/addresses
func AddAddress(profiles Profiles) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, err.Error())
			return
		}

		ctx := c.Request.Context()
		userID := middleware.UserID(c)
		if _, err := profiles.Find(ctx, userID); err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				err = services.NotFound("create a profile before adding addresses")
			}
			respond.Error(c, err)
			return
		}

		address := models.Address{
			UserID:     userID,
			Label:      strings.TrimSpace(input.Label),
			Country:    strings.TrimSpace(input.Country),
			City:       strings.TrimSpace(input.City),
			Street:     strings.TrimSpace(input.Street),
			Building:   strings.TrimSpace(input.Building),
			PostalCode: strings.TrimSpace(input.PostalCode),
		}
		if err := profiles.AddAddress(ctx, &address); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, address)
	}
}
