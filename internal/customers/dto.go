package customers

import (
	"strings"
	"time"

	"github.com/simplezakka/zakka-backend/pkg/db/models"
)

// CustomerInfo is the contact block shared by registration, profile updates
// and order placement. CustomerID is zero for guests.
type CustomerInfo struct {
	CustomerID  int64  `json:"customerId"`
	Name        string `json:"name" validate:"notblank,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Address     string `json:"address" validate:"notblank,max=500"`
	PhoneNumber string `json:"phoneNumber" validate:"required,jpphone"`
}

// RegisterInput is the payload for creating a member account.
type RegisterInput struct {
	CustomerInfo CustomerInfo `json:"customerInfo" validate:"required"`
	Password     string       `json:"password" validate:"required,min=8"`
}

// LoginInput carries the credentials checked by Login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateInput replaces the profile after the current password is confirmed.
type UpdateInput struct {
	CustomerInfo    CustomerInfo `json:"customerInfo" validate:"required"`
	CurrentPassword string       `json:"currentPassword" validate:"required"`
	NewPassword     string       `json:"newPassword,omitempty" validate:"omitempty,min=8"`
}

// CustomerDTO is the transport shape that omits credentials.
type CustomerDTO struct {
	ID          int64     `json:"customerId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LoginResult bundles the profile with freshly minted tokens.
type LoginResult struct {
	Customer     *CustomerDTO `json:"customer"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func FromModel(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	return &CustomerDTO{
		ID:          c.ID,
		Name:        c.FullName(),
		Email:       c.Email,
		Address:     c.Address,
		PhoneNumber: c.PhoneNumber,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// SplitName breaks a full name into last and first name on the first space.
func SplitName(full string) (last, first string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	last = parts[0]
	if len(parts) > 1 {
		first = strings.TrimSpace(parts[1])
	}
	return last, first
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
