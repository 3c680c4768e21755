package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kopyalagelsin/storefront/internal/domain"
)

// User is a customer account. Immutable after registration apart from
// password-reset flows handled elsewhere.
type User struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"createdAt"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"passwordHash"`
	ReferralCode     string    `json:"referralCode"`
	ReferredByUserID string    `json:"referredByUserId,omitempty"`
}

func NewUser(name, email, passwordHash, referralCode, referredByUserID string) (*User, error) {
	if name == "" || email == "" || passwordHash == "" || referralCode == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:               uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		Name:             name,
		Email:            email,
		PasswordHash:     passwordHash,
		ReferralCode:     referralCode,
		ReferredByUserID: referredByUserID,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

// EmailEquals compares emails case-insensitively; uniqueness is enforced on
// this comparison.
func (u *User) EmailEquals(email string) bool {
	return strings.EqualFold(u.Email, email)
}
