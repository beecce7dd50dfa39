// Package customer manages the people and businesses that place orders.
package customer

import (
	"net/mail"
	"strings"
	"time"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
)

// Customer is referenced by orders, which keep their own snapshot of it.
type Customer struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Normalize trims fields and lower-cases the email.
func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
}

// Validate checks required fields.
func (c *Customer) Validate() error {
	if c.Name == "" {
		return apperror.NewInvalidInput("name is required").WithDetail("field", "name")
	}
	if c.Email == "" {
		return apperror.NewInvalidInput("email is required").WithDetail("field", "email")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return apperror.NewInvalidInput("email is not valid").WithDetail("field", "email")
	}
	return nil
}
