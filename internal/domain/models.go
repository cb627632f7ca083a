// internal/domain/models.go
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessToken is one issued bearer token. Deleting it revokes the token.
type AccessToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     int64      `json:"user_id"`
	Name       string     `json:"name"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AvailableMoney (entrada) is money the user can spend.
type AvailableMoney struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	ToSpend   float64   `json:"to_spend"`
	Date      Date      `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m AvailableMoney) MarshalJSON() ([]byte, error) {
	type alias AvailableMoney
	return json.Marshal(struct {
		alias
		FormattedDate string `json:"formatted_date"`
	}{alias(m), m.Date.Formatted()})
}

type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payment is a payment method shared by every user.
type Payment struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	SpentMoneyCount int64     `json:"spent_money_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SpentMoney (despesa) is an expense drawn against an AvailableMoney entry.
type SpentMoney struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	AvailableMoneyID int64     `json:"available_money_id"`
	CategoryID       *int64    `json:"categories_id"`
	PaymentID        *int64    `json:"payments_id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description"`
	Value            float64   `json:"value"`
	Payable          bool      `json:"payable"`
	Date             Date      `json:"date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Category       *Category       `json:"category"`
	Payment        *Payment        `json:"payment"`
	AvailableMoney *AvailableMoney `json:"available_money,omitempty"`
}

func (s SpentMoney) MarshalJSON() ([]byte, error) {
	type alias SpentMoney
	return json.Marshal(struct {
		alias
		FormattedDate string `json:"formatted_date"`
	}{alias(s), s.Date.Formatted()})
}
