package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Pan           string    `json:"pan"`
	Photo         string    `json:"photo"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	WalletMoney   float64   `json:"wallet_money"`
	TotalInvested float64   `json:"total_invested"`
	RefreshToken  string    `json:"-"`
	Holdings      []Holding `json:"stocks"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Holding is one purchase of a stock by a user. Repeated purchases of the
// same stock append separate holdings rather than merging quantities.
type Holding struct {
	ID           int64     `json:"id"`
	StockID      string    `json:"stock"`
	Quantity     int       `json:"quantity"`
	PricePerUnit float64   `json:"price_per_unit"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
