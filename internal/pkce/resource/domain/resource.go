package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile is the identity the resource role serves to any registered token.
// Opaque tokens carry no claims, so every token maps to this one profile.
type Profile struct {
	Username string
	Email    string
	Role     string
	Status   string
}

type Product struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description string
}

// OrderLine is a requested line before prices are resolved.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

type OrderItem struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

type Order struct {
	ID        int64
	Username  string
	CreatedAt time.Time
	Items     []OrderItem
}

// Total is the sum of quantity times unit price over the items.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// SecurityEvent is one append-only entry of the security log.
type SecurityEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Event     string         `json:"event"`
	Details   map[string]any `json:"details"`
}
