package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type DealID string

func (id DealID) String() string {
	return string(id)
}

type Image struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type Document struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Position    int    `json:"position"`
}

// Deal is a read-only snapshot of a listing as returned by the admin API.
// Status is owned by the backend and never changed locally.
type Deal struct {
	ID            DealID          `json:"id" validate:"required"`
	OwnerUserID   string          `json:"owner_user_id"`
	Status        DealStatus      `json:"status"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	OpPrice       decimal.Decimal `json:"op_price"`
	AskingPrice   decimal.Decimal `json:"asking_price"`
	PriceCategory string          `json:"price_category"`
	Currency      string          `json:"currency"`
	Location      *string         `json:"location"`
	Lat           *string         `json:"lat"`
	Lng           *string         `json:"lng"`
	Images        []Image         `json:"images"`
	Documents     []Document      `json:"documents"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	PublishedAt   *time.Time      `json:"published_at"`
}

func (d Deal) LocationText() string {
	if d.Location == nil {
		return ""
	}

	return *d.Location
}

// DiscountPercent is (op - asking) / op * 100 rounded to one decimal place.
// Positive is a discount, negative a markup. ok is false when the op price is
// zero and the percentage is undefined.
func (d Deal) DiscountPercent() (percent float64, ok bool) {
	if d.OpPrice.IsZero() {
		return 0, false
	}

	percent, _ = d.OpPrice.Sub(d.AskingPrice).
		Div(d.OpPrice).
		Mul(decimal.NewFromInt(100)).
		Round(1).
		Float64()

	return percent, true
}
