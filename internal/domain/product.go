package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	ShortDescription string          `json:"short_description,omitempty"`
	Price            decimal.Decimal `json:"price"`
	MainImage        string          `json:"main_image,omitempty"`
	AdditionalImages []string        `json:"additional_images,omitempty"`
	Category         string          `json:"category"`
	Rating           float64         `json:"rating"`
	Reviews          int             `json:"reviews"`
	InStock          bool            `json:"in_stock"`
	Variants         []string        `json:"variants,omitempty"`
	Features         []string        `json:"features,omitempty"`
	Sales            int             `json:"sales"`
	CreatedAt        time.Time       `json:"created_at"`
}
