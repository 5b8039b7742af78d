package domain

import "github.com/shopspring/decimal"

// OrderRequest is the ephemeral representation of a checkout attempt. It is
// composed from a cart snapshot when the shopper confirms and discarded
// after dispatch completes or fails.
type OrderRequest struct {
	Lines   []CartLine      `json:"lines"`
	Total   decimal.Decimal `json:"total"`
	Contact string          `json:"contact"`
}
