package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceNotFound is how a missing price is rendered to callers.
const PriceNotFound = "not found"

// Price is either a decimal amount or absent. The zero value is absent.
type Price struct {
	amount decimal.Decimal
	found  bool
}

func NewPrice(amount decimal.Decimal) Price {
	return Price{amount: amount, found: true}
}

func ParsePrice(s string) (Price, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("failed to parse price %q: %w", s, err)
	}
	return NewPrice(amount), nil
}

func MissingPrice() Price {
	return Price{}
}

// Amount returns the decimal amount and whether it is present.
func (p Price) Amount() (decimal.Decimal, bool) {
	return p.amount, p.found
}

func (p Price) Found() bool {
	return p.found
}

func (p Price) String() string {
	if !p.found {
		return PriceNotFound
	}
	return p.amount.StringFixed(2)
}

func (p Price) Equal(other Price) bool {
	if p.found != other.found {
		return false
	}
	return !p.found || p.amount.Equal(other.amount)
}

// MarshalJSON renders a number, or the "not found" string when absent.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.found {
		return json.Marshal(PriceNotFound)
	}
	return []byte(p.amount.StringFixed(2)), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = MissingPrice()
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == PriceNotFound || s == "" {
			*p = MissingPrice()
			return nil
		}
		parsed, err := ParsePrice(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	parsed, err := ParsePrice(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
