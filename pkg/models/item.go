package models

import (
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as plain JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Item represents a catalogue item
type Item struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Price is a request price. Unlike decimal.Decimal it only decodes from a
// bare JSON number; quoted, boolean or structured values are type errors.
type Price decimal.Decimal

// UnmarshalJSON implements json.Unmarshaler
func (p *Price) UnmarshalJSON(data []byte) error {
	if kind := jsonKind(data); kind != "number" {
		return &json.UnmarshalTypeError{Value: kind, Type: reflect.TypeOf(Price{})}
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*p = Price(d)
	return nil
}

// Decimal returns the price as a decimal.Decimal
func (p Price) Decimal() decimal.Decimal {
	return decimal.Decimal(p)
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "empty"
	}
	switch c := data[0]; {
	case c == '"':
		return "string"
	case c == 't' || c == 'f':
		return "bool"
	case c == '{':
		return "object"
	case c == '[':
		return "array"
	case c == '-' || (c >= '0' && c <= '9'):
		return "number"
	default:
		return "literal"
	}
}

// CreateItemRequest is the payload accepted by POST /items
type CreateItemRequest struct {
	Name  *string `json:"name"`
	Price *Price  `json:"price" validate:"required,nonneg,maxdigits=30"`
}

// UpdateItemRequest is the payload accepted by PUT /items/:id.
// A nil field was omitted (or null) and keeps its stored value.
type UpdateItemRequest struct {
	Name  *string `json:"name"`
	Price *Price  `json:"price" validate:"omitempty,nonneg,maxdigits=30"`
}

// ItemPatch carries the fields to replace on an existing item
type ItemPatch struct {
	Name  *string
	Price *decimal.Decimal
}

// Patch converts the request into a store patch
func (r UpdateItemRequest) Patch() ItemPatch {
	patch := ItemPatch{Name: r.Name}
	if r.Price != nil {
		price := r.Price.Decimal()
		patch.Price = &price
	}
	return patch
}

// PingResponse is the liveness payload
type PingResponse struct {
	OK bool `json:"ok"`
}
