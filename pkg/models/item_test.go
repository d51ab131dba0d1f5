package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceUnmarshal(t *testing.T) {
	var req CreateItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"pen","price":12.50}`), &req))
	require.NotNil(t, req.Price)
	assert.True(t, req.Price.Decimal().Equal(decimal.RequireFromString("12.5")))

	req = CreateItemRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"price":null}`), &req))
	assert.Nil(t, req.Price)
}

func TestPriceRejectsNonNumbers(t *testing.T) {
	for _, body := range []string{`{"price":"12"}`, `{"price":true}`, `{"price":{}}`, `{"price":[1]}`} {
		var req CreateItemRequest
		err := json.Unmarshal([]byte(body), &req)

		var typeErr *json.UnmarshalTypeError
		require.ErrorAs(t, err, &typeErr, body)
		assert.Equal(t, "price", typeErr.Field, body)
	}
}

func TestItemMarshalsPriceAsNumber(t *testing.T) {
	raw, err := json.Marshal(Item{ID: 1, Name: "pen", Price: decimal.RequireFromString("0.1")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"pen","price":0.1}`, string(raw))
}

func TestUpdatePatch(t *testing.T) {
	assert.Equal(t, ItemPatch{}, UpdateItemRequest{}.Patch())

	price := Price(decimal.NewFromInt(0))
	patch := UpdateItemRequest{Price: &price}.Patch()
	require.NotNil(t, patch.Price)
	assert.True(t, patch.Price.IsZero())
}
