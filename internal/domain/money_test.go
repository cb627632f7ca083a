package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1234.56", "1234.56", true},
		{"1.234,56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{"R$ 2.500,00", "2500", true},
		{"150,75", "150.75", true},
		{"1.234.567", "1234567", true},
		{"1,234,567", "1234567", true},
		{" 10 ", "10", true},
		{".5", "0.5", true},
		{"7.", "7", true},
		{"", "", false},
		{"abc", "", false},
		{".", "", false},
		{"1,2,3.4,5", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeAmount(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.out).Equal(got), "got %s", got)
		})
	}
}

func TestNormalizeAmountIsIdempotent(t *testing.T) {
	for _, in := range []string{"1.234,56", "1234.56", "R$ 99,90", "0.01", "1,234,567.8"} {
		first, err := NormalizeAmount(in)
		require.NoError(t, err)
		second, err := NormalizeAmount(first.String())
		require.NoError(t, err)
		assert.True(t, first.Equal(second), "%q: %s != %s", in, first, second)
	}

	a, _ := NormalizeAmount("1.234,56")
	b, _ := NormalizeAmount("1234.56")
	assert.True(t, a.Equal(b))
}

func TestAmountInputAcceptsNumbersAndStrings(t *testing.T) {
	var req struct {
		A AmountInput `json:"a"`
		B AmountInput `json:"b"`
		C AmountInput `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 2500.00, "b": "1.234,56", "c": null}`), &req))
	assert.Equal(t, AmountInput("2500.00"), req.A)
	assert.Equal(t, AmountInput("1.234,56"), req.B)
	assert.Equal(t, AmountInput(""), req.C)

	f, err := req.B.Float()
	require.NoError(t, err)
	assert.Equal(t, 1234.56, f)

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &req))
}

func TestIDInput(t *testing.T) {
	var req struct {
		A IDInput `json:"a"`
		B IDInput `json:"b"`
		C IDInput `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 7, "b": "12", "c": ""}`), &req))

	a, err := req.A.Ptr()
	require.NoError(t, err)
	assert.Equal(t, int64(7), *a)

	b, err := req.B.Ptr()
	require.NoError(t, err)
	assert.Equal(t, int64(12), *b)

	c, err := req.C.Ptr()
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = IDInput("12abc").Ptr()
	assert.Error(t, err)
}
