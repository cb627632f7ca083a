package validator

import (
	"errors"
	"testing"

	"finance-tracker/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string             `json:"name" validate:"required,notblank"`
	Amount domain.AmountInput `json:"to_spend" validate:"required,money"`
	Date   string             `json:"date" validate:"required,isodate"`
	Month  string             `json:"month" validate:"omitempty,yearmonth"`
}

func TestCustomTags(t *testing.T) {
	ok := sample{Name: "Salário", Amount: "2.500,00", Date: "2025-09-28", Month: "2025-09"}
	require.NoError(t, Validate.Struct(ok))

	bad := sample{Name: "   ", Amount: "abc", Date: "28/09/2025", Month: "2025-13"}
	err := Validate.Struct(bad)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	tags := map[string]string{}
	for _, e := range verrs {
		tags[e.Field()] = e.Tag()
	}
	assert.Equal(t, map[string]string{
		"name":     "notblank",
		"to_spend": "money",
		"date":     "isodate",
		"month":    "yearmonth",
	}, tags)
}

func TestMaxBytes(t *testing.T) {
	type secret struct {
		Password string `json:"password" validate:"maxbytes=4"`
	}
	assert.NoError(t, Validate.Struct(secret{Password: "abcd"}))
	assert.NoError(t, Validate.Struct(secret{Password: "éé"}))
	assert.Error(t, Validate.Struct(secret{Password: "abcde"}))
	// three runes, six bytes
	assert.Error(t, Validate.Struct(secret{Password: "ééé"}))
}
