package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// NormalizeAmount turns user input such as "R$ 1.234,56", "1,234.56" or
// "1234.56" into a canonical decimal. Only digits and separators survive.
// When both separators appear the right-most one marks the decimals; a
// separator repeated more than once is a thousands separator; a single
// comma is a decimal comma.
func NormalizeAmount(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	clean := b.String()

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(clean, ",") > 1 {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.Replace(clean, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(clean, ".") > 1 {
			clean = strings.ReplaceAll(clean, ".", "")
		}
	}
	// at most one decimal mark may remain
	if strings.Count(clean, ".") > 1 || strings.Count(clean, ",") > 0 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if clean == "" || clean == "." {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if strings.HasPrefix(clean, ".") {
		clean = "0" + clean
	}
	clean = strings.TrimSuffix(clean, ".")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// AmountInput accepts an amount sent either as a JSON number or a string.
type AmountInput string

func (a *AmountInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountInput(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("amount must be a number or a string")
		}
		*a = AmountInput(n.String())
	}
	return nil
}

// Float normalizes the input; callers validate first.
func (a AmountInput) Float() (float64, error) {
	d, err := NormalizeAmount(string(a))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// IDInput accepts a reference id sent as a number, a numeric string, "" or null.
type IDInput string

func (i *IDInput) UnmarshalJSON(b []byte) error {
	var a AmountInput
	if err := a.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("id must be a number or a string")
	}
	*i = IDInput(a)
	return nil
}

// Ptr returns nil for an empty input.
func (i IDInput) Ptr() (*int64, error) {
	if i == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(string(i), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", string(i), err)
	}
	return &id, nil
}
