package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2025-09-28")
	require.NoError(t, err)
	assert.Equal(t, "28/09/2025", d.Formatted())

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-09-28"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d.Time))

	_, err = ParseDate("28/09/2025")
	assert.Error(t, err)
}

func TestMonthBounds(t *testing.T) {
	m, err := ParseMonth("2025-12")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", m.Start().String())
	assert.Equal(t, "2026-01-01", m.End().String())
	assert.True(t, m.Contains(NewDate(2025, time.December, 31)))
	assert.False(t, m.Contains(NewDate(2026, time.January, 1)))
	assert.Equal(t, "2025-12", m.String())
}

func TestAvailableMoneyJSONCarriesFormattedDate(t *testing.T) {
	m := AvailableMoney{ID: 1, UserID: 2, Name: "Salário", ToSpend: 2500, Date: NewDate(2025, time.September, 28)}
	b, err := json.Marshal(m)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "2025-09-28", out["date"])
	assert.Equal(t, "28/09/2025", out["formatted_date"])
	assert.Equal(t, 2500.0, out["to_spend"])
}

func TestUserPasswordIsNeverSerialized(t *testing.T) {
	b, err := json.Marshal(User{ID: 1, Name: "Camila", Email: "camila@exemplo.com", Password: "hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash")
	assert.NotContains(t, string(b), "password")
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{7, 8}, 2, 6, 8)
	assert.Equal(t, 2, p.LastPage)
	require.NotNil(t, p.From)
	assert.Equal(t, 7, *p.From)
	assert.Equal(t, 8, *p.To)

	empty := NewPage[int](nil, 1, 6, 0)
	assert.NotNil(t, empty.Data)
	assert.Nil(t, empty.From)
	assert.Equal(t, 1, empty.LastPage)
}

func TestValidationErrorMerge(t *testing.T) {
	v := NewValidationError()
	assert.True(t, v.Empty())
	v.Add("name", "required")

	other := NewValidationError()
	other.Add("email", "taken")
	v.Merge(other)

	assert.Len(t, v.Fields, 2)
	assert.Equal(t, "invalid input: email: taken; name: required", v.Error())
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Cartão de crédito", CleanText("  Cartão de   crédito\t"))
}
