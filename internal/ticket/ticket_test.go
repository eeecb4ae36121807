package ticket

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(transfer bool) Params {
	return Params{
		Serial:       snowflake.ID(42),
		IssuedAt:     time.Date(2024, 10, 14, 10, 5, 30, 0, time.UTC),
		Fare:         decimal.NewFromInt(790),
		BalanceAfter: decimal.NewFromInt(4210),
		Route:        "102 Rojo",
		CardKind:     "half_fare",
		TotalPaid:    decimal.NewFromInt(790),
		CardID:       7,
		Transfer:     transfer,
	}
}

func TestNew_RequiresRoute(t *testing.T) {
	p := sample(false)
	p.Route = "  "

	_, err := New(p)
	assert.ErrorIs(t, err, ErrMissingRoute)
}

func TestParams_Validate(t *testing.T) {
	assert.ErrorIs(t, Params{Route: " "}.Validate(), ErrMissingRoute)
	assert.NoError(t, Params{Route: "K"}.Validate())
}

func TestNew_DefaultsKind(t *testing.T) {
	p := sample(false)
	p.CardKind = ""

	tk, err := New(p)
	require.NoError(t, err)
	assert.Equal(t, "standard", tk.CardKind())
}

func TestTicket_Accessors(t *testing.T) {
	p := sample(true)
	tk, err := New(p)
	require.NoError(t, err)

	assert.Equal(t, p.Serial, tk.Serial())
	assert.Equal(t, p.IssuedAt, tk.IssuedAt())
	assert.True(t, tk.Fare().Equal(p.Fare))
	assert.True(t, tk.BalanceAfter().Equal(p.BalanceAfter))
	assert.True(t, tk.TotalPaid().Equal(p.TotalPaid))
	assert.Equal(t, "102 Rojo", tk.Route())
	assert.Equal(t, "half_fare", tk.CardKind())
	assert.Equal(t, int64(7), tk.CardID())
	assert.True(t, tk.IsTransfer())
}

func TestTicket_String(t *testing.T) {
	tk, err := New(sample(false))
	require.NoError(t, err)

	out := tk.String()
	for _, part := range []string{"102 Rojo", "14/10/2024 10:05:30", "half_fare", "Fare: 790", "Total paid: 790", "Balance: 4210", "Card ID: 7"} {
		assert.Contains(t, out, part)
	}
	assert.NotContains(t, out, "TRANSFER")

	transfer, err := New(sample(true))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(transfer.String(), "Ticket [TRANSFER]"))
}

func TestTicket_Response(t *testing.T) {
	tk, err := New(sample(true))
	require.NoError(t, err)

	raw, err := json.Marshal(tk.Response())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "42", got["serial"])
	assert.Equal(t, "790", got["fare"])
	assert.Equal(t, "4210", got["balance_after"])
	assert.Equal(t, true, got["transfer"])
}
