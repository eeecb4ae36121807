package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smallbiznis/transitfare/internal/journey/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJourney = `
journey:
  cards:
    - name: ana
      kind: standard
    - name: beto
      kind: half_fare
  events:
    - at: "2024-10-14 10:00:00"
      card: ana
      load: 2000
    - card: ana
      ride: "102 Rojo"
    - advance: 20m
      card: beto
      ride: K
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	j, err := LoadFile(writeFile(t, "journey.yml", sampleJourney))
	require.NoError(t, err)

	require.Len(t, j.Cards, 2)
	assert.Equal(t, "half_fare", j.Cards[1].Kind)

	require.Len(t, j.Events, 3)
	assert.Equal(t, "2024-10-14 10:00:00", j.Events[0].At)
	assert.Equal(t, int64(2000), j.Events[0].Load)
	assert.Equal(t, "102 Rojo", j.Events[1].Ride)
	assert.Equal(t, 20*time.Minute, j.Events[2].Advance)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile("")
	assert.ErrorIs(t, err, domain.ErrInvalidJourney)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yml", `
journey:
  cards:
    - name: ana
  events:
    - card: nobody
      ride: K
`)
	_, err = LoadFile(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidJourney)
	assert.ErrorIs(t, err, domain.ErrUnknownCard)
}

func TestValidate(t *testing.T) {
	cards := []domain.CardSpec{{Name: "ana", Kind: "standard"}}

	tests := []struct {
		name    string
		journey domain.Journey
		wantErr bool
	}{
		{
			name:    "valid",
			journey: domain.Journey{Cards: cards, Events: []domain.Event{{Card: "ana", Load: 2000}}},
		},
		{
			name:    "load and ride",
			journey: domain.Journey{Cards: cards, Events: []domain.Event{{Card: "ana", Load: 2000, Ride: "K"}}},
			wantErr: true,
		},
		{
			name:    "nothing to do",
			journey: domain.Journey{Cards: cards, Events: []domain.Event{{Card: "ana"}}},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			journey: domain.Journey{Cards: []domain.CardSpec{{Name: "ana", Kind: "student"}}},
			wantErr: true,
		},
		{
			name:    "duplicate card",
			journey: domain.Journey{Cards: append(cards, cards...)},
			wantErr: true,
		},
		{
			name: "at with advance",
			journey: domain.Journey{Cards: cards, Events: []domain.Event{
				{Card: "ana", Load: 2000, At: "2024-10-14 10:00:00", Advance: time.Minute},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.journey)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidJourney)
				return
			}
			assert.NoError(t, err)
		})
	}
}
