package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnimatronicEmulator/rainbow-rest/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	processed := time.Date(2020, 6, 10, 16, 0, 0, 0, time.UTC)
	temp := 78.0
	obs := domain.NormalizedObservation{
		Time:        time.Date(2020, 6, 10, 15, 0, 0, 0, time.UTC),
		Station:     "KCLT",
		Temperature: &temp,
		Condition:   domain.CondClear,
		Icon:        "https://forecast.weather.gov/newimages/medium/skc.png",
		Description: "Clear",
		ProcessedAt: processed,
	}

	msg, err := serializeToMessage(obs)
	require.NoError(t, err)

	assert.Equal(t, []byte("KCLT|2020-06-10T15:00:00Z"), msg.Key)
	assert.Contains(t, string(msg.Value), `"station":"KCLT"`)
	assert.Contains(t, string(msg.Value), `"temperature":78`)
	assert.Contains(t, string(msg.Value), `"condition":"skc"`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "condition", msg.Headers[0].Key)
	assert.Equal(t, []byte("skc"), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2020-06-10T16:00:00Z"), msg.Headers[1].Value)
}

func TestSerializeToMessageOmitsAbsentFields(t *testing.T) {
	obs := domain.NormalizedObservation{
		Time:             time.Date(2020, 6, 10, 15, 0, 0, 0, time.UTC),
		Station:          "KCLT",
		CeilingUnlimited: true,
		Condition:        domain.CondClear,
		ProcessedAt:      time.Date(2020, 6, 10, 16, 0, 0, 0, time.UTC),
	}

	msg, err := serializeToMessage(obs)
	require.NoError(t, err)

	assert.NotContains(t, string(msg.Value), "wind_chill")
	assert.NotContains(t, string(msg.Value), `"ceiling"`)
	assert.Contains(t, string(msg.Value), `"ceiling_unlimited":true`)
}
