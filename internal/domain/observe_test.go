package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecord(t *testing.T) {
	icons, err := NewIconTable(testIconEntries())
	require.NoError(t, err)

	frozen := time.Date(2020, 6, 10, 16, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	station := Station{ID: "KCLT", Lat: 35.21, Lon: -80.94}
	ts := time.Date(2020, 6, 10, 15, 0, 0, 0, time.UTC)

	t.Run("fair weather hour", func(t *testing.T) {
		rec := HourlyRecord{
			ElemTemperature:   78,
			ElemDewpoint:      66,
			ElemSkyCover:      9,
			ElemWindSpeed:     4,
			ElemWindGust:      9,
			ElemWindDirection: 22,
			ElemVisibility:    11,
			ElemCeiling:       CeilingUnlimited,
			ElemProbRain:      0,
		}
		obs, err := NormalizeRecord(ts, rec, station, ProductHourly, icons, PhaseDay, false)
		require.NoError(t, err)

		assert.Equal(t, ts, obs.Time)
		assert.Equal(t, "KCLT", obs.Station)
		require.NotNil(t, obs.Temperature)
		assert.Equal(t, 78.0, *obs.Temperature)
		require.NotNil(t, obs.RelativeHumidity)
		assert.InDelta(t, 66.7, *obs.RelativeHumidity, 1.0)
		assert.Nil(t, obs.HeatIndex)
		assert.Nil(t, obs.WindChill)

		assert.True(t, obs.CeilingUnlimited)
		assert.Nil(t, obs.Ceiling)

		assert.Equal(t, CondClear, obs.Condition)
		assert.Equal(t, "Clear", obs.Description)
		assert.Equal(t, frozen, obs.ProcessedAt)
	})

	t.Run("rainy hour resolves precipitation", func(t *testing.T) {
		rec := HourlyRecord{
			ElemTemperature: 74,
			ElemSkyCover:    96,
			ElemProbRain:    96,
			ElemCeiling:     1500,
		}
		obs, err := NormalizeRecord(ts, rec, station, ProductHourly, icons, PhaseDay, false)
		require.NoError(t, err)

		assert.Equal(t, CondRain, obs.Condition)
		require.NotNil(t, obs.Ceiling)
		assert.Equal(t, 1500.0, *obs.Ceiling)
		assert.False(t, obs.CeilingUnlimited)
	})

	t.Run("partial sky showers", func(t *testing.T) {
		rec := HourlyRecord{
			ElemTemperature: 74,
			ElemSkyCover:    55,
			ElemProbRain:    47,
		}
		obs, err := NormalizeRecord(ts, rec, station, ProductHourly, icons, PhaseDay, false)
		require.NoError(t, err)
		assert.Equal(t, ConditionTag("showers_rain"), obs.Condition)
	})

	t.Run("no-data sentinel drops the field", func(t *testing.T) {
		rec := HourlyRecord{
			ElemTemperature: 74,
			ElemVisibility:  -99,
			ElemSkyCover:    -99,
		}
		obs, err := NormalizeRecord(ts, rec, station, ProductHourly, icons, PhaseDay, false)
		require.NoError(t, err)
		assert.Nil(t, obs.Visibility)
		assert.Equal(t, CondClear, obs.Condition)
	})

	t.Run("night phase selects the night icon", func(t *testing.T) {
		rec := HourlyRecord{ElemSkyCover: 96, ElemTemperature: 70}
		obs, err := NormalizeRecord(ts, rec, station, ProductHourly, icons, PhaseNight, false)
		require.NoError(t, err)
		assert.Equal(t, CondOvercast, obs.Condition)
		assert.Contains(t, obs.Icon, "novc")
	})
}

func TestNormalizeTable(t *testing.T) {
	icons, err := NewIconTable(testIconEntries())
	require.NoError(t, err)

	raw := readBulletin(t, "nbh_kclt.txt")
	issuance := time.Date(2020, 6, 10, 14, 0, 0, 0, time.UTC)
	station := Station{ID: "KCLT", Lat: 35.21, Lon: -80.94}

	table, err := DecodeBulletin(raw, station, ProductHourly, issuance)
	require.NoError(t, err)

	obs, err := NormalizeTable(table, station, ProductHourly, icons, PhaseDay)
	require.NoError(t, err)
	require.Len(t, obs, 12)

	// Output is in time order regardless of map iteration.
	for i := 1; i < len(obs); i++ {
		assert.Equal(t, time.Hour, obs[i].Time.Sub(obs[i-1].Time))
	}

	// The early hours are quiet; the last hours hit the rain threshold with
	// the sky too overcast for the showers variant.
	assert.Equal(t, CondClear, obs[0].Condition)
	assert.Equal(t, CondScattered, obs[7].Condition)
	assert.Equal(t, CondRain, obs[8].Condition)
	assert.Equal(t, CondRain, obs[11].Condition)
	for i := range obs {
		assert.NotEmpty(t, obs[i].Icon, "hour %d", i)
		assert.NotEmpty(t, obs[i].Description, "hour %d", i)
	}
}
