package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestRelativeHumidity(t *testing.T) {
	t.Run("temperature and dewpoint", func(t *testing.T) {
		rh := RelativeHumidity(fp(70), fp(50))
		require.NotNil(t, rh)
		// 70F/50F works out to roughly 49 percent.
		assert.InDelta(t, 49.0, *rh, 1.0)
	})

	t.Run("saturated air", func(t *testing.T) {
		rh := RelativeHumidity(fp(60), fp(60))
		require.NotNil(t, rh)
		assert.InDelta(t, 100.0, *rh, 0.01)
	})

	t.Run("missing operand", func(t *testing.T) {
		assert.Nil(t, RelativeHumidity(nil, fp(50)))
		assert.Nil(t, RelativeHumidity(fp(70), nil))
		assert.Nil(t, RelativeHumidity(fp(0), fp(50)))
	})
}

func TestHeatIndex(t *testing.T) {
	t.Run("hot and humid", func(t *testing.T) {
		hi := HeatIndex(fp(96), fp(65))
		require.NotNil(t, hi)
		assert.Greater(t, *hi, 96.0)
		assert.Equal(t, *hi, float64(int(*hi)), "heat index is rounded to a whole degree")
	})

	t.Run("below the reporting floor", func(t *testing.T) {
		// Mild conditions compute an index under 95 and report nothing.
		assert.Nil(t, HeatIndex(fp(80), fp(40)))
	})

	t.Run("inclusive 95 boundary", func(t *testing.T) {
		// 88F brackets the floor tightly: 59.7 percent humidity computes
		// 95.012 and reports 95, 59.67 percent computes 94.998 and reports
		// nothing.
		hi := HeatIndex(fp(88), fp(59.7))
		require.NotNil(t, hi)
		assert.Equal(t, 95.0, *hi)

		assert.Nil(t, HeatIndex(fp(88), fp(59.67)))
	})

	t.Run("missing operand", func(t *testing.T) {
		assert.Nil(t, HeatIndex(nil, fp(65)))
		assert.Nil(t, HeatIndex(fp(96), nil))
	})
}

func TestWindChill(t *testing.T) {
	t.Run("severe cold", func(t *testing.T) {
		wc := WindChill(fp(-20), fp(20))
		require.NotNil(t, wc)
		assert.Less(t, *wc, -18.0)
		assert.Equal(t, *wc, float64(int(*wc)), "wind chill is rounded to a whole degree")
	})

	t.Run("above the reporting floor", func(t *testing.T) {
		// 20F with a 20 mph wind chills to about 4F, above the -18 bound.
		assert.Nil(t, WindChill(fp(20), fp(20)))
	})

	t.Run("missing operand", func(t *testing.T) {
		assert.Nil(t, WindChill(nil, fp(20)))
		assert.Nil(t, WindChill(fp(-20), nil))
		assert.Nil(t, WindChill(fp(-20), fp(0)))
	})
}

func TestDerive(t *testing.T) {
	t.Run("humidity computed from dewpoint", func(t *testing.T) {
		d := Derive(fp(70), fp(5), nil, fp(50))
		require.NotNil(t, d.RelativeHumidity)
		assert.Nil(t, d.HeatIndex)
		assert.Nil(t, d.WindChill)
	})

	t.Run("supplied humidity wins", func(t *testing.T) {
		d := Derive(fp(70), nil, fp(55), fp(50))
		require.NotNil(t, d.RelativeHumidity)
		assert.Equal(t, 55.0, *d.RelativeHumidity)
	})

	t.Run("nothing available", func(t *testing.T) {
		d := Derive(nil, nil, nil, nil)
		assert.Nil(t, d.RelativeHumidity)
		assert.Nil(t, d.HeatIndex)
		assert.Nil(t, d.WindChill)
	})
}
