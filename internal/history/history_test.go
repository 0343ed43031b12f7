package history

import (
	"testing"

	fynetest "fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"live-parameter-overlay/internal/overlay"
	"live-parameter-overlay/internal/param"
)

func change(name string, v int) overlay.Change {
	return overlay.Change{
		Group:  param.GroupTracking,
		Name:   name,
		Source: overlay.SourceGUI,
		Value:  param.IntValue(v),
	}
}

func TestRecordKeepsNewestWithinLimit(t *testing.T) {
	log := New(3)
	for i := 1; i <= 5; i++ {
		log.Record(change("MinInliers", i))
	}

	recent := log.Recent()
	require.Len(t, recent, 3)
	for i, want := range []int{3, 4, 5} {
		assert.True(t, recent[i].Value.Equal(param.IntValue(want)), "entry %d", i)
	}

	latest, ok := log.Latest()
	require.True(t, ok)
	assert.True(t, latest.Value.Equal(param.IntValue(5)))
}

func TestEmptyAndClear(t *testing.T) {
	log := New(0)
	_, ok := log.Latest()
	assert.False(t, ok)
	assert.Empty(t, log.Recent())

	log.Record(change("Threshold", 1))
	assert.Equal(t, 1, log.Len())
	log.Clear()
	assert.Zero(t, log.Len())
}

func TestRecordAsOverlayObserver(t *testing.T) {
	fynetest.NewTempApp(t)
	log := New(8)
	reg := param.NewRegistry(nil)
	levels, err := param.NewBounded(reg, param.GroupORBExtractor, "Levels", 8, 1, 12, nil)
	require.NoError(t, err)

	o := overlay.New(reg, nil, overlay.WithObserver(log.Record))
	_, err = o.Bind("menu", param.GroupORBExtractor)
	require.NoError(t, err)

	levels.SetValue(5)
	require.NoError(t, o.Tick(t.Context()))

	latest, ok := log.Latest()
	require.True(t, ok)
	assert.Equal(t, "Levels", latest.Name)
	assert.Equal(t, overlay.SourceCode, latest.Source)
	assert.True(t, latest.Value.Equal(param.IntValue(5)))
}
