package param

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewRegistry(logger), hook
}

func TestDeclareAndLookup(t *testing.T) {
	reg, _ := newTestRegistry(t)

	threshold, err := NewBounded(reg, GroupTracking, "Threshold", float32(1), 0, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, CategoryMinMax, threshold.Category())
	assert.Equal(t, KindFloat, threshold.Kind())
	assert.Equal(t, float32(5), threshold.Max())

	got, err := Lookup[float32](reg, GroupTracking, "Threshold")
	require.NoError(t, err)
	assert.Same(t, threshold, got)
	assert.Equal(t, 1, reg.Len())
}

func TestDuplicateDeclarationIsRejected(t *testing.T) {
	reg, hook := newTestRegistry(t)

	first, err := NewToggle(reg, GroupMain, "UseViewer", true, true, nil)
	require.NoError(t, err)

	_, err = NewToggle(reg, GroupMain, "UseViewer", false, true, nil)
	require.ErrorIs(t, err, ErrDuplicateParameter)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	got, err := Lookup[bool](reg, GroupMain, "UseViewer")
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestLookupMisses(t *testing.T) {
	reg, hook := newTestRegistry(t)
	_, err := NewText(reg, GroupLoopClosing, "Consistency", 3.0, nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		group Group
		param string
		want  error
	}{
		{"unknown group", GroupTracking, "Threshold", ErrGroupNotFound},
		{"unknown name", GroupLoopClosing, "Missing", ErrParameterNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook.Reset()
			p, err := Lookup[float64](reg, tt.group, tt.param)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.want)
			assert.Len(t, hook.AllEntries(), 1)
			assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
		})
	}
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, []string{"Consistency"}, reg.Names(GroupLoopClosing))
}

func TestLookupKindMismatch(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := NewBounded(reg, GroupORBExtractor, "Features", 1000, 100, 5000, nil)
	require.NoError(t, err)

	p, err := Lookup[float64](reg, GroupORBExtractor, "Features")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestInvalidBounds(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := NewBounded(reg, GroupTracking, "Inverted", 1.0, 2.0, 1.0, nil)
	assert.ErrorIs(t, err, ErrInvalidBounds)
	assert.Equal(t, 0, reg.Len())
}

func TestReleaseKeepsKeyButHidesEntry(t *testing.T) {
	reg, _ := newTestRegistry(t)
	p, err := NewBounded(reg, GroupORBExtractor, "Levels", 8, 1, 12, nil)
	require.NoError(t, err)

	p.Release()
	assert.True(t, p.Released())
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Names(GroupORBExtractor))

	_, err = Lookup[int](reg, GroupORBExtractor, "Levels")
	assert.ErrorIs(t, err, ErrParameterReleased)

	// The released handle stays usable and a new declaration may take the key.
	p.SetValue(4)
	assert.Equal(t, 4, p.Value())

	again, err := NewBounded(reg, GroupORBExtractor, "Levels", 6, 1, 12, nil)
	require.NoError(t, err)
	assert.NotEqual(t, p.Handle(), again.Handle())
	got, err := Lookup[int](reg, GroupORBExtractor, "Levels")
	require.NoError(t, err)
	assert.Same(t, again, got)
}

func TestForEachInGroupIsNameOrdered(t *testing.T) {
	reg, _ := newTestRegistry(t)
	for _, name := range []string{"b", "c", "a"} {
		_, err := NewText(reg, GroupInitialization, name, 1, nil)
		require.NoError(t, err)
	}
	dropped, err := NewText(reg, GroupInitialization, "d", 1, nil)
	require.NoError(t, err)
	dropped.Release()

	var seen []string
	err = reg.ForEachInGroup(GroupInitialization, func(e Entry) error {
		seen = append(seen, e.Name())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	stop := errors.New("stop")
	seen = nil
	err = reg.ForEachInGroup(GroupInitialization, func(e Entry) error {
		seen = append(seen, e.Name())
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"a"}, seen)
}

func TestCloseReleasesEverything(t *testing.T) {
	reg, _ := newTestRegistry(t)
	a, err := NewToggle(reg, GroupMain, "A", true, true, nil)
	require.NoError(t, err)
	b, err := NewText(reg, GroupTracking, "B", 2, nil)
	require.NoError(t, err)

	reg.Close()
	assert.True(t, a.Released())
	assert.True(t, b.Released())
	assert.Equal(t, 0, reg.Len())
}

func TestParseGroup(t *testing.T) {
	g, err := ParseGroup("loop_closing")
	require.NoError(t, err)
	assert.Equal(t, GroupLoopClosing, g)
	assert.Equal(t, "LOOP_CLOSING", g.String())

	_, err = ParseGroup("VIEWER")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}
