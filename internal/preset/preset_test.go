package preset

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"live-parameter-overlay/internal/param"
)

type declared struct {
	useViewer   *param.Parameter[bool]
	features    *param.Parameter[int]
	scale       *param.Parameter[float32]
	consistency *param.Parameter[float64]
}

func declare(t *testing.T, reg *param.Registry) declared {
	t.Helper()
	var d declared
	var err error
	d.useViewer, err = param.NewToggle(reg, param.GroupMain, "UseViewer", true, true, nil)
	require.NoError(t, err)
	d.features, err = param.NewBounded(reg, param.GroupORBExtractor, "Features", 1000, 100, 5000, nil)
	require.NoError(t, err)
	d.scale, err = param.NewBounded(reg, param.GroupORBExtractor, "ScaleFactor", float32(1.2), 1, 2, nil)
	require.NoError(t, err)
	d.consistency, err = param.NewText(reg, param.GroupLoopClosing, "Consistency", 3.0, nil)
	require.NoError(t, err)
	return d
}

const sample = `
group "MAIN" {
  param "UseViewer" { value = false }
}

group "orbextractor" {
  param "Features" { value = 2000 }
  param "ScaleFactor" { value = 1.5 }
}

group "LOOP_CLOSING" {
  param "Consistency" { value = 4.25 }
}
`

func TestParseAndApply(t *testing.T) {
	reg := param.NewRegistry(nil)
	d := declare(t, reg)

	f, err := Parse([]byte(sample), "sample.hcl")
	require.NoError(t, err)
	require.Len(t, f.Groups, 3)

	n, err := f.Apply(reg, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.False(t, d.useViewer.Value())
	assert.Equal(t, 2000, d.features.Value())
	assert.Equal(t, float32(1.5), d.scale.Value())
	assert.Equal(t, 4.25, d.consistency.Value())
	assert.True(t, d.features.ChangedInCode())
}

func TestApplyReportsBadEntriesAndContinues(t *testing.T) {
	reg := param.NewRegistry(nil)
	d := declare(t, reg)
	logger, hook := logtest.NewNullLogger()

	f, err := Parse([]byte(`
group "VIEWER" {
  param "PointSize" { value = 2 }
}
group "ORBEXTRACTOR" {
  param "Missing" { value = 1 }
  param "Features" { value = 2.5 }
  param "ScaleFactor" { value = 1.25 }
}
group "MAIN" {
  param "UseViewer" { value = "maybe" }
}
`), "bad.hcl")
	require.NoError(t, err)

	n, err := f.Apply(reg, logger)
	assert.Equal(t, 1, n)
	require.Error(t, err)
	assert.ErrorIs(t, err, param.ErrGroupNotFound)
	assert.ErrorIs(t, err, param.ErrParameterNotFound)
	assert.Len(t, hook.AllEntries(), 4)

	assert.Equal(t, 1000, d.features.Value())
	assert.Equal(t, float32(1.25), d.scale.Value())
	assert.True(t, d.useViewer.Value())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := Parse([]byte(`group "MAIN" { param "UseViewer" { } }`), "missing.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`group {`), "broken.hcl")
	assert.Error(t, err)
}

func TestExportRoundTrips(t *testing.T) {
	reg := param.NewRegistry(nil)
	d := declare(t, reg)
	d.scale.SetValue(0.1)
	d.consistency.SetValue(2.75)

	var buf bytes.Buffer
	require.NoError(t, Export(reg, &buf))
	out := buf.String()
	assert.Contains(t, out, `group "ORBEXTRACTOR"`)
	assert.Contains(t, out, `param "ScaleFactor"`)
	assert.NotContains(t, out, "TRACKING")

	path := filepath.Join(t.TempDir(), "preset.hcl")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	other := param.NewRegistry(nil)
	fresh := declare(t, other)
	f, err := Load(path)
	require.NoError(t, err)
	n, err := f.Apply(other, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, d.useViewer.Value(), fresh.useViewer.Value())
	assert.Equal(t, d.features.Value(), fresh.features.Value())
	assert.Equal(t, float32(0.1), fresh.scale.Value())
	assert.Equal(t, 2.75, fresh.consistency.Value())
}

func TestExportRejectsNonFiniteValues(t *testing.T) {
	t.Run("NaN double", func(t *testing.T) {
		reg := param.NewRegistry(nil)
		d := declare(t, reg)
		d.consistency.ApplyFromGUI(math.NaN())

		var err error
		assert.NotPanics(t, func() { err = Export(reg, &bytes.Buffer{}) })
		require.ErrorIs(t, err, param.ErrNotFinite)
		assert.Contains(t, err.Error(), "LOOP_CLOSING.Consistency")
	})

	t.Run("infinite float", func(t *testing.T) {
		reg := param.NewRegistry(nil)
		d := declare(t, reg)
		d.scale.SetValue(float32(math.Inf(1)))

		var err error
		assert.NotPanics(t, func() { err = Export(reg, &bytes.Buffer{}) })
		require.ErrorIs(t, err, param.ErrNotFinite)
		assert.Contains(t, err.Error(), "ORBEXTRACTOR.ScaleFactor")
	})
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	assert.Error(t, err)
}
