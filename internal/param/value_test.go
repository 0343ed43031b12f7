package param

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindBool, KindOf[bool]())
	assert.Equal(t, KindInt, KindOf[int]())
	assert.Equal(t, KindFloat, KindOf[float32]())
	assert.Equal(t, KindDouble, KindOf[float64]())
}

func TestValueExtraction(t *testing.T) {
	v := FloatValue(1.5)
	assert.Equal(t, KindFloat, v.Kind())

	f, err := v.Float()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f)

	_, err = v.Double()
	require.ErrorIs(t, err, ErrKindMismatch)
	_, err = v.Int()
	require.ErrorIs(t, err, ErrKindMismatch)
	_, err = v.Bool()
	require.ErrorIs(t, err, ErrKindMismatch)

	_, err = As[float64](v)
	require.ErrorIs(t, err, ErrKindMismatch)

	got, err := As[float32](v)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), got)
}

func TestValueOfMatchesConstructors(t *testing.T) {
	assert.True(t, ValueOf(true).Equal(BoolValue(true)))
	assert.True(t, ValueOf(7).Equal(IntValue(7)))
	assert.True(t, ValueOf(float32(0.25)).Equal(FloatValue(0.25)))
	assert.True(t, ValueOf(0.25).Equal(DoubleValue(0.25)))
	assert.False(t, IntValue(1).Equal(DoubleValue(1)))
}

func TestFormatTextRoundTrips(t *testing.T) {
	f32 := float32(0.1)
	got32, err := ParseText[float32](FormatText(f32))
	require.NoError(t, err)
	assert.Equal(t, f32, got32)

	f64 := math.Pi
	got64, err := ParseText[float64](FormatText(f64))
	require.NoError(t, err)
	assert.Equal(t, f64, got64)

	assert.Equal(t, "0.1", FormatText(f32))
	assert.Equal(t, "42", FormatText(42))
	assert.Equal(t, "true", FormatText(true))
}

func TestParseText(t *testing.T) {
	i, err := ParseText[int](" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, i)

	b, err := ParseText[bool]("1")
	require.NoError(t, err)
	assert.True(t, b)

	_, err = ParseText[int]("twelve")
	assert.Error(t, err)
	_, err = ParseText[float32]("1.0.0")
	assert.Error(t, err)
}

func TestParseTextRejectsNonFinite(t *testing.T) {
	for _, text := range []string{"NaN", "nan", "Inf", "+Inf", "-inf", " infinity "} {
		_, err := ParseText[float64](text)
		assert.ErrorIs(t, err, ErrNotFinite, "float64 %q", text)
		_, err = ParseText[float32](text)
		assert.ErrorIs(t, err, ErrNotFinite, "float32 %q", text)
	}

	_, err := ParseValue(KindDouble, "NaN")
	assert.ErrorIs(t, err, ErrNotFinite)
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(KindDouble, "2.5")
	require.NoError(t, err)
	assert.True(t, v.Equal(DoubleValue(2.5)))
	assert.Equal(t, "2.5", v.String())

	_, err = ParseValue(Kind(99), "1")
	assert.ErrorIs(t, err, ErrKindMismatch)
}
