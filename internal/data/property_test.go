package data

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestParsePropertiesDefaults(t *testing.T) {
	props, err := ParseProperties("layers[0]", []PropertyDef{
		{Name: "label", Type: "string"},
		{Name: "count", Type: "int"},
		{Name: "weight", Type: "float"},
		{Name: "solid", Type: "bool"},
		{Name: "tint", Type: "color"},
		{Name: "script", Type: "file"},
		{Name: "target", Type: "object"},
	})
	require.NoError(t, err)

	assert.Equal(t, "", props["label"].Value)
	assert.Equal(t, int64(0), props["count"].Value)
	assert.Equal(t, float64(0), props["weight"].Value)
	assert.Equal(t, false, props["solid"].Value)
	assert.Equal(t, "#00000000", props["tint"].Value)
	assert.Equal(t, ".", props["script"].Value)
	assert.Equal(t, int64(-1), props["target"].Value)
}

func TestParsePropertiesValues(t *testing.T) {
	props, err := ParseProperties("layers[0]", []PropertyDef{
		{Name: "solid", Type: "bool", Value: strp("true")},
		{Name: "depth", Type: "int", Value: strp(" 3 ")},
		{Name: "name", Type: "string", Value: strp("walls")},
	})
	require.NoError(t, err)
	assert.True(t, props.Bool("solid"))
	assert.Equal(t, int64(3), props.Int("depth"))
	assert.Equal(t, "walls", props.String("name"))
	assert.False(t, props.Bool("missing"))
}

func TestParsePropertiesErrors(t *testing.T) {
	tests := []struct {
		name  string
		def   PropertyDef
		err   error
		field string
	}{
		{"missing name", PropertyDef{Type: "int"}, ErrMissingField, "layers[0].properties[0].name"},
		{"missing type", PropertyDef{Name: "x"}, ErrMissingField, "layers[0].properties[0].type"},
		{"unknown type", PropertyDef{Name: "x", Type: "vec3"}, ErrInvalidType, "layers[0].properties[0]"},
		{"bad int", PropertyDef{Name: "x", Type: "int", Value: strp("three")}, ErrInvalidValue, "layers[0].properties[0].value"},
		{"bad bool", PropertyDef{Name: "x", Type: "bool", Value: strp("maybe")}, ErrInvalidValue, "layers[0].properties[0].value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProperties("layers[0]", []PropertyDef{tt.def})
			require.ErrorIs(t, err, tt.err)
			assert.True(t, strings.HasPrefix(err.Error(), tt.field), err.Error())
		})
	}
}

func TestReadTileCSV(t *testing.T) {
	src := "# walls\n1,1,1\n0,,2\n"
	tiles, err := ReadTileCSV(strings.NewReader(src), 3, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1, 0, 0, 2, 0, 0, 0}, tiles)

	_, err = ReadTileCSV(strings.NewReader("1,-4\n"), 2, 1)
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ReadTileCSV(strings.NewReader("1,x\n"), 2, 1)
	assert.ErrorIs(t, err, ErrInvalidValue)
}
