package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", DString("hello"), `"hello"`},
		{"empty string", DString(""), `""`},
		{"int", DInt(42), "42"},
		{"negative int", DInt(-100), "-100"},
		{"max int64", DInt(9223372036854775807), "9223372036854775807"},
		{"bool true", DBool(true), "true"},
		{"null", DNull{}, "null"},
		{"nil", nil, "null"},
		{"empty array", DArray{}, "[]"},
		{"empty object", DObject{}, "{}"},
		{"array of ints", DArray{DInt(1), DInt(2), DInt(3)}, "[1,2,3]"},
		{"string slice", []string{"a", "b"}, `["a","b"]`},
		{"plain map", map[string]any{"b": 1, "a": "x"}, `{"a":"x","b":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalNestedSortedKeys(t *testing.T) {
	obj := DObject{
		"z": DObject{"b": DInt(1), "a": DInt(2)},
		"a": DInt(3),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical(DString("a<b&c>d"))
	require.NoError(t, err)
	assert.Equal(t, `"a<b&c>d"`, string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form
	decomposed, err := MarshalCanonical(DString("e\u0301"))
	require.NoError(t, err)
	precomposed, err := MarshalCanonical(DString("\u00e9"))
	require.NoError(t, err)
	assert.Equal(t, precomposed, decomposed)
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	result, err := MarshalCanonical(DString("a\u2028b"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(result))

	// A literal backslash followed by text stays escaped
	result, err = MarshalCanonical(DString(`\u2028`))
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(result))
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"x": 2.5})
	assert.Error(t, err)
}

func TestMarshalCanonicalUnsupported(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	assert.Error(t, err)
}
