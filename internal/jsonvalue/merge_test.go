package jsonvalue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeOverridesAndRecurses(t *testing.T) {
	dst := map[string]any{
		"name":    "a",
		"tags":    []any{"x", "y"},
		"address": map[string]any{"city": "Lisbon", "zip": "1000"},
	}
	src := map[string]any{
		"name":    "b",
		"tags":    []any{"z"},
		"address": map[string]any{"city": "Porto"},
		"extra":   true,
	}

	Merge(dst, src, MergeOptions{})

	assert.Equal(t, "b", dst["name"])
	assert.Equal(t, []any{"z"}, dst["tags"])
	assert.Equal(t, map[string]any{"city": "Porto", "zip": "1000"}, dst["address"])
	assert.Equal(t, true, dst["extra"])
}

func TestMergeNullHandling(t *testing.T) {
	dst := map[string]any{"a": "keep"}
	Merge(dst, map[string]any{"a": nil}, MergeOptions{IgnoreNulls: true})
	assert.Equal(t, "keep", dst["a"])

	Merge(dst, map[string]any{"a": nil}, MergeOptions{})
	assert.Nil(t, dst["a"])
	assert.Contains(t, dst, "a")
}

func TestMergeDoesNotAlias(t *testing.T) {
	inner := map[string]any{"v": json.Number("1")}
	dst := map[string]any{}
	Merge(dst, map[string]any{"o": inner}, MergeOptions{})

	dst["o"].(map[string]any)["v"] = json.Number("2")
	assert.Equal(t, json.Number("1"), inner["v"])
}

func TestDecodeObject(t *testing.T) {
	obj, err := DecodeObject([]byte(`{"count": 10}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("10"), obj["count"])

	obj, err = DecodeObject(nil)
	require.NoError(t, err)
	assert.Empty(t, obj)

	obj, err = DecodeObject([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, obj)

	_, err = DecodeObject([]byte(`[1]`))
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = DecodeObject([]byte(`{"a":`))
	assert.Error(t, err)

	_, err = DecodeObject([]byte(`{} {}`))
	assert.Error(t, err)
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	for _, input := range []string{`{"a":1}}`, `[1]]`, `{"a":1} x`, `1 2`} {
		_, err := Decode([]byte(input))
		assert.Error(t, err, input)
	}

	v, err := Decode([]byte("{\"a\":1}\n  "))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1")}, v)
}

func TestDecodeArray(t *testing.T) {
	arr, err := DecodeArray([]byte(`[1, "a", {"b": null}]`))
	require.NoError(t, err)
	assert.Len(t, arr, 3)

	arr, err = DecodeArray([]byte(" "))
	require.NoError(t, err)
	assert.Empty(t, arr)

	_, err = DecodeArray([]byte(`{}`))
	assert.Error(t, err)
}
