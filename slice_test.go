package bind_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/bind"
)

func TestSliceHook_comma_string_matches_list(t *testing.T) {
	t.Parallel()

	c := bind.NewConverter()

	fromString, err := bind.Structure[[]string](c, "a, b,c")
	require.NoError(t, err)

	fromList, err := bind.Structure[[]string](c, []any{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, fromString)
	assert.Equal(t, fromString, fromList)
}

func TestSliceHook_elements(t *testing.T) {
	t.Parallel()

	c := bind.NewConverter()

	tests := map[string]struct {
		raw  any
		typ  reflect.Type
		want any
	}{
		"ints from comma string":   {raw: "1,2,3", typ: reflect.TypeFor[[]int](), want: []int{1, 2, 3}},
		"ints with spaces":         {raw: " 1, 2 ,3 ", typ: reflect.TypeFor[[]int](), want: []int{1, 2, 3}},
		"ints from json array":     {raw: []any{float64(1), float64(2)}, typ: reflect.TypeFor[[]int](), want: []int{1, 2}},
		"strings from string list": {raw: []string{"x", "y"}, typ: reflect.TypeFor[[]string](), want: []string{"x", "y"}},
		"single segment":           {raw: "42", typ: reflect.TypeFor[[]int](), want: []int{42}},
		"floats from comma string": {raw: "1.5,2.5", typ: reflect.TypeFor[[]float64](), want: []float64{1.5, 2.5}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := c.Structure(tc.raw, tc.typ)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSliceHook_list_is_not_split(t *testing.T) {
	t.Parallel()

	c := bind.NewConverter()

	// Elements that contain commas pass through as single values.
	got, err := bind.Structure[[]string](c, []any{"a,b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a,b", "c"}, got)
}

func TestSliceHook_null_elements(t *testing.T) {
	t.Parallel()

	c := bind.NewConverter()

	// Null elements in a JSON array land as nil interface values.
	got, err := bind.Structure[[]any](c, []any{nil, "a"})
	require.NoError(t, err)
	assert.Equal(t, []any{nil, "a"}, got)
}

func TestSliceHook_config_errors(t *testing.T) {
	t.Parallel()

	c := bind.NewConverter()

	t.Run("no element type", func(t *testing.T) {
		t.Parallel()

		hook, err := bind.SliceHook(reflect.TypeFor[int](), c)
		require.ErrorIs(t, err, bind.ErrConfig)
		assert.ErrorContains(t, err, "no element type")
		assert.Nil(t, hook)
	})

	t.Run("more than one type parameter", func(t *testing.T) {
		t.Parallel()

		hook, err := bind.SliceHook(reflect.TypeFor[map[string]int](), c)
		require.ErrorIs(t, err, bind.ErrConfig)
		assert.ErrorContains(t, err, "more than one type parameter")
		assert.Nil(t, hook)
	})
}

func TestSliceHook_bad_shape(t *testing.T) {
	t.Parallel()

	c := bind.NewConverter()

	_, err := bind.Structure[[]int](c, 42)
	require.ErrorIs(t, err, bind.ErrStructure)
	assert.ErrorContains(t, err, "int")
}

func TestSliceHook_element_failure_propagates(t *testing.T) {
	t.Parallel()

	c := bind.NewConverter()

	_, err := bind.Structure[[]int](c, "1,x,3")
	require.ErrorIs(t, err, bind.ErrStructure)
}

func TestSliceHook_empty_segment(t *testing.T) {
	t.Parallel()

	c := bind.NewConverter()

	// A trailing comma yields an empty segment, handed to the element
	// converter unchanged.
	_, err := bind.Structure[[]int](c, "1,2,")
	require.ErrorIs(t, err, bind.ErrStructure)

	got, err := bind.Structure[[]string](c, "a,b,")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", ""}, got)
}
