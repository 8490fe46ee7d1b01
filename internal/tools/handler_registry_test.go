package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGet(t *testing.T) {
	const (
		toolA = "test_tool"
		toolB = "other_tool"
	)

	called := false
	a := Must(New(toolA, "A.", func(context.Context, struct{}) (any, error) {
		called = true
		return "ok", nil
	}))

	r := NewHandlerRegistry(a)

	got, err := r.Get(toolA)
	require.NoError(t, err)

	res, err := got.Call(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
	assert.True(t, called)

	r.Register(Must(New(toolB, "B.", func(context.Context, struct{}) (any, error) {
		return "ok2", nil
	})))

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, toolA, all[0].Name)
	assert.Equal(t, toolB, all[1].Name)
}

func TestRegisterReplaceKeepsOrder(t *testing.T) {
	first := Must(New("one", "v1", func(context.Context, struct{}) (any, error) { return "v1", nil }))
	second := Must(New("two", "", func(context.Context, struct{}) (any, error) { return "", nil }))
	replaced := Must(New("one", "v2", func(context.Context, struct{}) (any, error) { return "v2", nil }))

	r := NewHandlerRegistry(first, second, replaced)

	assert.Equal(t, 2, r.Len())
	all := r.All()
	assert.Equal(t, "one", all[0].Name)
	assert.Equal(t, "v2", all[0].Description)
}

func TestMissingHandler(t *testing.T) {
	r := NewHandlerRegistry()
	_, err := r.Get("nope")
	assert.EqualError(t, err, `tool "nope" not found`)
}

func TestNewRejectsUnsupportedInput(t *testing.T) {
	_, err := New("bad", "", func(context.Context, struct{ C chan int }) (any, error) { return nil, nil })
	assert.Error(t, err)
	assert.Panics(t, func() { Must(Tool{}, err) })
}
