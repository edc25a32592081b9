package bitvector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndGet(t *testing.T) {
	v := &Vector{}
	pattern := []bool{true, false, true, true, false}
	for _, bit := range pattern {
		v.Append(bit)
	}

	require.Equal(t, len(pattern), v.Size())
	for i, want := range pattern {
		assert.Equal(t, want, v.Get(i), "bit %d", i)
	}
	assert.Equal(t, "10110", v.String())
	assert.Equal(t, 3, v.Count())
}

func TestAppendCrossesWordBoundary(t *testing.T) {
	v := &Vector{}
	for i := 0; i < 200; i++ {
		v.Append(i%3 == 0)
	}

	require.Equal(t, 200, v.Size())
	for i := 0; i < 200; i++ {
		assert.Equal(t, i%3 == 0, v.Get(i), "bit %d", i)
	}
}

func TestNewStartsFalse(t *testing.T) {
	v := New(100)
	require.Equal(t, 100, v.Size())
	assert.Equal(t, 0, v.Count())
}

func TestSet(t *testing.T) {
	v := New(70)
	v.Set(0, true)
	v.Set(69, true)
	v.Set(69, false)

	assert.True(t, v.Get(0))
	assert.False(t, v.Get(69))
	assert.Equal(t, 1, v.Count())
}

func TestOutOfRangePanics(t *testing.T) {
	v := New(4)
	assert.Panics(t, func() { v.Get(4) })
	assert.Panics(t, func() { v.Get(-1) })
	assert.Panics(t, func() { v.Set(4, true) })
}

func TestEqual(t *testing.T) {
	a, b := &Vector{}, &Vector{}
	for _, bit := range []bool{true, false, true} {
		a.Append(bit)
		b.Append(bit)
	}

	assert.True(t, a.Equal(b))

	b.Set(1, true)
	assert.False(t, a.Equal(b))

	b.Set(1, false)
	b.Append(false)
	assert.False(t, a.Equal(b), "different sizes")
	assert.False(t, a.Equal(nil))
}

func TestIterator(t *testing.T) {
	v := &Vector{}
	pattern := []bool{false, true, true, false, true}
	for _, bit := range pattern {
		v.Append(bit)
	}

	var got []bool
	for it := v.Iterator(); it.Next(); {
		got = append(got, it.Value())
	}
	assert.Equal(t, pattern, got)
}

func TestIteratorEmptyVector(t *testing.T) {
	it := (&Vector{}).Iterator()
	assert.False(t, it.Next())
}
