package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_Navigation(t *testing.T) {
	p := NewPage([]int{6, 7, 8, 9, 10}, 2, 5, 12)

	assert.Equal(t, 3, p.Pages())
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, 1, p.PrevNum())
	assert.Equal(t, 3, p.NextNum())
}

func TestPage_OutOfRangeIsEmpty(t *testing.T) {
	p := NewPage[int](nil, 9, 5, 12)

	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.False(t, p.HasNext())
	assert.Equal(t, 0, p.NextNum())
}

func TestPage_NoItems(t *testing.T) {
	p := NewPage[string](nil, 1, 5, 0)

	assert.Equal(t, 0, p.Pages())
	assert.False(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 5))
	assert.Equal(t, 10, Offset(3, 5))
	assert.Equal(t, 0, Offset(0, 5))
	assert.Equal(t, 0, Offset(2, 0))
}

func TestOffset_SaturatesInsteadOfWrapping(t *testing.T) {
	assert.Equal(t, math.MaxInt, Offset(math.MaxInt, 5))
	assert.Equal(t, math.MaxInt, Offset(math.MaxInt/5+2, 5))
	assert.Equal(t, math.MaxInt/5*5, Offset(math.MaxInt/5+1, 5))
}

func TestPost_OwnedBy(t *testing.T) {
	p := &Post{UserID: 7}
	assert.True(t, p.OwnedBy(7))
	assert.False(t, p.OwnedBy(8))
	assert.False(t, (&Post{}).OwnedBy(0))
}
