package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 0, Shape{2, 0, 4}.NumElements())
}

func TestShape_Validate(t *testing.T) {
	assert.NoError(t, Shape{3, 0, 2}.Validate())
	assert.Error(t, Shape{3, -1}.Validate())
}

func TestShape_Strides(t *testing.T) {
	// First axis is contiguous.
	assert.Equal(t, []int{1, 3, 12, 60}, Shape{3, 4, 5, 2}.Strides())
	assert.Empty(t, Shape{}.Strides())
}

func TestShape_EqualClone(t *testing.T) {
	s := Shape{1, 2, 3}
	c := s.Clone()
	assert.True(t, s.Equal(c))
	c[0] = 9
	assert.False(t, s.Equal(c))
	assert.False(t, s.Equal(Shape{1, 2}))
	assert.Equal(t, 3, s.Rank())
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "(12, 8, 16, 16, 1)", Shape{12, 8, 16, 16, 1}.String())
	assert.Equal(t, "()", Shape{}.String())
}
