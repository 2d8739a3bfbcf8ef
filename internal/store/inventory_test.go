package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomOffsetZeroWhenSampleCoversWholeTable(t *testing.T) {
	assert.Equal(t, 0, randomOffset(5, 10))
	assert.Equal(t, 0, randomOffset(5, 5))
}

func TestRandomOffsetStaysWithinSpan(t *testing.T) {
	for i := 0; i < 100; i++ {
		offset := randomOffset(100, 10)
		assert.GreaterOrEqual(t, offset, 0)
		assert.LessOrEqual(t, offset, 90)
	}
}
