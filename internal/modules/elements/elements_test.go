package elements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPartitionsAllNumbers(t *testing.T) {
	counts := make(map[Element]int)
	for n := 1; n <= 36; n++ {
		elem := Classify(n)
		assert.NotEqual(t, ElementUnknown, elem, "number %d must be classified", n)
		counts[elem]++
	}

	// Six groups of six, no overlap, no gap.
	assert.Len(t, counts, 6)
	for elem, count := range counts {
		assert.Equal(t, 6, count, "element %s should hold six numbers", elem)
	}
}

func TestClassifyKnownGroups(t *testing.T) {
	assert.Equal(t, ElementFire, Classify(1))
	assert.Equal(t, ElementFire, Classify(31))
	assert.Equal(t, ElementWater, Classify(8))
	assert.Equal(t, ElementWood, Classify(33))
	assert.Equal(t, ElementMetal, Classify(22))
	assert.Equal(t, ElementEarth, Classify(35))
	assert.Equal(t, ElementSpecial, Classify(6))
	assert.Equal(t, ElementSpecial, Classify(36))
}

func TestClassifyOutOfRange(t *testing.T) {
	assert.Equal(t, ElementUnknown, Classify(0))
	assert.Equal(t, ElementUnknown, Classify(37))
	assert.Equal(t, ElementUnknown, Classify(-5))
}
