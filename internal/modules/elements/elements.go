// Package elements provides the element classification and pair-affinity
// analysis used as a labeling/bonus scheme by the scoring pipeline.
package elements

// Element is one of the six fixed groups partitioning the numbers 1-36.
type Element string

const (
	ElementFire    Element = "Fire"
	ElementWater   Element = "Water"
	ElementWood    Element = "Wood"
	ElementMetal   Element = "Metal"
	ElementEarth   Element = "Earth"
	ElementSpecial Element = "Special"
	// ElementUnknown is returned for numbers outside 1-36 so downstream
	// scoring stays total. Callers are expected to validate range upstream.
	ElementUnknown Element = "Unknown"
)

// elementByNumber maps each number 1-36 to its element. The partition is
// six arithmetic progressions with step 6: Fire starts at 1, Water at 2,
// Wood at 3, Metal at 4, Earth at 5, Special at 6.
var elementByNumber [37]Element

func init() {
	starts := map[int]Element{
		1: ElementFire,
		2: ElementWater,
		3: ElementWood,
		4: ElementMetal,
		5: ElementEarth,
		6: ElementSpecial,
	}
	for start, elem := range starts {
		for n := start; n <= 36; n += 6 {
			elementByNumber[n] = elem
		}
	}
}

// Classify returns the element group for a draw number.
// Total over 1-36; anything else gets ElementUnknown.
func Classify(number int) Element {
	if number < 1 || number > 36 {
		return ElementUnknown
	}
	return elementByNumber[number]
}
