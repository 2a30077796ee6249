package elements

// PairAffinity is one row of the traditional pairs chart: a primary number,
// the numbers considered related to it, the element label the chart assigns
// it, and a base strength in (0,1].
//
// Note the chart's element label does not always agree with Classify: the
// "special pairs" rows (6, 12, 18, 24, 30) carry their traditional labels.
// The chart's own label is what drives the cycle bonus.
type PairAffinity struct {
	Primary  int
	Related  []int
	Element  Element
	Strength float64
}

// pairChart holds the static pairs chart, keyed by primary number.
var pairChart = buildPairChart()

func buildPairChart() map[int]PairAffinity {
	rows := []PairAffinity{
		// Fire - hot numbers
		{1, []int{13, 25}, ElementFire, 0.9},
		{7, []int{19, 31}, ElementFire, 0.8},
		{13, []int{1, 25}, ElementFire, 0.7},
		{19, []int{7, 31}, ElementFire, 0.8},
		{25, []int{1, 13}, ElementFire, 0.7},
		{31, []int{7, 19}, ElementFire, 0.8},

		// Water - flow numbers
		{2, []int{14, 26}, ElementWater, 0.85},
		{8, []int{20, 32}, ElementWater, 0.9},
		{14, []int{2, 26}, ElementWater, 0.7},
		{20, []int{8, 32}, ElementWater, 0.8},
		{26, []int{2, 14}, ElementWater, 0.7},
		{32, []int{8, 20}, ElementWater, 0.8},

		// Wood - growth numbers
		{3, []int{15, 27}, ElementWood, 0.8},
		{9, []int{21, 33}, ElementWood, 0.85},
		{15, []int{3, 27}, ElementWood, 0.7},
		{21, []int{9, 33}, ElementWood, 0.8},
		{27, []int{3, 15}, ElementWood, 0.7},
		{33, []int{9, 21}, ElementWood, 0.8},

		// Metal - strong numbers
		{4, []int{16, 28}, ElementMetal, 0.9},
		{10, []int{22, 34}, ElementMetal, 0.8},
		{16, []int{4, 28}, ElementMetal, 0.7},
		{22, []int{10, 34}, ElementMetal, 0.8},
		{28, []int{4, 16}, ElementMetal, 0.7},
		{34, []int{10, 22}, ElementMetal, 0.8},

		// Earth - stable numbers
		{5, []int{17, 29}, ElementEarth, 0.8},
		{11, []int{23, 35}, ElementEarth, 0.85},
		{17, []int{5, 29}, ElementEarth, 0.7},
		{23, []int{11, 35}, ElementEarth, 0.8},
		{29, []int{5, 17}, ElementEarth, 0.7},
		{35, []int{11, 23}, ElementEarth, 0.8},

		// Special pairs
		{6, []int{18, 30, 36}, ElementEarth, 0.9},
		{12, []int{24, 36}, ElementWater, 0.85},
		{18, []int{6, 30}, ElementMetal, 0.8},
		{24, []int{12, 36}, ElementFire, 0.8},
		{30, []int{6, 18}, ElementWood, 0.8},
		{36, []int{6, 12, 24}, ElementSpecial, 1.0},
	}

	chart := make(map[int]PairAffinity, len(rows))
	for _, row := range rows {
		chart[row.Primary] = row
	}
	return chart
}

// LookupPair returns the chart row for a number, if one exists.
func LookupPair(number int) (PairAffinity, bool) {
	row, ok := pairChart[number]
	return row, ok
}

// PairScore scores a number against the recently drawn numbers using the
// pairs chart. The base strength is boosted multiplicatively by 30% per
// related number among the recent draws, then by the element cycle bonus.
// Numbers with no chart row score a neutral 0.5. Result is capped at 1.0.
func PairScore(number int, recentNumbers []int) float64 {
	pair, ok := pairChart[number]
	if !ok {
		return 0.5
	}

	score := pair.Strength

	matches := 0
	for _, related := range pair.Related {
		for _, recent := range recentNumbers {
			if recent == related {
				matches++
				break
			}
		}
	}
	if matches > 0 {
		score *= 1 + float64(matches)*0.3
	}

	score *= 1 + cycleBonus(pair.Element, recentNumbers)

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// cycleBonus returns the five-element generating-cycle bonus for an element
// given the elements of the recently drawn numbers: Wood feeds Fire, Metal
// collects Water, Water nourishes Wood, Earth contains Metal, Fire creates
// Earth. Special is always slightly favored.
func cycleBonus(element Element, recentNumbers []int) float64 {
	if element == ElementSpecial {
		return 0.1
	}

	counts := make(map[Element]int)
	for _, n := range recentNumbers {
		if pair, ok := pairChart[n]; ok {
			counts[pair.Element]++
		}
	}

	feeders := map[Element]Element{
		ElementFire:  ElementWood,
		ElementWater: ElementMetal,
		ElementWood:  ElementWater,
		ElementMetal: ElementEarth,
		ElementEarth: ElementFire,
	}

	if feeder, ok := feeders[element]; ok && counts[feeder] > 0 {
		return 0.2
	}
	return 0
}
