// Package present derives display values from server-supplied card fields:
// difficulty and stability bands, and the localized time until the next
// review. Everything here is pure; the clock and locale are passed in.
package present

// DifficultyBand is the human classification of a card's difficulty.
type DifficultyBand int

const (
	DifficultyEasy DifficultyBand = iota
	DifficultyMedium
	DifficultyHard
)

// Band thresholds. Boundaries belong to the Medium band.
const (
	easyBelow  = 0.6
	mediumUpTo = 2.5
	lowUpTo    = 1.0
	steadyUpTo = 15.0
)

// ClassifyDifficulty maps every float64, NaN included, to exactly one band.
func ClassifyDifficulty(d float64) DifficultyBand {
	switch {
	case d < easyBelow:
		return DifficultyEasy
	case d <= mediumUpTo:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

func (b DifficultyBand) String() string {
	switch b {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	default:
		return "hard"
	}
}

// StabilityBand is the human classification of a card's stability in days.
type StabilityBand int

const (
	StabilityLow StabilityBand = iota
	StabilityMedium
	StabilityHigh
)

// ClassifyStability maps stability to a band; boundaries belong to the
// lower band. NaN falls through to High.
func ClassifyStability(s float64) StabilityBand {
	switch {
	case s <= lowUpTo:
		return StabilityLow
	case s <= steadyUpTo:
		return StabilityMedium
	default:
		return StabilityHigh
	}
}

func (b StabilityBand) String() string {
	switch b {
	case StabilityLow:
		return "low"
	case StabilityMedium:
		return "medium"
	default:
		return "high"
	}
}
