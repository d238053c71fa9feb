// Package energy turns raw journal entries into windowed statistics,
// score categories and calendar cells. Everything here is pure.
package energy

// Entry is one journal record as delivered by a data source.
type Entry struct {
	Date     string `json:"date"`
	Score    int    `json:"score"`
	Thoughts string `json:"thoughts"`
}

// Category is one of five ordered score bands.
type Category int

const (
	Low Category = iota
	MediumLow
	Neutral
	Good
	Excellent
)

var categoryNames = [...]string{"low", "medium-low", "neutral", "good", "excellent"}

func (c Category) String() string {
	if c < Low || c > Excellent {
		return "unknown"
	}
	return categoryNames[c]
}

// Bucket is the three-way collapse of Category used for counting.
type Bucket int

const (
	Bad Bucket = iota
	NeutralBucket
	GoodBucket
)

func (b Bucket) String() string {
	switch b {
	case GoodBucket:
		return "good"
	case NeutralBucket:
		return "neutral"
	default:
		return "bad"
	}
}

// Classify maps any integer score onto a band using ordered thresholds,
// so out-of-range scores clamp to Low or Excellent.
func Classify(score int) Category {
	switch {
	case score >= 5:
		return Excellent
	case score >= 4:
		return Good
	case score >= 3:
		return Neutral
	case score >= 2:
		return MediumLow
	default:
		return Low
	}
}

// Bucket collapses the band for good/neutral/bad counting.
func (c Category) Bucket() Bucket {
	switch {
	case c >= Good:
		return GoodBucket
	case c == Neutral:
		return NeutralBucket
	default:
		return Bad
	}
}
