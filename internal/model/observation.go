package model

// Direction classifies an increment as an increase or a decrease.
type Direction int

const (
	Decrease Direction = 0
	Increase Direction = 1
)

// DirectionOf returns Increase for a positive increment and Decrease otherwise.
// A zero increment is therefore classified as Decrease.
func DirectionOf(increment float64) Direction {
	if increment > 0 {
		return Increase
	}
	return Decrease
}

// Matches reports whether increment points in direction d. Zero matches neither.
func (d Direction) Matches(increment float64) bool {
	if d == Increase {
		return increment > 0
	}
	return increment < 0
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Increase {
		return Decrease
	}
	return Increase
}

func (d Direction) String() string {
	if d == Increase {
		return "increase"
	}
	return "decrease"
}

// Observation is one dated feature value for a language. Increment and
// Direction are derived once when the observation store is built.
type Observation struct {
	LanguageID string    `json:"language_id" yaml:"language_id"`
	FeatureID  string    `json:"feature_id" yaml:"feature_id"`
	Date       int       `json:"date" yaml:"date"`
	Value      float64   `json:"value" yaml:"value"`
	Increment  float64   `json:"increment" yaml:"increment"`
	Direction  Direction `json:"direction" yaml:"direction"`
}

// IsChange reports whether the observation carries a non-zero increment.
func (o Observation) IsChange() bool {
	return o.Increment != 0
}
