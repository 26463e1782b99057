// Package model defines the reference and observation records shared by the
// analysis packages.
package model

import (
	"strconv"
)

// Language is one entry of the language registry.
type Language struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	ParentID  string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"` // empty for roots
	Latitude  Value  `json:"latitude" yaml:"latitude"`
	Longitude Value  `json:"longitude" yaml:"longitude"`
	Earliest  int    `json:"earliest" yaml:"earliest"`
	Latest    int    `json:"latest" yaml:"latest"`
	Floruit   int    `json:"floruit" yaml:"floruit"`
}

// HasParent reports whether the language names a parent.
func (l Language) HasParent() bool {
	return l.ParentID != ""
}

// Feature is a typological trait tracked across languages and time.
type Feature struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
}

// Code describes one categorical value of a feature.
type Code struct {
	FeatureID   string  `json:"feature_id" yaml:"feature_id"`
	Value       float64 `json:"value" yaml:"value"`
	Description string  `json:"description" yaml:"description"`
}

// FormatDate renders a year as "N CE" for positive years and "N BCE"
// otherwise. Year 0 is 1 BCE.
func FormatDate(date int) string {
	if date > 0 {
		return strconv.Itoa(date) + " CE"
	}
	return strconv.Itoa(-(date - 1)) + " BCE"
}
