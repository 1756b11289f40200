// Package dimension defines the four long-run capability axes of the company.
// This package is PURE and must NOT import any infrastructure packages.
package dimension

// Key names one capability axis.
type Key string

const (
	Algorithm      Key = "algorithm"
	DataProcessing Key = "dataProcessing"
	Stability      Key = "stability"
	UserExperience Key = "userExperience"
)

// Max is the saturation ceiling for every dimension.
const Max = 100

// All lists the dimensions in their fixed canonical order. Random picks index
// into this slice, so the order is part of replay determinism.
var All = []Key{Algorithm, DataProcessing, Stability, UserExperience}

// Valid reports whether k names a known dimension.
func Valid(k Key) bool {
	for _, d := range All {
		if d == k {
			return true
		}
	}
	return false
}

// Values holds one value per dimension, each within [0,100].
type Values struct {
	Algorithm      int `json:"algorithm"`
	DataProcessing int `json:"dataProcessing"`
	Stability      int `json:"stability"`
	UserExperience int `json:"userExperience"`
}

// Get returns the value of dimension k (0 for unknown keys).
func (v Values) Get(k Key) int {
	switch k {
	case Algorithm:
		return v.Algorithm
	case DataProcessing:
		return v.DataProcessing
	case Stability:
		return v.Stability
	case UserExperience:
		return v.UserExperience
	}
	return 0
}

// Set returns a copy of v with dimension k set to value, clamped to [0,100].
func (v Values) Set(k Key, value int) Values {
	value = clamp(value)
	switch k {
	case Algorithm:
		v.Algorithm = value
	case DataProcessing:
		v.DataProcessing = value
	case Stability:
		v.Stability = value
	case UserExperience:
		v.UserExperience = value
	}
	return v
}

// Add returns a copy of v with delta applied to dimension k.
func (v Values) Add(k Key, delta int) Values {
	return v.Set(k, v.Get(k)+delta)
}

// CountAbove returns how many dimensions are strictly greater than threshold.
func (v Values) CountAbove(threshold int) int {
	n := 0
	for _, k := range All {
		if v.Get(k) > threshold {
			n++
		}
	}
	return n
}

func clamp(value int) int {
	if value < 0 {
		return 0
	}
	if value > Max {
		return Max
	}
	return value
}
