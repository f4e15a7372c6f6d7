package model

import (
	"fmt"
	"strings"
)

// Distribution selects how the generator samples values inside a Range.
type Distribution string

const (
	DistributionUniform Distribution = "uniform"
	DistributionNormal  Distribution = "normal"
)

// ParseDistribution maps a config value to a Distribution. Unknown values are
// an error; there is no fallback.
func ParseDistribution(s string) (Distribution, error) {
	switch Distribution(strings.ToLower(strings.TrimSpace(s))) {
	case DistributionUniform:
		return DistributionUniform, nil
	case DistributionNormal:
		return DistributionNormal, nil
	default:
		return "", fmt.Errorf("%w: unknown distribution %q", ErrInvalidConfiguration, s)
	}
}

func (d Distribution) String() string { return string(d) }

// Range is an inclusive [Lower, Upper] interval of integers.
type Range struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// Validate rejects inverted or negative ranges.
func (r Range) Validate() error {
	if r.Lower > r.Upper {
		return fmt.Errorf("%w: lower %d > upper %d", ErrInvalidConfiguration, r.Lower, r.Upper)
	}
	if r.Lower < 0 {
		return fmt.Errorf("%w: negative lower bound %d", ErrInvalidConfiguration, r.Lower)
	}
	return nil
}

// Width returns Upper - Lower.
func (r Range) Width() int { return r.Upper - r.Lower }
