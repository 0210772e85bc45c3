package currency

import (
	"fmt"
	"math"
)

const defaultLabel = "credits"

// Credits renders an amount as credits, e.g. "0.125 credits". Positive
// amounts below one cent show as "< 0.01 credits". An empty label means
// "credits".
func Credits(v float64, label string) string {
	if label == "" {
		label = defaultLabel
	}
	if v > 0 && v < 0.01 {
		return "< 0.01 " + label
	}
	return fmt.Sprintf("%.3f %s", v, label)
}

// Format shows amounts under 1 as credits and anything larger as compact
// US dollars ("$12.50", "$1.25K", "$3.40M").
func Format(v float64) string {
	if v < 1 {
		return Credits(v, defaultLabel)
	}
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	}
	return fmt.Sprintf("$%.2f", v)
}
