package coeffs

import (
	"fmt"
	"strings"
	"sync"
)

// Quality selects one of the built-in tables.
type Quality int

const (
	// QualityFastest uses a coarse table (128 points per sample).
	QualityFastest Quality = iota

	// QualityMedium uses 491 points per sample.
	QualityMedium

	// QualityBest uses 2381 points per sample.
	QualityBest
)

// Built-in table parameters.
const (
	fastestStepping = 128
	mediumStepping  = 491
	bestStepping    = 2381

	fastestAttenuation = 60.0
	mediumAttenuation  = 80.0
	bestAttenuation    = 100.0

	// The history buffer spans five taps, so three zero crossings on each
	// side is already more than the kernel can reach.
	defaultZeroCrossings = 3
)

var (
	defaultOnce   [3]sync.Once
	defaultTables [3]*List
)

// String returns the quality name.
func (q Quality) String() string {
	switch q {
	case QualityFastest:
		return "fastest"
	case QualityMedium:
		return "medium"
	case QualityBest:
		return "best"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// Params returns the design parameters of a built-in quality.
func (q Quality) Params() DesignParams {
	switch q {
	case QualityFastest:
		return DesignParams{Stepping: fastestStepping, ZeroCrossings: defaultZeroCrossings, Attenuation: fastestAttenuation}
	case QualityBest:
		return DesignParams{Stepping: bestStepping, ZeroCrossings: defaultZeroCrossings, Attenuation: bestAttenuation}
	default:
		return DesignParams{Stepping: mediumStepping, ZeroCrossings: defaultZeroCrossings, Attenuation: mediumAttenuation}
	}
}

// ParseQuality maps a name to a Quality.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fastest", "fast", "low":
		return QualityFastest, nil
	case "medium", "mid", "":
		return QualityMedium, nil
	case "best", "high":
		return QualityBest, nil
	default:
		return QualityMedium, fmt.Errorf("%w: unknown quality %q", ErrInvalidCoefficients, s)
	}
}

// Default returns the shared built-in table for q, designing it on first use.
// The returned list must not be modified.
func Default(q Quality) *List {
	if q < QualityFastest || q > QualityBest {
		q = QualityMedium
	}
	defaultOnce[q].Do(func() {
		l, err := Design(q.Params())
		if err != nil {
			panic(fmt.Sprintf("coeffs: built-in table %s: %v", q, err))
		}
		defaultTables[q] = l
	})
	return defaultTables[q]
}
