// Package trajectory summarizes how an owner's emotional state has evolved
// over their recent conversational turns.
//
// Each stored turn carries an emotion tag; a fixed valence table maps tags
// to signed scalars in [-1, 1]. The analyzer reads a bounded, time-ordered
// window of samples and computes velocity, stability, direction, momentum,
// and a coarse pattern. Every threshold is a named constant so results are
// reproducible.
package trajectory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/emberchat/recall/store"
)

// Lookback defaults.
const (
	// DefaultWindow bounds how far back samples are read.
	DefaultWindow = 7 * 24 * time.Hour

	// DefaultMaxSamples caps the number of samples analyzed.
	DefaultMaxSamples = 10
)

// Analysis thresholds.
const (
	// directionThreshold is the minimum mean-valence shift between the
	// earliest and most recent thirds of the window to call a direction.
	directionThreshold = 0.15

	// momentumEpsilon is the band around zero within which a delta counts
	// as no change.
	momentumEpsilon = 0.05

	// momentumSpan is how many trailing deltas momentum considers.
	momentumSpan = 3

	// positivePatternThreshold: all valences above it reads as
	// consistently positive.
	positivePatternThreshold = 0.3

	// negativePatternThreshold: a monotonic slide ending below it reads
	// as escalating negative.
	negativePatternThreshold = -0.3
)

// Direction values.
const (
	DirectionImproving = "improving"
	DirectionDeclining = "declining"
	DirectionStable    = "stable"
)

// Momentum values.
const (
	MomentumPositive = "positive_momentum"
	MomentumNegative = "negative_momentum"
	MomentumNeutral  = "neutral"
	MomentumMixed    = "mixed"
)

// Pattern values.
const (
	PatternOscillating        = "oscillating"
	PatternConsistentPositive = "consistently_positive"
	PatternEscalatingNegative = "escalating_negative"
	PatternMixedOrStable      = "mixed_or_stable"
	PatternInsufficientData   = "insufficient_data"
)

// valences maps emotion tags to signed scalars in [-1, 1]. Unknown tags map
// to zero.
var valences = map[string]float64{
	"joy":               0.8,
	"excitement":        0.7,
	"grateful":          0.6,
	"gratitude":         0.6,
	"contentment":       0.5,
	"curiosity":         0.2,
	"surprise":          0.1,
	"neutral":           0.0,
	"worried_concerned": -0.5,
	"sadness":           -0.6,
	"anxiety":           -0.6,
	"fear":              -0.7,
	"anger":             -0.8,
}

// Valence returns the signed emotional value for a tag, zero when unknown.
func Valence(label string) float64 {
	return valences[label]
}

// Lookback bounds a trajectory read. Zero values fall back to the defaults.
type Lookback struct {
	// Window is the time-based bound; samples older than now-Window are
	// ignored.
	Window time.Duration

	// MaxSamples is the count-based bound; only the most recent samples
	// are kept.
	MaxSamples int
}

// Summary is the trajectory analysis output.
type Summary struct {
	// Velocity is the mean absolute valence change between consecutive
	// samples.
	Velocity float64

	// Stability in [0,1]: 1 minus the normalized valence variance.
	Stability float64

	// Direction is improving, declining, or stable.
	Direction string

	// Momentum describes the trailing deltas: positive_momentum,
	// negative_momentum, neutral, or mixed.
	Momentum string

	// Pattern is the first match of the ordered pattern table.
	Pattern string

	// SampleCount is the number of samples analyzed.
	SampleCount int

	// InsufficientData is set when fewer than two samples exist in the
	// window. Not an error: a normal, explicitly-flagged result.
	InsufficientData bool
}

// Analyzer reads emotional samples from the store and computes summaries.
type Analyzer struct {
	store store.Store
}

// New creates an analyzer over a store.
func New(st store.Store) *Analyzer {
	return &Analyzer{store: st}
}

// Trajectory fetches the owner's recent samples and summarizes them.
func (a *Analyzer) Trajectory(ctx context.Context, ownerID, agentID string, lb Lookback) (*Summary, error) {
	window := lb.Window
	if window <= 0 {
		window = DefaultWindow
	}
	maxSamples := lb.MaxSamples
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	since := time.Now().UTC().Add(-window)
	samples, err := a.store.ListRecent(ctx, ownerID, agentID, since, maxSamples)
	if err != nil {
		return nil, fmt.Errorf("list recent samples: %w", err)
	}

	return Summarize(samples), nil
}

// Summarize computes the trajectory summary for time-ascending samples.
func Summarize(samples []store.Sample) *Summary {
	n := len(samples)
	if n < 2 {
		return &Summary{
			Velocity:         0,
			Stability:        1,
			Direction:        DirectionStable,
			Momentum:         MomentumNeutral,
			Pattern:          PatternInsufficientData,
			SampleCount:      n,
			InsufficientData: true,
		}
	}

	vals := make([]float64, n)
	for i, s := range samples {
		vals[i] = Valence(s.Emotion)
	}
	deltas := make([]float64, n-1)
	for i := 1; i < n; i++ {
		deltas[i-1] = vals[i] - vals[i-1]
	}

	return &Summary{
		Velocity:    velocity(deltas),
		Stability:   stability(vals),
		Direction:   direction(vals),
		Momentum:    momentum(deltas),
		Pattern:     pattern(vals),
		SampleCount: n,
	}
}

// velocity is the mean absolute change between consecutive valences.
func velocity(deltas []float64) float64 {
	sum := 0.0
	for _, d := range deltas {
		sum += math.Abs(d)
	}
	return sum / float64(len(deltas))
}

// stability maps valence variance into [0,1]. With valences bounded in
// [-1,1] the variance is bounded by 1, so 1-variance already normalizes;
// clamping guards the float edges.
func stability(vals []float64) float64 {
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))

	variance := 0.0
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(vals))

	s := 1 - variance
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// direction compares the mean valence of the most recent third of the
// window against the earliest third.
func direction(vals []float64) string {
	third := len(vals) / 3
	if third < 1 {
		third = 1
	}

	early := mean(vals[:third])
	recent := mean(vals[len(vals)-third:])

	switch diff := recent - early; {
	case diff > directionThreshold:
		return DirectionImproving
	case diff < -directionThreshold:
		return DirectionDeclining
	default:
		return DirectionStable
	}
}

// momentum inspects the sign of the trailing deltas.
func momentum(deltas []float64) string {
	if len(deltas) > momentumSpan {
		deltas = deltas[len(deltas)-momentumSpan:]
	}

	positive, negative, flat := 0, 0, 0
	for _, d := range deltas {
		switch {
		case d > momentumEpsilon:
			positive++
		case d < -momentumEpsilon:
			negative++
		default:
			flat++
		}
	}

	switch {
	case positive == len(deltas):
		return MomentumPositive
	case negative == len(deltas):
		return MomentumNegative
	case flat == len(deltas):
		return MomentumNeutral
	default:
		return MomentumMixed
	}
}

// pattern evaluates the ordered pattern table; the first match wins.
func pattern(vals []float64) string {
	if signFlips(vals) >= len(vals)/2 {
		return PatternOscillating
	}

	allPositive := true
	for _, v := range vals {
		if v <= positivePatternThreshold {
			allPositive = false
			break
		}
	}
	if allPositive {
		return PatternConsistentPositive
	}

	if monotonicDecline(vals) && vals[len(vals)-1] < negativePatternThreshold {
		return PatternEscalatingNegative
	}

	return PatternMixedOrStable
}

// signFlips counts transitions between positive and negative valence.
func signFlips(vals []float64) int {
	flips := 0
	for i := 1; i < len(vals); i++ {
		if (vals[i-1] > 0 && vals[i] < 0) || (vals[i-1] < 0 && vals[i] > 0) {
			flips++
		}
	}
	return flips
}

// monotonicDecline reports whether the sequence never rises and falls at
// least once.
func monotonicDecline(vals []float64) bool {
	fell := false
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[i-1] {
			return false
		}
		if vals[i] < vals[i-1] {
			fell = true
		}
	}
	return fell
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
