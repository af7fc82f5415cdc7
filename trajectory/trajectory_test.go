package trajectory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberchat/recall/core"
	"github.com/emberchat/recall/store"
)

// sampleStore serves canned trajectory samples and records the lookback
// bounds it was called with.
type sampleStore struct {
	samples   []store.Sample
	err       error
	lastSince time.Time
	lastLimit int
}

func (s *sampleStore) Insert(ctx context.Context, rec *core.MemoryRecord) (string, error) {
	return "", errors.New("not implemented")
}

func (s *sampleStore) Search(ctx context.Context, ownerID, agentID string, facet core.Facet, query []float32, topK int) ([]store.Hit, error) {
	return nil, errors.New("not implemented")
}

func (s *sampleStore) ListRecent(ctx context.Context, ownerID, agentID string, since time.Time, limit int) ([]store.Sample, error) {
	s.lastSince = since
	s.lastLimit = limit
	return s.samples, s.err
}

func (s *sampleStore) Archive(ctx context.Context, ownerID, agentID, id string) error {
	return errors.New("not implemented")
}

func (s *sampleStore) Close() error { return nil }

func emotionSamples(labels ...string) []store.Sample {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	samples := make([]store.Sample, len(labels))
	for i, label := range labels {
		samples[i] = store.Sample{
			ID:        label,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Emotion:   label,
			Intensity: 0.5,
		}
	}
	return samples
}

func TestTrajectoryInsufficientData(t *testing.T) {
	for _, labels := range [][]string{{}, {"joy"}} {
		st := &sampleStore{samples: emotionSamples(labels...)}
		a := New(st)

		sum, err := a.Trajectory(context.Background(), "owner-1", "agent-1", Lookback{})
		require.NoError(t, err)

		assert.True(t, sum.InsufficientData)
		assert.Equal(t, len(labels), sum.SampleCount)
		assert.Equal(t, 0.0, sum.Velocity)
		assert.Equal(t, 1.0, sum.Stability)
		assert.Equal(t, DirectionStable, sum.Direction)
		assert.Equal(t, MomentumNeutral, sum.Momentum)
		assert.Equal(t, PatternInsufficientData, sum.Pattern)
	}
}

func TestTrajectoryLookbackDefaults(t *testing.T) {
	st := &sampleStore{}
	a := New(st)

	before := time.Now().UTC().Add(-DefaultWindow)
	_, err := a.Trajectory(context.Background(), "owner-1", "agent-1", Lookback{})
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxSamples, st.lastLimit)
	assert.False(t, st.lastSince.Before(before))

	_, err = a.Trajectory(context.Background(), "owner-1", "agent-1", Lookback{Window: time.Hour, MaxSamples: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, st.lastLimit)
	assert.True(t, st.lastSince.After(time.Now().UTC().Add(-2*time.Hour)))
}

func TestTrajectoryStoreError(t *testing.T) {
	st := &sampleStore{err: errors.New("backend down")}
	a := New(st)

	_, err := a.Trajectory(context.Background(), "owner-1", "agent-1", Lookback{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestSummarizeImproving(t *testing.T) {
	// Strictly increasing valences: -0.7, -0.6, 0, 0.2, 0.8.
	sum := Summarize(emotionSamples("fear", "sadness", "neutral", "curiosity", "joy"))

	assert.Equal(t, DirectionImproving, sum.Direction)
	assert.Equal(t, MomentumPositive, sum.Momentum)
	assert.False(t, sum.InsufficientData)
	assert.Equal(t, 5, sum.SampleCount)

	// Deltas: 0.1, 0.6, 0.2, 0.6 -> velocity 0.375.
	assert.InDelta(t, 0.375, sum.Velocity, 1e-9)
}

func TestSummarizeDeclining(t *testing.T) {
	sum := Summarize(emotionSamples("joy", "contentment", "neutral", "sadness", "anger"))

	assert.Equal(t, DirectionDeclining, sum.Direction)
	assert.Equal(t, MomentumNegative, sum.Momentum)
	assert.Equal(t, PatternEscalatingNegative, sum.Pattern)
}

func TestSummarizeStableDirection(t *testing.T) {
	sum := Summarize(emotionSamples("neutral", "surprise", "neutral", "surprise"))

	assert.Equal(t, DirectionStable, sum.Direction)
	assert.Equal(t, PatternMixedOrStable, sum.Pattern)
}

func TestSummarizeOscillating(t *testing.T) {
	// Valence signs alternate: +0.8, -0.7, +0.8, -0.7, +0.8.
	sum := Summarize(emotionSamples("joy", "fear", "joy", "fear", "joy"))

	assert.Equal(t, PatternOscillating, sum.Pattern)
	assert.Equal(t, MomentumMixed, sum.Momentum)
}

func TestSummarizeConsistentlyPositive(t *testing.T) {
	sum := Summarize(emotionSamples("joy", "excitement", "grateful", "contentment"))

	assert.Equal(t, PatternConsistentPositive, sum.Pattern)
	assert.GreaterOrEqual(t, sum.Stability, 0.9)
}

func TestSummarizeNeutralMomentum(t *testing.T) {
	sum := Summarize(emotionSamples("neutral", "neutral", "neutral", "neutral"))

	assert.Equal(t, MomentumNeutral, sum.Momentum)
	assert.Equal(t, 1.0, sum.Stability)
	assert.Equal(t, 0.0, sum.Velocity)
}

func TestSummarizeUnknownLabelsAreNeutral(t *testing.T) {
	sum := Summarize(emotionSamples("bewilderment", "ennui", "saudade"))

	assert.Equal(t, 0.0, sum.Velocity)
	assert.Equal(t, DirectionStable, sum.Direction)
}

func TestValenceTable(t *testing.T) {
	assert.Equal(t, 0.8, Valence("joy"))
	assert.Equal(t, 0.6, Valence("grateful"))
	assert.Equal(t, 0.6, Valence("gratitude"))
	assert.Equal(t, -0.7, Valence("fear"))
	assert.Equal(t, 0.0, Valence("no_such_label"))
}
