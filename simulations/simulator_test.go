package simulations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openmeasurement/stratsketch/sketches"
)

func TestNewSimulatorValidation(t *testing.T) {
	factory := sketches.NewExactMultiSetFactory()
	newGen := func(seed int64) (SetGenerator, error) {
		return NewFixedSetGenerator(nil), nil
	}

	_, err := NewSimulator(0, factory, sketches.ExactSetOperation{}, newGen, 1)
	assert.Error(t, err)

	_, err = NewSimulator(3, factory, sketches.ExactSetOperation{}, nil, 1)
	assert.Error(t, err)

	_, err = NewSimulator(3, factory, sketches.ExactSetOperation{}, newGen, 1,
		WithTrials[*sketches.ExactMultiSet](0))
	assert.Error(t, err)
}

func TestSimulatorExactSketchesMatchTruth(t *testing.T) {
	// With exact bucket sketches and per-source frequencies of 1, merged
	// bucket sizes must equal ground truth in every trial.
	newGen := func(seed int64) (SetGenerator, error) {
		return NewIndependentSetGenerator(500, 4, 100, seed)
	}

	sim, err := NewSimulator(
		3,
		sketches.NewExactMultiSetFactory(),
		sketches.ExactSetOperation{},
		newGen,
		1,
		WithTrials[*sketches.ExactMultiSet](3),
		WithLogger[*sketches.ExactMultiSet](zap.NewNop()),
	)
	require.NoError(t, err)

	agg, trials, err := sim.Run()
	require.NoError(t, err)
	require.Len(t, trials, 3)

	assert.Equal(t, 3, agg.Trials)
	assert.Equal(t, 0.0, agg.MaxBucketRelError)
	// HLL precision 14 keeps reach error around 1%; allow slack.
	assert.Less(t, agg.MeanReachRelError, 0.1)

	for _, res := range trials {
		assert.Equal(t, res.TrueBucketSizes, res.MergedBucketSizes)
		assert.Greater(t, res.TrueReach, 0)
		total := 0
		for _, n := range res.TrueBucketSizes {
			total += n
		}
		assert.Equal(t, res.TrueReach, total)
	}
}

func TestSimulatorWithRepeatExposure(t *testing.T) {
	newGen := func(seed int64) (SetGenerator, error) {
		return NewHomogeneousMultiSetGenerator(300, 3, 80, 1.0, 5, seed)
	}

	sim, err := NewSimulator(
		3,
		sketches.NewExactMultiSetFactory(),
		sketches.ExactSetOperation{},
		newGen,
		9,
		WithTrials[*sketches.ExactMultiSet](2),
	)
	require.NoError(t, err)

	agg, trials, err := sim.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, agg.Trials)

	for _, res := range trials {
		merged := 0
		for _, n := range res.MergedBucketSizes {
			merged += n
		}
		// Every reached id lands in exactly one merged bucket.
		assert.Equal(t, res.TrueReach, merged)
	}
}
