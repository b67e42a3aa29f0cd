package simulations

import (
	"encoding/binary"
	"errors"
	"math"
	"slices"

	"github.com/axiomhq/hyperloglog"
	"go.uber.org/zap"

	"github.com/openmeasurement/stratsketch/sketches"
	"github.com/openmeasurement/stratsketch/stratified"
)

// Simulator runs repeated reach and frequency trials: per trial it generates
// one id set per simulated source, builds an independent stratified sketch
// for each source, merges them sequentially, and scores the merged bucket
// sizes against exact ground truth. It also reports an independent
// HyperLogLog estimate of total reach for comparison.
type Simulator[S sketches.MergeableSketch] struct {
	maxFreq      int
	seed         int64
	factory      sketches.Factory[S]
	op           sketches.Operator[S]
	newGenerator func(seed int64) (SetGenerator, error)

	numTrials int
	logger    *zap.Logger
}

type SimulatorOptionFunc[S sketches.MergeableSketch] func(*Simulator[S])

// WithTrials sets the number of trials to run (defaults to 1).
func WithTrials[S sketches.MergeableSketch](n int) SimulatorOptionFunc[S] {
	return func(s *Simulator[S]) {
		s.numTrials = n
	}
}

// WithLogger sets the logger for per-trial progress (defaults to a no-op
// logger).
func WithLogger[S sketches.MergeableSketch](logger *zap.Logger) SimulatorOptionFunc[S] {
	return func(s *Simulator[S]) {
		s.logger = logger
	}
}

// NewSimulator creates a simulator. newGenerator produces a fresh set
// generator per trial from a trial-specific seed, so trials are independent
// but reproducible.
func NewSimulator[S sketches.MergeableSketch](
	maxFreq int,
	factory sketches.Factory[S],
	op sketches.Operator[S],
	newGenerator func(seed int64) (SetGenerator, error),
	seed int64,
	opts ...SimulatorOptionFunc[S],
) (*Simulator[S], error) {
	if maxFreq < 1 {
		return nil, errors.New("maximum frequency must be at least 1")
	}
	if factory == nil || op == nil || newGenerator == nil {
		return nil, errors.New("factory, operator and generator constructor must not be nil")
	}
	s := &Simulator[S]{
		maxFreq:      maxFreq,
		seed:         seed,
		factory:      factory,
		op:           op,
		newGenerator: newGenerator,
		numTrials:    1,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.numTrials < 1 {
		return nil, errors.New("number of trials must be at least 1")
	}
	return s, nil
}

// TrialResult holds the outcome of a single trial. Bucket slices are indexed
// by frequency minus one.
type TrialResult struct {
	TrueReach         int
	HLLReachEstimate  float64
	TrueBucketSizes   []int
	MergedBucketSizes []int
}

// AggregateResult summarizes all trials.
type AggregateResult struct {
	Trials            int
	MeanReachRelError float64
	MaxBucketRelError float64
}

// Run executes all trials and aggregates their errors.
func (s *Simulator[S]) Run() (*AggregateResult, []TrialResult, error) {
	results := make([]TrialResult, 0, s.numTrials)
	agg := &AggregateResult{Trials: s.numTrials}

	for trial := 0; trial < s.numTrials; trial++ {
		res, err := s.runTrial(s.seed + int64(trial))
		if err != nil {
			return nil, nil, err
		}
		results = append(results, *res)

		if res.TrueReach > 0 {
			agg.MeanReachRelError += math.Abs(res.HLLReachEstimate-float64(res.TrueReach)) / float64(res.TrueReach)
		}
		for k := 0; k < s.maxFreq; k++ {
			if res.TrueBucketSizes[k] == 0 {
				continue
			}
			relErr := math.Abs(float64(res.MergedBucketSizes[k]-res.TrueBucketSizes[k])) / float64(res.TrueBucketSizes[k])
			agg.MaxBucketRelError = math.Max(agg.MaxBucketRelError, relErr)
		}

		s.logger.Debug("trial complete",
			zap.Int("trial", trial),
			zap.Int("true_reach", res.TrueReach),
			zap.Float64("hll_reach_estimate", res.HLLReachEstimate),
			zap.Ints("true_bucket_sizes", res.TrueBucketSizes),
			zap.Ints("merged_bucket_sizes", res.MergedBucketSizes),
		)
	}

	agg.MeanReachRelError /= float64(s.numTrials)
	return agg, results, nil
}

func (s *Simulator[S]) runTrial(trialSeed int64) (*TrialResult, error) {
	gen, err := s.newGenerator(trialSeed)
	if err != nil {
		return nil, err
	}

	var sets [][]uint64
	for set := range gen.Sets() {
		sets = append(sets, set)
	}

	perSource := make([]*stratified.Sketch[S], 0, len(sets))
	truth := sketches.NewExactMultiSet()
	for _, set := range sets {
		sk, err := stratified.FromSets(s.maxFreq, slices.Values([][]uint64{set}), s.factory, s.seed)
		if err != nil {
			return nil, err
		}
		perSource = append(perSource, sk)
		truth.AddMany(set)
	}

	estimator := stratified.NewSequentialEstimator(
		s.op,
		stratified.WithEmptyResult(s.maxFreq, s.factory, s.seed),
	)
	merged, err := estimator.MergeSketches(perSource)
	if err != nil {
		return nil, err
	}

	trueSketch, err := stratified.FromExactMultiSet(s.maxFreq, truth, sketches.NewExactMultiSetFactory(), s.seed)
	if err != nil {
		return nil, err
	}

	hll := hyperloglog.New14()
	var buf [8]byte
	for id := range truth.Materialize() {
		binary.LittleEndian.PutUint64(buf[:], id)
		hll.Insert(buf[:])
	}

	res := &TrialResult{
		TrueReach:         truth.NumRetained(),
		HLLReachEstimate:  float64(hll.Estimate()),
		TrueBucketSizes:   make([]int, s.maxFreq),
		MergedBucketSizes: make([]int, s.maxFreq),
	}
	for k := 1; k <= s.maxFreq; k++ {
		trueBucket, err := trueSketch.FrequencyBucket(k)
		if err != nil {
			return nil, err
		}
		mergedBucket, err := merged.FrequencyBucket(k)
		if err != nil {
			return nil, err
		}
		res.TrueBucketSizes[k-1] = trueBucket.NumRetained()
		res.MergedBucketSizes[k-1] = mergedBucket.NumRetained()
	}
	return res, nil
}
