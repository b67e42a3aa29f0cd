/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// stratsim runs synthetic reach and frequency trials with stratified
// sketches and reports how merged per-frequency bucket sizes compare with
// exact ground truth.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openmeasurement/stratsketch/simulations"
	"github.com/openmeasurement/stratsketch/sketches"
)

type options struct {
	universeSize uint64
	numSets      int
	setSize      int
	maxFreq      int
	freqRate     float64
	trials       int
	seed         int64
	verbose      bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "stratsim",
		Short: "Simulate merging stratified frequency sketches across publishers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.universeSize, "universe-size", 1_000_000, "number of unique possible user ids")
	cmd.Flags().IntVar(&opts.numSets, "number-of-sets", 15, "number of sets to deduplicate across, i.e. the number of publishers")
	cmd.Flags().IntVar(&opts.setSize, "set-size", 10_000, "size of every generated set")
	cmd.Flags().IntVar(&opts.maxFreq, "max-frequency", 3, "maximum frequency to be analyzed")
	cmd.Flags().Float64Var(&opts.freqRate, "frequency-rate", 1.0, "mean repeat-exposure rate per reached id")
	cmd.Flags().IntVar(&opts.trials, "number-of-trials", 1, "number of times to run the experiment")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "base random seed for sets and sketches")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "log per-trial results")

	return cmd
}

func run(opts *options) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	newGenerator := func(seed int64) (simulations.SetGenerator, error) {
		return simulations.NewHomogeneousMultiSetGenerator(
			opts.universeSize, opts.numSets, opts.setSize, opts.freqRate, opts.maxFreq+2, seed)
	}

	sim, err := simulations.NewSimulator(
		opts.maxFreq,
		sketches.NewExactMultiSetFactory(),
		sketches.ExactSetOperation{},
		newGenerator,
		opts.seed,
		simulations.WithTrials[*sketches.ExactMultiSet](opts.trials),
		simulations.WithLogger[*sketches.ExactMultiSet](logger),
	)
	if err != nil {
		return err
	}

	logger.Info("running simulation",
		zap.Uint64("universe_size", opts.universeSize),
		zap.Int("number_of_sets", opts.numSets),
		zap.Int("set_size", opts.setSize),
		zap.Int("max_frequency", opts.maxFreq),
		zap.Int("number_of_trials", opts.trials),
	)

	agg, _, err := sim.Run()
	if err != nil {
		return err
	}

	fmt.Printf("trials:                 %d\n", agg.Trials)
	fmt.Printf("mean reach rel. error:  %.4f\n", agg.MeanReachRelError)
	fmt.Printf("max bucket rel. error:  %.4f\n", agg.MaxBucketRelError)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
