package main

import (
	"fmt"
	"strconv"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	modelConfig
	votes bool
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict CODE...",
		Short: "Predict the label of a sample",
		Long:  `Use the loaded forest to predict the label of a sample given by its attribute codes`,
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exitWith(config.log, 1, err)
			}
			s, err := parseSample(args)
			if err != nil {
				exitWith(config.log, 2, err)
			}
			f, err := config.load(cmd.Context(), forestOptions(config.rootCmdConfig)...)
			if err != nil {
				exitWith(config.log, 3, err)
			}
			label, err := f.Test(s)
			if err != nil {
				exitWith(config.log, 4, err)
			}
			fmt.Println(label)
			if !config.votes {
				return
			}
			votes, err := f.Votes(s)
			if err != nil {
				exitWith(config.log, 4, err)
			}
			for _, l := range append(feature.Labels(), feature.Unknown) {
				if n := votes[l]; n > 0 {
					fmt.Printf("%s: %d\n", l, n)
				}
			}
		},
	}
	config.modelConfig.addFlags(cmd)
	cmd.Flags().BoolVar(&(config.votes), "votes", false, "also print the votes cast for each label")
	return cmd
}

func parseSample(args []string) (dataset.Sample, error) {
	data := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return dataset.Sample{}, errors.Wrapf(err, "parsing attribute code %d", i)
		}
		data[i] = v
	}
	return dataset.NewSample(feature.Unknown, data...), nil
}
