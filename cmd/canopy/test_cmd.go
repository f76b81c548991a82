package main

import (
	"fmt"
	"os"

	"github.com/pbanos/canopy/feature"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	inputConfig
	modelConfig
	unknownAsWall bool
	ratios        bool
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a forest",
		Long:  `Test the performance of a forest against a set of labelled samples, printing its accuracy and confusion matrix`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exitWith(config.log, 1, err)
			}
			f, err := config.load(cmd.Context(), forestOptions(config.rootCmdConfig)...)
			if err != nil {
				exitWith(config.log, 2, err)
			}
			ds, err := config.dataset(cmd.Context(), config.log)
			if err != nil {
				exitWith(config.log, 3, err)
			}
			config.log.Infof("Testing forest of %d trees against a set with %d samples...", len(f.Trees()), ds.Count())
			c, err := f.Confusion(ds)
			if err != nil {
				exitWith(config.log, 4, err)
			}
			config.log.Info("Done")
			if config.unknownAsWall {
				c = c.Remap(feature.Unknown, feature.Wall)
			}
			fmt.Printf("%f success rate on %d samples\n", c.Accuracy(), c.Total())
			renderConfusion(os.Stdout, c, config.ratios)
		},
	}
	config.inputConfig.addFlags(cmd)
	config.modelConfig.addFlags(cmd)
	cmd.Flags().BoolVar(&(config.unknownAsWall), "unknown-as-wall", true, "count unknown predictions as wall predictions")
	cmd.Flags().BoolVar(&(config.ratios), "ratios", false, "show the share of each actual label's samples instead of counts")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if err := tcc.inputConfig.Validate(); err != nil {
		return err
	}
	return tcc.modelConfig.Validate()
}
