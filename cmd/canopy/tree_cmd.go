package main

import (
	"fmt"
	"os"

	"github.com/pbanos/canopy/tree/json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type treeCmdConfig struct {
	*rootCmdConfig
	modelConfig
	index  int
	asJSON bool
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the trees of a forest",
		Long:  `Print the structure of the trees of a forest, or of one of them`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exitWith(config.log, 1, err)
			}
			f, err := config.load(cmd.Context(), forestOptions(config.rootCmdConfig)...)
			if err != nil {
				exitWith(config.log, 2, err)
			}
			trees := f.Trees()
			if config.index >= len(trees) {
				exitWith(config.log, 3, errors.Errorf("tree %d requested from a forest of %d trees", config.index, len(trees)))
			}
			for i, t := range trees {
				if config.index >= 0 && i != config.index {
					continue
				}
				if config.asJSON {
					if err = json.WriteJSONTree(os.Stdout, t); err != nil {
						exitWith(config.log, 4, errors.Wrapf(err, "writing tree %d", i))
					}
					continue
				}
				fmt.Printf("tree %d: %d nodes, %d leaves, depth %d\n", i, t.Size(), t.Leaves(), t.Depth())
				fmt.Print(t)
			}
		},
	}
	config.modelConfig.addFlags(cmd)
	cmd.Flags().IntVarP(&(config.index), "index", "t", -1, "index of the tree to print (defaults to all of them)")
	cmd.Flags().BoolVar(&(config.asJSON), "json", false, "print every tree as a JSON document on its own line instead of drawing it")
	return cmd
}
