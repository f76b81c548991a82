package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pbanos/canopy/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose     bool
	metricsFile string
	log         *logrus.Logger
	registry    *prometheus.Registry
	metrics     *metrics.Metrics
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cliParser().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{log: newLogger(false)}
	rootCmd := &cobra.Command{
		Use:   "canopy",
		Short: "canopy is a tool to classify facade patches with random forests",
		Long:  `A tool to grow random forests of decision trees from labelled facade patches, test them, and use them to classify patches`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return config.writeMetrics()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress to STDERR")
	rootCmd.PersistentFlags().StringVar(&(config.metricsFile), "metrics-file", "", "path to a file where metrics are written in the prometheus text format when the command ends")
	rootCmd.AddCommand(versionCmd(), growCmd(config), testCmd(config), predictCmd(config), treeCmd(config), setCmd(config))
	return rootCmd
}

func (rcc *rootCmdConfig) setup() error {
	if rcc.verbose {
		rcc.log.SetLevel(logrus.DebugLevel)
	}
	if rcc.metricsFile == "" {
		return nil
	}
	rcc.registry = prometheus.NewRegistry()
	m, err := metrics.New(rcc.registry)
	if err != nil {
		return errors.Wrap(err, "registering metrics")
	}
	rcc.metrics = m
	return nil
}

func (rcc *rootCmdConfig) writeMetrics() error {
	if rcc.registry == nil {
		return nil
	}
	rcc.log.Debugf("Writing metrics to %s...", rcc.metricsFile)
	err := prometheus.WriteToTextfile(rcc.metricsFile, rcc.registry)
	if err != nil {
		return errors.Wrapf(err, "writing metrics to %s", rcc.metricsFile)
	}
	return nil
}
