package main

import (
	"context"
	"os"
	"strings"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/dataset/csv"
	"github.com/pbanos/canopy/dataset/mongodataset"
	"github.com/pbanos/canopy/dataset/sqldataset"
	"github.com/pbanos/canopy/dataset/sqldataset/pgadapter"
	"github.com/pbanos/canopy/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/canopy/feature/yaml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	mgo "gopkg.in/mgo.v2"
)

type setCmdConfig struct {
	*rootCmdConfig
	inputConfig
	output      string
	outputTable string
}

type sampleWriter interface {
	Write(context.Context, []dataset.Sample) (int, error)
	Close() error
}

type csvSampleWriter struct {
	w *csv.Writer
	f *os.File
}

type sqlSampleWriter struct {
	*sqldataset.Source
}

type mongoSampleWriter struct {
	*mongodataset.Source
	session *mgo.Session
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Copy a set of samples",
		Long:  `Copy a set of samples from a CSV file, SQLite3 file, PostgreSQL table or MongoDB collection into another one`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exitWith(config.log, 1, err)
			}
			n, err := config.copy(cmd.Context())
			if err != nil {
				exitWith(config.log, 2, err)
			}
			config.log.Infof("%d samples copied", n)
		},
	}
	config.inputConfig.addFlags(cmd)
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to an output CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) connection URL to copy samples to (defaults to STDOUT in CSV)")
	cmd.Flags().StringVar(&(config.outputTable), "output-table", "", "name of the table or collection samples are copied to on database outputs (defaults to samples)")
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if err := scc.inputConfig.Validate(); err != nil {
		return err
	}
	if scc.metadataInput == "" && !strings.HasPrefix(scc.output, "mongodb://") {
		return errors.New("required metadata flag was not set")
	}
	return nil
}

// copy reads every sample from the input and writes them on the output,
// returning the number of samples written.
func (scc *setCmdConfig) copy(ctx context.Context) (int, error) {
	ds, err := scc.dataset(ctx, scc.log)
	if err != nil {
		return 0, err
	}
	w, err := scc.writer(ctx)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(ctx, ds.Samples())
	if err != nil {
		w.Close()
		return n, errors.Wrapf(err, "copying samples after %d", n)
	}
	scc.log.Debug("Flushing output set...")
	if err = w.Close(); err != nil {
		return n, errors.Wrap(err, "closing output set")
	}
	return n, nil
}

func (scc *setCmdConfig) writer(ctx context.Context) (sampleWriter, error) {
	if strings.HasPrefix(scc.output, "mongodb://") {
		scc.log.Debugf("Connecting to MongoDB at %s to copy samples...", scc.output)
		session, err := mgo.Dial(scc.output)
		if err != nil {
			return nil, errors.Wrapf(err, "connecting to %s", scc.output)
		}
		collection := scc.outputTable
		if collection == "" {
			collection = mongodataset.DefaultCollection
		}
		return &mongoSampleWriter{mongodataset.Open(session, collection), session}, nil
	}
	md, err := scc.metadata(scc.log)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(scc.output, "postgresql://"), strings.HasPrefix(scc.output, "postgres://"):
		scc.log.Debugf("Creating PostgreSQL adapter for url %s to copy samples...", scc.output)
		adapter, err := pgadapter.New(scc.output)
		if err != nil {
			return nil, err
		}
		return scc.sqlWriter(ctx, adapter, md)
	case strings.HasSuffix(scc.output, ".db"):
		scc.log.Debugf("Creating SQLite3 adapter for file %s to copy samples...", scc.output)
		adapter, err := sqlite3adapter.New(scc.output)
		if err != nil {
			return nil, err
		}
		return scc.sqlWriter(ctx, adapter, md)
	case scc.output == "":
		scc.log.Debug("Using STDOUT to copy samples...")
		return newCSVSampleWriter(os.Stdout, nil, md)
	}
	scc.log.Debugf("Creating %s to copy samples...", scc.output)
	f, err := os.Create(scc.output)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", scc.output)
	}
	return newCSVSampleWriter(f, f, md)
}

func (scc *setCmdConfig) sqlWriter(ctx context.Context, adapter sqldataset.Adapter, md *yaml.Metadata) (sampleWriter, error) {
	table := scc.outputTable
	if table == "" {
		table = sqldataset.DefaultTable
	}
	source, err := sqldataset.New(adapter, table, md)
	if err != nil {
		adapter.DB().Close()
		return nil, err
	}
	if err = source.CreateTable(ctx); err != nil {
		source.Close()
		return nil, err
	}
	return &sqlSampleWriter{source}, nil
}

// newCSVSampleWriter returns a sampleWriter writing on out, closing f (if
// not nil) when closed.
func newCSVSampleWriter(out *os.File, f *os.File, md *yaml.Metadata) (sampleWriter, error) {
	w, err := csv.NewWriter(out, md)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, err
	}
	return &csvSampleWriter{w: w, f: f}, nil
}

func (cw *csvSampleWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return cw.w.Write(samples)
}

func (cw *csvSampleWriter) Close() error {
	err := cw.w.Flush()
	if cw.f == nil {
		return err
	}
	if cerr := cw.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (sw *sqlSampleWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	return sw.WriteSamples(ctx, samples)
}

func (mw *mongoSampleWriter) Close() error {
	mw.session.Close()
	return nil
}
