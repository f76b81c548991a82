package main

import (
	"context"
	"strings"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/dataset/csv"
	"github.com/pbanos/canopy/dataset/mongodataset"
	"github.com/pbanos/canopy/dataset/sqldataset"
	"github.com/pbanos/canopy/dataset/sqldataset/pgadapter"
	"github.com/pbanos/canopy/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/canopy/feature/yaml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	mgo "gopkg.in/mgo.v2"
)

type inputConfig struct {
	dataInput     string
	metadataInput string
	table         string
}

func (ic *inputConfig) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&(ic.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) connection URL with samples (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVarP(&(ic.metadataInput), "metadata", "m", "", "path to a YML file naming the label and attribute columns of the input (required except for MongoDB inputs)")
	cmd.Flags().StringVar(&(ic.table), "table", "", "name of the table or collection holding samples on database inputs (defaults to samples)")
}

func (ic *inputConfig) isMongo() bool {
	return strings.HasPrefix(ic.dataInput, "mongodb://")
}

func (ic *inputConfig) Validate() error {
	if ic.metadataInput == "" && !ic.isMongo() {
		return errors.New("required metadata flag was not set")
	}
	return nil
}

func (ic *inputConfig) dataset(ctx context.Context, log logrus.FieldLogger) (*dataset.Dataset, error) {
	samples, err := ic.samples(ctx, log)
	if err != nil {
		return nil, err
	}
	ds := dataset.New(samples)
	if _, err = ds.Width(); err != nil {
		return nil, errors.Wrap(err, "validating samples")
	}
	log.WithField("samples", ds.Count()).Debug("Samples read")
	return ds, nil
}

func (ic *inputConfig) samples(ctx context.Context, log logrus.FieldLogger) ([]dataset.Sample, error) {
	if ic.isMongo() {
		return ic.mongoSamples(ctx, log)
	}
	md, err := ic.metadata(log)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(ic.dataInput, "postgresql://"), strings.HasPrefix(ic.dataInput, "postgres://"):
		log.Debugf("Creating PostgreSQL adapter for url %s to read samples...", ic.dataInput)
		adapter, err := pgadapter.New(ic.dataInput)
		if err != nil {
			return nil, err
		}
		return ic.sqlSamples(ctx, adapter, md)
	case strings.HasSuffix(ic.dataInput, ".db"):
		log.Debugf("Creating SQLite3 adapter for file %s to read samples...", ic.dataInput)
		adapter, err := sqlite3adapter.New(ic.dataInput)
		if err != nil {
			return nil, err
		}
		return ic.sqlSamples(ctx, adapter, md)
	case ic.dataInput == "":
		log.Debug("Reading samples from STDIN...")
	default:
		log.Debugf("Opening %s to read samples...", ic.dataInput)
	}
	return csv.ReadSamplesFromFilePath(ic.dataInput, md)
}

func (ic *inputConfig) metadata(log logrus.FieldLogger) (*yaml.Metadata, error) {
	log.Debugf("Reading metadata from %s...", ic.metadataInput)
	return yaml.ReadMetadataFromFile(ic.metadataInput)
}

func (ic *inputConfig) sqlSamples(ctx context.Context, adapter sqldataset.Adapter, md *yaml.Metadata) ([]dataset.Sample, error) {
	table := ic.table
	if table == "" {
		table = sqldataset.DefaultTable
	}
	source, err := sqldataset.New(adapter, table, md)
	if err != nil {
		adapter.DB().Close()
		return nil, err
	}
	defer source.Close()
	return source.ReadSamples(ctx)
}

func (ic *inputConfig) mongoSamples(ctx context.Context, log logrus.FieldLogger) ([]dataset.Sample, error) {
	log.Debugf("Connecting to MongoDB at %s to read samples...", ic.dataInput)
	session, err := mgo.Dial(ic.dataInput)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", ic.dataInput)
	}
	defer session.Close()
	collection := ic.table
	if collection == "" {
		collection = mongodataset.DefaultCollection
	}
	return mongodataset.Open(session, collection).ReadSamples(ctx)
}
