/*
Package mongodataset reads and writes samples on a MongoDB
database collection.
*/
package mongodataset

import (
	"context"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pkg/errors"
	mgo "gopkg.in/mgo.v2"
)

// DefaultCollection is the name of the collection holding samples unless told otherwise
const DefaultCollection = "samples"

/*
Source reads samples from and writes samples to a MongoDB collection where
each sample is a document with a label property holding its label code and
a data property holding its attribute codes.
*/
type Source struct {
	session    *mgo.Session
	collection string
}

type document struct {
	Label int   `bson:"label"`
	Data  []int `bson:"data"`
}

/*
Open takes a MongoDB database session and a collection name and returns a
Source that works on that collection of the default database for the session.
*/
func Open(session *mgo.Session, collection string) *Source {
	return &Source{session, collection}
}

// Count returns the number of samples on the collection.
func (s *Source) Count(context.Context) (int, error) {
	return s.samplesCollection().Count()
}

/*
ReadSamples returns every sample on the collection or the first error found
reading them.
*/
func (s *Source) ReadSamples(ctx context.Context) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	count, err := s.Count(ctx)
	if err == nil {
		samples = make([]dataset.Sample, 0, count)
	}
	sampleChan, errs := s.Read(ctx)
	for sample := range sampleChan {
		samples = append(samples, sample)
	}
	if err = <-errs; err != nil {
		return nil, err
	}
	return samples, nil
}

/*
Read starts reading the samples on the collection and returns a channel they
are sent through and a channel where an error is sent if reading fails or the
context is cancelled. Both channels are closed when reading ends.
*/
func (s *Source) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	samples := make(chan dataset.Sample)
	errs := make(chan error, 1)
	go func() {
		var doc document
		var err error
		iter := s.samplesCollection().Find(nil).Iter()
	loop:
		for i := 0; iter.Next(&doc); i++ {
			var sample dataset.Sample
			sample, err = decodeDocument(i, &doc)
			if err != nil {
				break
			}
			select {
			case <-ctx.Done():
				err = ctx.Err()
				break loop
			case samples <- sample:
			}
		}
		if cerr := iter.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			errs <- err
		}
		close(errs)
		close(samples)
	}()
	return samples, errs
}

/*
Write inserts the given samples on the collection and returns the number of
samples inserted or an error.
*/
func (s *Source) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(samples) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(samples))
	for _, sample := range samples {
		docs = append(docs, encodeSample(sample))
	}
	err := s.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}

func encodeSample(s dataset.Sample) *document {
	return &document{Label: int(s.Label), Data: s.Data}
}

// decodeDocument takes the index of a document on the collection and the
// document and returns the sample it holds.
func decodeDocument(i int, doc *document) (dataset.Sample, error) {
	if doc.Label < 0 || doc.Label > int(feature.Unknown) {
		return dataset.Sample{}, errors.Errorf("sample %d has invalid label code %d", i, doc.Label)
	}
	return dataset.NewSample(feature.Label(doc.Label), doc.Data...), nil
}

func (s *Source) samplesCollection() *mgo.Collection {
	return s.session.DB("").C(s.collection)
}
