/*
Package csv reads and writes samples as CSV documents whose header names the
label column and the attribute columns described by sample metadata.
*/
package csv

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/feature/yaml"
	"github.com/pkg/errors"
)

/*
Writer writes samples as CSV rows with the label column first and the
attribute columns after it.
*/
type Writer struct {
	count int
	width int
	w     *csv.Writer
}

/*
ReadSamples takes an io.Reader for a CSV stream and the metadata describing
its columns and returns the samples parsed from it or an error.

The header or first row of the CSV content must name the label column and
every attribute column of the metadata, in any order; other columns are
ignored. Labels can be given by name or by code, attribute values must be
integer codes.
*/
func ReadSamples(reader io.Reader, md *yaml.Metadata) ([]dataset.Sample, error) {
	samples := []dataset.Sample{}
	err := ReadBySample(reader, md, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

/*
ReadBySample takes an io.Reader for a CSV stream, the metadata describing its
columns and a lambda function on an integer and a dataset.Sample that returns
a boolean value. It parses the samples from the reader and for each it calls
the lambda function with the sample and its index as parameters. If the
lambda function returns true, it will continue processing the next sample,
otherwise it will stop. An error is returned if something goes wrong when
reading the stream or parsing a sample.
*/
func ReadBySample(reader io.Reader, md *yaml.Metadata, lambda func(int, dataset.Sample) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return errors.Wrap(err, "reading header")
	}
	labelColumn, attributeColumns, err := parseHeader(header, md)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "reading body")
		}
		sample, err := parseRow(row, labelColumn, attributeColumns)
		if err != nil {
			return errors.Wrapf(err, "parsing line %d", l)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadSamplesFromFilePath takes a filepath string and the metadata describing
its columns, opens the file (os.Stdin if the filepath is "") and uses
ReadSamples to return the samples on it or an error.
*/
func ReadSamplesFromFilePath(filepath string, md *yaml.Metadata) ([]dataset.Sample, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, errors.Wrap(err, "reading samples")
		}
		defer f.Close()
	}
	samples, err := ReadSamples(f, md)
	if err != nil {
		err = errors.Wrapf(err, "parsing CSV file %s", filepath)
	}
	return samples, err
}

/*
NewWriter takes an io.Writer and the metadata describing the columns to
write and returns a Writer that will write samples on the io.Writer after
writing the header.
*/
func NewWriter(writer io.Writer, md *yaml.Metadata) (*Writer, error) {
	w := csv.NewWriter(writer)
	record := append([]string{md.Label}, md.Attributes...)
	err := w.Write(record)
	if err != nil {
		return nil, errors.Wrap(err, "writing CSV header")
	}
	return &Writer{width: len(md.Attributes), w: w}, nil
}

/*
Write writes the given samples and returns the number of samples actually
written and an error if not all of them could be written. Labels are written
by name.
*/
func (cw *Writer) Write(samples []dataset.Sample) (int, error) {
	record := make([]string, cw.width+1)
	for i, s := range samples {
		if len(s.Data) != cw.width {
			return i, &dataset.ShapeError{Index: cw.count, Want: cw.width, Got: len(s.Data)}
		}
		record[0] = s.Label.String()
		for j, v := range s.Data {
			record[j+1] = strconv.Itoa(v)
		}
		if err := cw.w.Write(record); err != nil {
			return i, errors.Wrapf(err, "writing sample %d", cw.count)
		}
		cw.count++
	}
	return len(samples), nil
}

// Count returns the total number of samples written.
func (cw *Writer) Count() int {
	return cw.count
}

// Flush ensures written samples reach the underlying io.Writer.
func (cw *Writer) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

func parseHeader(header []string, md *yaml.Metadata) (int, []int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	labelColumn, ok := columns[md.Label]
	if !ok {
		return 0, nil, errors.Errorf("parsing header: missing label column %q", md.Label)
	}
	attributeColumns := make([]int, len(md.Attributes))
	for i, a := range md.Attributes {
		c, ok := columns[a]
		if !ok {
			return 0, nil, errors.Errorf("parsing header: missing attribute column %q", a)
		}
		attributeColumns[i] = c
	}
	return labelColumn, attributeColumns, nil
}

func parseRow(row []string, labelColumn int, attributeColumns []int) (dataset.Sample, error) {
	label, err := feature.ParseLabel(row[labelColumn])
	if err != nil {
		return dataset.Sample{}, err
	}
	data := make([]int, len(attributeColumns))
	for i, c := range attributeColumns {
		v, err := strconv.Atoi(strings.TrimSpace(row[c]))
		if err != nil {
			return dataset.Sample{}, errors.Wrapf(err, "converting %q to an attribute code", row[c])
		}
		data[i] = v
	}
	return dataset.Sample{Data: data, Label: label}, nil
}
