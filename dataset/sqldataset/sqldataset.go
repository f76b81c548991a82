/*
Package sqldataset reads and writes samples on SQL databases.

Samples are kept on a single table with one INTEGER column for the label
code and one INTEGER column per attribute, named after the sample metadata.
Adapters on its subpackages provide the database handle and the dialect
details for each supported engine.
*/
package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/feature/yaml"
	"github.com/pkg/errors"
)

// DefaultTable is the name of the table holding samples unless told otherwise
const DefaultTable = "samples"

/*
Adapter is an interface for the engine-specific parts of working with an SQL
database.
*/
type Adapter interface {
	// DB returns the database handle
	DB() *sql.DB
	// Placeholder returns the bind parameter for the nth (1-based)
	// argument of a statement
	Placeholder(n int) string
}

/*
Source reads samples from and writes samples to a table of an SQL database.
*/
type Source struct {
	adapter Adapter
	table   string
	columns []string
}

/*
New takes an Adapter, a table name and the metadata describing the columns
of the table and returns a Source for it or an error if any of the names is
not usable as an SQL identifier.
*/
func New(a Adapter, table string, md *yaml.Metadata) (*Source, error) {
	columns := append([]string{md.Label}, md.Attributes...)
	for _, name := range append([]string{table}, columns...) {
		if err := validIdentifier(name); err != nil {
			return nil, err
		}
	}
	return &Source{adapter: a, table: table, columns: columns}, nil
}

/*
CreateTable ensures the table for samples exists, creating it if needed.
*/
func (s *Source) CreateTable(ctx context.Context) error {
	var stmt bytes.Buffer
	fmt.Fprintf(&stmt, `CREATE TABLE IF NOT EXISTS "%s" (`, s.table)
	for i, c := range s.columns {
		if i > 0 {
			stmt.WriteString(", ")
		}
		fmt.Fprintf(&stmt, `"%s" INTEGER NOT NULL`, c)
	}
	stmt.WriteString(")")
	_, err := s.adapter.DB().ExecContext(ctx, stmt.String())
	if err != nil {
		return errors.Wrapf(err, "ensuring table %s exists", s.table)
	}
	return nil
}

/*
ReadSamples returns every sample on the table or an error if the table
cannot be queried or holds an invalid label code.
*/
func (s *Source) ReadSamples(ctx context.Context) ([]dataset.Sample, error) {
	query := fmt.Sprintf(`SELECT "%s" FROM "%s"`, strings.Join(s.columns, `", "`), s.table)
	rows, err := s.adapter.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "querying table %s", s.table)
	}
	defer rows.Close()
	var samples []dataset.Sample
	values := make([]int64, len(s.columns))
	dest := make([]interface{}, len(s.columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err = rows.Scan(dest...); err != nil {
			return nil, errors.Wrapf(err, "scanning sample %d", len(samples))
		}
		if values[0] < 0 || values[0] > int64(feature.Unknown) {
			return nil, errors.Errorf("sample %d has invalid label code %d", len(samples), values[0])
		}
		label := feature.Label(values[0])
		data := make([]int, len(values)-1)
		for i, v := range values[1:] {
			data[i] = int(v)
		}
		samples = append(samples, dataset.Sample{Data: data, Label: label})
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading table %s", s.table)
	}
	return samples, nil
}

/*
WriteSamples inserts the given samples on the table in a single transaction
and returns the number of samples inserted. On error the transaction is
rolled back and 0 is returned.
*/
func (s *Source) WriteSamples(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(s.columns))
	for i := range placeholders {
		placeholders[i] = s.adapter.Placeholder(i + 1)
	}
	insert := fmt.Sprintf(`INSERT INTO "%s" ("%s") VALUES (%s)`, s.table, strings.Join(s.columns, `", "`), strings.Join(placeholders, ", "))
	tx, err := s.adapter.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "starting transaction")
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		tx.Rollback()
		return 0, errors.Wrap(err, "preparing insert command")
	}
	defer stmt.Close()
	args := make([]interface{}, len(s.columns))
	for i, sample := range samples {
		if len(sample.Data) != len(s.columns)-1 {
			tx.Rollback()
			return 0, &dataset.ShapeError{Index: i, Want: len(s.columns) - 1, Got: len(sample.Data)}
		}
		args[0] = int64(sample.Label)
		for j, v := range sample.Data {
			args[j+1] = int64(v)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return 0, errors.Wrapf(err, "inserting sample %d", i)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing samples")
	}
	return len(samples), nil
}

// Close closes the underlying database handle.
func (s *Source) Close() error {
	return s.adapter.DB().Close()
}

func validIdentifier(name string) error {
	if name == "" {
		return errors.New("empty SQL identifier")
	}
	if strings.ContainsAny(name, `"`) {
		return errors.Errorf(`identifier '%s' contains invalid character '"'`, name)
	}
	return nil
}
