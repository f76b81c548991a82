/*
Package yaml provides methods to parse sample metadata, the description
of which columns of a data source hold the label and the attribute codes
of samples, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

/*
Metadata describes the layout of samples on a tabular source: the column
holding the label and the columns holding the attribute codes, in the
order they take on the sample's data vector.
*/
type Metadata struct {
	Label      string   `yaml:"label"`
	Attributes []string `yaml:"attributes"`
}

/*
ReadMetadata takes a slice of bytes with a metadata specification in YML and
returns the Metadata parsed from it or an error.
The YML is expected to be an object with a label property set to the name of
the label column and an attributes property with the list of attribute
column names. Alternatively, attributes can be given as an integer count,
in which case columns are named a0, a1, ... a(count-1).
*/
func ReadMetadata(md []byte) (*Metadata, error) {
	raw := struct {
		Label      string      `yaml:"label"`
		Attributes interface{} `yaml:"attributes"`
	}{}
	err := yaml.Unmarshal(md, &raw)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yml metadata")
	}
	if raw.Label == "" {
		return nil, errors.New("metadata has no label column")
	}
	result := &Metadata{Label: raw.Label}
	switch attrs := raw.Attributes.(type) {
	case nil:
		return nil, errors.New("metadata has no attribute information")
	case int:
		if attrs <= 0 {
			return nil, errors.Errorf("invalid attribute count %d", attrs)
		}
		result.Attributes = AttributeNames(attrs)
	case []interface{}:
		for _, a := range attrs {
			result.Attributes = append(result.Attributes, fmt.Sprintf("%v", a))
		}
	default:
		return nil, errors.Errorf("invalid attributes declaration of type %T", attrs)
	}
	seen := make(map[string]bool, len(result.Attributes)+1)
	seen[result.Label] = true
	for _, a := range result.Attributes {
		if seen[a] {
			return nil, errors.Errorf("column %q declared more than once", a)
		}
		seen[a] = true
	}
	return result, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it and return the Metadata or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadMetadataFromFile(filepath string) (*Metadata, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading metadata yml file %s", filepath)
	}
	metadata, err := ReadMetadata(md)
	if err != nil {
		err = errors.Wrapf(err, "parsing metadata yml file %s", filepath)
	}
	return metadata, err
}

// AttributeNames returns the default column names for n attributes.
func AttributeNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("a%d", i)
	}
	return names
}
