package feature

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

/*
Label represents the class of a sample: one of the seven known facade
classes or Unknown.
*/
type Label uint8

// Known labels, in code order. Unknown is the sentinel for samples whose
// class could not be established.
const (
	Wall Label = iota
	Window
	Door
	Balcony
	Shop
	Roof
	Sky
	Unknown
)

var labelNames = [...]string{
	Wall:    "wall",
	Window:  "window",
	Door:    "door",
	Balcony: "balcony",
	Shop:    "shop",
	Roof:    "roof",
	Sky:     "sky",
	Unknown: "unknown",
}

/*
Labels returns the known labels (Unknown excluded) in ascending code order.
*/
func Labels() []Label {
	return []Label{Wall, Window, Door, Balcony, Shop, Roof, Sky}
}

/*
Valid returns whether the label belongs to the enumeration, Unknown
included.
*/
func (l Label) Valid() bool {
	return l <= Unknown
}

func (l Label) String() string {
	if !l.Valid() {
		return fmt.Sprintf("label(%d)", uint8(l))
	}
	return labelNames[l]
}

/*
ParseLabel takes a string with either the name of a label or its numeric
code and returns the corresponding Label or an error if it matches none.
*/
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	if code, err := strconv.Atoi(s); err == nil {
		if code < 0 || code > int(Unknown) {
			return Unknown, errors.Errorf("label code %d out of range [0, %d]", code, Unknown)
		}
		return Label(code), nil
	}
	for i, name := range labelNames {
		if strings.EqualFold(name, s) {
			return Label(i), nil
		}
	}
	return Unknown, errors.Errorf("unknown label %q", s)
}

// MarshalText encodes the label by its name.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, errors.Errorf("cannot marshal invalid label code %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes a label from its name or code.
func (l *Label) UnmarshalText(b []byte) error {
	parsed, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
