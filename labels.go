package smartcam

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// Labels is the table of class names the Model was trained on.  The first
// line of the labels file is a placeholder, so the name of raw class id i is
// on line i+1.  Labels are read only after loading and safe for concurrent use.
type Labels struct {
	names []string
}

// newlines normalises all line endings to \n
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// LoadLabels reads the labels used to train the Model from the given text
// file.  It should contain one label per line after a leading placeholder
// line.
func LoadLabels(file string) (*Labels, error) {

	// open the file
	f, err := os.Open(file)

	if err != nil {
		return nil, errors.WithHint(
			errors.Mark(errors.Wrapf(err, "error opening labels file %s", file), ErrLabelsUnavailable),
			"check the labels path setting points to the model's label map",
		)
	}

	defer f.Close()

	return ParseLabels(f)
}

// ParseLabels reads newline delimited UTF-8 labels.  Lines are kept as they
// are, no trimming or deduplication is performed and a trailing newline
// results in a final empty label.
func ParseLabels(r io.Reader) (*Labels, error) {

	data, err := io.ReadAll(r)

	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "error reading labels"), ErrLabelsUnavailable)
	}

	if !utf8.Valid(data) {
		return nil, errors.Mark(errors.New("labels are not valid UTF-8"), ErrLabelsUnavailable)
	}

	return &Labels{
		names: strings.Split(newlines.Replace(string(data)), "\n"),
	}, nil
}

// NewLabels creates Labels from lines already in memory, names[0] is the
// placeholder entry
func NewLabels(names []string) *Labels {
	cp := make([]string, len(names))
	copy(cp, names)
	return &Labels{names: cp}
}

// Lookup returns the class name for the raw class id output by the engine.
// An id outside [0, Len()-2] is a programming error and panics.
func (l *Labels) Lookup(classID int) string {

	idx := classID + 1

	if idx < 1 || idx >= len(l.names) {
		precondition("class id %d out of range [0,%d]", classID, len(l.names)-2)
	}

	return l.names[idx]
}

// Len returns the number of lines in the labels table including the
// placeholder
func (l *Labels) Len() int {
	return len(l.names)
}

// Names returns a copy of all lines in the labels table
func (l *Labels) Names() []string {
	cp := make([]string, len(l.names))
	copy(cp, l.names)
	return cp
}
