package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/qamatch/core"
)

type header int

const (
	headerPresent header = iota
	headerAbsent
	headerDetect
)

type options struct {
	encoding Encoding
	header   header
}

// Option configures how a dataset is read.
type Option func(*options)

// WithEncoding sets the file encoding.
// Default is EncodingWindows1252.
func WithEncoding(e Encoding) Option {
	return func(o *options) {
		o.encoding = e
	}
}

// WithHeader states whether the first row is a header.
// Default is true: the first row is dropped whatever it contains.
func WithHeader(present bool) Option {
	return func(o *options) {
		if present {
			o.header = headerPresent
		} else {
			o.header = headerAbsent
		}
	}
}

// WithHeaderDetection drops the first row only if its cells read "Question"
// and "Answer" (any case).
func WithHeaderDetection() Option {
	return func(o *options) {
		o.header = headerDetect
	}
}

// Load reads the candidate database at path.
func Load(path string, opts ...Option) ([]core.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrDataLoad, err)
	}
	defer f.Close()

	candidates, err := Read(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return candidates, nil
}

// Read parses a candidate database from r. Every error wraps core.ErrDataLoad.
func Read(r io.Reader, opts ...Option) ([]core.Candidate, error) {
	o := options{encoding: EncodingWindows1252, header: headerPresent}
	for _, opt := range opts {
		opt(&o)
	}

	decoded, err := o.encoding.decoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrDataLoad, err)
	}

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	var candidates []core.Candidate
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrDataLoad, err)
		}
		line, _ := reader.FieldPos(0)

		if row == 0 && o.isHeader(record) {
			continue
		}

		if len(record) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected 2 columns (question, answer), got %d",
				core.ErrDataLoad, line, len(record))
		}
		if o.encoding == EncodingUTF8 && !(utf8.ValidString(record[0]) && utf8.ValidString(record[1])) {
			return nil, fmt.Errorf("%w: line %d: invalid UTF-8", core.ErrDataLoad, line)
		}

		c := core.NewCandidate(len(candidates), record[0], record[1])
		if err := core.ValidateCandidate(&c); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %w", core.ErrDataLoad, core.ErrNoCandidates)
	}
	return candidates, nil
}

func (o *options) isHeader(record []string) bool {
	switch o.header {
	case headerPresent:
		return true
	case headerAbsent:
		return false
	}
	return len(record) == 2 &&
		strings.EqualFold(strings.TrimSpace(record[0]), "question") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "answer")
}
