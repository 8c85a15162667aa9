// Package csv encodes records to CSV output streams.
package csv

import (
	"encoding/csv"
	"io"

	"golang.org/x/xerrors"
)

// Produces a list of fields making up a record.
type Recorder interface {
	Record() []string
}

// An Encoder writes CSV records to an output stream, preceded by a
// header row when one is configured.
type Encoder struct {
	w      *csv.Writer
	header []string
}

// NewEncoder returns a new encoder that writes to w. A non-empty
// header is written before the first record.
func NewEncoder(w io.Writer, header ...string) *Encoder {
	return &Encoder{w: csv.NewWriter(w), header: header}
}

// Encode writes a CSV record representing v to the stream followed by
// a newline character. Value given must implement the Recorder
// interface.
func (enc *Encoder) Encode(v interface{}) (err error) {
	defer func() {
		if r, ok := recover().(error); ok {
			err = xerrors.Errorf("recovered: %w", r)
		}
	}()

	if len(enc.header) > 0 {
		err = enc.w.Write(enc.header)
		enc.header = nil
	}
	if err == nil {
		err = enc.w.Write(v.(Recorder).Record())
	}
	enc.w.Flush()

	return err
}
