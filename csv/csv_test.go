package csv

import (
	"bytes"
	"runtime"
	"testing"

	"golang.org/x/xerrors"
)

type record []string

func (r record) Record() []string {
	return r
}

func TestRecorder(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf)

	if err := enc.Encode(record{"a", "b"}); err != nil {
		t.Fatalf("%+v\n", err)
	}
	if got := buf.String(); got != "a,b\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestHeader(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf, "x", "y")

	enc.Encode(record{"1", "2"})
	enc.Encode(record{"3", "4"})
	if got := buf.String(); got != "x,y\n1,2\n3,4\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRecorderNil(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf)

	if err := enc.Encode(nil); err == nil {
		t.Fatalf("%+v\n", err)
	}
}

type nonRecorder struct{}

func TestNonRecorder(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf)

	err := enc.Encode(nonRecorder{})

	var runtimeErr runtime.Error
	if !xerrors.As(err, &runtimeErr) {
		t.Fatalf("%+v\n", runtimeErr)
	}
}
