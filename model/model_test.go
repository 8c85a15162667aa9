package model

import (
	"strings"
	"testing"

	"github.com/robert-edward-lee/reveng/poly"
)

func TestCatalogSorted(t *testing.T) {
	for i := 1; i < len(presets); i++ {
		if presets[i-1].name >= presets[i].name {
			t.Fatalf("catalog out of order at %q", presets[i].name)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"CRC-16/CCITT-FALSE", "crc-16/ccitt-false", "Crc-32/Iso-Hdlc"} {
		m, ok := ByName(name)
		if !ok {
			t.Fatalf("preset %q not found", name)
		}
		if m.SPoly.Len() == 0 || m.Name == "" {
			t.Fatalf("preset %q came back empty", name)
		}
	}
	if _, ok := ByName("CRC-16/NO-SUCH"); ok {
		t.Fatal("found a preset that does not exist")
	}
}

func TestByNum(t *testing.T) {
	if _, ok := ByNum(-1); ok {
		t.Fatal("negative index resolved")
	}
	if _, ok := ByNum(Count()); ok {
		t.Fatal("index past the end resolved")
	}
	for i := 0; i < Count(); i++ {
		if _, ok := ByNum(i); !ok {
			t.Fatalf("index %d did not resolve", i)
		}
	}
}

// Every stored check and residue must match what the engine computes
// from the entry's parameters.
func TestCatalogChecks(t *testing.T) {
	for i := 0; i < Count(); i++ {
		m, _ := ByNum(i)
		want := m
		m.CalcChecks()
		if poly.Sncmp(m.Check, want.Check) != 0 {
			t.Fatalf("%s: computed check %v, catalog says %v", m.Name, m.Check, want.Check)
		}
		if poly.Sncmp(m.Magic, want.Magic) != 0 {
			t.Fatalf("%s: computed residue %v, catalog says %v", m.Name, m.Magic, want.Magic)
		}
	}
}

func TestCanon(t *testing.T) {
	var m Model
	m.SPoly = poly.Parse("10", 0, 4)
	if err := m.Canon(); err == nil {
		t.Fatal("Canon accepted a generator without a +1 term")
	}

	m = Model{Name: "CRC-16/CCITT-FALSE"}
	if err := m.Canon(); err != nil {
		t.Fatal("Canon rejected the zero model:", err)
	}
	if m.Name != "" {
		t.Fatal("Canon kept the name of the zero model")
	}

	m = Model{SPoly: poly.Parse("1021", 0, 4), Init: poly.Parse("fffff", 0, 4)}
	if err := m.Canon(); err != nil {
		t.Fatal("Canon rejected a valid model:", err)
	}
	if m.Init.Len() != 16 || m.XorOut.Len() != 16 {
		t.Fatal("Canon did not mask Init and XorOut to the width")
	}
}

// Reversing the reverse algorithm gives the original back, up to the
// name.
func TestRevInvolution(t *testing.T) {
	for _, name := range []string{"CRC-16/CCITT-FALSE", "CRC-32/ISO-HDLC", "CRC-16/X-25"} {
		orig, _ := ByName(name)
		m, _ := ByName(name)
		m.Rev()
		m.Rev()
		if poly.Sncmp(m.SPoly, orig.SPoly) != 0 ||
			poly.Sncmp(m.Init, orig.Init) != 0 ||
			poly.Sncmp(m.XorOut, orig.XorOut) != 0 ||
			m.Flags != orig.Flags {
			t.Fatalf("%s: double reverse is not the identity", name)
		}
		if m.Name != "" {
			t.Fatalf("%s: reverse kept the catalog name", name)
		}
	}
}

func TestRev(t *testing.T) {
	m, _ := ByName("CRC-16/ARC")
	m.Rev()
	if want := poly.Parse("4003", 0, 4); poly.Sncmp(m.SPoly, want) != 0 {
		t.Fatalf("reverse of 8005: expected %v got %v", want, m.SPoly)
	}
}

func TestString(t *testing.T) {
	m, _ := ByName("CRC-16/CCITT-FALSE")
	s := m.String()
	for _, want := range []string{
		"width=16", "poly=0x1021", "init=0xffff", "refin=false",
		"refout=false", "xorout=0x0000", "check=0x29b1", "residue=0x0000",
		`name="CRC-16/CCITT-FALSE"`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("String missing %q in %q", want, s)
		}
	}

	m.Novel()
	if !strings.Contains(m.String(), "name=(none)") {
		t.Fatal("String did not mark the novel model")
	}
}

func TestRecord(t *testing.T) {
	m, _ := ByName("CRC-8/SMBUS")
	r := m.Record()
	if len(r) != len(RecordHeader()) {
		t.Fatalf("record has %d fields, header %d", len(r), len(RecordHeader()))
	}
	if r[0] != "CRC-8/SMBUS" || r[1] != "8" || r[2] != "07" {
		t.Fatalf("unexpected record: %v", r)
	}
}
