package main

import (
	"flag"
	"testing"

	"github.com/robert-edward-lee/reveng/poly"
	"github.com/robert-edward-lee/reveng/reveng"
)

// setFlags applies the given option values and returns a restore
// function for the test to defer.
func setFlags(t *testing.T, opts map[string]string) func() {
	t.Helper()
	saved := map[string]string{}
	for name, value := range opts {
		f := flag.Lookup(name)
		if f == nil {
			t.Fatalf("no such flag %q", name)
		}
		saved[name] = f.Value.String()
		if err := flag.Set(name, value); err != nil {
			t.Fatalf("setting -%s=%s: %v", name, value, err)
		}
	}
	return func() {
		for name, value := range saved {
			flag.Set(name, value)
		}
	}
}

func TestHandleFlagsSearch(t *testing.T) {
	defer setFlags(t, map[string]string{
		"s": "true", "w": "16", "p": "1021", "i": "ffff",
	})()

	cfg, err := HandleFlags()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.mode != 's' || cfg.width != 16 {
		t.Fatalf("mode %q width %d", cfg.mode, cfg.width)
	}
	if cfg.rflags&(reveng.HaveP|reveng.HaveI) != reveng.HaveP|reveng.HaveI {
		t.Fatalf("rflags %#x", cfg.rflags)
	}
	if poly.Sncmp(cfg.model.SPoly, poly.Parse("1021", 0, 4)) != 0 {
		t.Fatalf("spoly %v", cfg.model.SPoly)
	}
	if cfg.model.Init.Len() != 16 || cfg.model.XorOut.Len() != 16 {
		t.Fatal("parameters not trimmed to the width")
	}
	if cfg.model.Flags&poly.MulXN == 0 {
		t.Fatal("model lost the augmenting flag")
	}
}

func TestHandleFlagsPreset(t *testing.T) {
	defer setFlags(t, map[string]string{
		"d": "true", "m": "crc-16/ccitt-false",
	})()

	cfg, err := HandleFlags()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.width != 16 {
		t.Fatalf("width %d", cfg.width)
	}
	want := reveng.HaveP | reveng.HaveI | reveng.HaveX | reveng.HaveRI | reveng.HaveRO
	if cfg.rflags&want != want {
		t.Fatalf("rflags %#x", cfg.rflags)
	}
	if cfg.model.Name == "" {
		t.Fatal("preset name lost")
	}
}

func TestHandleFlagsRange(t *testing.T) {
	defer setFlags(t, map[string]string{
		"s": "true", "w": "8", "p": "10", "q": "20",
	})()

	cfg, err := HandleFlags()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.rflags&reveng.HaveQ == 0 || cfg.rflags&reveng.HaveP != 0 {
		t.Fatalf("range search rflags %#x", cfg.rflags)
	}
	if cfg.qpoly.Len() != 8 {
		t.Fatalf("qpoly %v", cfg.qpoly)
	}
}

func TestHandleFlagsModes(t *testing.T) {
	if _, err := HandleFlags(); err == nil {
		t.Fatal("no mode switch accepted")
	}

	defer setFlags(t, map[string]string{"c": "true", "s": "true", "w": "8"})()
	if _, err := HandleFlags(); err == nil {
		t.Fatal("two mode switches accepted")
	}
}

func TestHandleFlagsEndian(t *testing.T) {
	defer setFlags(t, map[string]string{"s": "true", "w": "8", "l": "true"})()

	cfg, err := HandleFlags()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.model.Flags&(poly.RefIn|poly.RefOut) != poly.RefIn|poly.RefOut {
		t.Fatal("little-endian did not set both reflections")
	}
	if cfg.rflags&(reveng.HaveRI|reveng.HaveRO) != reveng.HaveRI|reveng.HaveRO {
		t.Fatal("little-endian did not pin the bit order")
	}
}

func TestNewEncoder(t *testing.T) {
	for _, format := range []string{"plain", "csv", "json"} {
		if _, err := NewEncoder(format); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
	}
	if _, err := NewEncoder("xml"); err == nil {
		t.Fatal("unknown format accepted")
	}
}
