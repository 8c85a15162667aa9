// reveng - arbitrary-precision CRC calculator and algorithm finder.
// Copyright (C) 2024 Robert Edward Lee
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/robert-edward-lee/reveng/csv"
	"github.com/robert-edward-lee/reveng/model"
	"github.com/robert-edward-lee/reveng/poly"
	"github.com/robert-edward-lee/reveng/reveng"
)

// Mode switches: exactly one must be given.
var (
	calcMode   = flag.Bool("c", false, "calculate CRCs")
	revMode    = flag.Bool("v", false, "calculate reversed CRCs")
	dumpMode   = flag.Bool("d", false, "dump algorithm parameters")
	listMode   = flag.Bool("D", false, "list preset algorithms")
	echoMode   = flag.Bool("e", false, "echo (and reformat) input")
	searchMode = flag.Bool("s", false, "search for algorithm")
)

// Parameter options.
var (
	widthOpt  = flag.Int("w", 0, "register size, in bits")
	polyOpt   = flag.String("p", "", "generator or search range start polynomial")
	rpolyOpt  = flag.String("P", "", "reversed generator polynomial (implies WIDTH)")
	kpolyOpt  = flag.String("k", "", "generator in Koopman notation (implies WIDTH)")
	initOpt   = flag.String("i", "", "initial register value")
	xorOpt    = flag.String("x", "", "final register XOR value")
	qpolyOpt  = flag.String("q", "", "search range end polynomial")
	presetOpt = flag.String("m", "", "preset CRC algorithm")
	bitsOpt   = flag.Int("a", 8, "bits per character (1 to 64)")
	obitsOpt  = flag.Int("A", 0, "bits per output character (default: same as -a)")
)

// Modifier switches.
var (
	exhstOpt  = flag.Bool("1", false, "skip equivalent forms")
	bigIn     = flag.Bool("b", false, "big-endian CRC (RefIn and RefOut false)")
	bigOut    = flag.Bool("B", false, "big-endian CRC output (RefOut false)")
	ltlIn     = flag.Bool("l", false, "little-endian CRC (RefIn and RefOut true)")
	ltlOut    = flag.Bool("L", false, "little-endian CRC output (RefOut true)")
	rtJust    = flag.Bool("r", false, "right-justified output")
	ltJust    = flag.Bool("t", false, "left-justified output")
	fromFiles = flag.Bool("f", false, "read files named in STRINGs ('-' is stdin)")
	skipPck   = flag.Bool("F", false, "skip preset model check pass")
	skipBfs   = flag.Bool("G", false, "skip brute force search pass")
	nonAug    = flag.Bool("M", false, "non-augmenting algorithm")
	spaceOut  = flag.Bool("S", false, "print spaces between characters")
	revAlgo   = flag.Bool("V", false, "reverse algorithm only")
	upperHex  = flag.Bool("X", false, "print uppercase hexadecimal")
	ltlBytes  = flag.Bool("y", false, "low bytes first in files")
	rawIn     = flag.Bool("z", false, "raw binary STRINGs")
	outFormat = flag.String("format", "plain", "model output format: plain, csv or json")
)

var modeFlags = map[string]bool{
	"c": true, "v": true, "d": true, "D": true, "e": true, "s": true,
}

var paramFlags = map[string]bool{
	"w": true, "p": true, "P": true, "k": true, "i": true, "x": true,
	"q": true, "m": true, "a": true, "A": true,
}

// RegisterFlags installs the grouped usage text.
func RegisterFlags() {
	printDefaults := func(inclusion func(string) bool) {
		flag.CommandLine.VisitAll(func(f *flag.Flag) {
			if !inclusion(f.Name) {
				return
			}
			fmt.Fprintf(os.Stderr, "  -%s=%s: %s\n", f.Name, f.DefValue, f.Usage)
		})
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "reveng: arbitrary-precision CRC calculator and algorithm finder\n")
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Mode switches (exactly one):")
		printDefaults(func(n string) bool { return modeFlags[n] })
		fmt.Fprintln(os.Stderr, "Parameter options:")
		printDefaults(func(n string) bool { return paramFlags[n] })
		fmt.Fprintln(os.Stderr, "Modifier switches:")
		printDefaults(func(n string) bool { return !modeFlags[n] && !paramFlags[n] })
	}
}

// EnvOverride lets REVENG_* environment variables override flags.
func EnvOverride() {
	flag.VisitAll(func(f *flag.Flag) {
		envName := "REVENG_" + strings.ToUpper(f.Name)
		flagValue := os.Getenv(envName)
		if flagValue == "" {
			return
		}
		if err := flag.Set(f.Name, flagValue); err != nil {
			log.Warnf("environment variable %q failed to override flag %q with value %q: %v",
				envName, f.Name, flagValue, err)
		} else {
			log.Infof("environment variable %q overrides flag %q with %q", envName, f.Name, flagValue)
		}
	})
}

// config is the driver state assembled from the options: the partial
// model, the search flags and the character widths.
type config struct {
	mode    rune
	model   model.Model
	qpoly   poly.Poly
	rflags  int
	width   int
	ibperhx int
	obperhx int
	inFile  bool
	noPck   bool
	noBfs   bool
}

// HandleFlags validates the options and assembles the run
// configuration, mirroring the original option semantics: -k/-P/-m
// imply the width, every parameter is right-trimmed to the width
// afterwards, and any -q turns a given -p into a range start (a zero
// -q leaves the range open-ended).
func HandleFlags() (*config, error) {
	cfg := &config{
		ibperhx: *bitsOpt,
		obperhx: *bitsOpt,
		inFile:  *fromFiles,
		noPck:   *skipPck,
		noBfs:   *skipBfs,
	}
	if *obitsOpt != 0 {
		cfg.obperhx = *obitsOpt
	}
	if cfg.ibperhx < 1 || cfg.ibperhx > 64 || cfg.obperhx < 1 || cfg.obperhx > 64 {
		return nil, fmt.Errorf("bits per character must be between 1 and 64")
	}

	modes := 0
	for r, on := range map[rune]*bool{
		'c': calcMode, 'v': revMode, 'd': dumpMode,
		'D': listMode, 'e': echoMode, 's': searchMode,
	} {
		if *on {
			modes++
			cfg.mode = r
		}
	}
	if modes == 0 {
		return nil, fmt.Errorf("no mode switch specified. Use -h for help")
	}
	if modes > 1 {
		return nil, fmt.Errorf("more than one mode switch specified. Use -h for help")
	}

	m := &cfg.model
	m.Flags = poly.MulXN

	if *presetOpt != "" {
		pm, ok := model.ByName(*presetOpt)
		if !ok {
			if model.Count() == 0 {
				return nil, fmt.Errorf("no preset models available")
			}
			return nil, fmt.Errorf("preset model %q not found.  Use -D to list presets", *presetOpt)
		}
		*m = pm
		cfg.width = m.SPoly.Len()
		cfg.rflags |= reveng.HaveP | reveng.HaveI | reveng.HaveX | reveng.HaveRI | reveng.HaveRO
	}

	if *exhstOpt {
		m.Flags |= poly.Exhst
	}
	if *nonAug {
		m.Flags &^= poly.MulXN
	}
	if *spaceOut {
		m.Flags |= poly.Space
	}
	if *upperHex {
		m.Flags |= poly.Upper
	}
	if *ltlBytes {
		m.Flags |= poly.LtlByt
	}
	if *rawIn {
		m.Flags |= poly.Direct
	}

	// Endianness and justification, in the original's cascade order.
	if *bigIn {
		m.Flags &^= poly.RefIn | poly.RefOut
		m.Flags |= poly.RTJust
		cfg.rflags |= reveng.HaveRI | reveng.HaveRO
		m.Novel()
	}
	if *bigOut {
		m.Flags &^= poly.RefOut
		m.Flags |= poly.RTJust
		cfg.rflags |= reveng.HaveRO
		m.Novel()
	}
	if *ltlIn {
		m.Flags |= poly.RefIn | poly.RefOut
		m.Flags &^= poly.RTJust
		cfg.rflags |= reveng.HaveRI | reveng.HaveRO
		m.Novel()
	}
	if *ltlOut {
		m.Flags |= poly.RefOut
		m.Flags &^= poly.RTJust
		cfg.rflags |= reveng.HaveRO
		m.Novel()
	}
	if *rtJust {
		m.Flags |= poly.RTJust
	}
	if *ltJust {
		m.Flags &^= poly.RTJust
	}

	if *widthOpt != 0 {
		if *widthOpt < 0 {
			return nil, fmt.Errorf("width must be positive")
		}
		cfg.width = *widthOpt
	}
	switch {
	case *kpolyOpt != "":
		m.SPoly = poly.Parse(*kpolyOpt, 0, 4)
		m.SPoly.KChop()
		cfg.width = m.SPoly.Len()
		cfg.rflags |= reveng.HaveP
		m.Novel()
	case *rpolyOpt != "":
		m.SPoly = poly.Parse(*rpolyOpt, 0, 4)
		m.SPoly.KChop()
		cfg.width = m.SPoly.Len()
		m.SPoly.Rcp()
		cfg.rflags |= reveng.HaveP
		m.Novel()
	case *polyOpt != "":
		m.SPoly = poly.Parse(*polyOpt, 0, 4)
		cfg.rflags |= reveng.HaveP
		m.Novel()
		if m.SPoly.Len() > 0 && !m.SPoly.Coeff(m.SPoly.Len()-1) {
			log.Warnf("POLY has no +1 term; did you mean -P %s?", *polyOpt)
		}
	}
	if *initOpt != "" {
		m.Init = poly.Parse(*initOpt, 0, 4)
		cfg.rflags |= reveng.HaveI
		m.Novel()
	}
	if *xorOpt != "" {
		m.XorOut = poly.Parse(*xorOpt, 0, 4)
		cfg.rflags |= reveng.HaveX
		m.Novel()
	}
	var qpoly poly.Poly
	if *qpolyOpt != "" {
		qpoly = poly.Parse(*qpolyOpt, 0, 4)
	}

	// Expand or trim parameters, right-aligned, to whichever width we
	// have now; -w, -p, -i and -x may come in any order.
	m.SPoly.Right(cfg.width)
	m.Init.Right(cfg.width)
	m.XorOut.Right(cfg.width)
	qpoly.Right(cfg.width)

	// An end polynomial makes the search a range search starting at
	// the given poly; a zero end searches to the end of the range.
	if *qpolyOpt != "" {
		cfg.rflags &^= reveng.HaveP
	}
	if qpoly.Tst() {
		cfg.rflags |= reveng.HaveQ
	}
	cfg.qpoly = qpoly

	if *revAlgo {
		m.Rev()
	}

	if cfg.mode != 's' {
		if err := m.Canon(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Encoder abstracts the model output formats; JSON and CSV encoders
// both satisfy it.
type Encoder interface {
	Encode(interface{}) error
}

// PlainEncoder prints each model in the conventional one-line form.
type PlainEncoder struct{}

func (PlainEncoder) Encode(v interface{}) error {
	_, err := fmt.Println(v)
	return err
}

// NewEncoder selects the model output encoder for -format.
func NewEncoder(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case "plain":
		return PlainEncoder{}, nil
	case "csv":
		return csv.NewEncoder(os.Stdout, model.RecordHeader()...), nil
	case "json":
		return json.NewEncoder(os.Stdout), nil
	}
	return nil, fmt.Errorf("invalid output format: %q", format)
}
