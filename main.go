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
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/robert-edward-lee/reveng/crc"
	"github.com/robert-edward-lee/reveng/model"
	"github.com/robert-edward-lee/reveng/poly"
	"github.com/robert-edward-lee/reveng/reveng"
)

// recommendedSamples is the sample count below which the search warns
// about false positives.
const recommendedSamples = 4

var encoder Encoder

func init() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
}

func main() {
	RegisterFlags()
	EnvOverride()
	flag.Parse()

	cfg, err := HandleFlags()
	if err != nil {
		log.Fatal(err)
	}
	encoder, err = NewEncoder(*outFormat)
	if err != nil {
		log.Fatal(err)
	}

	switch cfg.mode {
	case 'c':
		runCalc(cfg, false)
	case 'v':
		runCalc(cfg, true)
	case 'd':
		runDump(cfg)
	case 'D':
		runList()
	case 'e':
		runEcho(cfg)
	case 's':
		runSearch(cfg)
	}
}

func emit(m model.Model) {
	if err := encoder.Encode(m); err != nil {
		log.Fatal("error encoding model: ", err)
	}
}

// readArg reads one sample argument: a file when -f is given ('-'
// meaning stdin), the argument text itself otherwise.
func readArg(cfg *config, arg string) poly.Poly {
	flags := cfg.model.Flags
	if !cfg.inFile {
		if flags&poly.Direct != 0 {
			return poly.FromBytes([]byte(arg), flags, cfg.ibperhx)
		}
		return poly.Parse(arg, flags, cfg.ibperhx)
	}

	var data []byte
	var err error
	if arg == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(arg)
	}
	if err != nil {
		log.Fatal(errors.Wrapf(err, "reading %s", arg))
	}
	if flags&poly.Direct != 0 {
		return poly.FromBytes(data, flags, cfg.ibperhx)
	}
	return poly.Parse(string(data), flags, cfg.ibperhx)
}

// runCalc computes the CRC of each argument; reversed, it runs the
// reverse of the configured algorithm over reflected arguments.
func runCalc(cfg *config, reversed bool) {
	m := &cfg.model
	if reversed {
		// The whole argument is reflected, not just its
		// characters, so RefIn and RefOut keep their sense and
		// Init is the mirror image of the reverse algorithm's.
		m.SPoly.Rcp()
		if m.Flags&poly.RefOut == 0 {
			m.Init.Rev()
			m.XorOut.Rev()
		}
		m.Init, m.XorOut = m.XorOut, m.Init
	}

	// In the Williams model XorOut applies after the RefOut stage;
	// the output formatter owns RefOut, so reflect XorOut here.
	if m.Flags&poly.RefOut != 0 {
		m.XorOut.Rev()
	}

	for _, arg := range flag.Args() {
		apoly := readArg(cfg, arg)
		if reversed {
			apoly.Rev()
		}
		c := crc.Checksum(apoly, m.SPoly, m.Init, m.XorOut, m.Flags)
		if reversed {
			c.Rev()
		}
		fmt.Println(c.Format(m.Flags, cfg.obperhx))
	}
}

func runDump(cfg *config) {
	m := &cfg.model
	if m.Flags&poly.MulXN == 0 {
		log.Fatal("not a Williams model compliant algorithm")
	}
	m.CalcChecks()
	emit(*m)
}

func runList() {
	n := model.Count()
	if n == 0 {
		log.Fatal("no preset models available")
	}
	for i := n - 1; i >= 0; i-- {
		m, _ := model.ByNum(i)
		emit(m)
	}
}

func runEcho(cfg *config) {
	m := &cfg.model
	for _, arg := range flag.Args() {
		apoly := readArg(cfg, arg)
		if m.Init.Len() <= apoly.Len() {
			apoly.Sum(m.Init, 0)
		}
		fmt.Println(apoly.Format(m.Flags, cfg.obperhx))
	}
}

// reporter routes search events: models to the output encoder,
// progress to the log, with the first report suppressed.
type reporter struct{}

func (reporter) Found(m model.Model) {
	emit(m)
}

func (reporter) Progress(p poly.Poly, flags int, seq uint64) {
	if seq == 0 {
		return
	}
	log.WithFields(log.Fields{
		"width":  p.Len(),
		"poly":   "0x" + p.Format(poly.RTJust, 4),
		"refin":  flags&poly.RefIn != 0,
		"refout": flags&poly.RefOut != 0,
		"seq":    seq,
	}).Info("searching")
}

func runSearch(cfg *config) {
	m := &cfg.model
	if m.Flags&poly.MulXN == 0 {
		log.Fatal("cannot search for non-Williams compliant models")
	}
	if cfg.width == 0 {
		log.Fatal("must specify positive -k, -P or -w before -s")
	}

	args := flag.Args()
	switch {
	case len(args) == 0:
		log.Warn("you have not given any samples")
	case len(args) < recommendedSamples:
		plural := "s"
		if len(args) == 1 {
			plural = ""
		}
		log.Warnf("you have only given %d sample%s", len(args), plural)
		log.Warnf("to reduce false positives, give %d or more samples", recommendedSamples)
	}

	samples := make([]poly.Poly, 0, len(args))
	for _, arg := range args {
		samples = append(samples, readArg(cfg, arg))
	}

	found := false

	// Scan against the preset catalog first. If endianness was not
	// pinned, try the samples as parsed, then again reflected per
	// character.
	if !cfg.noPck {
		for pass := 0; ; pass++ {
			for i := model.Count() - 1; i >= 0; i-- {
				pset, _ := model.ByNum(i)
				if pset.SPoly.Len() != cfg.width ||
					(m.Flags^pset.Flags)&(poly.RefIn|poly.RefOut) != 0 {
					continue
				}
				if cfg.rflags&reveng.HaveP != 0 && poly.Cmp(m.SPoly, pset.SPoly) != 0 {
					continue
				}
				if cfg.rflags&reveng.HaveI != 0 && poly.Sncmp(m.Init, pset.Init) != 0 {
					continue
				}
				if cfg.rflags&reveng.HaveX != 0 && poly.Sncmp(m.XorOut, pset.XorOut) != 0 {
					continue
				}
				if presetSolves(pset, samples) {
					emit(pset)
					found = true
				}
			}
			if cfg.rflags&reveng.HaveRI != 0 || pass == 1 {
				break
			}
			m.Flags ^= poly.RefIn | poly.RefOut
			for i := range samples {
				samples[i].RevCh(cfg.ibperhx)
			}
		}
		// The second pass leaves flags and samples toggled; the
		// toggle at its end restores them for the brute search.
		if cfg.rflags&reveng.HaveRI == 0 {
			m.Flags ^= poly.RefIn | poly.RefOut
			for i := range samples {
				samples[i].RevCh(cfg.ibperhx)
			}
		}
	}
	if found {
		return
	}
	if cfg.noBfs && cfg.rflags&reveng.HaveP == 0 {
		log.Fatal("no models found")
	}
	if (m.Flags&poly.RefIn != 0) != (m.Flags&poly.RefOut != 0) {
		log.Fatal("cannot search for crossed-endian models")
	}

	for pass := 0; ; pass++ {
		results := reveng.Search(*m, cfg.qpoly, cfg.rflags, samples, reporter{})
		if len(results) > 0 {
			found = true
		}
		if cfg.rflags&reveng.HaveRI != 0 || pass == 1 {
			break
		}
		m.Flags ^= poly.RefIn | poly.RefOut
		for i := range samples {
			samples[i].RevCh(cfg.ibperhx)
		}
	}
	if !found {
		log.Fatal("no models found")
	}
}

// presetSolves reports whether the preset checks out against every
// sample.
func presetSolves(pset model.Model, samples []poly.Poly) bool {
	x := pset.XorOut.Clone()
	if pset.Flags&poly.RefOut != 0 {
		x.Rev()
	}
	for _, q := range samples {
		if crc.Checksum(q, pset.SPoly, pset.Init, x, 0).Tst() {
			return false
		}
	}
	return true
}
