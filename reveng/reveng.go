// Package reveng completes partial Williams CRC models against sample
// codewords, by calculation where the generator is known and by
// brute-force factor search over the GCD of the sample differences
// where it is not.
package reveng

import (
	"github.com/robert-edward-lee/reveng/crc"
	"github.com/robert-edward-lee/reveng/model"
	"github.com/robert-edward-lee/reveng/poly"
)

// Search control flags: which of the guess's parameters are given.
const (
	HaveP  = 1 << iota // generator given
	HaveI              // Init given
	HaveX              // XorOut given
	HaveRI             // RefIn pinned by the caller
	HaveRO             // RefOut pinned by the caller
	HaveQ              // search range end given
	Short              // reduced factor space (internal)
)

// SpinMask sets the progress-report interval: one report per
// SpinMask+1 candidates tried.
const SpinMask = 0x3fffff

type search struct {
	guess   *model.Model
	rflags  int
	samples []poly.Poly
	obs     Observer

	results []model.Model
	spin    uint64
	seq     uint64
}

// Search completes the guess against the samples and returns every
// consistent model, reporting each through the observer as it is
// found. Each sample is a codeword: the message bits with the CRC bits
// appended, in the bit order the guess's flags imply. The generator of
// the guess is the search range start; qpoly, honoured under HaveQ,
// ends the range. Samples are read only; the returned models are
// owned by the caller.
func Search(guess model.Model, qpoly poly.Poly, rflags int, samples []poly.Poly, obs Observer) []model.Model {
	s := &search{guess: &guess, rflags: rflags, samples: samples, obs: obs}
	if rflags&HaveP != 0 {
		s.dispatch(guess.SPoly)
	} else {
		s.bruteForce(qpoly)
	}
	return s.results
}

// bruteForce finds candidate generators dividing the GCD of the sample
// differences and dispatches each for Init and XorOut recovery.
func (s *search) bruteForce(qpoly poly.Poly) {
	width := s.guess.SPoly.Len()
	if width == 0 {
		return
	}
	work := s.diffGCD()
	// Too short a difference leaves nothing to factor.
	if work.Len() < width+1 {
		return
	}
	// A difference of exactly the right length for the generator
	// (with its top bit) is the generator: differences come
	// normalized from diffGCD, so the +1 term is present.
	if work.Len() == width+1 {
		g := work.Clone()
		g.Shift(g, 0, 1, g.Len(), 0)
		s.dispatch(g)
		return
	}

	factor := s.guess.SPoly.Clone()
	var qq poly.Poly
	rflags := s.rflags &^ Short
	if rflags&HaveQ != 0 {
		qq = qpoly.Clone()
	}

	// When the GCD is compact the cofactor is enumerable instead of
	// the generator; truncate the trial factor and range end into
	// that reduced space.
	if work.Len() <= factor.Len()<<1 {
		rflags |= Short
		reduced := work.Len() - factor.Len() - 1
		if rflags&HaveQ != 0 || factor.Tst() {
			rem := poly.New(reduced)
			rem.Inv()
			rem.Right(factor.Len())
			if poly.Cmp(rem, factor) < 0 {
				// Start polynomial out of range.
				return
			} else if poly.Cmp(rem, qq) < 0 {
				// End polynomial past the rollover: quit
				// on iterator wrap instead.
				rflags &^= HaveQ
			} else if rflags&HaveQ != 0 {
				qq.Right(reduced)
			}
		}
		factor.Right(reduced)
	}

	// Clear the least significant term; the double step of the
	// iterator keeps it set, so only polys with the +1 term are
	// tried and qq is only ever compared with odd polys.
	factor.Shift(factor, 0, 0, factor.Len()-1, 1)

	for factor.Iter() && (rflags&HaveQ == 0 || poly.Cmp(factor, qq) < 0) {
		if s.spin&SpinMask == 0 {
			s.obs.Progress(factor, s.guess.Flags, s.seq)
			s.seq++
		}
		s.spin++
		rem := crc.Checksum(work, factor, poly.Poly{}, poly.Poly{}, 0)
		if !rem.Tst() {
			if rflags&Short != 0 {
				// The cofactor divides the GCD; repeat the
				// division to extract the generator.
				_, g := crc.Quotient(work, factor, poly.Poly{}, poly.Poly{}, 0)
				g.Shift(g, 0, 1, g.Len()-1, 1)
				g.Iter()
				s.dispatch(g)
			} else {
				s.dispatch(factor.Clone())
			}
		}
		if !factor.Iter() {
			break
		}
	}
}

// diffGCD produces the greatest common divisor of the differences
// between pairs of samples. Equal-length pairs are XORed directly;
// with Init given, unequal-length right-aligned pairs contribute too,
// Init summed over the leftmost width bits of each operand to cancel
// its contribution at the aligned end.
func (s *search) diffGCD() poly.Poly {
	var gcd poly.Poly
	first := true
	init := s.guess.Init

	for i := 0; i < len(s.samples); i++ {
		a := s.samples[i]
		for j := i + 1; j < len(s.samples); j++ {
			b := s.samples[j]
			var work poly.Poly
			switch {
			case a.Len() == b.Len():
				work = a.Clone()
				work.Sum(b, 0)
			case s.rflags&HaveI != 0 && a.Len() < b.Len():
				work = diffUneven(b, a, init)
			case s.rflags&HaveI != 0:
				work = diffUneven(a, b, init)
			default:
				continue
			}
			work.Norm()
			if work.Len() == 0 {
				continue
			}
			if first {
				gcd = work
				first = false
				continue
			}
			for work.Len() != 0 {
				// Divide longer by shorter; Mod left-aligns
				// its operands, hence the explicit swap.
				if gcd.Len() < work.Len() {
					gcd, work = work, gcd
				}
				rem := poly.Mod(gcd, work)
				gcd = work
				work = rem
				work.Norm()
			}
		}
	}
	return gcd
}

// diffUneven sums the shorter sample and Init into the longer sample,
// right-aligned, Init entering at both leftmost ends.
func diffUneven(long, short, init poly.Poly) poly.Poly {
	work := long.Clone()
	off := long.Len() - short.Len()
	work.Sum(short, off)
	if init.Len() <= short.Len() {
		work.Sum(init, 0)
		work.Sum(init, off)
	}
	return work
}
