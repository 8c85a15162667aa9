package reveng

import (
	"github.com/robert-edward-lee/reveng/crc"
	"github.com/robert-edward-lee/reveng/model"
	"github.com/robert-edward-lee/reveng/poly"
)

// dispatch recovers the remaining parameters for one candidate
// generator, branching on which of Init and XorOut are given.
func (s *search) dispatch(divisor poly.Poly) {
	switch {
	case s.rflags&HaveI != 0 && s.rflags&HaveX != 0:
		s.verify(divisor, s.guess.Init, s.guess.XorOut)
	case s.rflags&HaveI != 0:
		s.deriveXorOut(divisor, s.guess.Init)
	case s.rflags&HaveX != 0:
		s.deriveInit(divisor, s.guess.XorOut)
	default:
		s.solveInit(divisor)
	}
}

// Row states of the GF(2) matrix in solveInit. An empty row is a free
// variable currently zero; a one row is a free variable currently one;
// a data row carries coefficients.
const (
	rowEmpty = iota
	rowOne
	rowData
)

type row struct {
	kind int
	bits poly.Poly
}

// solveInit searches for Init values implied by the samples, by row
// reduction over GF(2). Method from: Ewing, Gregory C. (March 2010),
// "Reverse-Engineering a CRC Algorithm", University of Canterbury.
func (s *search) solveInit(divisor poly.Poly) {
	w := divisor.Len()
	flags := s.guess.Flags
	if len(s.samples) == 0 || w == 0 {
		return
	}

	// Find the two shortest sample lengths.
	a, b := 0, 0
	alen := s.samples[0].Len()
	blen := alen
	for i := 1; i < len(s.samples); i++ {
		ilen := s.samples[i].Len()
		if ilen < alen {
			b, blen = a, alen
			a, alen = i, ilen
		} else if ilen > alen && (a == b || ilen < blen) {
			b, blen = i, ilen
		}
	}
	if a == b {
		// All samples are of one length: calculate Init with an
		// assumed XorOut of zero instead.
		s.deriveInit(divisor, poly.New(w))
		return
	}
	if alen < w {
		return
	}

	// The potential contribution of the bottom bit of Init.
	var contrib poly.Poly
	if blen < w<<1 {
		contrib = poly.New(w)
		contrib.SetCoeff(w<<1-1-blen, true)
		contrib.SetCoeff(w<<1-1-alen, true)
	} else {
		contrib = poly.New(blen - w + 1)
		contrib.SetCoeff(0, true)
		contrib.SetCoeff(blen-alen, true)
	}
	if contrib.Len() > w {
		contrib = crc.Checksum(contrib, divisor, poly.Poly{}, poly.Poly{}, 0)
	}

	// The actual contribution of Init: the CRC difference of the two
	// shortest samples.
	aCrc := crc.Checksum(s.samples[a], divisor, poly.Poly{}, poly.Poly{}, 0)
	constCol := crc.Checksum(s.samples[b], divisor, poly.Poly{}, aCrc, 0)

	// Columns of the CRC matrix: each is the previous one advanced by
	// one bit, i.e. multiplied by x modulo the generator.
	cols := make([]poly.Poly, w)
	cols[0] = contrib
	oneBit := poly.New(1)
	for k := 1; k < w; k++ {
		cols[k] = crc.Checksum(oneBit, divisor, cols[k-1], poly.Poly{}, poly.MulXN)
	}

	// Transpose, augment with the Init contribution and reduce to row
	// echelon form.
	rows := make([]row, w)
	for i := 0; i < w; i++ {
		var r poly.Poly
		for j := 0; j < w; j++ {
			r.Paste(cols[w-1-j], i, j, j+1, w+1)
		}
		if r.Tst() {
			r.Paste(constCol, i, w, w+1, w+1)
		}
		j := r.First()
		for j < w && rows[j].kind == rowData {
			r.Sum(rows[j].bits, 0)
			j = r.First()
		}
		if j < w {
			rows[j] = row{rowData, r}
		}
	}

	// Iterate through all solutions by Gaussian elimination; the free
	// rows count through their states binary-counter fashion, one
	// solution per combination, or once only under Exhst.
	for {
		cy := poly.Exhst
		sol := poly.New(w + 1)
		sol.SetCoeff(w, true)
		for i := 0; i < w; i++ {
			rw := &rows[w-1-i]
			par := false
			switch rw.kind {
			case rowData:
				par = sol.MPar(rw.bits)
			case rowOne:
				par = sol.Coeff(w)
			}
			if par {
				sol.SetCoeff(w-1-i, true)
			}
			if cy != 0 {
				switch rw.kind {
				case rowEmpty:
					// 0 to 1, no carry.
					*rw = row{kind: rowOne}
					cy &= flags
				case rowOne:
					// 1 to 0, carry forward.
					*rw = row{kind: rowEmpty}
				}
			}
		}
		// Trim the augment bit.
		sol.Resize(w)
		s.deriveXorOut(divisor, sol)
		if cy != 0 {
			return
		}
	}
}

// deriveXorOut calculates the XorOut consistent with the given Init
// and submits the completed model.
func (s *search) deriveXorOut(divisor, init poly.Poly) {
	sh, ok := s.shortest()
	if !ok {
		return
	}
	x := crc.Checksum(sh, divisor, init, poly.Poly{}, 0)
	// The register precedes the RefOut stage; in the Williams model
	// XorOut follows it.
	if s.guess.Flags&poly.RefOut != 0 {
		x.Rev()
	}
	s.verify(divisor, init, x)
}

// deriveInit calculates the Init consistent with the given XorOut by
// running the reversed sample through the reciprocal generator, and
// submits the completed model.
func (s *search) deriveInit(divisor, xorout poly.Poly) {
	sh, ok := s.shortest()
	if !ok {
		return
	}
	rcp := divisor.Clone()
	rcp.Rcp()
	// The reversed calculation needs the mirror image of the forward
	// XorOut, which a reflected algorithm's XorOut already is.
	rx := xorout.Clone()
	if s.guess.Flags&poly.RefOut == 0 {
		rx.Rev()
	}
	arg := sh.Clone()
	arg.Rev()
	init := crc.Checksum(arg, rcp, rx, poly.Poly{}, 0)
	init.Rev()
	s.verify(divisor, init, xorout)
}

func (s *search) shortest() (poly.Poly, bool) {
	if len(s.samples) == 0 {
		return poly.Poly{}, false
	}
	sh := s.samples[0]
	for _, p := range s.samples[1:] {
		if p.Len() < sh.Len() {
			sh = p
		}
	}
	return sh, true
}

// verify checks a completed model against every sample and records it
// if consistent. The shortest sample re-checks the calculation that
// produced the model.
func (s *search) verify(divisor, init, xorout poly.Poly) {
	x := xorout.Clone()
	if s.guess.Flags&poly.RefOut != 0 {
		x.Rev()
	}
	for _, arg := range s.samples {
		if crc.Checksum(arg, divisor, init, x, 0).Tst() {
			return
		}
	}
	m := model.Model{
		SPoly:  divisor.Clone(),
		Init:   init.Clone(),
		XorOut: xorout.Clone(),
		Flags:  s.guess.Flags,
	}
	m.CalcChecks()
	s.results = append(s.results, m)
	s.obs.Found(m)
}
