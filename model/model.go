// Package model bundles the parameters of a Williams-model CRC
// algorithm together with its derived check and residue values, and
// provides the catalog of well-known presets.
package model

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/robert-edward-lee/reveng/crc"
	"github.com/robert-edward-lee/reveng/poly"
)

// checkString is the ASCII string "123456789", the conventional
// argument of an algorithm's check value.
const checkString = "313233343536373839"

// A Model is a parametrised CRC algorithm. SPoly holds the generator
// in chopped form (the top +1 term omitted), so its length is the
// width; Init and XorOut are width-wide. Name is set only for catalog
// entries.
type Model struct {
	SPoly  poly.Poly
	Init   poly.Poly
	XorOut poly.Poly
	Check  poly.Poly
	Magic  poly.Poly
	Flags  int
	Name   string
}

// Canon puts the model into canonical form: Init and XorOut masked to
// the width, and the catalog name cleared when every field is zero.
// A nonempty generator without its +1 term is rejected.
func (m *Model) Canon() error {
	w := m.SPoly.Len()
	if w > 0 && !m.SPoly.Coeff(w-1) {
		return errors.New("poly must have +1 term")
	}
	if w == 0 && !m.Init.Tst() && !m.XorOut.Tst() {
		m.Novel()
	}
	m.Init.Right(w)
	m.XorOut.Right(w)
	return nil
}

// CalcChecks computes the check value (the CRC of "123456789" under
// the model) and the residue (the constant a correctly-appended
// codeword leaves in the register).
func (m *Model) CalcChecks() {
	w := m.SPoly.Len()

	cs := poly.Parse(checkString, m.Flags, 8)
	ck := crc.Checksum(cs, m.SPoly, m.Init, poly.Poly{}, m.Flags)
	if m.Flags&poly.RefOut != 0 {
		ck.Rev()
	}
	if m.XorOut.Len() == w {
		ck.Sum(m.XorOut, 0)
	}
	m.Check = ck

	mg := m.XorOut.Clone()
	if m.Flags&poly.RefOut != 0 {
		mg.Rev()
	}
	mg = crc.Checksum(mg, m.SPoly, poly.Poly{}, poly.Poly{}, m.Flags)
	if m.Flags&poly.RefOut != 0 {
		mg.Rev()
	}
	m.Magic = mg
}

// Rev turns the model into the reverse algorithm of the same family:
// the generator is reciprocated, Init or XorOut is reflected (Init
// when RefOut is set, XorOut otherwise), the RefIn and RefOut bits
// swap and the catalog name is cleared.
func (m *Model) Rev() {
	m.SPoly.Rcp()
	if m.Flags&poly.RefOut != 0 {
		m.Init.Rev()
	} else {
		m.XorOut.Rev()
	}
	in := m.Flags&poly.RefIn != 0
	out := m.Flags&poly.RefOut != 0
	m.Flags &^= poly.RefIn | poly.RefOut
	if out {
		m.Flags |= poly.RefIn
	}
	if in {
		m.Flags |= poly.RefOut
	}
	m.Novel()
}

// Novel clears the catalog attribution.
func (m *Model) Novel() {
	m.Name = ""
}

// String renders the model in the conventional one-line parameter
// form.
func (m Model) String() string {
	f := m.Flags & poly.Upper
	name := "(none)"
	if m.Name != "" {
		name = fmt.Sprintf("%q", m.Name)
	}
	return fmt.Sprintf(
		"width=%d  poly=0x%s  init=0x%s  refin=%t  refout=%t  xorout=0x%s  check=0x%s  residue=0x%s  name=%s",
		m.SPoly.Len(),
		hexField(m.SPoly, f),
		hexField(m.Init, f),
		m.Flags&poly.RefIn != 0,
		m.Flags&poly.RefOut != 0,
		hexField(m.XorOut, f),
		hexField(m.Check, f),
		hexField(m.Magic, f),
		name,
	)
}

func hexField(p poly.Poly, flags int) string {
	if p.Len() == 0 {
		return "0"
	}
	return p.Format(flags|poly.RTJust, 4)
}
