package poly

import (
	"fmt"
	"strings"
)

// reflect returns the low n bits of v in reverse order.
func reflect(v uint64, n int) uint64 {
	var r uint64
	for i := 0; i < n; i++ {
		r <<= 1
		r |= v & 1
		v >>= 1
	}
	return r
}

func hexVal(r rune) (uint64, bool) {
	switch {
	case r >= '0' && r <= '9':
		return uint64(r - '0'), true
	case r >= 'a' && r <= 'f':
		return uint64(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return uint64(r-'A') + 10, true
	}
	return 0, false
}

type char struct {
	v uint64
	n int
}

func assemble(chars []char) Poly {
	total := 0
	for _, c := range chars {
		total += c.n
	}
	p := New(total)
	off := 0
	for _, c := range chars {
		for j := 0; j < c.n; j++ {
			if c.v>>uint(c.n-1-j)&1 != 0 {
				p.SetCoeff(off+j, true)
			}
		}
		off += c.n
	}
	return p
}

// Parse reads a polynomial from hexadecimal text, bperhx bits per
// character. Non-hex runes separate characters. A complete character
// takes its bperhx bits from the assembled nibbles, low bits when
// right-justified, high bits otherwise; a short final character keeps
// the bits it has (right-justified input pads it to a full character).
// Each character is reflected when RefIn is set. With Direct set the
// string is taken as raw bytes instead.
func Parse(s string, flags, bperhx int) Poly {
	if flags&Direct != 0 {
		return FromBytes([]byte(s), flags, bperhx)
	}
	d := (bperhx + 3) / 4
	var chars []char
	var acc uint64
	nn := 0
	flush := func(complete bool) {
		if nn == 0 {
			return
		}
		c := char{n: bperhx}
		switch {
		case complete && flags&RTJust == 0:
			c.v = acc >> uint(nn*4-bperhx)
		case complete || flags&RTJust != 0:
			c.v = acc & lowMask(bperhx)
		default:
			c = char{v: acc, n: nn * 4}
		}
		if flags&RefIn != 0 {
			c.v = reflect(c.v, c.n)
		}
		chars = append(chars, c)
		acc, nn = 0, 0
	}
	for _, r := range s {
		v, ok := hexVal(r)
		if !ok {
			flush(false)
			continue
		}
		acc = acc<<4 | v
		nn++
		if nn == d {
			flush(true)
		}
	}
	flush(false)
	return assemble(chars)
}

func lowMask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(n) - 1
}

// FromBytes reads a polynomial from raw binary data, eight bits per
// byte. With LtlByt set the bytes of each character group are taken in
// reverse order; with RefIn set each bperhx-bit character is reflected.
func FromBytes(data []byte, flags, bperhx int) Poly {
	g := (bperhx + 7) / 8
	if flags&LtlByt != 0 && g > 1 {
		data = append([]byte(nil), data...)
		for s := 0; s+g <= len(data); s += g {
			for i, j := s, s+g-1; i < j; i, j = i+1, j-1 {
				data[i], data[j] = data[j], data[i]
			}
		}
	}
	p := New(len(data) * 8)
	for i, b := range data {
		for j := 0; j < 8; j++ {
			if b>>uint(7-j)&1 != 0 {
				p.SetCoeff(i*8+j, true)
			}
		}
	}
	if flags&RefIn != 0 {
		p.RevCh(bperhx)
	}
	return p
}

// Format renders the polynomial as hexadecimal text, the dual of
// Parse: bperhx bits per character, the whole value reflected first
// when RefOut is set, a partial final character padded on the left
// when right-justified and on the right otherwise, uppercase under
// Upper and space-separated under Space.
func (p Poly) Format(flags, bperhx int) string {
	q := p.Clone()
	if flags&RefOut != 0 {
		q.Rev()
	}
	if r := q.Len() % bperhx; r != 0 {
		if flags&RTJust != 0 {
			q.Right(q.Len() + bperhx - r)
		} else {
			q.Resize(q.Len() + bperhx - r)
		}
	}
	digits := (bperhx + 3) / 4
	verb := fmt.Sprintf("%%0%dx", digits)
	if flags&Upper != 0 {
		verb = fmt.Sprintf("%%0%dX", digits)
	}
	var out []string
	for off := 0; off < q.Len(); off += bperhx {
		var v uint64
		for j := 0; j < bperhx; j++ {
			v <<= 1
			if q.Coeff(off + j) {
				v |= 1
			}
		}
		out = append(out, fmt.Sprintf(verb, v))
	}
	sep := ""
	if flags&Space != 0 {
		sep = " "
	}
	return strings.Join(out, sep)
}

// String renders the polynomial as right-justified hexadecimal.
func (p Poly) String() string {
	return p.Format(RTJust, 4)
}
