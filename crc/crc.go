// Package crc implements polynomial division under the Williams
// parametric model at arbitrary width.
package crc

import "github.com/robert-edward-lee/reveng/poly"

// register is a width-bit shift register in the same MSB-first word
// layout as poly.Poly.
type register struct {
	word []uint64
	n    int
}

func (r *register) top() bool {
	return r.word[0]&(1<<63) != 0
}

// shl shifts the register left by one bit and shifts b in at the
// bottom.
func (r *register) shl(b bool) {
	last := len(r.word) - 1
	for i := 0; i < last; i++ {
		r.word[i] = r.word[i]<<1 | r.word[i+1]>>63
	}
	r.word[last] <<= 1
	if b {
		r.word[last] |= 1 << uint(63-(r.n-1)%64)
	}
}

func (r *register) xor(w []uint64) {
	for i := range w {
		r.word[i] ^= w[i]
	}
}

// Checksum divides the message by the generator under the Williams
// parameters and returns the register, a polynomial of the
// generator's width. The generator is in chopped form, its +1 term
// implicit; init is XORed over the leading width bits of the
// processed stream and xorout over the final register. MulXN in flags
// appends width zero bits to the division (the augmenting, classical
// algorithm); reflection is the caller's business. A stream shorter
// than the width is padded on the right with zeros; a zero-width
// generator yields the zero-length polynomial.
func Checksum(msg, gen, init, xorout poly.Poly, flags int) poly.Poly {
	c, _ := divide(msg, gen, init, xorout, flags, false)
	return c
}

// Quotient is Checksum with the feedback bits captured: it returns the
// register together with the quotient of the division, a polynomial of
// length len(msg) - width. The appended zero bits of an augmenting
// division do not contribute to the quotient.
func Quotient(msg, gen, init, xorout poly.Poly, flags int) (rem, quo poly.Poly) {
	return divide(msg, gen, init, xorout, flags, true)
}

func divide(msg, gen, init, xorout poly.Poly, flags int, wantQuo bool) (poly.Poly, poly.Poly) {
	w := gen.Len()
	if w == 0 {
		return poly.Poly{}, poly.Poly{}
	}
	m := msg.Len()

	// Init covers the leading width bits of the whole processed
	// stream: the message, the augmenting zero bits included under
	// MulXN, zero-padded up to the width if still short.
	stream := msg.Clone()
	if flags&poly.MulXN != 0 {
		stream.Resize(m + w)
	}
	if stream.Len() < w {
		stream.Resize(w)
	}
	head := stream.Clone()
	head.Resize(w)
	if init.Len() > 0 && init.Len() <= w {
		head.Sum(init, 0)
	}
	reg := register{word: head.Words(), n: w}
	gw := gen.Words()

	quoLen := m - w
	if quoLen < 0 {
		quoLen = 0
	}
	var quo poly.Poly
	if wantQuo {
		quo = poly.New(quoLen)
	}
	for i := w; i < stream.Len(); i++ {
		fb := reg.top()
		reg.shl(stream.Coeff(i))
		if fb {
			reg.xor(gw)
		}
		if wantQuo && fb && i-w < quoLen {
			quo.SetCoeff(i-w, true)
		}
	}
	out := poly.FromWords(reg.word, w)
	if xorout.Len() > 0 && xorout.Len() <= w {
		out.Sum(xorout, 0)
	}
	return out, quo
}
