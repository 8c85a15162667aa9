package poly

import "testing"

func TestParseFormat(t *testing.T) {
	p := Parse("29b1", 0, 8)
	if p.Len() != 16 {
		t.Fatalf("Parse length: expected 16 got %d", p.Len())
	}
	if got := p.Format(0, 8); got != "29b1" {
		t.Fatalf("Format: expected 29b1 got %q", got)
	}
	if got := p.Format(Upper|Space, 8); got != "29 B1" {
		t.Fatalf("Format upper/space: expected \"29 B1\" got %q", got)
	}
}

func TestParseSeparators(t *testing.T) {
	a := Parse("31 32:33", 0, 8)
	b := Parse("313233", 0, 8)
	if Sncmp(a, b) != 0 {
		t.Fatalf("separators changed the value: %v vs %v", a, b)
	}
}

func TestParseRefIn(t *testing.T) {
	p := Parse("80", RefIn, 8)
	if p.Len() != 8 || !p.Coeff(7) || p.Coeff(0) {
		t.Fatalf("RefIn did not reflect the character: %v", p)
	}

	// Reflecting characters on the way out undoes RefIn on the way in.
	q := Parse("a55a", RefIn, 8)
	q.RevCh(8)
	if Sncmp(q, Parse("a55a", 0, 8)) != 0 {
		t.Fatal("RevCh did not undo RefIn")
	}
}

func TestFormatRefOut(t *testing.T) {
	p := Parse("01", 0, 8)
	if got := p.Format(RefOut, 8); got != "80" {
		t.Fatalf("RefOut format: expected 80 got %q", got)
	}
}

func TestFormatJustify(t *testing.T) {
	// A 5-bit value 0b11001 in one 8-bit output character.
	p := New(5)
	for _, i := range []int{0, 1, 4} {
		p.SetCoeff(i, true)
	}
	if got := p.Format(RTJust, 8); got != "19" {
		t.Fatalf("right-justified: expected 19 got %q", got)
	}
	if got := p.Format(0, 8); got != "c8" {
		t.Fatalf("left-justified: expected c8 got %q", got)
	}
}

func TestFromBytes(t *testing.T) {
	p := FromBytes([]byte{0x31, 0x32}, 0, 8)
	if Sncmp(p, Parse("3132", 0, 8)) != 0 {
		t.Fatalf("FromBytes: got %v", p)
	}

	// Low byte first swaps the bytes of each 16-bit character group.
	p = FromBytes([]byte{0x31, 0x32}, LtlByt, 16)
	if Sncmp(p, Parse("3231", 0, 8)) != 0 {
		t.Fatalf("FromBytes LtlByt: got %v", p)
	}
}

func TestParseNibbles(t *testing.T) {
	// Four bits per character: every hex digit stands alone.
	p := Parse("1021", 0, 4)
	if p.Len() != 16 {
		t.Fatalf("nibble parse length: expected 16 got %d", p.Len())
	}
	if got := p.Format(RTJust, 4); got != "1021" {
		t.Fatalf("nibble format: expected 1021 got %q", got)
	}
}
