package model

import (
	"sort"
	"strings"

	"github.com/robert-edward-lee/reveng/poly"
)

// A preset is one catalog entry; the polynomial fields are
// right-justified hexadecimal of the entry's width.
type preset struct {
	name          string
	width         int
	poly, init    string
	refIn, refOut bool
	xorOut        string
	check, magic  string
}

// The catalog, sorted by name. Check and residue values are as
// published for each algorithm and are recomputed in the tests.
var presets = []preset{
	{"CRC-16/ARC", 16, "8005", "0000", true, true, "0000", "bb3d", "0000"},
	{"CRC-16/CCITT-FALSE", 16, "1021", "ffff", false, false, "0000", "29b1", "0000"},
	{"CRC-16/CDMA2000", 16, "c867", "ffff", false, false, "0000", "4c06", "0000"},
	{"CRC-16/DNP", 16, "3d65", "0000", true, true, "ffff", "ea82", "66c5"},
	{"CRC-16/EN-13757", 16, "3d65", "0000", false, false, "ffff", "c2b7", "a366"},
	{"CRC-16/GENIBUS", 16, "1021", "ffff", false, false, "ffff", "d64e", "1d0f"},
	{"CRC-16/GSM", 16, "1021", "0000", false, false, "ffff", "ce3c", "1d0f"},
	{"CRC-16/KERMIT", 16, "1021", "0000", true, true, "0000", "2189", "0000"},
	{"CRC-16/MCRF4XX", 16, "1021", "ffff", true, true, "0000", "6f91", "0000"},
	{"CRC-16/MODBUS", 16, "8005", "ffff", true, true, "0000", "4b37", "0000"},
	{"CRC-16/USB", 16, "8005", "ffff", true, true, "ffff", "b4c8", "b001"},
	{"CRC-16/X-25", 16, "1021", "ffff", true, true, "ffff", "906e", "f0b8"},
	{"CRC-16/XMODEM", 16, "1021", "0000", false, false, "0000", "31c3", "0000"},
	{"CRC-24/OPENPGP", 24, "864cfb", "b704ce", false, false, "000000", "21cf02", "000000"},
	{"CRC-32/BZIP2", 32, "04c11db7", "ffffffff", false, false, "ffffffff", "fc891918", "c704dd7b"},
	{"CRC-32/CKSUM", 32, "04c11db7", "00000000", false, false, "ffffffff", "765e7680", "c704dd7b"},
	{"CRC-32/ISCSI", 32, "1edc6f41", "ffffffff", true, true, "ffffffff", "e3069283", "b798b438"},
	{"CRC-32/ISO-HDLC", 32, "04c11db7", "ffffffff", true, true, "ffffffff", "cbf43926", "debb20e3"},
	{"CRC-32/MPEG-2", 32, "04c11db7", "ffffffff", false, false, "00000000", "0376e6e7", "00000000"},
	{"CRC-5/USB", 5, "05", "1f", true, true, "1f", "19", "06"},
	{"CRC-64/ECMA-182", 64, "42f0e1eba9ea3693", "0000000000000000", false, false, "0000000000000000", "6c40df5f0b497347", "0000000000000000"},
	{"CRC-64/XZ", 64, "42f0e1eba9ea3693", "ffffffffffffffff", true, true, "ffffffffffffffff", "995dc9bbdf1939fa", "49958c9abd7d353f"},
	{"CRC-7/MMC", 7, "09", "00", false, false, "00", "75", "00"},
	{"CRC-8/I-432-1", 8, "07", "00", false, false, "55", "a1", "ac"},
	{"CRC-8/MAXIM-DOW", 8, "31", "00", true, true, "00", "a1", "00"},
	{"CRC-8/ROHC", 8, "07", "ff", true, true, "00", "d0", "00"},
	{"CRC-8/SMBUS", 8, "07", "00", false, false, "00", "f4", "00"},
}

// Count returns the number of preset models in the catalog.
func Count() int {
	return len(presets)
}

// ByNum returns the catalog entry at index i.
func ByNum(i int) (Model, bool) {
	if i < 0 || i >= len(presets) {
		return Model{}, false
	}
	return presets[i].model(), true
}

// ByName looks a preset up by name, case-insensitively.
func ByName(name string) (Model, bool) {
	key := strings.ToUpper(name)
	i := sort.Search(len(presets), func(i int) bool {
		return presets[i].name >= key
	})
	if i < len(presets) && presets[i].name == key {
		return presets[i].model(), true
	}
	return Model{}, false
}

func (ps preset) model() Model {
	m := Model{
		SPoly:  ps.field(ps.poly),
		Init:   ps.field(ps.init),
		XorOut: ps.field(ps.xorOut),
		Check:  ps.field(ps.check),
		Magic:  ps.field(ps.magic),
		Flags:  poly.MulXN,
		Name:   ps.name,
	}
	if ps.refIn {
		m.Flags |= poly.RefIn
	}
	if ps.refOut {
		m.Flags |= poly.RefOut
	}
	return m
}

func (ps preset) field(s string) poly.Poly {
	p := poly.Parse(s, 0, 4)
	p.Right(ps.width)
	return p
}
