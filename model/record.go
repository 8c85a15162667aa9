package model

import (
	"encoding/json"
	"strconv"

	"github.com/robert-edward-lee/reveng/poly"
)

// RecordHeader names the fields of Record, in order.
func RecordHeader() []string {
	return []string{"name", "width", "poly", "init", "refin", "refout", "xorout", "check", "residue"}
}

// Record returns the model as a list of fields for tabular encoders.
func (m Model) Record() []string {
	f := m.Flags & poly.Upper
	return []string{
		m.Name,
		strconv.Itoa(m.SPoly.Len()),
		hexField(m.SPoly, f),
		hexField(m.Init, f),
		strconv.FormatBool(m.Flags&poly.RefIn != 0),
		strconv.FormatBool(m.Flags&poly.RefOut != 0),
		hexField(m.XorOut, f),
		hexField(m.Check, f),
		hexField(m.Magic, f),
	}
}

// MarshalJSON renders the model with its polynomials as hexadecimal
// strings.
func (m Model) MarshalJSON() ([]byte, error) {
	f := m.Flags & poly.Upper
	return json.Marshal(struct {
		Name    string `json:"name,omitempty"`
		Width   int    `json:"width"`
		Poly    string `json:"poly"`
		Init    string `json:"init"`
		RefIn   bool   `json:"refin"`
		RefOut  bool   `json:"refout"`
		XorOut  string `json:"xorout"`
		Check   string `json:"check"`
		Residue string `json:"residue"`
	}{
		Name:    m.Name,
		Width:   m.SPoly.Len(),
		Poly:    hexField(m.SPoly, f),
		Init:    hexField(m.Init, f),
		RefIn:   m.Flags&poly.RefIn != 0,
		RefOut:  m.Flags&poly.RefOut != 0,
		XorOut:  hexField(m.XorOut, f),
		Check:   hexField(m.Check, f),
		Residue: hexField(m.Magic, f),
	})
}
