package keymap

import (
	"fmt"
	"os"
	"strings"
)

// Symbol is a single output key character ('A', 'Q', '1', ...).
type Symbol rune

// LowestNote and HighestNote bound the playable window (C3..B5).
const (
	LowestNote  uint8 = 48
	HighestNote uint8 = 83
)

// NumSymbols is the number of white keys between C3 and B5 inclusive.
const NumSymbols = 21

var whiteOffsets = map[uint8]bool{0: true, 2: true, 4: true, 5: true, 7: true, 9: true, 11: true}

// default rows, lowest seven keys first
const defaultRows = "ASDFGHJQWERTYU1234567"

// IsWhite reports whether a note's pitch class is a white key.
func IsWhite(note uint8) bool {
	return whiteOffsets[note%12]
}

// InRange reports whether a note falls inside the playable window.
func InRange(note uint8) bool {
	return note >= LowestNote && note <= HighestNote
}

// Mapping is an immutable note -> symbol table covering exactly the
// white keys of the playable window. Notes with no entry are dropped
// by callers before dispatch.
type Mapping struct {
	table map[uint8]Symbol
}

// WhiteNotes lists the in-range white keys, lowest to highest.
func WhiteNotes() []uint8 {
	var res []uint8
	for n := LowestNote; n <= HighestNote; n++ {
		if IsWhite(n) {
			res = append(res, n)
		}
	}
	return res
}

// New builds a mapping from 21 symbols ordered lowest to highest.
func New(symbols []Symbol) (Mapping, error) {
	if len(symbols) != NumSymbols {
		return Mapping{}, fmt.Errorf("need exactly %v symbols, got %v", NumSymbols, len(symbols))
	}
	table := make(map[uint8]Symbol, NumSymbols)
	for i, note := range WhiteNotes() {
		table[note] = symbols[i]
	}
	return Mapping{table: table}, nil
}

// Default returns the built-in three-row table.
func Default() Mapping {
	m, err := New([]Symbol(defaultRows))
	if err != nil {
		panic("broken default key map: " + err.Error())
	}
	return m
}

// Load reads a 21-symbol override file. Newlines are ignored so the
// file can be laid out as three rows of seven.
func Load(path string) (Mapping, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("could not read key map file: %w", err)
	}
	cleaned := strings.NewReplacer("\r", "", "\n", "").Replace(string(dat))
	return New([]Symbol(cleaned))
}

// Symbol returns the mapped symbol for note, if any.
func (m Mapping) Symbol(note uint8) (Symbol, bool) {
	s, ok := m.table[note]
	return s, ok
}

// Symbols returns the table's symbols ordered lowest note first.
func (m Mapping) Symbols() []Symbol {
	res := make([]Symbol, 0, NumSymbols)
	for _, note := range WhiteNotes() {
		res = append(res, m.table[note])
	}
	return res
}
