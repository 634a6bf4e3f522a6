package editor

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// Unit is the measure span offsets are expressed in. It must match the
// compiler that produced the spans.
type Unit string

const (
	UnitRune  Unit = "rune"
	UnitByte  Unit = "byte"
	UnitUTF16 Unit = "utf16"
)

var ErrOutOfRange = errors.New("selection out of range")

// ParseUnit validates a unit name.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(s); u {
	case UnitRune, UnitByte, UnitUTF16:
		return u, nil
	}
	return "", fmt.Errorf("unknown offset unit %q (want rune, byte or utf16)", s)
}

// Selection is a selected range. Anchor is where it starts, Head is the
// caret. Anchor == Head is a bare caret.
type Selection struct {
	Anchor int `json:"anchor"`
	Head   int `json:"head"`
}

// IsEmpty reports whether the selection is a bare caret.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Start returns the lower bound.
func (s Selection) Start() int {
	return min(s.Anchor, s.Head)
}

// End returns the upper bound.
func (s Selection) End() int {
	return max(s.Anchor, s.Head)
}

// Buffer holds the source text shown in the editor and its selection.
// It is owned by a single goroutine.
type Buffer struct {
	text string
	unit Unit
	sel  Selection
}

// NewBuffer returns an empty buffer measuring offsets in unit.
func NewBuffer(unit Unit) *Buffer {
	if unit == "" {
		unit = UnitRune
	}
	return &Buffer{unit: unit}
}

// SetText replaces the text and collapses the selection to offset 0.
func (b *Buffer) SetText(text string) {
	b.text = text
	b.sel = Selection{}
}

func (b *Buffer) Text() string {
	return b.text
}

func (b *Buffer) Unit() Unit {
	return b.unit
}

// Len returns the text length in the buffer's unit.
func (b *Buffer) Len() int {
	switch b.unit {
	case UnitByte:
		return len(b.text)
	case UnitUTF16:
		n := 0
		for _, r := range b.text {
			n += utf16.RuneLen(r)
		}
		return n
	default:
		return utf8.RuneCountInString(b.text)
	}
}

// SelectRange selects [start, end) and puts the caret at end.
func (b *Buffer) SelectRange(start, end int) error {
	if start < 0 || end < start || end > b.Len() {
		return fmt.Errorf("%w: [%d, %d) in text of length %d", ErrOutOfRange, start, end, b.Len())
	}
	b.sel = Selection{Anchor: start, Head: end}
	return nil
}

func (b *Buffer) Selection() Selection {
	return b.sel
}

// SelectedText returns the text covered by the selection.
func (b *Buffer) SelectedText() string {
	return b.text[b.byteOffset(b.sel.Start()):b.byteOffset(b.sel.End())]
}

// byteOffset converts an offset in the buffer's unit to a byte index.
// Offsets falling inside a surrogate pair round up to the next rune.
func (b *Buffer) byteOffset(off int) int {
	if b.unit == UnitByte {
		return min(off, len(b.text))
	}
	pos := 0
	for i, r := range b.text {
		if pos >= off {
			return i
		}
		if b.unit == UnitUTF16 {
			pos += utf16.RuneLen(r)
		} else {
			pos++
		}
	}
	return len(b.text)
}
