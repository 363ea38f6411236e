// Package escpos builds raw ESC/POS command streams for thermal receipt printers.
package escpos

import (
	"bytes"
	"unicode/utf8"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

type Align byte

const (
	AlignLeft   Align = 0
	AlignCenter Align = 1
	AlignRight  Align = 2
)

// Style is the ESC ! print mode bit set.
type Style byte

const (
	StyleNone         Style = 0
	StyleBold         Style = 0x08
	StyleDoubleHeight Style = 0x10
	StyleDoubleWidth  Style = 0x20
	StyleUnderline    Style = 0x80
)

// Builder accumulates commands. The zero value is not usable; call New.
type Builder struct {
	buf bytes.Buffer
}

// New starts a stream with ESC @ so each job begins from printer defaults.
func New() *Builder {
	b := &Builder{}
	b.buf.Write([]byte{esc, '@'})
	return b
}

func (b *Builder) Align(a Align) *Builder {
	b.buf.Write([]byte{esc, 'a', byte(a)})
	return b
}

func (b *Builder) Style(s Style) *Builder {
	b.buf.Write([]byte{esc, '!', byte(s)})
	return b
}

// Reverse toggles white-on-black printing (GS B).
func (b *Builder) Reverse(on bool) *Builder {
	var n byte
	if on {
		n = 1
	}
	b.buf.Write([]byte{gs, 'B', n})
	return b
}

// Line prints s followed by a line feed. Printers run a single-byte code page,
// so anything outside ASCII becomes '?'.
func (b *Builder) Line(s string) *Builder {
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		switch {
		case r == '\n' || r == '\r':
			b.buf.WriteByte(' ')
		case r < 0x20 || r > 0x7E:
			b.buf.WriteByte('?')
		default:
			b.buf.WriteByte(byte(r))
		}
	}
	b.buf.WriteByte(lf)
	return b
}

func (b *Builder) Blank() *Builder {
	b.buf.WriteByte(lf)
	return b
}

// PartialCut feeds n lines then performs a partial cut (GS V 66 n).
func (b *Builder) PartialCut(feed byte) *Builder {
	b.buf.Write([]byte{gs, 'V', 66, feed})
	return b
}

// Append copies another builder's stream, minus its leading ESC @.
func (b *Builder) Append(other *Builder) *Builder {
	b.buf.Write(other.Bytes()[2:])
	return b
}

func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}
