package tcfg

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Decoder is a cursor over the token stream of one config document. Each
// method consumes the tokens for exactly one value of the requested shape,
// leaving the cursor on the following token, or fails with a diagnostic
// pointing at the offending token.
//
// A Decoder is not safe for concurrent use; decoding is a strictly
// sequential depth-first walk.
type Decoder struct {
	lex *lexer

	// synth holds the captured instance name while the reserved name
	// field of a struct is being decoded. It is consumed by Str or Text
	// instead of reading a token.
	synth *string
}

// NewDecoder returns a Decoder positioned at the first token of input.
func NewDecoder(input string) *Decoder {
	return &Decoder{lex: newLexer(input)}
}

func (d *Decoder) unexpected(expected string) error {
	t := d.lex.tok
	if t.Kind == UnclosedComment {
		return &UnclosedCommentError{Start: t.Start, End: t.End}
	}
	return &UnexpectedTokenError{Kind: t.Kind, Value: t.Content, Start: t.Start, End: t.End, Expected: expected}
}

// Bool decodes a boolean. The format has no boolean literal: any identifier
// counts as true, and a field's absence is the only way to express false.
func (d *Decoder) Bool() (bool, error) {
	if d.lex.tok.Kind != Identifier {
		return false, d.unexpected("an identifier")
	}
	d.lex.next()
	return true, nil
}

// Int decodes a signed integer of the given bit width from an Integer or
// Hex token. A literal that does not fit the width is an error.
func (d *Decoder) Int(bitSize int) (int64, error) {
	t := d.lex.tok
	var n int64
	var err error
	switch t.Kind {
	case Integer:
		n, err = strconv.ParseInt(t.Content, 10, bitSize)
	case Hex:
		n, err = strconv.ParseInt(t.Content, 0, bitSize)
	default:
		return 0, d.unexpected("a number")
	}
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q at %d..%d: %w", t.Content, t.Start, t.End, err)
	}
	d.lex.next()
	return n, nil
}

// Uint decodes an unsigned integer of the given bit width from an Integer
// or Hex token.
func (d *Decoder) Uint(bitSize int) (uint64, error) {
	t := d.lex.tok
	var n uint64
	var err error
	switch t.Kind {
	case Integer:
		n, err = strconv.ParseUint(t.Content, 10, bitSize)
	case Hex:
		n, err = strconv.ParseUint(t.Content, 0, bitSize)
	default:
		return 0, d.unexpected("a number")
	}
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q at %d..%d: %w", t.Content, t.Start, t.End, err)
	}
	d.lex.next()
	return n, nil
}

// Float decodes a floating point number of the given bit width. Only Float
// tokens qualify; integer literals are not silently widened.
func (d *Decoder) Float(bitSize int) (float64, error) {
	t := d.lex.tok
	if t.Kind != Float {
		return 0, d.unexpected("a number")
	}
	f, err := strconv.ParseFloat(t.Content, bitSize)
	if err != nil {
		return 0, fmt.Errorf("invalid float %q at %d..%d: %w", t.Content, t.Start, t.End, err)
	}
	d.lex.next()
	return f, nil
}

// Char decodes a character from an Integer token (a raw byte value), a Hex
// token, or a quoted char literal with hex, octal, or named escapes.
func (d *Decoder) Char() (rune, error) {
	t := d.lex.tok
	switch t.Kind {
	case Integer:
		n, err := strconv.ParseUint(t.Content, 10, 8)
		if err != nil {
			return 0, &InvalidCharError{Value: t.Content, Err: err}
		}
		d.lex.next()
		return rune(n), nil
	case Hex:
		n, err := strconv.ParseUint(t.Content[2:], 16, 8)
		if err != nil {
			return 0, &InvalidCharError{Value: t.Content, Err: err}
		}
		d.lex.next()
		return rune(n), nil
	case Char:
		r, err := decodeCharBody(t.Content[1 : len(t.Content)-1])
		if err != nil {
			return 0, err
		}
		d.lex.next()
		return r, nil
	default:
		return 0, d.unexpected("a char literal")
	}
}

func isOctal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return true
}

func decodeCharBody(body string) (rune, error) {
	switch {
	case strings.HasPrefix(body, `\x`):
		n, err := strconv.ParseUint(body[2:], 16, 8)
		if err != nil {
			return 0, &InvalidCharError{Value: body, Err: err}
		}
		return rune(n), nil
	case len(body) > 1 && body[0] == '\\' && isOctal(body[1:]):
		n, err := strconv.ParseUint(body[1:], 8, 8)
		if err != nil {
			return 0, &InvalidCharError{Value: body, Err: err}
		}
		return rune(n), nil
	case len(body) == 2 && body[0] == '\\':
		switch body[1] {
		case 'n':
			return '\n', nil
		case 't':
			return '\t', nil
		case 'r':
			return '\r', nil
		case '\\', '"', '\'':
			return rune(body[1]), nil
		default:
			return 0, &InvalidCharError{Value: body, Err: ErrInvalidEscape}
		}
	case len(body) == 1:
		return rune(body[0]), nil
	default:
		return 0, &InvalidCharError{Value: body, Err: ErrNotSingleChar}
	}
}

// Str decodes exactly one quoted string and returns its contents as a
// subslice of the source, without copying. If a second consecutive string
// segment follows, decoding fails with [MultiSegmentStringError]; use
// [Decoder.Text] when segmented strings must be accepted.
func (d *Decoder) Str() (string, error) {
	if d.synth != nil {
		s := *d.synth
		d.synth = nil
		return s, nil
	}
	t := d.lex.tok
	if t.Kind != Text {
		return "", d.unexpected("a quoted string")
	}
	s := t.Content[1 : len(t.Content)-1]
	d.lex.next()
	if d.lex.tok.Kind == Text {
		u := d.lex.tok
		return "", &MultiSegmentStringError{Start: u.Start, End: u.End}
	}
	return s, nil
}

// Text decodes one or more consecutive quoted strings and returns their
// contents concatenated, so long literals can be split across segments:
//
//	motd = "All work and no play "
//	       "makes Jack a dull boy"
func (d *Decoder) Text() (string, error) {
	if d.synth != nil {
		s := *d.synth
		d.synth = nil
		return s, nil
	}
	if d.lex.tok.Kind != Text {
		return "", d.unexpected("a quoted string")
	}
	var b strings.Builder
	for d.lex.tok.Kind == Text {
		c := d.lex.tok.Content
		b.WriteString(c[1 : len(c)-1])
		d.lex.next()
	}
	return b.String(), nil
}

// Seq decodes a sequence, calling elem once per element. A BracketOpen
// token starts a comma-separated array of scalars; an Identifier starts a
// run of struct blocks of one type. The run is committed to the first
// block's type name: a block of a different type silently ends the
// sequence without being consumed, so an enclosing struct can claim it.
func (d *Decoder) Seq(elem func(*Decoder) error) error {
	switch d.lex.tok.Kind {
	case BracketOpen:
		d.lex.next()
		for {
			switch d.lex.tok.Kind {
			case BracketClose:
				d.lex.next()
				return nil
			case Text, Char, Integer, Hex, Float, BracketOpen:
				if err := elem(d); err != nil {
					return err
				}
				switch d.lex.tok.Kind {
				case Comma:
					d.lex.next()
				case BracketClose:
				default:
					return d.unexpected("`,` or `]`")
				}
			default:
				return d.unexpected("a value or `]`")
			}
		}
	case Identifier:
		committed := ""
		for {
			switch d.lex.tok.Kind {
			case Identifier:
				name := d.lex.tok.Content
				if committed == "" {
					committed = name
				} else if committed != name {
					return nil
				}
				if err := elem(d); err != nil {
					return err
				}
			case BraceClose, EndOfInput:
				return nil
			default:
				return d.unexpected("a struct or `}`")
			}
		}
	default:
		return d.unexpected("`[` or an identifier")
	}
}

// Struct decodes one `type "instance" { ... }` block. The declared field
// set must contain the reserved name field, which is reported to the field
// callback first, bound to the instance name (or "" when absent). The
// callback then receives each field found in the block and must decode its
// value from d.
//
// Deciding whether an identifier inside the block starts a field of this
// struct or belongs to an enclosing run of sibling blocks takes two tokens
// of lookahead; the cursor is parked before the identifier and rewound when
// the speculation fails.
func (d *Decoder) Struct(typeName string, fields []string, field func(name string, d *Decoder) error) error {
	if !slices.Contains(fields, NameField) {
		return &MissingNameFieldError{Type: typeName}
	}

	if d.lex.tok.Kind != Identifier {
		return d.unexpected("a struct type name")
	}
	if got := d.lex.tok.Content; got != typeName {
		return &UnexpectedStructError{Name: got, Expected: typeName}
	}
	d.lex.next()

	instance := ""
	switch d.lex.tok.Kind {
	case Text:
		c := d.lex.tok.Content
		instance = c[1 : len(c)-1]
		d.lex.next()
	case BraceOpen:
	default:
		return d.unexpected("an instance name or `{`")
	}
	if d.lex.tok.Kind != BraceOpen {
		return d.unexpected("`{`")
	}
	d.lex.next()

	d.synth = &instance
	err := field(NameField, d)
	d.synth = nil
	if err != nil {
		return err
	}

	for {
		switch d.lex.tok.Kind {
		case BraceClose:
			d.lex.next()
			return nil
		case Identifier:
			name := d.lex.tok.Content
			mark := d.lex.save()
			d.lex.next()
			switch d.lex.tok.Kind {
			case Assign:
				d.lex.next()
				switch d.lex.tok.Kind {
				case Text, Char, Integer, Hex, Float, BracketOpen:
				default:
					return d.unexpected("a value")
				}
				if err := field(name, d); err != nil {
					return err
				}
			case Text, BraceOpen, Identifier, BraceClose:
				// No '=': the identifier is a bare boolean or
				// doubles as the type tag of a nested block.
				// Rewind so the field decode sees it again.
				d.lex.restore(mark)
				if err := field(name, d); err != nil {
					return err
				}
			default:
				// Not a field of this struct; hand the
				// identifier back to the enclosing sequence.
				d.lex.restore(mark)
				return nil
			}
		default:
			return d.unexpected("a field name or `}`")
		}
	}
}
