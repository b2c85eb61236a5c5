package tcfg

import (
	"iter"
)

// TokenKind represents the possible kinds of token in a config document.
type TokenKind int8

// These tokens are yielded from [Tokens].
const (
	EndOfInput = TokenKind(iota)
	Text
	Char
	Float
	Hex
	Integer
	Identifier
	Color
	BraceOpen
	BraceClose
	Assign
	Comma
	BracketOpen
	BracketClose
	Unexpected
	UnclosedComment
)

func (k TokenKind) String() string {
	switch k {
	case EndOfInput:
		return "EndOfInput"
	case Text:
		return "Text"
	case Char:
		return "Char"
	case Float:
		return "Float"
	case Hex:
		return "Hex"
	case Integer:
		return "Integer"
	case Identifier:
		return "Identifier"
	case Color:
		return "Color"
	case BraceOpen:
		return "BraceOpen"
	case BraceClose:
		return "BraceClose"
	case Assign:
		return "Assign"
	case Comma:
		return "Comma"
	case BracketOpen:
		return "BracketOpen"
	case BracketClose:
		return "BracketClose"
	case Unexpected:
		return "Unexpected"
	case UnclosedComment:
		return "UnclosedComment"
	default:
		panic("Unknown TokenKind")
	}
}

func (k TokenKind) GoString() string {
	return k.String()
}

// Token is a single lexeme together with its byte-offset range in the
// source. Content is a subslice of the source text, not a copy, so it is
// only valid as long as the source is.
type Token struct {
	Kind       TokenKind
	Content    string
	Start, End int
}

// lexer holds the read position into the source and the current token.
// Exactly one token is live at a time; [lexer.save] and [lexer.restore]
// back up to a previous token by re-scanning from its start offset.
type lexer struct {
	src string
	pos int
	tok Token
}

func newLexer(src string) *lexer {
	l := &lexer{src: src}
	l.next()
	return l
}

// save returns an offset that restore can rewind to. Restoring re-derives
// the token from the offset, so no second cursor needs to be kept.
func (l *lexer) save() int {
	return l.tok.Start
}

func (l *lexer) restore(offset int) {
	l.pos = offset
	l.next()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

func (l *lexer) emit(kind TokenKind, start, end int) {
	l.tok = Token{Kind: kind, Content: l.src[start:end], Start: start, End: end}
}

// next advances to the next token, skipping whitespace and comments.
// At end of input it stays at EndOfInput.
func (l *lexer) next() {
	for {
		for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
			l.pos++
		}
		if l.pos >= len(l.src) {
			l.emit(EndOfInput, len(l.src), len(l.src))
			return
		}
		if l.src[l.pos] == '/' && l.pos+1 < len(l.src) {
			switch l.src[l.pos+1] {
			case '/':
				l.pos += 2
				for l.pos < len(l.src) && l.src[l.pos] != '\n' {
					l.pos++
				}
				continue
			case '*':
				start := l.pos
				if !l.skipBlockComment() {
					l.emit(UnclosedComment, start, len(l.src))
					return
				}
				continue
			}
		}
		break
	}
	l.scan()
}

// skipBlockComment consumes a /* */ comment, honouring nesting. It reports
// whether the comment was closed before end of input.
func (l *lexer) skipBlockComment() bool {
	l.pos += 2
	depth := 1
	for l.pos < len(l.src) {
		switch {
		case l.src[l.pos] == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			depth++
			l.pos += 2
		case l.src[l.pos] == '*' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			depth--
			l.pos += 2
			if depth == 0 {
				return true
			}
		default:
			l.pos++
		}
	}
	return false
}

func (l *lexer) scan() {
	start := l.pos
	c := l.src[l.pos]
	switch {
	case c == '"':
		l.scanText(start)
	case c == '\'':
		l.scanChar(start)
	case c == '-' || isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		l.scanNumber(start)
	case isLetter(c):
		l.pos++
		for l.pos < len(l.src) && isIdent(l.src[l.pos]) {
			l.pos++
		}
		l.emit(Identifier, start, l.pos)
	case c == '#':
		l.scanColor(start)
	case c == '{':
		l.pos++
		l.emit(BraceOpen, start, l.pos)
	case c == '}':
		l.pos++
		l.emit(BraceClose, start, l.pos)
	case c == '=':
		l.pos++
		l.emit(Assign, start, l.pos)
	case c == ',':
		l.pos++
		l.emit(Comma, start, l.pos)
	case c == '[':
		l.pos++
		l.emit(BracketOpen, start, l.pos)
	case c == ']':
		l.pos++
		l.emit(BracketClose, start, l.pos)
	default:
		l.pos++
		l.emit(Unexpected, start, l.pos)
	}
}

// scanText consumes a quoted string. There are no escapes inside quotes;
// the string runs to the next double quote, newlines included.
func (l *lexer) scanText(start int) {
	l.pos++
	for l.pos < len(l.src) && l.src[l.pos] != '"' {
		l.pos++
	}
	if l.pos >= len(l.src) {
		l.emit(Unexpected, start, len(l.src))
		return
	}
	l.pos++
	l.emit(Text, start, l.pos)
}

// scanChar consumes a single-quoted char literal. The scan is escape-aware
// (so '\'' closes correctly) but otherwise permissive; the body is
// validated when the literal is decoded.
func (l *lexer) scanChar(start int) {
	i := l.pos + 1
	for i < len(l.src) && l.src[i] != '\'' {
		if l.src[i] == '\\' && i+1 < len(l.src) {
			i += 2
		} else {
			i++
		}
	}
	if i >= len(l.src) {
		l.pos = len(l.src)
		l.emit(Unexpected, start, l.pos)
		return
	}
	l.pos = i + 1
	l.emit(Char, start, l.pos)
}

// scanNumber consumes an optionally negated Integer, Hex, or Float token.
// Floats require a '.'; an exponent is only recognized after one.
func (l *lexer) scanNumber(start int) {
	if l.src[l.pos] == '-' {
		l.pos++
	}
	if l.pos+1 < len(l.src) && l.src[l.pos] == '0' && (l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X') {
		l.pos += 2
		digits := 0
		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.pos++
			digits++
		}
		if digits == 0 {
			l.emit(Unexpected, start, l.pos)
			return
		}
		l.emit(Hex, start, l.pos)
		return
	}

	intDigits := 0
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
		intDigits++
	}

	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		fracDigits := 0
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
			fracDigits++
		}
		if intDigits == 0 && fracDigits == 0 {
			l.emit(Unexpected, start, l.pos)
			return
		}
		if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
			j := l.pos + 1
			if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
				j++
			}
			if j < len(l.src) && isDigit(l.src[j]) {
				for j < len(l.src) && isDigit(l.src[j]) {
					j++
				}
				l.pos = j
			}
		}
		l.emit(Float, start, l.pos)
		return
	}

	if intDigits == 0 {
		l.emit(Unexpected, start, l.pos)
		return
	}
	l.emit(Integer, start, l.pos)
}

// scanColor consumes '#' followed by exactly six hex digits.
func (l *lexer) scanColor(start int) {
	i := l.pos + 1
	for i < len(l.src) && i-l.pos <= 6 && isHexDigit(l.src[i]) {
		i++
	}
	if i-l.pos != 7 {
		l.pos = i
		l.emit(Unexpected, start, l.pos)
		return
	}
	l.pos = i
	l.emit(Color, start, l.pos)
}

// Tokens iterates over the tokens in the input with their byte-offset
// ranges. Whitespace and comments (including nested /* */ blocks) are
// skipped. Iteration stops after yielding an [Unexpected] or
// [UnclosedComment] token; [EndOfInput] is never yielded.
func Tokens(input string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for l := newLexer(input); l.tok.Kind != EndOfInput; l.next() {
			if !yield(l.tok) {
				return
			}
			if l.tok.Kind == Unexpected || l.tok.Kind == UnclosedComment {
				return
			}
		}
	}
}
