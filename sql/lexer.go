package sql

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Literal
	TkTrue = iota
	TkFalse
	TkInt
	TkReal
	TkNull
	TkStr
	TkId

	// Keywords
	TkLike

	// Punctuation
	TkLPar
	TkRPar
	TkSub

	// Comparison, the first two are both equality
	TkEq
	TkEqEq
	TkNe
	TkLt
	TkLe
	TkGt
	TkGe

	TkAnd
	TkOr

	TkError
	TkEof
)

var tokenName = map[int]string{
	TkTrue:  "true",
	TkFalse: "false",
	TkInt:   "integer",
	TkReal:  "real",
	TkNull:  "null",
	TkStr:   "string",
	TkId:    "identifier",
	TkLike:  "like",
	TkLPar:  "(",
	TkRPar:  ")",
	TkSub:   "-",
	TkEq:    "=",
	TkEqEq:  "==",
	TkNe:    "!=",
	TkLt:    "<",
	TkLe:    "<=",
	TkGt:    ">",
	TkGe:    ">=",
	TkAnd:   "and",
	TkOr:    "or",
	TkError: "<error>",
	TkEof:   "<eof>",
}

func TokenName(tk int) string {
	if n, ok := tokenName[tk]; ok {
		return n
	}
	return fmt.Sprintf("token(%d)", tk)
}

type Lexeme struct {
	Text string
	Int  int64
	Real float64
}

// Lexer tokenizes the where clause text form. Identifiers keep the case they
// were written in, keywords are matched case insensitively.
type Lexer struct {
	Source string
	Cursor int
	Token  int
	Lexeme Lexeme
}

func (self *Lexer) nextRune() (rune, int) {
	if self.Cursor == len(self.Source) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(self.Source[self.Cursor:])
}

func (self *Lexer) peek() rune {
	if self.Cursor+1 >= len(self.Source) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(self.Source[self.Cursor+1:])
	return r
}

func (self *Lexer) yield(tk int, sz int) int {
	self.Token = tk
	self.Cursor += sz
	return tk
}

func (self *Lexer) eof() int {
	self.Token = TkEof
	return TkEof
}

// line / column of a byte offset, for diagnostics
func (self *Lexer) pos(where int) (int, int) {
	line := 1
	col := 1
	for idx, r := range self.Source {
		if idx >= where {
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func (self *Lexer) dinfo() string {
	line, col := self.pos(self.Cursor)
	return fmt.Sprintf("around position(%d: %d)", line, col)
}

func (self *Lexer) err(msg string) int {
	self.Lexeme.Text = fmt.Sprintf("%s: %s", self.dinfo(), msg)
	self.Token = TkError
	return TkError
}

func (self *Lexer) errUtf8() int {
	return self.err("invalid utf8 character")
}

func (self *Lexer) lexLineComment() bool {
	for {
		r, sz := self.nextRune()
		if r == utf8.RuneError {
			if sz == 0 {
				return true
			}
			self.errUtf8()
			return false
		}
		self.Cursor += sz
		if r == '\n' {
			return true
		}
	}
}

func (self *Lexer) lexBlockComment() bool {
	for {
		r, sz := self.nextRune()
		if r == utf8.RuneError {
			if sz == 0 {
				self.err("block comment is not closed properly")
			} else {
				self.errUtf8()
			}
			return false
		}
		if r == '*' && self.peek() == '/' {
			self.Cursor += 2
			return true
		}
		self.Cursor += sz
	}
}

// Numbers are decimal, a dot turns them into a real which the parser then
// refuses since the store has no real type.
func (self *Lexer) lexNum() int {
	start := self.Cursor
	hasDot := false

loop:
	for {
		r, sz := self.nextRune()
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !hasDot:
			hasDot = true
		default:
			break loop
		}
		self.Cursor += sz
	}

	text := self.Source[start:self.Cursor]
	if hasDot {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return self.err(err.Error())
		}
		self.Lexeme.Real = f
		self.Token = TkReal
		return TkReal
	}

	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return self.err(err.Error())
	}
	self.Lexeme.Int = i
	self.Token = TkInt
	return TkInt
}

func (self *Lexer) lexStr(quote rune) int {
	buf := &strings.Builder{}
	self.Cursor++

	for {
		c, sz := self.nextRune()
		if c == utf8.RuneError {
			if sz == 0 {
				return self.err("string literal is not closed by quote properly")
			}
			return self.errUtf8()
		}

		if c == quote {
			self.Cursor += sz
			break
		}

		if c == '\\' {
			switch self.peek() {
			case 't':
				buf.WriteRune('\t')
			case 'n':
				buf.WriteRune('\n')
			case 'r':
				buf.WriteRune('\r')
			case '\'':
				buf.WriteRune('\'')
			case '"':
				buf.WriteRune('"')
			case '\\':
				buf.WriteRune('\\')
			default:
				return self.err("unknown escape sequences inside of string literal")
			}
			self.Cursor++
		} else {
			buf.WriteRune(c)
		}

		self.Cursor += sz
	}

	self.Lexeme.Text = buf.String()
	self.Token = TkStr
	return TkStr
}

func (self *Lexer) isIdChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func (self *Lexer) isIdLeadingChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

var keywords = map[string]int{
	"and":   TkAnd,
	"or":    TkOr,
	"like":  TkLike,
	"true":  TkTrue,
	"false": TkFalse,
	"null":  TkNull,
	"nil":   TkNull,
}

func (self *Lexer) lexKeywordOrId(c rune) int {
	if !self.isIdLeadingChar(c) {
		return self.err(fmt.Sprintf("unexpected character %q", c))
	}

	start := self.Cursor
	for {
		r, sz := self.nextRune()
		if r == utf8.RuneError || !self.isIdChar(r) {
			break
		}
		self.Cursor += sz
	}

	text := self.Source[start:self.Cursor]
	if tk, ok := keywords[strings.ToLower(text)]; ok {
		self.Token = tk
		return tk
	}
	self.Lexeme.Text = text
	self.Token = TkId
	return TkId
}

func (self *Lexer) Next() int {
	if self.Token == TkEof {
		return TkEof
	}
	return self.next()
}

func (self *Lexer) next() int {
	for {
		c, sz := self.nextRune()
		if c == utf8.RuneError {
			if sz == 0 {
				return self.eof()
			}
			return self.errUtf8()
		}

		switch c {
		case '(':
			return self.yield(TkLPar, 1)
		case ')':
			return self.yield(TkRPar, 1)
		case '-':
			if self.peek() == '-' {
				self.Cursor += 2
				if !self.lexLineComment() {
					return self.Token
				}
				continue
			}
			return self.yield(TkSub, 1)

		case '/':
			if self.peek() == '*' {
				self.Cursor += 2
				if !self.lexBlockComment() {
					return self.Token
				}
				continue
			}
			return self.err("unexpected '/'")

		case '#':
			if !self.lexLineComment() {
				return self.Token
			}
			continue

		case '&':
			if self.peek() == '&' {
				return self.yield(TkAnd, 2)
			}
			return self.err("are you missing '&' for and operator?")

		case '|':
			if self.peek() == '|' {
				return self.yield(TkOr, 2)
			}
			return self.err("are you missing '|' for or operator?")

		case '=':
			if self.peek() == '=' {
				return self.yield(TkEqEq, 2)
			}
			return self.yield(TkEq, 1)

		case '>':
			if self.peek() == '=' {
				return self.yield(TkGe, 2)
			}
			return self.yield(TkGt, 1)

		case '<':
			switch self.peek() {
			case '=':
				return self.yield(TkLe, 2)
			case '>':
				return self.yield(TkNe, 2)
			default:
				return self.yield(TkLt, 1)
			}

		case '!':
			if self.peek() == '=' {
				return self.yield(TkNe, 2)
			}
			return self.err("are you missing '=' for != operator?")

		case ' ', '\r', '\t', '\n', '\b', '\v':
			self.Cursor++

		case '\'', '"':
			return self.lexStr(c)

		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return self.lexNum()

		default:
			return self.lexKeywordOrId(c)
		}
	}
}

func newLexer(source string) *Lexer {
	return &Lexer{
		Source: source,
		Cursor: 0,
		Token:  TkError,
	}
}
