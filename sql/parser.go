package sql

import (
	"fmt"
	"strings"

	"github.com/dianpeng/recset/store"
)

// Parser turns the text form of a where clause into a store.ClauseList.
//
//	where := term (conj term)*
//	term  := cond | '(' cond (conj cond)* ')'
//	cond  := ID op literal
//
// Conjunctions have no precedence, they fold left to right exactly like the
// compiled clause list does, and only one level of parentheses is allowed.
type Parser struct {
	L *Lexer
}

func newParser(xx string) *Parser {
	return &Parser{
		L: newLexer(xx),
	}
}

func NewParser(xx string) *Parser {
	return newParser(xx)
}

func (self *Parser) err(msg string) error {
	if self.L.Token == TkError {
		return fmt.Errorf("%s", self.L.Lexeme.Text)
	} else {
		return fmt.Errorf("%s: %s", self.L.dinfo(), msg)
	}
}

func (self *Parser) expect(tk int) error {
	if self.L.Token == tk {
		self.L.Next()
		return nil
	} else {
		return self.err(fmt.Sprintf("expect %s, got %s", TokenName(tk), TokenName(self.L.Token)))
	}
}

// ParseWhere parses a where clause. Blank input yields an empty list.
func ParseWhere(text string) (store.ClauseList, error) {
	return newParser(text).Parse()
}

func (self *Parser) Parse() (store.ClauseList, error) {
	out := store.ClauseList{}

	self.L.Next()
	if self.L.Token == TkEof {
		return out, nil
	}

	group, err := self.parseTerm()
	if err != nil {
		return nil, err
	}
	// a leading group is evaluated first by the left fold anyway
	out = append(out, group...)

	for {
		conj, ok := self.parseConj()
		if !ok {
			break
		}
		group, err := self.parseTerm()
		if err != nil {
			return nil, err
		}
		if len(group) == 1 {
			group[0].Conjunction = conj
		} else {
			group[0].Conjunction = "(" + conj
			last := len(group) - 1
			group[last].Conjunction = ")" + group[last].Conjunction
		}
		out = append(out, group...)
	}

	if self.L.Token != TkEof {
		return nil, self.err("dangling code after the where clause")
	}
	return out, nil
}

func (self *Parser) parseConj() (string, bool) {
	switch self.L.Token {
	case TkAnd:
		self.L.Next()
		return "AND", true
	case TkOr:
		self.L.Next()
		return "OR", true
	default:
		return "", false
	}
}

func (self *Parser) parseTerm() (store.ClauseList, error) {
	if self.L.Token != TkLPar {
		c, err := self.parseCond()
		if err != nil {
			return nil, err
		}
		return store.ClauseList{c}, nil
	}

	self.L.Next()
	out := store.ClauseList{}
	conj := ""
	for {
		if self.L.Token == TkLPar {
			return nil, self.err("nested parentheses are not supported")
		}
		c, err := self.parseCond()
		if err != nil {
			return nil, err
		}
		c.Conjunction = conj
		out = append(out, c)

		next, ok := self.parseConj()
		if !ok {
			break
		}
		conj = next
	}

	if err := self.expect(TkRPar); err != nil {
		return nil, err
	}
	return out, nil
}

func (self *Parser) parseOp() (string, error) {
	switch tk := self.L.Token; tk {
	case TkEq, TkEqEq:
		self.L.Next()
		return "=", nil
	case TkNe, TkLt, TkLe, TkGt, TkGe, TkLike:
		// carried through, the compiler decides what it supports
		self.L.Next()
		return TokenName(tk), nil
	default:
		return "", self.err("expect a comparison operator")
	}
}

func (self *Parser) parseCond() (store.Clause, error) {
	if self.L.Token != TkId {
		return store.Clause{}, self.err("expect a field name")
	}
	field := self.L.Lexeme.Text
	self.L.Next()

	op, err := self.parseOp()
	if err != nil {
		return store.Clause{}, err
	}

	v, err := self.parseLiteral()
	if err != nil {
		return store.Clause{}, err
	}

	return store.Clause{
		Field:    field,
		Operator: op,
		Operand:  v,
	}, nil
}

func (self *Parser) parseLiteral() (store.Value, error) {
	var v store.Value

	switch self.L.Token {
	case TkStr:
		v = store.Str(self.L.Lexeme.Text)
	case TkInt:
		v = store.Int(self.L.Lexeme.Int)
	case TkSub:
		self.L.Next()
		if self.L.Token != TkInt {
			return v, self.err("expect an integer after '-'")
		}
		v = store.Int(-self.L.Lexeme.Int)
	case TkTrue:
		v = store.Bool(true)
	case TkFalse:
		v = store.Bool(false)
	case TkNull:
		v = store.Null()
	case TkReal:
		return v, self.err("real literal is not supported")
	default:
		return v, self.err("expect a literal")
	}

	self.L.Next()
	return v, nil
}

// PrintWhere renders a clause list back to its text form.
func PrintWhere(where store.ClauseList) string {
	buf := &strings.Builder{}
	for idx, c := range where {
		conj := strings.ToUpper(strings.TrimSpace(c.Conjunction))
		if conj == "" {
			conj = "AND"
		}
		open := conj[0] == '('
		closing := conj[0] == ')'
		if open || closing {
			conj = conj[1:]
		}

		if idx > 0 {
			buf.WriteString(" ")
			buf.WriteString(strings.ToLower(conj))
			buf.WriteString(" ")
			if open {
				buf.WriteString("(")
			}
		}

		buf.WriteString(c.Field)
		buf.WriteString(" ")
		buf.WriteString(c.Operator)
		buf.WriteString(" ")
		buf.WriteString(printLiteral(c.Operand))

		if idx > 0 && closing {
			buf.WriteString(")")
		}
	}
	return buf.String()
}

func printLiteral(x interface{}) string {
	v, err := store.ValueOf(x)
	if err != nil {
		return fmt.Sprintf("%v", x)
	}
	switch v.Kind() {
	case store.KindStr:
		s := strings.ReplaceAll(v.String(), `\`, `\\`)
		s = strings.ReplaceAll(s, `'`, `\'`)
		return "'" + s + "'"
	case store.KindNull:
		return "null"
	default:
		return v.String()
	}
}
