package calcengine

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

var (
	ErrParse      = errors.New("parse error")
	ErrEval       = errors.New("eval error")
	ErrUnknownVar = errors.New("unknown variable")
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

type lexer struct {
	s string
	i int
}

func (l *lexer) next() (token, error) {
	for l.i < len(l.s) && unicode.IsSpace(rune(l.s[l.i])) {
		l.i++
	}
	if l.i >= len(l.s) {
		return token{kind: tokEOF}, nil
	}

	switch l.s[l.i] {
	case '+':
		l.i++
		return token{kind: tokPlus, text: "+"}, nil
	case '-':
		l.i++
		return token{kind: tokMinus, text: "-"}, nil
	case '*':
		l.i++
		return token{kind: tokStar, text: "*"}, nil
	case '/':
		l.i++
		return token{kind: tokSlash, text: "/"}, nil
	case '^':
		l.i++
		return token{kind: tokCaret, text: "^"}, nil
	case '(':
		l.i++
		return token{kind: tokLParen, text: "("}, nil
	case ')':
		l.i++
		return token{kind: tokRParen, text: ")"}, nil
	case '[':
		l.i++
		return token{kind: tokLBracket, text: "["}, nil
	case ']':
		l.i++
		return token{kind: tokRBracket, text: "]"}, nil
	case ',':
		l.i++
		return token{kind: tokComma, text: ","}, nil
	}

	ch := rune(l.s[l.i])
	if isIdentStart(ch) {
		start := l.i
		l.i++
		for l.i < len(l.s) && isIdentContinue(rune(l.s[l.i])) {
			l.i++
		}
		return token{kind: tokIdent, text: l.s[start:l.i]}, nil
	}
	if ch == '.' || unicode.IsDigit(ch) {
		start := l.i
		l.i = scanNumber(l.s, l.i)
		txt := l.s[start:l.i]
		f, err := strconv.ParseFloat(txt, 64)
		if err != nil {
			return token{}, fmt.Errorf("%w: bad number %q", ErrParse, txt)
		}
		return token{kind: tokNumber, text: txt, num: f}, nil
	}
	return token{}, fmt.Errorf("%w: unexpected character %q", ErrParse, string(ch))
}

func scanNumber(s string, i int) int {
	for i < len(s) && unicode.IsDigit(rune(s[i])) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && unicode.IsDigit(rune(s[i])) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && unicode.IsDigit(rune(s[k])) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

type parser struct {
	l   lexer
	cur token
}

// Parse turns an infix expression string into an evaluable tree.
func Parse(s string) (node, error) {
	p := &parser{l: lexer{s: s}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind == tokEOF {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}
	ex, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q", ErrParse, p.cur.text)
	}
	return ex, nil
}

func (p *parser) advance() error {
	t, err := p.l.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) parseExpr() (node, error) {
	return p.parseSum()
}

func (p *parser) parseSum() (node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := p.cur.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = nodeBinary{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseProduct() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.cur.kind == tokStar || p.cur.kind == tokSlash:
			op := p.cur.text[0]
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = nodeBinary{op: op, left: left, right: right}
		case p.startsOperand():
			// Implicit multiplication by adjacency: 2x, 2(x+1), (x+1)(x-1).
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = nodeBinary{op: '*', left: left, right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) startsOperand() bool {
	switch p.cur.kind {
	case tokNumber, tokIdent, tokLParen, tokLBracket:
		return true
	default:
		return false
	}
}

// parseUnary sits above parsePower so that -x^2 reads as -(x^2).
func (p *parser) parseUnary() (node, error) {
	if p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := p.cur.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return nodeUnary{op: op, x: x}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind == tokCaret {
		if err := p.advance(); err != nil {
			return nil, err
		}
		// Right-associative; the exponent may carry its own sign (2^-3).
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return nodeBinary{op: '^', left: left, right: right}, nil
	}
	return left, nil
}

func (p *parser) parsePrimary() (node, error) {
	switch p.cur.kind {
	case tokNumber:
		v := p.cur.num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return nodeNumber{f: v}, nil

	case tokIdent:
		name := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokLParen {
			return nodeIdent{name: name}, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		var args []node
		if p.cur.kind != tokRParen {
			for {
				ex, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, ex)
				if p.cur.kind != tokComma {
					break
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')' after arguments of %s", ErrParse, name)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return nodeCall{name: name, args: args}, nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		ex, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')'", ErrParse)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ex, nil

	case tokLBracket:
		return p.parseMatrixLiteral()

	default:
		if p.cur.kind == tokEOF {
			return nil, fmt.Errorf("%w: unexpected end of expression", ErrParse)
		}
		return nil, fmt.Errorf("%w: unexpected %q", ErrParse, p.cur.text)
	}
}

// parseMatrixLiteral reads [[a,b],[c,d]] row-of-row notation. Every row must
// have the same width; cells are arbitrary sub-expressions.
func (p *parser) parseMatrixLiteral() (node, error) {
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	var rows [][]node
	for {
		if p.cur.kind != tokLBracket {
			return nil, fmt.Errorf("%w: expected '[' to start matrix row", ErrParse)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		var row []node
		for {
			ex, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			row = append(row, ex)
			if p.cur.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.cur.kind != tokRBracket {
			return nil, fmt.Errorf("%w: expected ']' to close matrix row", ErrParse)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: ragged matrix rows (%d vs %d entries)", ErrParse, len(row), len(rows[0]))
		}
		rows = append(rows, row)
		if p.cur.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.kind != tokRBracket {
		return nil, fmt.Errorf("%w: expected ']' to close matrix", ErrParse)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return nodeMatrix{rows: rows}, nil
}
