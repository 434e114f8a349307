package calcengine

import (
	"fmt"
	"strconv"
	"strings"
)

// Derive returns the symbolic derivative of expression with respect to
// varName, rendered back to expression syntax. The result parses with
// Evaluate, so it can feed the root finder directly.
func Derive(expression, varName string) (string, error) {
	ex, err := Parse(expression)
	if err != nil {
		return "", err
	}
	d, err := diff(ex, varName)
	if err != nil {
		return "", err
	}
	return render(simplify(d)), nil
}

func diff(n node, v string) (node, error) {
	switch t := n.(type) {
	case nodeNumber:
		return nodeNumber{0}, nil

	case nodeIdent:
		if t.name == v {
			return nodeNumber{1}, nil
		}
		return nodeNumber{0}, nil

	case nodeUnary:
		d, err := diff(t.x, v)
		if err != nil {
			return nil, err
		}
		return nodeUnary{op: t.op, x: d}, nil

	case nodeBinary:
		return diffBinary(t, v)

	case nodeCall:
		return diffCall(t, v)

	default:
		return nil, fmt.Errorf("%w: cannot differentiate this expression", ErrEval)
	}
}

func diffBinary(t nodeBinary, v string) (node, error) {
	du, err := diff(t.left, v)
	if err != nil {
		return nil, err
	}
	dw, err := diff(t.right, v)
	if err != nil {
		return nil, err
	}
	u, w := t.left, t.right

	switch t.op {
	case '+', '-':
		return nodeBinary{op: t.op, left: du, right: dw}, nil

	case '*':
		// (uw)' = u'w + uw'
		return mkAdd(mkMul(du, w), mkMul(u, dw)), nil

	case '/':
		// (u/w)' = (u'w - uw') / w^2
		num := mkSub(mkMul(du, w), mkMul(u, dw))
		return mkDiv(num, mkPow(w, nodeNumber{2})), nil

	case '^':
		// Constant exponent: (u^c)' = c u^(c-1) u'
		if c, ok := w.(nodeNumber); ok {
			return mkMul(mkMul(c, mkPow(u, nodeNumber{c.f - 1})), du), nil
		}
		// General: (u^w)' = u^w (w' ln u + w u' / u)
		inner := mkAdd(
			mkMul(dw, nodeCall{name: "ln", args: []node{u}}),
			mkDiv(mkMul(w, du), u),
		)
		return mkMul(mkPow(u, w), inner), nil

	default:
		return nil, fmt.Errorf("%w: cannot differentiate operator %q", ErrEval, t.op)
	}
}

// chain rule: d f(u) = f'(u) * u'
func diffCall(t nodeCall, v string) (node, error) {
	if len(t.args) != 1 {
		return nil, fmt.Errorf("%w: cannot differentiate %s with %d arguments", ErrEval, t.name, len(t.args))
	}
	u := t.args[0]
	du, err := diff(u, v)
	if err != nil {
		return nil, err
	}

	var outer node
	switch t.name {
	case "sin":
		outer = call1("cos", u)
	case "cos":
		outer = nodeUnary{op: '-', x: call1("sin", u)}
	case "tan":
		outer = mkDiv(nodeNumber{1}, mkPow(call1("cos", u), nodeNumber{2}))
	case "exp":
		outer = call1("exp", u)
	case "ln", "log":
		outer = mkDiv(nodeNumber{1}, u)
	case "log10":
		outer = mkDiv(nodeNumber{1}, mkMul(u, call1("ln", nodeNumber{10})))
	case "sqrt":
		outer = mkDiv(nodeNumber{1}, mkMul(nodeNumber{2}, call1("sqrt", u)))
	case "sinh":
		outer = call1("cosh", u)
	case "cosh":
		outer = call1("sinh", u)
	case "tanh":
		outer = mkDiv(nodeNumber{1}, mkPow(call1("cosh", u), nodeNumber{2}))
	case "asin":
		outer = mkDiv(nodeNumber{1}, call1("sqrt", mkSub(nodeNumber{1}, mkPow(u, nodeNumber{2}))))
	case "acos":
		outer = nodeUnary{op: '-', x: mkDiv(nodeNumber{1}, call1("sqrt", mkSub(nodeNumber{1}, mkPow(u, nodeNumber{2}))))}
	case "atan":
		outer = mkDiv(nodeNumber{1}, mkAdd(nodeNumber{1}, mkPow(u, nodeNumber{2})))
	case "abs":
		outer = mkDiv(u, call1("abs", u))
	default:
		return nil, fmt.Errorf("%w: no derivative rule for %s", ErrEval, t.name)
	}
	return mkMul(outer, du), nil
}

func call1(name string, arg node) node { return nodeCall{name: name, args: []node{arg}} }

func mkAdd(a, b node) node { return nodeBinary{op: '+', left: a, right: b} }
func mkSub(a, b node) node { return nodeBinary{op: '-', left: a, right: b} }
func mkMul(a, b node) node { return nodeBinary{op: '*', left: a, right: b} }
func mkDiv(a, b node) node { return nodeBinary{op: '/', left: a, right: b} }
func mkPow(a, b node) node { return nodeBinary{op: '^', left: a, right: b} }

// simplify folds out the identities that mechanical differentiation
// produces in bulk: x*0, x*1, x+0, x^1, x^0 and pure-number subtrees.
func simplify(n node) node {
	switch t := n.(type) {
	case nodeUnary:
		x := simplify(t.x)
		if num, ok := x.(nodeNumber); ok && t.op == '-' {
			return nodeNumber{-num.f}
		}
		if t.op == '+' {
			return x
		}
		return nodeUnary{op: t.op, x: x}

	case nodeBinary:
		l := simplify(t.left)
		r := simplify(t.right)
		ln, lNum := l.(nodeNumber)
		rn, rNum := r.(nodeNumber)

		switch t.op {
		case '+':
			if lNum && ln.f == 0 {
				return r
			}
			if rNum && rn.f == 0 {
				return l
			}
			if lNum && rNum {
				return nodeNumber{ln.f + rn.f}
			}
		case '-':
			if rNum && rn.f == 0 {
				return l
			}
			if lNum && rNum {
				return nodeNumber{ln.f - rn.f}
			}
			if lNum && ln.f == 0 {
				return nodeUnary{op: '-', x: r}
			}
		case '*':
			if (lNum && ln.f == 0) || (rNum && rn.f == 0) {
				return nodeNumber{0}
			}
			if lNum && ln.f == 1 {
				return r
			}
			if rNum && rn.f == 1 {
				return l
			}
			if lNum && rNum {
				return nodeNumber{ln.f * rn.f}
			}
		case '/':
			if lNum && ln.f == 0 && !(rNum && rn.f == 0) {
				return nodeNumber{0}
			}
			if rNum && rn.f == 1 {
				return l
			}
		case '^':
			if rNum && rn.f == 1 {
				return l
			}
			if rNum && rn.f == 0 {
				return nodeNumber{1}
			}
		}
		return nodeBinary{op: t.op, left: l, right: r}

	case nodeCall:
		args := make([]node, len(t.args))
		for i, a := range t.args {
			args[i] = simplify(a)
		}
		return nodeCall{name: t.name, args: args}

	default:
		return n
	}
}

// render writes a node back as expression text, parenthesizing by
// operator precedence so the output re-parses to the same tree.
func render(n node) string {
	switch t := n.(type) {
	case nodeNumber:
		// Shortest round-trip form, not display precision: the rendered
		// derivative feeds back into evaluation, so literals must survive
		// the trip exactly.
		if t.f < 0 {
			return "-" + strconv.FormatFloat(-t.f, 'g', -1, 64)
		}
		return strconv.FormatFloat(t.f, 'g', -1, 64)

	case nodeIdent:
		return t.name

	case nodeUnary:
		return string(t.op) + renderChild(t.x, precUnary)

	case nodeBinary:
		p := precOf(t.op)
		lp, rp := p, p
		// The non-associative side needs parens at equal precedence:
		// a - (b - c) on the right, (a ^ b) ^ c on the left.
		switch t.op {
		case '-', '/':
			rp = p + 1
		case '^':
			lp = p + 1
		}
		l := renderChild(t.left, lp)
		r := renderChild(t.right, rp)
		return l + " " + string(t.op) + " " + r

	case nodeCall:
		parts := make([]string, len(t.args))
		for i, a := range t.args {
			parts[i] = render(a)
		}
		return t.name + "(" + strings.Join(parts, ", ") + ")"

	case nodeMatrix:
		rows := make([]string, len(t.rows))
		for i, row := range t.rows {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = render(c)
			}
			rows[i] = "[" + strings.Join(cells, ", ") + "]"
		}
		return "[" + strings.Join(rows, ", ") + "]"

	default:
		return ""
	}
}

const (
	precSum = iota + 1
	precProduct
	precUnary
	precPower
	precAtom
)

func precOf(op byte) int {
	switch op {
	case '+', '-':
		return precSum
	case '*', '/':
		return precProduct
	case '^':
		return precPower
	default:
		return precAtom
	}
}

func nodePrec(n node) int {
	switch t := n.(type) {
	case nodeBinary:
		return precOf(t.op)
	case nodeUnary:
		return precUnary
	case nodeNumber:
		if t.f < 0 {
			return precUnary
		}
		return precAtom
	default:
		return precAtom
	}
}

func renderChild(n node, minPrec int) string {
	s := render(n)
	if nodePrec(n) < minPrec {
		return "(" + s + ")"
	}
	return s
}
