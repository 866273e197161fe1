package expr

// Grammar (power binds tightest and is right-associative, so x^2^3 parses as
// x^(2^3) and -x^2 as -(x^2)):
//
//	expr    = term   { ("+" | "-") term }
//	term    = unary  { ("*" | "/") unary }
//	unary   = "-" unary | "+" unary | power
//	power   = primary [ "^" unary ]
//	primary = number | ident | ident "(" expr {"," expr} ")" | "(" expr ")"
type parser struct {
	toks   []token
	pos    int
	vars   map[string]int
	params map[string]struct{}
}

func newParser(toks []token, vars []string) *parser {
	slots := make(map[string]int, len(vars))
	for i, v := range vars {
		slots[v] = i
	}
	return &parser{toks: toks, vars: slots, params: make(map[string]struct{})}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, compileErr(ErrSyntax, "expected %s, got %s at position %d", what, t, t.pos)
	}
	return t, nil
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokPlus && op != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, l: left, r: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokStar && op != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, l: left, r: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	switch p.peek().kind {
	case tokMinus:
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negNode{arg: arg}, nil
	case tokPlus:
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokCaret {
		return base, nil
	}
	p.next()
	// Exponent via parseUnary: handles signed numerals and chained powers.
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return binNode{op: tokCaret, l: base, r: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return parseNumber(t)
	case tokIdent:
		return p.resolveIdent(t)
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, `")"`); err != nil {
			return nil, err
		}
		return inner, nil
	case tokEOF:
		return nil, compileErr(ErrSyntax, "unexpected end of expression")
	}
	return nil, compileErr(ErrSyntax, "unexpected %s at position %d", t, t.pos)
}

// resolveIdent classifies an identifier: declared variable first, then math
// function or constant, then the reserved time name, and anything left over
// is an implicit parameter.
func (p *parser) resolveIdent(t token) (node, error) {
	if slot, ok := p.vars[t.text]; ok {
		return stateNode(slot), nil
	}
	if fn, ok := builtins[t.text]; ok {
		return p.parseCall(t, fn)
	}
	if v, ok := constants[t.text]; ok {
		return numNode(v), nil
	}
	if t.text == timeName {
		return timeNode{}, nil
	}
	p.params[t.text] = struct{}{}
	return paramNode(t.text), nil
}

func (p *parser) parseCall(name token, fn builtin) (node, error) {
	if _, err := p.expect(tokLParen, `"(" after function name`); err != nil {
		return nil, compileErr(ErrSyntax, "function %s requires arguments at position %d", name, name.pos)
	}
	args := make([]node, 0, fn.arity)
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(tokRParen, `")"`); err != nil {
		return nil, err
	}
	if len(args) != fn.arity {
		return nil, compileErr(ErrSyntax, "%s takes %d argument(s), got %d", fn.name, fn.arity, len(args))
	}
	return callNode{fn: fn, args: args}, nil
}

func parseNumber(t token) (node, error) {
	v, err := parseFloat(t.text)
	if err != nil {
		return nil, compileErr(ErrSyntax, "bad number %s at position %d", t, t.pos)
	}
	return numNode(v), nil
}
