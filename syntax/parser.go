package syntax

import "github.com/orrery-lang/orrery/token"

// ParseOption configures the Stream a ParseFile call builds internally.
// Kept at the syntax package level (rather than as a resolve.Project
// field consulted mid-parse) because syntax must never import resolve;
// resolve.Project's own WithDebugTickLimit/WithRecursionLimit options
// thread their configured values down by passing these when it calls
// ParseFile.
type ParseOption func(*Stream)

// WithDebugTickLimit overrides the liveness-check threshold (spec.md §9
// Open Question iii). The default is 100000.
func WithDebugTickLimit(n int) ParseOption {
	return func(s *Stream) { s.SetDebugTickLimit(n) }
}

// WithMaxExprDepth overrides the expression-nesting bound enforced
// while parsing (spec.md §5). The default is 256.
func WithMaxExprDepth(n int) ParseOption {
	return func(s *Stream) { s.SetMaxExprDepth(n) }
}

// ParseFile parses the full contents of src, implementing spec.md §4.3
// (Parser) and §4.5 (UnitParser's root "AST::pull" loop, which is a
// plain sequence of semicolon-separated expressions with no scope of
// its own). The returned diagnostics include every buffered Warn/Log
// message plus, on failure, a single terminal error translated from
// the ParseError that stopped the parse. err is non-nil only for an
// internal-consistency failure (a recovered debugTick panic); such a
// failure is always a parser bug, never a reportable user diagnostic.
func ParseFile(src *Source, opts ...ParseOption) (file *File, diags []Diagnostic, err error) {
	s := NewStream(src)
	for _, opt := range opts {
		opt(s)
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	f, perr := parseFile(s)
	diags = s.Messages()
	if perr != nil {
		diags = append(diags, Diagnostic{Severity: SeverityError, Range: perr.Range, Message: perr.Message})
		return nil, diags, nil
	}
	return f, diags, nil
}

func parseFile(s *Stream) (*File, *ParseError) {
	start := s.Offset()
	var body []Expr
	for {
		s.DebugTick()
		if AtEOF(s) {
			break
		}
		e, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		body = append(body, e)
		if AtEOF(s) {
			break
		}
		if err := PullSemicolons(s); err != nil {
			return nil, err
		}
	}
	return &File{RangeVal: NewRange(s.Source(), start, s.Offset()), Source: s.Source(), Body: body}, nil
}

// parseExpr parses one full expression, including the trailing
// `is Type` / `as Type` postfix forms, which sit outside the operator
// precedence table (spec.md §3 lists only !,*,/,%,...,::, never is/as)
// and so are layered on top of the Pratt climb rather than folded into
// it.
func parseExpr(s *Stream) (Expr, *ParseError) {
	left, err := parseBinary(s, 0)
	if err != nil {
		return nil, err
	}
	for {
		s.DebugTick()
		switch {
		case CheckKeyword(s, token.Is):
			PullToken(s)
			typ, err := parseTypeExpr(s)
			if err != nil {
				return nil, err
			}
			left = &IsExpr{RangeVal: Join(left.Span(), typ.Span()), X: left, Type: typ}
		case CheckKeyword(s, token.As):
			PullToken(s)
			typ, err := parseTypeExpr(s)
			if err != nil {
				return nil, err
			}
			left = &AsExpr{RangeVal: Join(left.Span(), typ.Span()), X: left, Type: typ}
		default:
			return left, nil
		}
	}
}

// parseBinary implements Pratt/precedence-climbing over the operator
// table in spec.md §3. minPrec is the lowest precedence this call is
// willing to consume; a caller recurses with prec+1 for a left-
// associative operator and prec for a right-associative one, the
// standard trick that makes RTL operators (assignment, arrow, farrow)
// right-fold instead of left-fold.
func parseBinary(s *Stream, minPrec int) (Expr, *ParseError) {
	if err := s.EnterExpr(); err != nil {
		return nil, err
	}
	defer s.ExitExpr()

	left, err := parseUnary(s)
	if err != nil {
		return nil, err
	}
	left, err = parsePostfix(s, left)
	if err != nil {
		return nil, err
	}

	for {
		s.DebugTick()
		tk, ok := PeekToken(s, 0)
		if !ok || tk.Kind != token.Operator {
			return left, nil
		}
		op := tk.OpVal
		prec := op.Precedence()
		if prec < minPrec {
			return left, nil
		}
		if _, err := PullToken(s); err != nil {
			return nil, err
		}

		// `::` names a member of its left operand rather than taking a
		// full expression on the right (spec.md §9 Supplemented
		// Features), so it bypasses the generic BinaryExpr shape.
		if op == token.Scope {
			name, err := ExpectIdentifier(s)
			if err != nil {
				return nil, err
			}
			left = &ScopeExpr{RangeVal: NewRange(s.Source(), left.Span().Start.Offset, s.Offset()), X: left, Name: name}
			left, err = parsePostfix(s, left)
			if err != nil {
				return nil, err
			}
			continue
		}

		nextMin := prec + 1
		if op.Associativity() == token.RTL {
			nextMin = prec
		}
		right, err := parseBinary(s, nextMin)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{RangeVal: Join(left.Span(), right.Span()), Op: op, X: left, Y: right}
	}
}

func parseUnary(s *Stream) (Expr, *ParseError) {
	s.DebugTick()
	tk, ok := PeekToken(s, 0)
	if ok && tk.Kind == token.Operator && tk.OpVal.IsUnaryPrefix() {
		if err := s.EnterExpr(); err != nil {
			return nil, err
		}
		defer s.ExitExpr()
		start := tk.Start
		if _, err := PullToken(s); err != nil {
			return nil, err
		}
		x, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), Op: tk.OpVal, X: x}, nil
	}
	return parsePrimary(s)
}

func parsePostfix(s *Stream, x Expr) (Expr, *ParseError) {
	for {
		s.DebugTick()
		start := x.Span().Start.Offset
		switch {
		case DrawPunct(s, '.'):
			name, err := ExpectIdentifier(s)
			if err != nil {
				return nil, err
			}
			x = &AttrExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), X: x, Name: name}
		case DrawPunct(s, '('):
			args, err := parseExprList(s, ')')
			if err != nil {
				return nil, err
			}
			x = &CallExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), Fn: x, Args: args}
		case DrawPunct(s, '['):
			idx, err := parseExpr(s)
			if err != nil {
				return nil, err
			}
			if err := ExpectPunct(s, ']'); err != nil {
				return nil, err
			}
			x = &IndexExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), X: x, Index: idx}
		default:
			return x, nil
		}
	}
}

// parseExprList parses a `,`-separated, trailing-comma-tolerant list
// of expressions up to (and consuming) closer, via PullSeparator
// (spec.md §4.2).
func parseExprList(s *Stream, closer byte) ([]Expr, *ParseError) {
	var items []Expr
	if CheckPunct(s, closer) {
		PullToken(s)
		return items, nil
	}
	for {
		s.DebugTick()
		e, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		done, err := PullSeparator(s, ',', closer)
		if err != nil {
			return nil, err
		}
		if done {
			if err := ExpectPunct(s, closer); err != nil {
				return nil, err
			}
			return items, nil
		}
	}
}

// parseTypeExpr parses a type reference: an identifier optionally
// followed by `.member` or `::member` chains. Type position never
// admits operators or calls, so this is intentionally narrower than
// parseBinary.
func parseTypeExpr(s *Stream) (Expr, *ParseError) {
	x, err := parsePrimary(s)
	if err != nil {
		return nil, err
	}
	for {
		s.DebugTick()
		start := x.Span().Start.Offset
		switch {
		case DrawPunct(s, '.'):
			name, err := ExpectIdentifier(s)
			if err != nil {
				return nil, err
			}
			x = &AttrExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), X: x, Name: name}
		case DrawOp(s, token.Scope):
			name, err := ExpectIdentifier(s)
			if err != nil {
				return nil, err
			}
			x = &ScopeExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), X: x, Name: name}
		default:
			return x, nil
		}
	}
}

func parsePrimary(s *Stream) (Expr, *ParseError) {
	s.DebugTick()
	tk, err := PullToken(s)
	if err != nil {
		return nil, err
	}

	switch tk.Kind {
	case token.Literal:
		return &Literal{
			RangeVal: NewRange(s.Source(), tk.Start, tk.End),
			Kind:     tk.LitKind, BoolVal: tk.BoolVal, IntVal: tk.IntVal, FloatVal: tk.FloatVal, Text: tk.Text,
		}, nil

	case token.Identifier:
		switch tk.Text {
		case "this", "super":
			return &Ident{RangeVal: NewRange(s.Source(), tk.Start, tk.End), Name: tk.Text, IsSpecial: true}, nil
		case "root":
			return &Ident{RangeVal: NewRange(s.Source(), tk.Start, tk.End), Name: tk.Text, IsSpecial: true, Absolute: true}, nil
		default:
			return &Ident{RangeVal: NewRange(s.Source(), tk.Start, tk.End), Name: tk.Text}, nil
		}

	case token.Punct:
		switch tk.PunctVal {
		case '(':
			x, err := parseExpr(s)
			if err != nil {
				return nil, err
			}
			if err := ExpectPunct(s, ')'); err != nil {
				return nil, err
			}
			return x, nil
		case '{':
			return parseBlockBody(s, tk.Start)
		case '@':
			return parseAttr(s, tk.Start)
		}
		return nil, newError(NewRange(s.Source(), tk.Start, tk.End), "Unexpected %s", tk.String())

	case token.KeywordKind:
		return parseKeywordExpr(s, tk)

	default:
		return nil, newError(NewRange(s.Source(), tk.Start, tk.End), "Unexpected %s", tk.String())
	}
}

func parseKeywordExpr(s *Stream, tk token.Token) (Expr, *ParseError) {
	start := tk.Start
	switch tk.KeywordVal {
	case token.If:
		return parseIf(s, start)
	case token.While:
		return parseWhile(s, start)
	case token.For:
		return parseFor(s, start)
	case token.Try:
		body, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		return &TryExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), Body: body}, nil
	case token.Fun:
		return parseFun(s, start)
	case token.Return:
		return parseReturn(s, start)
	case token.Break:
		return &BreakExpr{RangeVal: NewRange(s.Source(), start, s.Offset())}, nil
	case token.Continue:
		return &ContinueExpr{RangeVal: NewRange(s.Source(), start, s.Offset())}, nil
	case token.Struct:
		return parseStruct(s, start)
	case token.Enum:
		return parseEnum(s, start)
	case token.Decl:
		return parseClass(s, start)
	case token.Let:
		return parseDecl(s, start, DeclLet)
	case token.Const:
		return parseDecl(s, start, DeclConst)
	case token.Using:
		typ, err := parseTypeExpr(s)
		if err != nil {
			return nil, err
		}
		return &UsingExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), Type: typ}, nil
	case token.Export:
		decl, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		return &ExportExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), Decl: decl}, nil
	case token.Import:
		return parseImport(s, start)
	case token.Extern:
		return parseExtern(s, start)
	case token.Typeof:
		x, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return &TypeofExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), X: x}, nil
	case token.New:
		typ, err := parseTypeExpr(s)
		if err != nil {
			return nil, err
		}
		if err := ExpectPunct(s, '('); err != nil {
			return nil, err
		}
		args, err := parseExprList(s, ')')
		if err != nil {
			return nil, err
		}
		return &NewExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), Type: typ, Args: args}, nil
	case token.Null:
		return &Literal{RangeVal: NewRange(s.Source(), start, s.Offset()), Kind: token.Void, Text: "null"}, nil
	default:
		return nil, newError(NewRange(s.Source(), tk.Start, tk.End), "Unexpected keyword %q here", tk.KeywordVal.String())
	}
}

func parseBlockBody(s *Stream, start int) (Expr, *ParseError) {
	var body []Expr
	for {
		s.DebugTick()
		if CheckPunct(s, '}') {
			break
		}
		e, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		body = append(body, e)
		if CheckPunct(s, '}') {
			break
		}
		if err := PullSemicolons(s); err != nil {
			return nil, err
		}
	}
	if err := ExpectPunct(s, '}'); err != nil {
		return nil, err
	}
	r := NewRange(s.Source(), start, s.Offset())
	return &BlockExpr{RangeVal: r, Body: &ListExpr{RangeVal: r, Body: body}}, nil
}

// parseAttr parses the `@` production (already consumed by the
// caller): either the `@!debug("probe")` introspection directive, or
// an Attr — `@ident` or `@ident(expr)` — attached to the expression
// parsed immediately after it (spec.md §4.3 "Attr"). A following `!`
// disambiguates the directive form; otherwise an identifier starts an
// attribute name.
func parseAttr(s *Stream, start int) (Expr, *ParseError) {
	if tk, ok := PeekToken(s, 0); ok && tk.Kind == token.Operator && tk.OpVal == token.Not {
		return parseDebugExpr(s, start)
	}
	name, err := ExpectIdentifier(s)
	if err != nil {
		return nil, err
	}
	n := &AnnotateExpr{Name: name}
	if DrawPunct(s, '(') {
		arg, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		n.Arg = arg
		if err := ExpectPunct(s, ')'); err != nil {
			return nil, err
		}
	}
	target, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	n.Target = target
	n.RangeVal = NewRange(s.Source(), start, s.Offset())
	return n, nil
}

// parseDebugExpr parses `@!debug("probe")` (spec.md §9 Supplemented
// Features, grounded on AST.cpp DebugExpr). The '@' has already been
// consumed by the caller.
func parseDebugExpr(s *Stream, start int) (Expr, *ParseError) {
	if err := ExpectOp(s, token.Not); err != nil {
		return nil, err
	}
	name, err := ExpectIdentifier(s)
	if err != nil {
		return nil, err
	}
	if name != "debug" {
		return nil, newError(NewRange(s.Source(), start, s.Offset()), "Unknown directive %q", name)
	}
	if err := ExpectPunct(s, '('); err != nil {
		return nil, err
	}
	probe, err := ExpectStringLiteral(s)
	if err != nil {
		return nil, err
	}
	if err := ExpectPunct(s, ')'); err != nil {
		return nil, err
	}
	return &DebugExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), Probe: probe}, nil
}

func parseIf(s *Stream, start int) (Expr, *ParseError) {
	cond, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	then, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	n := &IfExpr{Cond: cond, Then: then}
	if DrawKeyword(s, token.Else) {
		elseBody, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		n.Else = elseBody
	}
	n.RangeVal = NewRange(s.Source(), start, s.Offset())
	return n, nil
}

func parseWhile(s *Stream, start int) (Expr, *ParseError) {
	cond, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	body, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	return &WhileExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), Cond: cond, Body: body}, nil
}

func parseFor(s *Stream, start int) (Expr, *ParseError) {
	name, err := ExpectIdentifier(s)
	if err != nil {
		return nil, err
	}
	if err := ExpectKeyword(s, token.In); err != nil {
		return nil, err
	}
	iter, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	body, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	return &ForExpr{RangeVal: NewRange(s.Source(), start, s.Offset()), Name: name, Iter: iter, Body: body}, nil
}

func parseReturn(s *Stream, start int) (Expr, *ParseError) {
	n := &ReturnExpr{}
	if !CheckPunct(s, ';') && !CheckPunct(s, '}') && !AtEOF(s) && !CheckKeyword(s, token.From) {
		v, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		n.Value = v
	}
	if DrawKeyword(s, token.From) {
		name, err := ExpectIdentifier(s)
		if err != nil {
			return nil, err
		}
		n.From = name
	}
	n.RangeVal = NewRange(s.Source(), start, s.Offset())
	return n, nil
}

func parseFun(s *Stream, start int) (Expr, *ParseError) {
	n := &FunExpr{}
	if tk, ok := PeekToken(s, 0); ok && tk.Kind == token.Identifier {
		PullToken(s)
		n.Name = tk.Text
	}
	if err := ExpectPunct(s, '('); err != nil {
		return nil, err
	}
	for !CheckPunct(s, ')') {
		s.DebugTick()
		p, err := parseParam(s)
		if err != nil {
			return nil, err
		}
		n.Params = append(n.Params, p)
		done, err := PullSeparator(s, ',', ')')
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	if err := ExpectPunct(s, ')'); err != nil {
		return nil, err
	}
	if DrawOp(s, token.Arrow) {
		ret, err := parseTypeExpr(s)
		if err != nil {
			return nil, err
		}
		n.RetType = ret
	}
	body, err := parseExpr(s)
	if err != nil {
		return nil, err
	}
	n.Body = body
	n.RangeVal = NewRange(s.Source(), start, s.Offset())
	return n, nil
}

func parseParam(s *Stream) (Param, *ParseError) {
	start := s.Offset()
	required := DrawKeyword(s, token.Required)
	name, err := ExpectIdentifier(s)
	if err != nil {
		return Param{}, err
	}
	p := Param{Name: name, Required: required}
	if DrawPunct(s, ':') {
		typ, err := parseTypeExpr(s)
		if err != nil {
			return Param{}, err
		}
		p.Type = typ
	}
	p.RangeVal = NewRange(s.Source(), start, s.Offset())
	return p, nil
}

func parseDecl(s *Stream, start int, kind DeclKind) (Expr, *ParseError) {
	name, err := ExpectIdentifier(s)
	if err != nil {
		return nil, err
	}
	n := &DeclExpr{Kind: kind, Name: name}
	if DrawPunct(s, ':') {
		typ, err := parseTypeExpr(s)
		if err != nil {
			return nil, err
		}
		n.Type = typ
	}
	if DrawOp(s, token.Seq) {
		v, err := parseExpr(s)
		if err != nil {
			return nil, err
		}
		n.Value = v
	}
	n.RangeVal = NewRange(s.Source(), start, s.Offset())
	return n, nil
}

func parseStruct(s *Stream, start int) (Expr, *ParseError) {
	name, err := ExpectIdentifier(s)
	if err != nil {
		return nil, err
	}
	n := &StructExpr{Name: name}
	if err := ExpectPunct(s, '{'); err != nil {
		return nil, err
	}
	for !CheckPunct(s, '}') {
		s.DebugTick()
		f, err := parseStructField(s)
		if err != nil {
			return nil, err
		}
		n.Fields = append(n.Fields, f)
		if err := PullSemicolons(s); err != nil {
			if CheckPunct(s, '}') {
				break
			}
			return nil, err
		}
	}
	if err := ExpectPunct(s, '}'); err != nil {
		return nil, err
	}
	n.RangeVal = NewRange(s.Source(), start, s.Offset())
	return n, nil
}

func parseStructField(s *Stream) (StructField, *ParseError) {
	start := s.Offset()
	required := DrawKeyword(s, token.Required)
	name, err := ExpectIdentifier(s)
	if err != nil {
		return StructField{}, err
	}
	f := StructField{Name: name, Required: required}
	if err := ExpectPunct(s, ':'); err != nil {
		return StructField{}, err
	}
	typ, err := parseTypeExpr(s)
	if err != nil {
		return StructField{}, err
	}
	f.Type = typ
	f.RangeVal = NewRange(s.Source(), start, s.Offset())
	return f, nil
}

func parseEnum(s *Stream, start int) (Expr, *ParseError) {
	name, err := ExpectIdentifier(s)
	if err != nil {
		return nil, err
	}
	n := &EnumExpr{Name: name}
	if err := ExpectPunct(s, '{'); err != nil {
		return nil, err
	}
	for !CheckPunct(s, '}') {
		s.DebugTick()
		variant, err := ExpectIdentifier(s)
		if err != nil {
			return nil, err
		}
		n.Variants = append(n.Variants, variant)
		done, err := PullSeparator(s, ',', '}')
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	if err := ExpectPunct(s, '}'); err != nil {
		return nil, err
	}
	n.RangeVal = NewRange(s.Source(), start, s.Offset())
	return n, nil
}

func parseClass(s *Stream, start int) (Expr, *ParseError) {
	name, err := ExpectIdentifier(s)
	if err != nil {
		return nil, err
	}
	n := &ClassExpr{Name: name}
	if DrawKeyword(s, token.Extends) {
		base, err := parseTypeExpr(s)
		if err != nil {
			return nil, err
		}
		n.Extends = base
	}
	if err := ExpectPunct(s, '{'); err != nil {
		return nil, err
	}
	for !CheckPunct(s, '}') {
		s.DebugTick()
		m, err := parseClassMember(s)
		if err != nil {
			return nil, err
		}
		n.Members = append(n.Members, m)
		if err := PullSemicolons(s); err != nil {
			if CheckPunct(s, '}') {
				break
			}
			return nil, err
		}
	}
	if err := ExpectPunct(s, '}'); err != nil {
		return nil, err
	}
	n.RangeVal = NewRange(s.Source(), start, s.Offset())
	return n, nil
}

// parseClassMember parses one member of a `decl` body: a plain field
// (`let`/`const`), a method (`fun`), or an accessor attribute
// (`[depends (a, b)] (get|set) name -> Type`), per spec.md §4.4 and
// the AttrExpr shape carried over from AST.cpp.
func parseClassMember(s *Stream) (ClassMember, *ParseError) {
	start := s.Offset()
	var depends []string
	if DrawKeyword(s, token.Depends) {
		if err := ExpectPunct(s, '('); err != nil {
			return ClassMember{}, err
		}
		for !CheckPunct(s, ')') {
			s.DebugTick()
			d, err := ExpectIdentifier(s)
			if err != nil {
				return ClassMember{}, err
			}
			depends = append(depends, d)
			done, err := PullSeparator(s, ',', ')')
			if err != nil {
				return ClassMember{}, err
			}
			if done {
				break
			}
		}
		if err := ExpectPunct(s, ')'); err != nil {
			return ClassMember{}, err
		}
	}

	switch {
	case CheckKeyword(s, token.Get) || CheckKeyword(s, token.Set):
		get := DrawKeyword(s, token.Get)
		set := false
		if !get {
			set = DrawKeyword(s, token.Set)
		}
		name, err := ExpectIdentifier(s)
		if err != nil {
			return ClassMember{}, err
		}
		attr := &AttrDeclExpr{Name: name, Get: get, Set: set, Depends: depends}
		if DrawOp(s, token.Arrow) {
			typ, err := parseTypeExpr(s)
			if err != nil {
				return ClassMember{}, err
			}
			attr.Type = typ
		}
		attr.RangeVal = NewRange(s.Source(), start, s.Offset())
		return ClassMember{RangeVal: attr.RangeVal, Decl: attr, Get: get, Set: set, Depends: depends}, nil

	case CheckKeyword(s, token.Fun):
		PullToken(s)
		fn, err := parseFun(s, start)
		if err != nil {
			return ClassMember{}, err
		}
		return ClassMember{RangeVal: fn.Span(), Decl: fn, Depends: depends}, nil

	case CheckKeyword(s, token.Let) || CheckKeyword(s, token.Const):
		kind := DeclLet
		if CheckKeyword(s, token.Const) {
			kind = DeclConst
		}
		PullToken(s)
		decl, err := parseDecl(s, start, kind)
		if err != nil {
			return ClassMember{}, err
		}
		return ClassMember{RangeVal: decl.Span(), Decl: decl, Depends: depends}, nil

	default:
		tk, err := PullToken(s)
		if err != nil {
			return ClassMember{}, err
		}
		return ClassMember{}, newError(NewRange(s.Source(), tk.Start, tk.End), "Expected class member, found %s", tk.String())
	}
}

func parseImport(s *Stream, start int) (Expr, *ParseError) {
	n := &ImportExpr{}
	if op, ok := PeekToken(s, 0); ok && op.Kind == token.Operator && op.OpVal == token.Mul {
		PullToken(s)
		n.Star = true
	} else {
		if err := ExpectPunct(s, '{'); err != nil {
			return nil, err
		}
		for !CheckPunct(s, '}') {
			s.DebugTick()
			name, err := ExpectIdentifier(s)
			if err != nil {
				return nil, err
			}
			n.Names = append(n.Names, name)
			done, err := PullSeparator(s, ',', '}')
			if err != nil {
				return nil, err
			}
			if done {
				break
			}
		}
		if err := ExpectPunct(s, '}'); err != nil {
			return nil, err
		}
	}
	if err := ExpectKeyword(s, token.From); err != nil {
		return nil, err
	}
	path, err := ExpectStringLiteral(s)
	if err != nil {
		return nil, err
	}
	n.From = path
	n.RangeVal = NewRange(s.Source(), start, s.Offset())
	return n, nil
}

func parseExtern(s *Stream, start int) (Expr, *ParseError) {
	name, err := ExpectIdentifier(s)
	if err != nil {
		return nil, err
	}
	n := &ExternExpr{Name: name}
	if err := ExpectOp(s, token.Arrow); err != nil {
		return nil, err
	}
	typ, err := parseTypeExpr(s)
	if err != nil {
		return nil, err
	}
	n.Type = typ
	n.RangeVal = NewRange(s.Source(), start, s.Offset())
	return n, nil
}
