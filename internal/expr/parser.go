package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse builds an Expression from source text.
//
// Grammar (binding from loosest to tightest):
//
//	expr    = or
//	or      = xor { "|" xor }
//	xor     = and { "^" and }
//	and     = shift { "&" shift }
//	shift   = sum { ("<<" | ">>") sum }
//	sum     = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | "%") unary }
//	unary   = ("-" | "~") unary | primary
//	primary = number | ident | ident "(" [expr {"," expr}] ")" | "(" expr ")"
//
// Numbers are decimal, 0x hex, or 0b binary. Infix operators lower onto the
// registered function table, so they share evaluation semantics with
// explicit calls (1 + 2 builds the same tree as add(1, 2)).
//
// All failures are BuildErrors; a parsed expression never fails an arity
// check later.
func Parse(src string) (Expression, error) {
	p := &parser{src: src}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.syntaxError(fmt.Sprintf("unexpected %q", rest(p.src[p.pos:])))
	}
	return e, nil
}

// rest truncates trailing input for error messages.
func rest(s string) string {
	if len(s) > 12 {
		return s[:12] + "..."
	}
	return s
}

type parser struct {
	src string
	pos int
}

func (p *parser) syntaxError(msg string) error {
	return &BuildError{
		Code:    ErrCodeSyntax,
		Message: fmt.Sprintf("%s at offset %d in %q", msg, p.pos, p.src),
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

// accept consumes op if it is next, preferring the longest operator first
// (callers must try "<<" before "<").
func (p *parser) accept(op string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], op) {
		p.pos += len(op)
		return true
	}
	return false
}

// binaryLevel parses a left-associative chain of operators at one
// precedence level, lowering each onto its registry function.
func (p *parser) binaryLevel(next func() (Expression, error), ops map[string]string, order []string) (Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, op := range order {
			if p.accept(op) {
				right, err := next()
				if err != nil {
					return nil, err
				}
				call, err := NewCall(ops[op], left, right)
				if err != nil {
					return nil, err
				}
				left = call
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
	}
}

func (p *parser) parseOr() (Expression, error) {
	return p.binaryLevel(p.parseXor, map[string]string{"|": "or"}, []string{"|"})
}

func (p *parser) parseXor() (Expression, error) {
	return p.binaryLevel(p.parseAnd, map[string]string{"^": "xor"}, []string{"^"})
}

func (p *parser) parseAnd() (Expression, error) {
	return p.binaryLevel(p.parseShift, map[string]string{"&": "and"}, []string{"&"})
}

func (p *parser) parseShift() (Expression, error) {
	return p.binaryLevel(p.parseSum, map[string]string{"<<": "shl", ">>": "shr"}, []string{"<<", ">>"})
}

func (p *parser) parseSum() (Expression, error) {
	return p.binaryLevel(p.parseTerm, map[string]string{"+": "add", "-": "sub"}, []string{"+", "-"})
}

func (p *parser) parseTerm() (Expression, error) {
	return p.binaryLevel(p.parseUnary, map[string]string{"*": "mul", "/": "div", "%": "mod"}, []string{"*", "/", "%"})
}

func (p *parser) parseUnary() (Expression, error) {
	if p.accept("-") {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewCall("neg", inner)
	}
	if p.accept("~") {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewCall("not", inner)
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expression, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.syntaxError("unexpected end of expression")
	}

	c := p.src[p.pos]
	switch {
	case c == '(':
		p.pos++
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.accept(")") {
			return nil, p.syntaxError("missing closing parenthesis")
		}
		return e, nil

	case c >= '0' && c <= '9':
		return p.parseNumber()

	case isIdentStart(rune(c)):
		name := p.parseIdent()
		if p.accept("(") {
			return p.parseCallArgs(name)
		}
		return NewVariable(name), nil

	default:
		return nil, p.syntaxError(fmt.Sprintf("unexpected character %q", c))
	}
}

func (p *parser) parseCallArgs(name string) (Expression, error) {
	var args []Expression
	p.skipSpace()
	if !p.accept(")") {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.accept(",") {
				continue
			}
			if p.accept(")") {
				break
			}
			return nil, p.syntaxError("expected ',' or ')' in argument list")
		}
	}
	return NewCall(name, args...)
}

func (p *parser) parseNumber() (Expression, error) {
	start := p.pos
	base := 10
	digits := "0123456789"

	if strings.HasPrefix(p.src[p.pos:], "0x") || strings.HasPrefix(p.src[p.pos:], "0X") {
		p.pos += 2
		start = p.pos
		base = 16
		digits = "0123456789abcdefABCDEF"
	} else if strings.HasPrefix(p.src[p.pos:], "0b") || strings.HasPrefix(p.src[p.pos:], "0B") {
		p.pos += 2
		start = p.pos
		base = 2
		digits = "01"
	}

	for p.pos < len(p.src) && strings.ContainsRune(digits, rune(p.src[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return nil, p.syntaxError("malformed number literal")
	}

	// Parse as unsigned so full-width bit patterns like 0xffffffffffffffff
	// remain expressible; the magnitude is the two's-complement pattern.
	u, err := strconv.ParseUint(p.src[start:p.pos], base, 64)
	if err != nil {
		return nil, p.syntaxError(fmt.Sprintf("number out of range: %v", err))
	}
	return NewConstant(int64(u)), nil
}

func (p *parser) parseIdent() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(rune(p.src[p.pos])) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
