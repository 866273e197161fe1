package expr

import (
	"fmt"
	"unicode"
)

type tokenKind int

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
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of expression"
	}
	return fmt.Sprintf("%q", t.text)
}

// tokenize splits an expression into tokens. Identifier matching is whole-
// token, so a variable named y can never corrupt an unrelated identifier that
// merely contains the letter y.
func tokenize(src string) ([]token, error) {
	runes := []rune(src)
	toks := make([]token, 0, len(runes)/2+1)
	i := 0

	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r >= '0' && r <= '9' || r == '.':
			start := i
			for i < len(runes) && (runes[i] >= '0' && runes[i] <= '9' || runes[i] == '.') {
				i++
			}
			// Scientific notation: 1e-3, 2.5E4.
			if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
				j := i + 1
				if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
					j++
				}
				if j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
					i = j
					for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
						i++
					}
				}
			}
			toks = append(toks, token{tokNumber, string(runes[start:i]), start})
		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			toks = append(toks, token{tokIdent, string(runes[start:i]), start})
		default:
			var kind tokenKind
			switch r {
			case '+':
				kind = tokPlus
			case '-':
				kind = tokMinus
			case '*':
				kind = tokStar
			case '/':
				kind = tokSlash
			case '^':
				kind = tokCaret
			case '(':
				kind = tokLParen
			case ')':
				kind = tokRParen
			case ',':
				kind = tokComma
			default:
				return nil, compileErr(ErrInvalidCharacter, "%q at position %d", string(r), i)
			}
			toks = append(toks, token{kind, string(r), i})
			i++
		}
	}

	toks = append(toks, token{tokEOF, "", len(runes)})
	return toks, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r >= '0' && r <= '9'
}
