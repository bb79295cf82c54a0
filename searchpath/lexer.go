package searchpath

import (
	"strings"
	"unicode"

	"github.com/jacoelho/pathextract/component"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenQuoted
	tokenNumber
	tokenStar
	tokenAnnotation
	tokenLParen
	tokenRParen
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of input"
	case tokenSymbol:
		return "symbol"
	case tokenQuoted:
		return "quoted symbol"
	case tokenNumber:
		return "number"
	case tokenStar:
		return "'*'"
	case tokenAnnotation:
		return "'::'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	}
	return "unknown token"
}

type token struct {
	typ     tokenType
	literal string
	pos     int
}

func lex(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)/2)
	pos := 0

	for pos < len(input) {
		c := input[pos]
		if unicode.IsSpace(rune(c)) {
			pos++
			continue
		}

		if component.IsSymbolStart(rune(c)) {
			start := pos
			pos++
			for pos < len(input) && component.IsSymbolPart(rune(input[pos])) {
				pos++
			}
			tokens = append(tokens, token{typ: tokenSymbol, literal: input[start:pos], pos: start})
			if err := checkSeparated(input, start, pos); err != nil {
				return nil, err
			}
			continue
		}

		if isDigit(c) || (c == '-' && pos+1 < len(input) && isDigit(input[pos+1])) {
			start := pos
			pos++
			for pos < len(input) && isDigit(input[pos]) {
				pos++
			}
			tokens = append(tokens, token{typ: tokenNumber, literal: input[start:pos], pos: start})
			if err := checkSeparated(input, start, pos); err != nil {
				return nil, err
			}
			continue
		}

		switch c {
		case '\'', '"':
			literal, next, err := lexQuoted(input, pos)
			if err != nil {
				return nil, err
			}
			if err := checkSeparated(input, pos, next); err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenQuoted, literal: literal, pos: pos})
			pos = next
		case ':':
			if pos+1 < len(input) && input[pos+1] == ':' {
				tokens = append(tokens, token{typ: tokenAnnotation, pos: pos})
				pos += 2
				continue
			}
			return nil, syntaxError("unexpected ':' at position %d, expected '::'", pos)
		case '*':
			if err := checkSeparated(input, pos, pos+1); err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenStar, literal: "*", pos: pos})
			pos++
		case '(':
			tokens = append(tokens, token{typ: tokenLParen, pos: pos})
			pos++
		case ')':
			tokens = append(tokens, token{typ: tokenRParen, pos: pos})
			pos++
		default:
			return nil, syntaxError("unexpected character %q at position %d", c, pos)
		}
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: len(input)})
	return tokens, nil
}

// checkSeparated reports an error unless the token at input[start:end] is
// followed by whitespace, ')', '::' or the end of input.
func checkSeparated(input string, start, end int) error {
	if end >= len(input) {
		return nil
	}
	switch c := input[end]; {
	case unicode.IsSpace(rune(c)), c == ')':
		return nil
	case c == ':' && end+1 < len(input) && input[end+1] == ':':
		return nil
	}
	return syntaxError("%q at position %d must be followed by whitespace, ')' or '::', found %q", input[start:end], start, input[end])
}

// lexQuoted reads a quoted symbol starting at the opening quote and returns
// its unescaped content and the position after the closing quote.
func lexQuoted(input string, pos int) (string, int, error) {
	quote := input[pos]
	var b strings.Builder

	for i := pos + 1; i < len(input); i++ {
		c := input[i]
		switch c {
		case quote:
			return b.String(), i + 1, nil
		case '\\':
			if i+1 >= len(input) {
				return "", 0, syntaxError("unterminated escape at position %d", i)
			}
			i++
			switch input[i] {
			case '\\', '\'', '"':
				b.WriteByte(input[i])
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				return "", 0, syntaxError("unknown escape '\\%c' at position %d", input[i], i-1)
			}
		case '\n':
			return "", 0, syntaxError("newline in quoted symbol at position %d", i)
		default:
			b.WriteByte(c)
		}
	}

	return "", 0, syntaxError("unterminated quoted symbol starting at position %d", pos)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
