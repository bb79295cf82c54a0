package searchpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jacoelho/pathextract/component"
)

// Pattern is the structured form of a search path: its components and the
// annotations required on the value it is anchored at.
type Pattern struct {
	Components  []component.Component
	Annotations []string
}

// String renders the pattern in search path text syntax.
func (p Pattern) String() string {
	var b strings.Builder
	for _, a := range p.Annotations {
		b.WriteString(component.Symbol(a))
		b.WriteString("::")
	}
	b.WriteByte('(')
	for i, c := range p.Components {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Equal reports whether both patterns have equal components and annotation sets.
func (p Pattern) Equal(other Pattern) bool {
	if len(p.Components) != len(other.Components) {
		return false
	}
	for i := range p.Components {
		if !p.Components[i].Equal(other.Components[i]) {
			return false
		}
	}
	return component.AnnotationsMatch(p.Annotations, other.Annotations, false) &&
		component.AnnotationsMatch(other.Annotations, p.Annotations, false)
}

// Parse turns search path text such as `A::(foo 0 * B::'bar baz')` into a Pattern.
//
// Tokens are separated by whitespace: unquoted or quoted symbols are field
// names, non-negative integers are indexes and `*` is the wildcard. Any token
// may be prefixed by `annotation::` requirements; annotations before the
// opening parenthesis apply to the value the path is anchored at.
func Parse(text string) (Pattern, error) {
	tokens, err := lex(text)
	if err != nil {
		return Pattern{}, err
	}

	p := &parser{tokens: tokens}
	pattern, err := p.parsePath()
	if err != nil {
		return Pattern{}, fmt.Errorf("parsing %q: %w", text, err)
	}
	return pattern, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Pattern {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) parsePath() (Pattern, error) {
	annotations, err := p.parseAnnotations()
	if err != nil {
		return Pattern{}, err
	}

	if t := p.next(); t.typ != tokenLParen {
		return Pattern{}, syntaxError("expected '(' at position %d, got %s", t.pos, t.typ)
	}

	components := make([]component.Component, 0)
	for p.peek().typ != tokenRParen {
		if p.peek().typ == tokenEOF {
			return Pattern{}, syntaxError("missing ')' at end of input")
		}
		c, err := p.parseComponent()
		if err != nil {
			return Pattern{}, err
		}
		components = append(components, c)
	}
	p.next() // ')'

	if t := p.next(); t.typ != tokenEOF {
		return Pattern{}, syntaxError("unexpected %s after ')' at position %d", t.typ, t.pos)
	}

	return Pattern{Components: components, Annotations: annotations}, nil
}

// parseAnnotations consumes a run of `name::` prefixes.
func (p *parser) parseAnnotations() ([]string, error) {
	var annotations []string
	for {
		t := p.peek()
		if t.typ != tokenSymbol && t.typ != tokenQuoted {
			return annotations, nil
		}
		if p.tokens[p.pos+1].typ != tokenAnnotation {
			return annotations, nil
		}
		if t.literal == "" {
			return nil, syntaxError("empty annotation at position %d", t.pos)
		}
		annotations = append(annotations, t.literal)
		p.pos += 2
	}
}

func (p *parser) parseComponent() (component.Component, error) {
	annotations, err := p.parseAnnotations()
	if err != nil {
		return component.Component{}, err
	}

	t := p.next()
	switch t.typ {
	case tokenSymbol, tokenQuoted:
		return component.Field(t.literal, annotations...), nil
	case tokenStar:
		return component.Wildcard(annotations...), nil
	case tokenNumber:
		if p.peek().typ == tokenAnnotation {
			return component.Component{}, syntaxError("annotation %q at position %d must be a symbol", t.literal, t.pos)
		}
		n, err := strconv.Atoi(t.literal)
		if err != nil || (n == 0 && t.literal[0] == '-') {
			return component.Component{}, syntaxError("invalid index %q at position %d", t.literal, t.pos)
		}
		c, err := component.Index(n, annotations...)
		if err != nil {
			return component.Component{}, fmt.Errorf("%w: at position %d: %w", ErrInvalidPath, t.pos, err)
		}
		return c, nil
	case tokenLParen:
		return component.Component{}, syntaxError("nested list at position %d", t.pos)
	case tokenAnnotation:
		return component.Component{}, syntaxError("'::' without annotation at position %d", t.pos)
	}

	return component.Component{}, syntaxError("unexpected %s at position %d", t.typ, t.pos)
}
