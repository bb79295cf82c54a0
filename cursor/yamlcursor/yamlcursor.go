// Package yamlcursor reads YAML documents into annotated trees.
//
// Every document in a stream is one root value. Local tags become
// annotations: a value tagged !point carries the annotation "point", while
// core schema tags such as !!str are dropped. Aliases resolve to a copy of
// the anchored value and merge keys splice the merged mapping's fields in
// place.
package yamlcursor

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/jacoelho/pathextract/cursor/tree"
)

// NewCursor parses data and returns a cursor positioned before its first document.
func NewCursor(data []byte) (*tree.Cursor, error) {
	roots, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return tree.NewCursor(roots...), nil
}

// Parse converts every document of data into a tree. Empty documents are skipped.
func Parse(data []byte) ([]*tree.Node, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var roots []*tree.Node
	for i, doc := range file.Docs {
		if doc == nil || doc.Body == nil {
			continue
		}
		if _, ok := doc.Body.(*ast.CommentGroupNode); ok {
			continue
		}

		b := &builder{anchors: make(map[string]*tree.Node)}
		n, err := b.build(doc.Body)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		roots = append(roots, n)
	}
	return roots, nil
}

// builder holds the anchors defined so far in one document.
type builder struct {
	anchors map[string]*tree.Node
}

func (b *builder) build(node ast.Node) (*tree.Node, error) {
	switch n := node.(type) {
	case *ast.MappingNode:
		return b.mapping(n.Values)

	case *ast.MappingValueNode:
		return b.mapping([]*ast.MappingValueNode{n})

	case *ast.SequenceNode:
		list := tree.List()
		for _, item := range n.Values {
			child, err := b.build(item)
			if err != nil {
				return nil, err
			}
			list.Children = append(list.Children, child)
		}
		return list, nil

	case *ast.TagNode:
		child, err := b.build(n.Value)
		if err != nil {
			return nil, err
		}
		if ann, ok := annotation(n.Start.Value); ok {
			child = child.Annotate(ann)
		}
		return child, nil

	case *ast.AnchorNode:
		child, err := b.build(n.Value)
		if err != nil {
			return nil, err
		}
		b.anchors[tokenText(n.Name)] = child
		return child, nil

	case *ast.AliasNode:
		name := strings.TrimPrefix(tokenText(n.Value), "*")
		anchored, ok := b.anchors[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAlias, name)
		}
		return anchored, nil

	case *ast.CommentGroupNode:
		return nil, fmt.Errorf("%w: comment without a value", ErrUnsupportedNode)

	case ast.ScalarNode:
		return tree.Scalar(n.GetValue()), nil

	case nil:
		return tree.Scalar(nil), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedNode, node.Type())
}

// mapping builds a struct in document order. Merged fields take the place of
// their merge key, except that explicit keys override them and earlier merge
// sources override later ones.
func (b *builder) mapping(values []*ast.MappingValueNode) (*tree.Node, error) {
	explicit := make(map[string]bool, len(values))
	for _, mv := range values {
		if _, ok := mv.Key.(*ast.MergeKeyNode); !ok {
			explicit[keyText(mv.Key)] = true
		}
	}

	st := tree.Struct()
	merged := make(map[string]bool)
	for _, mv := range values {
		if _, ok := mv.Key.(*ast.MergeKeyNode); ok {
			fields, err := b.merge(mv.Value)
			if err != nil {
				return nil, err
			}
			for _, f := range fields {
				if explicit[f.Name] || merged[f.Name] {
					continue
				}
				merged[f.Name] = true
				st.Children = append(st.Children, f)
			}
			continue
		}

		child, err := b.build(mv.Value)
		if err != nil {
			return nil, err
		}
		st.Children = append(st.Children, tree.Field(keyText(mv.Key), child))
	}
	return st, nil
}

// merge returns the fields a merge key splices in: one mapping or a sequence of them.
func (b *builder) merge(node ast.Node) ([]*tree.Node, error) {
	n, err := b.build(node)
	if err != nil {
		return nil, err
	}

	switch n.Kind {
	case tree.KindStruct:
		return n.Children, nil
	case tree.KindList:
		var fields []*tree.Node
		for _, item := range n.Children {
			if item.Kind != tree.KindStruct {
				return nil, fmt.Errorf("%w: merge of a non-mapping value", ErrUnsupportedNode)
			}
			fields = append(fields, item.Children...)
		}
		return fields, nil
	}
	return nil, fmt.Errorf("%w: merge of a scalar value", ErrUnsupportedNode)
}

func keyText(key ast.MapKeyNode) string {
	if s, ok := key.(*ast.StringNode); ok {
		return s.Value
	}
	return tokenText(key)
}

func tokenText(n ast.Node) string {
	if n == nil {
		return ""
	}
	if tk := n.GetToken(); tk != nil {
		return tk.Value
	}
	return n.String()
}

// annotation maps a tag to an annotation. Core schema tags carry no annotation.
func annotation(tag string) (string, bool) {
	if strings.HasPrefix(tag, "!!") {
		return "", false
	}
	name := strings.TrimPrefix(tag, "!")
	name = strings.TrimSuffix(strings.TrimPrefix(name, "<"), ">")
	if name == "" {
		return "", false
	}
	return name, true
}
