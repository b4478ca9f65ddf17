// Package xpath provides the small XPath subset used to name match properties.
//
// Expressions are evaluated relative to a record element and select one
// string value. Supported syntax:
//   - name (attribute "name", or the text of the first <name> child when the attribute is absent)
//   - @name (attribute only)
//   - a/b (text of the first <b> child of the first <a> child)
//   - a/@x (attribute "x" of the first <a> child)
//   - a/text() (explicit text selector)
//
// Not supported: absolute paths, predicates, wildcards, axes and functions
// other than text().
package xpath

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/erraggy/xmlmerge/document"
)

// Path represents a parsed property expression.
type Path struct {
	raw   string
	steps []Step
}

// String returns the original expression.
func (p *Path) String() string {
	return p.raw
}

// Step is one segment of a Path.
type Step interface {
	// stepType returns a string identifying the step type for debugging.
	stepType() string
}

// FieldStep selects an attribute, falling back to a child element's text.
// It only appears as the single step of a bare-name expression.
type FieldStep struct {
	Name string
}

func (s FieldStep) stepType() string { return "field" }

// ChildStep moves to the first child element with the given name. As the
// last step it selects that child's text.
type ChildStep struct {
	Name string
}

func (s ChildStep) stepType() string { return "child" }

// AttrStep selects an attribute of the current element.
type AttrStep struct {
	Name string
}

func (s AttrStep) stepType() string { return "attr" }

// TextStep selects the text of the current element.
type TextStep struct{}

func (s TextStep) stepType() string { return "text" }

// Parse parses a property expression.
//
// Examples:
//
//	Parse("id")          // attribute id, or <id> child text
//	Parse("@sku")        // attribute sku only
//	Parse("meta/code")   // text of <meta><code>
//	Parse("meta/@lang")  // attribute lang of <meta>
func Parse(expr string) (*Path, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("xpath: empty expression")
	}
	if strings.HasPrefix(expr, "/") {
		return nil, fmt.Errorf("xpath: %q: absolute paths are not supported, use a path relative to the record", expr)
	}

	parts := strings.Split(expr, "/")
	steps := make([]Step, 0, len(parts))
	for i, part := range parts {
		last := i == len(parts)-1
		switch {
		case part == "":
			return nil, fmt.Errorf("xpath: %q: empty step at position %d", expr, i+1)
		case part == "text()":
			if !last || i == 0 {
				return nil, fmt.Errorf("xpath: %q: text() must be the last step of a child path", expr)
			}
			steps = append(steps, TextStep{})
		case strings.HasPrefix(part, "@"):
			if !last {
				return nil, fmt.Errorf("xpath: %q: attribute step %q must be last", expr, part)
			}
			name := part[1:]
			if err := checkName(expr, name); err != nil {
				return nil, err
			}
			steps = append(steps, AttrStep{Name: name})
		default:
			if err := checkName(expr, part); err != nil {
				return nil, err
			}
			if len(parts) == 1 {
				steps = append(steps, FieldStep{Name: part})
			} else {
				steps = append(steps, ChildStep{Name: part})
			}
		}
	}

	return &Path{raw: expr, steps: steps}, nil
}

// MustParse is like Parse but panics on error. For use with constant expressions.
func MustParse(expr string) *Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseAll parses every expression, stopping at the first error.
func ParseAll(exprs []string) ([]*Path, error) {
	paths := make([]*Path, 0, len(exprs))
	for _, expr := range exprs {
		p, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Eval evaluates the path against a record element. The boolean is false
// when the selected attribute or element does not exist.
func (p *Path) Eval(record *document.Node) (string, bool) {
	cur := record
	for _, step := range p.steps {
		if !cur.IsElement() {
			return "", false
		}
		switch s := step.(type) {
		case FieldStep:
			if v, ok := cur.Attr(s.Name); ok {
				return v, true
			}
			child := cur.FirstElement(s.Name)
			if child == nil {
				return "", false
			}
			return strings.TrimSpace(child.Text()), true
		case AttrStep:
			return cur.Attr(s.Name)
		case TextStep:
			return strings.TrimSpace(cur.Text()), true
		case ChildStep:
			cur = cur.FirstElement(s.Name)
		}
	}
	if !cur.IsElement() {
		return "", false
	}
	return strings.TrimSpace(cur.Text()), true
}

// checkName accepts XML-style names: letters, digits, '_', '-', '.' and ':'
// for prefixed names, not starting with a digit, '-' or '.'.
func checkName(expr, name string) error {
	if name == "" {
		return fmt.Errorf("xpath: %q: missing name", expr)
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r), r == '_', r == ':':
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return fmt.Errorf("xpath: %q: invalid character %q in name %q", expr, r, name)
		}
	}
	return nil
}
