package docstore

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// PredicateKind distingue las variantes de Predicate.
type PredicateKind int

const (
	KindEquals PredicateKind = iota + 1
	KindElementMatch
	KindRegexMatch
)

func (k PredicateKind) String() string {
	switch k {
	case KindEquals:
		return "equals"
	case KindElementMatch:
		return "$elemMatch"
	case KindRegexMatch:
		return "$regex"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Predicate es la condición sobre un único campo.
type Predicate struct {
	Kind PredicateKind

	// Equals y ElementMatch
	Value any
	// ElementMatch: campo de cada elemento del array
	SubField string
	// RegexMatch
	Pattern         string
	CaseInsensitive bool
}

// Filter asocia nombre de campo con su predicado. Todos los campos deben cumplirse.
type Filter map[string]Predicate

// Equals exige record[field] == value.
func Equals(value any) Predicate {
	return Predicate{Kind: KindEquals, Value: value}
}

// ElementMatch exige que algún elemento del array tenga elem[subField] == value.
func ElementMatch(subField string, value any) Predicate {
	return Predicate{Kind: KindElementMatch, SubField: subField, Value: value}
}

// RegexMatch exige que el patrón aparezca en cualquier parte del campo de texto.
func RegexMatch(pattern string, caseInsensitive bool) Predicate {
	return Predicate{Kind: KindRegexMatch, Pattern: pattern, CaseInsensitive: caseInsensitive}
}

// ContainsFold busca el texto literal, sin interpretarlo como patrón, ignorando mayúsculas.
func ContainsFold(text string) Predicate {
	return RegexMatch(regexp.QuoteMeta(text), true)
}

type fieldMatcher struct {
	field string
	match func(doc Document) bool
}

// Matcher es un filtro ya validado y compilado.
type Matcher struct {
	fields []fieldMatcher
}

// Compile valida el filtro y prepara su evaluación. Falla con
// ErrUnsupportedOperator ante variantes desconocidas o literales con operadores "$".
func Compile(filter Filter) (*Matcher, error) {
	names := make([]string, 0, len(filter))
	for name := range filter {
		names = append(names, name)
	}
	sort.Strings(names)

	m := &Matcher{fields: make([]fieldMatcher, 0, len(names))}
	for _, name := range names {
		fn, err := compilePredicate(name, filter[name])
		if err != nil {
			return nil, err
		}
		m.fields = append(m.fields, fieldMatcher{field: name, match: fn})
	}
	return m, nil
}

// Match evalúa el documento; corta en el primer campo que no se cumple.
func (m *Matcher) Match(doc Document) bool {
	for _, f := range m.fields {
		if !f.match(doc) {
			return false
		}
	}
	return true
}

func compilePredicate(field string, p Predicate) (func(Document) bool, error) {
	switch p.Kind {
	case KindEquals:
		if hasOperatorKeys(p.Value) {
			return nil, fmt.Errorf("%w: field %q uses an operator document", ErrUnsupportedOperator, field)
		}
		want := p.Value
		return func(doc Document) bool {
			got, ok := doc[field]
			if !ok {
				return want == nil
			}
			return valuesEqual(got, want)
		}, nil

	case KindElementMatch:
		if p.SubField == "" {
			return nil, fmt.Errorf("%w: $elemMatch on %q needs a sub field", ErrUnsupportedOperator, field)
		}
		sub, want := p.SubField, p.Value
		return func(doc Document) bool {
			elems, ok := asArray(doc[field])
			if !ok {
				return false
			}
			for _, elem := range elems {
				if got, ok := lookup(elem, sub); ok && valuesEqual(got, want) {
					return true
				}
			}
			return false
		}, nil

	case KindRegexMatch:
		pattern := p.Pattern
		if p.CaseInsensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid $regex on %q: %w", field, err)
		}
		return func(doc Document) bool {
			raw, ok := doc[field]
			if !ok {
				return re.MatchString("")
			}
			s, ok := raw.(string)
			if !ok {
				return false
			}
			return re.MatchString(s)
		}, nil

	default:
		return nil, fmt.Errorf("%w: %s on field %q", ErrUnsupportedOperator, p.Kind, field)
	}
}

func hasOperatorKeys(v any) bool {
	m, ok := asMap(v)
	if !ok {
		return false
	}
	for key := range m {
		if strings.HasPrefix(key, "$") {
			return true
		}
	}
	return false
}
