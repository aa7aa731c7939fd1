// Package dynamic evaluates values that may be fixed at authoring time or
// supplied at run time: literals, variables written as $(name), and
// expressions written as =<jsonpath> evaluated over the runtime parameters.
package dynamic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
)

var (
	// ErrUndefined is returned when a variable has no value.
	ErrUndefined = errors.New("dynamic value undefined")
	// ErrExpression is returned for expressions that do not parse.
	ErrExpression = errors.New("invalid expression")
)

// Kind tells how a value is obtained.
type Kind uint8

const (
	Literal Kind = iota
	Variable
	Expression
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Expression:
		return "expression"
	default:
		return "literal"
	}
}

// Env holds runtime parameters. Expressions see it as a JSON object.
type Env map[string]any

// Value is a literal, variable reference or expression.
type Value struct {
	Kind    Kind
	Literal any
	Name    string // variable name
	Expr    string // JSONPath, without the leading '='
}

// Parse classifies s: "$(name)" is a variable, "=path" an expression,
// anything else a literal string.
func Parse(s string) Value {
	t := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(t, "$(") && strings.HasSuffix(t, ")"):
		return Value{Kind: Variable, Name: strings.TrimSpace(t[2 : len(t)-1])}
	case strings.HasPrefix(t, "="):
		return Value{Kind: Expression, Expr: strings.TrimSpace(t[1:])}
	default:
		return Value{Kind: Literal, Literal: s}
	}
}

// LiteralOf wraps a fixed value.
func LiteralOf(v any) Value { return Value{Kind: Literal, Literal: v} }

// IsDynamic reports whether the value depends on runtime parameters.
func (v Value) IsDynamic() bool { return v.Kind != Literal }

// IsZero reports an empty literal.
func (v Value) IsZero() bool {
	return v.Kind == Literal && (v.Literal == nil || v.Literal == "")
}

func (v Value) String() string {
	switch v.Kind {
	case Variable:
		return "$(" + v.Name + ")"
	case Expression:
		return "=" + v.Expr
	default:
		if v.Literal == nil {
			return ""
		}
		return fmt.Sprint(v.Literal)
	}
}

// Evaluate returns the value's runtime elements. Array results are
// flattened one level so that multi-valued parameters fan out.
func (v Value) Evaluate(env Env) ([]any, error) {
	switch v.Kind {
	case Variable:
		raw, ok := env[v.Name]
		if !ok || raw == nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name, ErrUndefined)
		}
		return flatten([]any{raw}), nil
	case Expression:
		x, err := jp.ParseString(v.Expr)
		if err != nil {
			return nil, fmt.Errorf("%w '%s': %v", ErrExpression, v.Expr, err)
		}
		return flatten(x.Get(map[string]any(env))), nil
	default:
		if v.Literal == nil {
			return nil, nil
		}
		return flatten([]any{v.Literal}), nil
	}
}

// Strings evaluates v and renders every element as a string.
func (v Value) Strings(env Env) ([]string, error) {
	vals, err := v.Evaluate(env)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, e := range vals {
		if e == nil {
			continue
		}
		out = append(out, fmt.Sprint(e))
	}
	return out, nil
}

func flatten(vals []any) []any {
	out := make([]any, 0, len(vals))
	for _, v := range vals {
		switch s := v.(type) {
		case []any:
			out = append(out, s...)
		case []string:
			for _, e := range s {
				out = append(out, e)
			}
		default:
			out = append(out, v)
		}
	}
	return out
}
