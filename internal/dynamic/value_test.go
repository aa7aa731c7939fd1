package dynamic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Value{Kind: Variable, Name: "measure"}, Parse("$(measure)"))
	assert.Equal(t, Value{Kind: Expression, Expr: "$.measures[*]"}, Parse("= $.measures[*]"))
	assert.Equal(t, Value{Kind: Literal, Literal: "Sales"}, Parse("Sales"))

	assert.True(t, Parse("$(x)").IsDynamic())
	assert.False(t, Parse("x").IsDynamic())
	assert.Equal(t, "$(x)", Parse("$(x)").String())
	assert.Equal(t, "=$.a", Parse("=$.a").String())
}

func TestEvaluate_Variable(t *testing.T) {
	env := Env{"measure": "Sales", "layers": []any{"Country", "State"}}

	vals, err := Parse("$(measure)").Evaluate(env)
	require.NoError(t, err)
	assert.Equal(t, []any{"Sales"}, vals)

	vals, err = Parse("$(layers)").Evaluate(env)
	require.NoError(t, err)
	assert.Equal(t, []any{"Country", "State"}, vals)

	_, err = Parse("$(missing)").Evaluate(env)
	assert.True(t, errors.Is(err, ErrUndefined))
}

func TestEvaluate_Expression(t *testing.T) {
	env := Env{
		"measures": []any{"Sales", "Profit"},
		"region":   map[string]any{"layer": "State"},
	}

	names, err := Parse("=$.measures[*]").Strings(env)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales", "Profit"}, names)

	names, err = Parse("=$.region.layer").Strings(env)
	require.NoError(t, err)
	assert.Equal(t, []string{"State"}, names)

	names, err = Parse("=$.nothing").Strings(env)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = Parse("=$.a[").Evaluate(env)
	assert.True(t, errors.Is(err, ErrExpression))
}

func TestEvaluate_Literal(t *testing.T) {
	vals, err := LiteralOf("Country").Evaluate(nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"Country"}, vals)

	vals, err = Value{}.Evaluate(nil)
	require.NoError(t, err)
	assert.Empty(t, vals)
	assert.True(t, Value{}.IsZero())
}
