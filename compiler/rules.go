package compiler

import "wisp/token"

// Precedence levels for the grammar's rules, lowest first. A rule's
// infix operand is parsed at precedence+1 so that same-precedence
// operators associate left-to-right.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// parseFn is a prefix or infix parsing function bound to a Compiler
// method; canAssign tells it whether a trailing `= expr` would be a
// legal assignment at the current precedence.
type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[token.TokenType]parseRule

func init() {
	rules = map[token.TokenType]parseRule{
		token.LPA:          {(*Compiler).grouping, nil, PrecNone},
		token.SUB:          {(*Compiler).unary, (*Compiler).binary, PrecTerm},
		token.ADD:          {nil, (*Compiler).binary, PrecTerm},
		token.DIV:          {nil, (*Compiler).binary, PrecFactor},
		token.MULT:         {nil, (*Compiler).binary, PrecFactor},
		token.BANG:         {(*Compiler).unary, nil, PrecNone},
		token.NOT_EQUAL:    {nil, (*Compiler).binary, PrecEquality},
		token.EQUAL_EQUAL:  {nil, (*Compiler).binary, PrecEquality},
		token.LARGER:       {nil, (*Compiler).binary, PrecComparison},
		token.LARGER_EQUAL: {nil, (*Compiler).binary, PrecComparison},
		token.LESS:         {nil, (*Compiler).binary, PrecComparison},
		token.LESS_EQUAL:   {nil, (*Compiler).binary, PrecComparison},
		token.IDENTIFIER:   {(*Compiler).variable, nil, PrecNone},
		token.STRING:       {(*Compiler).string_, nil, PrecNone},
		token.NUMBER:       {(*Compiler).number, nil, PrecNone},
		token.AND:          {nil, (*Compiler).and_, PrecAnd},
		token.OR:           {nil, (*Compiler).or_, PrecOr},
		token.FALSE:        {(*Compiler).literal, nil, PrecNone},
		token.TRUE:         {(*Compiler).literal, nil, PrecNone},
		token.NIL:          {(*Compiler).literal, nil, PrecNone},
	}
}

func getRule(kind token.TokenType) parseRule {
	if rule, ok := rules[kind]; ok {
		return rule
	}
	return parseRule{precedence: PrecNone}
}
