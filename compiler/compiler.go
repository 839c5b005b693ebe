// Package compiler implements wisp's single-pass Pratt compiler: it
// drives a scanner.Scanner token by token and emits bytecode directly
// into a bytecode.Chunk, with no intermediate syntax tree.
package compiler

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"wisp/bytecode"
	"wisp/scanner"
	"wisp/token"
	"wisp/value"
)

const maxLocals = 256

// local tracks a compile-time local variable's stack slot (the slot is
// simply its index in this slice once the scope it was declared in is
// active) and whether its initializer has finished running yet.
type local struct {
	name        string
	depth       int
	initialized bool
}

// Compiler parses a token stream and emits bytecode for it. It holds a
// locals stack and scope depth to resolve variable names at compile
// time, and accumulates parse/scan errors with panic-mode recovery so a
// single `Compile` call can report every error in a source file.
type Compiler struct {
	scanner *scanner.Scanner
	writer  *bytecode.Writer

	previous token.Token
	current  token.Token

	locals     []local
	scopeDepth int

	errs      *multierror.Error
	panicMode bool
}

// Compile scans and compiles source into a Chunk. On success it returns
// a Chunk ready to hand to the VM. On failure it returns every
// accumulated parse/scan error via a *multierror.Error and no Chunk.
func Compile(source string) (*bytecode.Chunk, error) {
	chunk := bytecode.NewChunk()
	c := &Compiler{
		scanner: scanner.New(source),
		writer:  bytecode.NewWriter(chunk),
	}

	c.advance()
	for !c.check(token.EOF) {
		c.declaration()
	}
	c.endCompiler()

	if err := c.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return chunk, nil
}

/* token stream helpers */

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		tok, err := c.scanner.Next()
		if err == nil {
			c.current = tok
			return
		}
		c.errs = multierror.Append(c.errs, err)
	}
}

func (c *Compiler) check(kind token.TokenType) bool {
	return c.current.TokenType == kind
}

func (c *Compiler) match(kind token.TokenType) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(kind token.TokenType, msg string) {
	if c.check(kind) {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

/* error handling */

func (c *Compiler) errorAt(tok token.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.errs = multierror.Append(c.errs, &ParseError{Msg: msg, Lexeme: tok.Lexeme, Line: tok.Line})
}

func (c *Compiler) errorAtCurrent(msg string) { c.errorAt(c.current, msg) }
func (c *Compiler) errorAtPrevious(msg string) { c.errorAt(c.previous, msg) }

func (c *Compiler) synchronize() {
	c.panicMode = false
	for !c.check(token.EOF) {
		if c.previous.TokenType == token.SEMICOLON {
			return
		}
		switch c.current.TokenType {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}

/* declarations and statements */

func (c *Compiler) declaration() {
	if c.match(token.VAR) {
		c.varDeclaration()
	} else {
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) varDeclaration() {
	global, isGlobal := c.parseVariable("Expect variable name.")

	if c.match(token.ASSIGN) {
		c.expression()
	} else {
		c.writer.WriteOp(bytecode.OpNil, c.previous.Line)
	}
	c.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	c.defineVariable(global, isGlobal)
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.LCUR):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(token.RCUR) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RCUR, "Expect '}' after block.")
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after value.")
	c.writer.WriteOp(bytecode.OpPrint, c.previous.Line)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.writer.WriteOp(bytecode.OpPop, c.previous.Line)
}

func (c *Compiler) ifStatement() {
	c.consume(token.LPA, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RPA, "Expect ')' after condition.")

	thenJump := c.writer.EmitJump(bytecode.OpJumpIfFalse, c.previous.Line)
	c.writer.WriteOp(bytecode.OpPop, c.previous.Line)
	c.statement()

	elseJump := c.writer.EmitJump(bytecode.OpJump, c.previous.Line)
	c.patchJump(thenJump)
	c.writer.WriteOp(bytecode.OpPop, c.previous.Line)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := c.writer.Len()
	c.consume(token.LPA, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RPA, "Expect ')' after condition.")

	exitJump := c.writer.EmitJump(bytecode.OpJumpIfFalse, c.previous.Line)
	c.writer.WriteOp(bytecode.OpPop, c.previous.Line)
	c.statement()

	if err := c.writer.EmitLoop(loopStart, c.previous.Line); err != nil {
		c.errorAtPrevious(err.Error())
	}

	c.patchJump(exitJump)
	c.writer.WriteOp(bytecode.OpPop, c.previous.Line)
}

func (c *Compiler) patchJump(offset int) {
	if err := c.writer.PatchJump(offset); err != nil {
		c.errorAtPrevious(err.Error())
	}
}

/* variable resolution */

func (c *Compiler) parseVariable(msg string) (global byte, isGlobal bool) {
	c.consume(token.IDENTIFIER, msg)
	name := c.previous
	c.declareVariable(name)
	if c.scopeDepth > 0 {
		return 0, false
	}
	idx, err := c.identifierConstant(name)
	if err != nil {
		c.errorAtPrevious(err.Error())
		return 0, false
	}
	return idx, true
}

func (c *Compiler) identifierConstant(name token.Token) (byte, error) {
	idx, ok := c.writer.Chunk().AddConstant(value.String(name.Lexeme))
	if !ok {
		return 0, fmt.Errorf("too many constants in one chunk")
	}
	return idx, nil
}

func (c *Compiler) declareVariable(name token.Token) {
	if c.scopeDepth == 0 {
		return
	}
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth < c.scopeDepth {
			break
		}
		if l.name == name.Lexeme {
			c.errorAtPrevious("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) addLocal(name token.Token) {
	if len(c.locals) >= maxLocals {
		c.errorAtPrevious("Too many local variables in one scope.")
		return
	}
	c.locals = append(c.locals, local{name: name.Lexeme, depth: c.scopeDepth, initialized: false})
}

func (c *Compiler) defineVariable(global byte, isGlobal bool) {
	if !isGlobal {
		c.markInitialized()
		return
	}
	c.writer.WriteOpByte(bytecode.OpDefineGlobal, global, c.previous.Line)
}

func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 || len(c.locals) == 0 {
		return
	}
	c.locals[len(c.locals)-1].initialized = true
}

// resolveLocal searches the locals stack innermost-first. found is
// false when name is not a local (the caller should treat it as
// global); uninitialized is true when name resolved to a local whose
// own initializer is still running (`var a = a;`).
func (c *Compiler) resolveLocal(name string) (slot int, found, uninitialized bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return i, true, !c.locals[i].initialized
		}
	}
	return -1, false, false
}

func (c *Compiler) beginScope() { c.scopeDepth++ }

func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.writer.WriteOp(bytecode.OpPop, c.previous.Line)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

/* expressions */

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefixRule := getRule(c.previous.TokenType).prefix
	if prefixRule == nil {
		c.errorAtPrevious("Expected expression.")
		return
	}
	canAssign := prec <= PrecAssignment
	prefixRule(c, canAssign)

	for prec <= getRule(c.current.TokenType).precedence {
		c.advance()
		infixRule := getRule(c.previous.TokenType).infix
		if infixRule == nil {
			c.errorAtPrevious("Invalid syntax.")
			return
		}
		infixRule(c, canAssign)
	}

	if canAssign && c.match(token.ASSIGN) {
		c.errorAtPrevious("Invalid assignment target.")
	}
}

func (c *Compiler) number(_ bool) {
	n, _ := c.previous.Literal.(float64)
	c.emitConstant(value.Number(n))
}

func (c *Compiler) string_(_ bool) {
	s, _ := c.previous.Literal.(string)
	c.emitConstant(value.String(s))
}

func (c *Compiler) literal(_ bool) {
	switch c.previous.TokenType {
	case token.FALSE:
		c.writer.WriteOp(bytecode.OpFalse, c.previous.Line)
	case token.TRUE:
		c.writer.WriteOp(bytecode.OpTrue, c.previous.Line)
	case token.NIL:
		c.writer.WriteOp(bytecode.OpNil, c.previous.Line)
	}
}

func (c *Compiler) grouping(_ bool) {
	c.expression()
	c.consume(token.RPA, "Expect ')' after expression.")
}

func (c *Compiler) unary(_ bool) {
	opType := c.previous.TokenType
	line := c.previous.Line
	c.parsePrecedence(PrecUnary)
	switch opType {
	case token.SUB:
		c.writer.WriteOp(bytecode.OpNegate, line)
	case token.BANG:
		c.writer.WriteOp(bytecode.OpNot, line)
	}
}

func (c *Compiler) binary(_ bool) {
	opType := c.previous.TokenType
	rule := getRule(opType)
	line := c.previous.Line
	c.parsePrecedence(rule.precedence + 1)

	switch opType {
	case token.ADD:
		c.writer.WriteOp(bytecode.OpAdd, line)
	case token.SUB:
		c.writer.WriteOp(bytecode.OpSubtract, line)
	case token.MULT:
		c.writer.WriteOp(bytecode.OpMultiply, line)
	case token.DIV:
		c.writer.WriteOp(bytecode.OpDivide, line)
	case token.EQUAL_EQUAL:
		c.writer.WriteOp(bytecode.OpEqual, line)
	case token.NOT_EQUAL:
		c.writer.WriteOp(bytecode.OpEqual, line)
		c.writer.WriteOp(bytecode.OpNot, line)
	case token.LARGER:
		c.writer.WriteOp(bytecode.OpGreater, line)
	case token.LARGER_EQUAL:
		c.writer.WriteOp(bytecode.OpLess, line)
		c.writer.WriteOp(bytecode.OpNot, line)
	case token.LESS:
		c.writer.WriteOp(bytecode.OpLess, line)
	case token.LESS_EQUAL:
		c.writer.WriteOp(bytecode.OpGreater, line)
		c.writer.WriteOp(bytecode.OpNot, line)
	}
}

func (c *Compiler) and_(_ bool) {
	line := c.previous.Line
	endJump := c.writer.EmitJump(bytecode.OpJumpIfFalse, line)
	c.writer.WriteOp(bytecode.OpPop, line)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or_(_ bool) {
	line := c.previous.Line
	elseJump := c.writer.EmitJump(bytecode.OpJumpIfFalse, line)
	endJump := c.writer.EmitJump(bytecode.OpJump, line)
	c.patchJump(elseJump)
	c.writer.WriteOp(bytecode.OpPop, line)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	slot, found, uninitialized := c.resolveLocal(name.Lexeme)

	var arg byte
	var getOp, setOp bytecode.OpCode
	if found {
		if uninitialized {
			c.errorAtPrevious(fmt.Sprintf("Use of uninitialized local variable %s", name.Lexeme))
		}
		arg = byte(slot)
		getOp, setOp = bytecode.OpGetLocal, bytecode.OpSetLocal
	} else {
		idx, err := c.identifierConstant(name)
		if err != nil {
			c.errorAtPrevious(err.Error())
			return
		}
		arg = idx
		getOp, setOp = bytecode.OpGetGlobal, bytecode.OpSetGlobal
	}

	if canAssign && c.match(token.ASSIGN) {
		c.expression()
		c.writer.WriteOpByte(setOp, arg, name.Line)
	} else {
		c.writer.WriteOpByte(getOp, arg, name.Line)
	}
}

func (c *Compiler) emitConstant(v value.Value) {
	if _, err := c.writer.WriteConstant(bytecode.OpConstant, v, c.previous.Line); err != nil {
		c.errorAtPrevious(err.Error())
	}
}

func (c *Compiler) endCompiler() {
	c.writer.WriteOp(bytecode.OpReturn, c.previous.Line)
}
