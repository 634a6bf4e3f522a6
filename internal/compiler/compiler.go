package compiler

import (
	"context"
	"fmt"
)

// Op names one of the compiler's entry points.
type Op string

const (
	OpParse     Op = "parse"
	OpTokenize  Op = "tokenize"
	OpInterpret Op = "interpret"
)

// Ops lists every supported operation.
var Ops = []Op{OpParse, OpTokenize, OpInterpret}

// Compiler is the external toolchain. Parse returns an AST dump whose first
// line is "Program" or an error report; Tokenize and Interpret return text
// that is only ever displayed.
type Compiler interface {
	Parse(ctx context.Context, source string) (string, error)
	Tokenize(ctx context.Context, source string) (string, error)
	Interpret(ctx context.Context, source string) (string, error)
}

// Run calls the operation op on c.
func Run(ctx context.Context, c Compiler, op Op, source string) (string, error) {
	switch op {
	case OpParse:
		return c.Parse(ctx, source)
	case OpTokenize:
		return c.Tokenize(ctx, source)
	case OpInterpret:
		return c.Interpret(ctx, source)
	}
	return "", fmt.Errorf("unknown compiler operation %q", op)
}

// Static answers every call with fixed text. The CLI uses it to feed a
// pre-computed dump through the same code paths as a live compiler.
type Static struct {
	ParseOutput     string
	TokenizeOutput  string
	InterpretOutput string
}

func (s Static) Parse(context.Context, string) (string, error) {
	return s.ParseOutput, nil
}

func (s Static) Tokenize(context.Context, string) (string, error) {
	return s.TokenizeOutput, nil
}

func (s Static) Interpret(context.Context, string) (string, error) {
	return s.InterpretOutput, nil
}
