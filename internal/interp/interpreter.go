package interp

import (
	"io"
	"os"

	"github.com/cwbudde/go-tiny/internal/ast"
	"github.com/cwbudde/go-tiny/internal/builtins"
	"github.com/cwbudde/go-tiny/internal/errors"
)

// Interpreter tree-walks an ast.Program against an Environment (spec §4.4).
type Interpreter struct {
	Env    *Environment
	Source string
	File   string
	Stdout io.Writer
	Stdin  io.Reader

	// callStack records the chain of active user-function calls, oldest
	// first, so a Diagnostic raised from inside nested calls can report
	// where each of them was invoked from.
	callStack errors.StackTrace
}

// New creates an Interpreter with a fresh global environment.
func New(source, file string) *Interpreter {
	return &Interpreter{
		Env:    NewEnvironment(),
		Source: source,
		File:   file,
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
	}
}

// Run evaluates the program's top-level statement in the global frame.
func (in *Interpreter) Run(prog *ast.Program) (Value, *errors.Diagnostic) {
	return in.evalStatement(prog.Body, globalFrame)
}

func (in *Interpreter) newError(kind errors.Kind, node ast.Node, format string, args ...any) *errors.Diagnostic {
	if len(in.callStack) == 0 {
		return errors.New(kind, node.Pos(), in.Source, in.File, format, args...)
	}
	stack := make(errors.StackTrace, len(in.callStack))
	copy(stack, in.callStack)
	return errors.NewWithStack(kind, node.Pos(), in.Source, in.File, stack, format, args...)
}

// evalStatement returns Unit for a statement that produces nothing, or the
// first non-unit value produced by Return/If/While/For/Compound, per spec
// §4.4's control-flow propagation rule.
func (in *Interpreter) evalStatement(stmt ast.Statement, frameID int) (Value, *errors.Diagnostic) {
	switch s := stmt.(type) {
	case *ast.Assign:
		return in.evalAssign(s, frameID)

	case *ast.Compound:
		lv, err := in.evalStatement(s.Left, frameID)
		if err != nil {
			return nil, err
		}
		rv, err := in.evalStatement(s.Right, frameID)
		if err != nil {
			return nil, err
		}
		if !IsUnit(lv) {
			return lv, nil
		}
		return rv, nil

	case *ast.If:
		cond, err := in.evalExpr(s.Cond, frameID)
		if err != nil {
			return nil, err
		}
		b, ok := asBool(cond)
		if !ok {
			return nil, in.newError(errors.TypeErrorKind, s.Cond, "if condition is %s, want Bool", cond.Type())
		}
		if b {
			return in.evalStatement(s.Then, frameID)
		}
		if s.Else != nil {
			return in.evalStatement(s.Else, frameID)
		}
		return Unit{}, nil

	case *ast.While:
		for {
			cond, err := in.evalExpr(s.Cond, frameID)
			if err != nil {
				return nil, err
			}
			b, ok := asBool(cond)
			if !ok {
				return nil, in.newError(errors.TypeErrorKind, s.Cond, "while condition is %s, want Bool", cond.Type())
			}
			if !b {
				return Unit{}, nil
			}
			res, err := in.evalStatement(s.Body, frameID)
			if err != nil {
				return nil, err
			}
			if !IsUnit(res) {
				return res, nil
			}
		}

	case *ast.For:
		if s.Init != nil {
			if _, err := in.evalAssign(s.Init, frameID); err != nil {
				return nil, err
			}
		}
		for {
			if s.Cond != nil {
				cond, err := in.evalExpr(s.Cond, frameID)
				if err != nil {
					return nil, err
				}
				b, ok := asBool(cond)
				if !ok {
					return nil, in.newError(errors.TypeErrorKind, s.Cond, "for condition is %s, want Bool", cond.Type())
				}
				if !b {
					return Unit{}, nil
				}
			}
			res, err := in.evalStatement(s.Body, frameID)
			if err != nil {
				return nil, err
			}
			if !IsUnit(res) {
				return res, nil
			}
			if s.Post != nil {
				if _, err := in.evalAssign(s.Post, frameID); err != nil {
					return nil, err
				}
			}
		}

	case *ast.FuncDecl:
		fn := &Function{Name: s.Name, Params: s.Params, Body: s.Body, DefiningFrame: frameID}
		in.Env.Set(frameID, s.Name, fn)
		return Unit{}, nil

	case *ast.Return:
		v, err := in.evalExpr(s.Value, frameID)
		if err != nil {
			return nil, err
		}
		return v, nil

	case *ast.Call:
		return in.evalCall(s, frameID)

	case *ast.ExprStatement:
		return in.evalExpr(s.Expr, frameID)

	default:
		return nil, in.newError(errors.TypeErrorKind, stmt, "unhandled statement %T", stmt)
	}
}

func (in *Interpreter) evalAssign(a *ast.Assign, frameID int) (Value, *errors.Diagnostic) {
	value, err := in.evalExpr(a.Value, frameID)
	if err != nil {
		return nil, err
	}

	if a.Target.Subscript != nil {
		if err := in.assignSubscript(a.Target.Subscript, value, frameID); err != nil {
			return nil, err
		}
		return Unit{}, nil
	}

	in.Env.Set(frameID, a.Target.Name, value)
	return Unit{}, nil
}

func (in *Interpreter) assignSubscript(sub *ast.Subscript, value Value, frameID int) *errors.Diagnostic {
	container, ok := in.Env.Get(frameID, sub.Name)
	if !ok {
		return in.newError(errors.TypeErrorKind, sub, "%s is not an array", sub.Name)
	}

	arr, ok := container.(*Array)
	if !ok {
		return in.newError(errors.TypeErrorKind, sub, "%s is %s, want Array", sub.Name, container.Type())
	}

	for i, idxExpr := range sub.Indices {
		idxVal, err := in.evalExpr(idxExpr, frameID)
		if err != nil {
			return err
		}
		idx, ok := idxVal.(Int)
		if !ok {
			return in.newError(errors.TypeErrorKind, idxExpr, "index is %s, want Int", idxVal.Type())
		}
		if int(idx) < 0 || int(idx) >= len(arr.Elements) {
			return in.newError(errors.IndexErrorKind, idxExpr, "index %d out of range for array of length %d", idx, len(arr.Elements))
		}
		if i == len(sub.Indices)-1 {
			arr.Elements[idx] = value
			return nil
		}
		next, ok := arr.Elements[idx].(*Array)
		if !ok {
			return in.newError(errors.TypeErrorKind, idxExpr, "element at %d is %s, not an Array", idx, arr.Elements[idx].Type())
		}
		arr = next
	}
	return nil
}

func (in *Interpreter) evalExpr(expr ast.Expression, frameID int) (Value, *errors.Diagnostic) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return Int(e.Value), nil
	case *ast.DoubleLit:
		return Double(e.Value), nil
	case *ast.StrLit:
		return NewStr(e.Value), nil
	case *ast.BoolLit:
		return Bool(e.Value), nil

	case *ast.Var:
		if v, ok := in.Env.Get(frameID, e.Name); ok {
			return v, nil
		}
		// spec §7: a missing variable read is not an error; it silently
		// yields Int(0).
		return Int(0), nil

	case *ast.Subscript:
		return in.evalSubscript(e, frameID)

	case *ast.BinOp:
		return in.evalBinOp(e, frameID)

	case *ast.RelOp:
		return in.evalRelOp(e, frameID)

	case *ast.And:
		lv, err := in.evalExpr(e.Left, frameID)
		if err != nil {
			return nil, err
		}
		lb, ok := asBool(lv)
		if !ok {
			return nil, in.newError(errors.TypeErrorKind, e.Left, "andalso operand is %s, want Bool", lv.Type())
		}
		rv, err := in.evalExpr(e.Right, frameID)
		if err != nil {
			return nil, err
		}
		rb, ok := asBool(rv)
		if !ok {
			return nil, in.newError(errors.TypeErrorKind, e.Right, "andalso operand is %s, want Bool", rv.Type())
		}
		return Bool(lb && rb), nil

	case *ast.Or:
		lv, err := in.evalExpr(e.Left, frameID)
		if err != nil {
			return nil, err
		}
		lb, ok := asBool(lv)
		if !ok {
			return nil, in.newError(errors.TypeErrorKind, e.Left, "orelse operand is %s, want Bool", lv.Type())
		}
		rv, err := in.evalExpr(e.Right, frameID)
		if err != nil {
			return nil, err
		}
		rb, ok := asBool(rv)
		if !ok {
			return nil, in.newError(errors.TypeErrorKind, e.Right, "orelse operand is %s, want Bool", rv.Type())
		}
		return Bool(lb || rb), nil

	case *ast.Xor:
		lv, err := in.evalExpr(e.Left, frameID)
		if err != nil {
			return nil, err
		}
		lb, ok := asBool(lv)
		if !ok {
			return nil, in.newError(errors.TypeErrorKind, e.Left, "xor operand is %s, want Bool", lv.Type())
		}
		rv, err := in.evalExpr(e.Right, frameID)
		if err != nil {
			return nil, err
		}
		rb, ok := asBool(rv)
		if !ok {
			return nil, in.newError(errors.TypeErrorKind, e.Right, "xor operand is %s, want Bool", rv.Type())
		}
		return Bool(lb != rb), nil

	case *ast.Not:
		v, err := in.evalExpr(e.Expr, frameID)
		if err != nil {
			return nil, err
		}
		b, ok := asBool(v)
		if !ok {
			return nil, in.newError(errors.TypeErrorKind, e.Expr, "not operand is %s, want Bool", v.Type())
		}
		return Bool(!b), nil

	case *ast.Neg:
		v, err := in.evalExpr(e.Expr, frameID)
		if err != nil {
			return nil, err
		}
		switch n := v.(type) {
		case Int:
			return -n, nil
		case Double:
			return -n, nil
		default:
			return nil, in.newError(errors.TypeErrorKind, e.Expr, "~ operand is %s, want Int or Double", v.Type())
		}

	case *ast.ArrayInit:
		return in.evalArrayInit(e, frameID)

	case *ast.Call:
		return in.evalCall(e, frameID)

	case *ast.LambdaDecl:
		return &Function{Name: e.Name, Params: e.Params, Body: e.Body, DefiningFrame: frameID}, nil

	default:
		return nil, in.newError(errors.TypeErrorKind, expr, "unhandled expression %T", expr)
	}
}

func (in *Interpreter) evalSubscript(sub *ast.Subscript, frameID int) (Value, *errors.Diagnostic) {
	container, ok := in.Env.Get(frameID, sub.Name)
	if !ok {
		return nil, in.newError(errors.TypeErrorKind, sub, "%s is not an array", sub.Name)
	}

	var cur Value = container
	for _, idxExpr := range sub.Indices {
		arr, ok := cur.(*Array)
		if !ok {
			return nil, in.newError(errors.TypeErrorKind, idxExpr, "%s is %s, not indexable", sub.Name, cur.Type())
		}
		idxVal, err := in.evalExpr(idxExpr, frameID)
		if err != nil {
			return nil, err
		}
		idx, ok := idxVal.(Int)
		if !ok {
			return nil, in.newError(errors.TypeErrorKind, idxExpr, "index is %s, want Int", idxVal.Type())
		}
		if int(idx) < 0 || int(idx) >= len(arr.Elements) {
			return nil, in.newError(errors.IndexErrorKind, idxExpr, "index %d out of range for array of length %d", idx, len(arr.Elements))
		}
		cur = arr.Elements[idx]
	}
	return cur, nil
}

func (in *Interpreter) evalArrayInit(a *ast.ArrayInit, frameID int) (Value, *errors.Diagnostic) {
	sizeVal, err := in.evalExpr(a.Size, frameID)
	if err != nil {
		return nil, err
	}
	size, ok := sizeVal.(Int)
	if !ok {
		return nil, in.newError(errors.TypeErrorKind, a.Size, "array size is %s, want Int", sizeVal.Type())
	}
	if size < 0 {
		return nil, in.newError(errors.IndexErrorKind, a.Size, "negative array size %d", size)
	}

	var init Value
	if a.Init != nil {
		init, err = in.evalExpr(a.Init, frameID)
		if err != nil {
			return nil, err
		}
	}
	return NewArray(int(size), init), nil
}

func (in *Interpreter) evalCall(call *ast.Call, frameID int) (Value, *errors.Diagnostic) {
	args := make([]Value, len(call.Args))
	for i, a := range call.Args {
		v, err := in.evalExpr(a, frameID)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if fn, ok := builtins.Lookup(call.Name); ok {
		result, berr := fn(in.builtinContext(), args)
		if berr != nil {
			return nil, in.newError(errors.TypeErrorKind, call, "%s", berr)
		}
		return result, nil
	}

	callee, ok := in.Env.Get(frameID, call.Name)
	if !ok {
		return nil, in.newError(errors.NameErrorKind, call, "function %q is not declared", call.Name)
	}
	fn, ok := callee.(*Function)
	if !ok {
		return nil, in.newError(errors.NameErrorKind, call, "%q is %s, not a function", call.Name, callee.Type())
	}
	if len(args) != len(fn.Params) {
		return nil, in.newError(errors.ArityErrorKind, call, "%s expects %d argument(s), got %d", call.Name, len(fn.Params), len(args))
	}

	callFrame := in.Env.NewFrame(fn.DefiningFrame)
	for i, p := range fn.Params {
		in.Env.Set(callFrame, p, args[i])
	}
	// A recursive call resolves its own name from within its own frame.
	in.Env.Set(callFrame, fn.Name, fn)

	pos := call.Pos()
	in.callStack = append(in.callStack, errors.NewStackFrame(call.Name, in.File, &pos))
	result, err := in.evalStatement(fn.Body, callFrame)
	in.callStack = in.callStack[:len(in.callStack)-1]
	if err != nil {
		return nil, err
	}
	if IsUnit(result) {
		return Unit{}, nil
	}
	return result, nil
}

// builtinContext adapts the interpreter's I/O streams to builtins.Context.
func (in *Interpreter) builtinContext() builtins.Context {
	return builtins.Context{Stdout: in.Stdout, Stdin: in.Stdin}
}

func (in *Interpreter) evalBinOp(b *ast.BinOp, frameID int) (Value, *errors.Diagnostic) {
	lv, err := in.evalExpr(b.Left, frameID)
	if err != nil {
		return nil, err
	}
	rv, err := in.evalExpr(b.Right, frameID)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case "+", "-", "*", "/":
		return in.arith(b, lv, rv)
	case "div":
		li, lok := lv.(Int)
		ri, rok := rv.(Int)
		if !lok || !rok {
			return nil, in.newError(errors.TypeErrorKind, b, "div requires two Int operands, got %s and %s", lv.Type(), rv.Type())
		}
		if ri == 0 {
			return nil, in.newError(errors.DivideByZeroKind, b, "integer division by zero")
		}
		return Int(int64(li) / int64(ri)), nil
	case "%":
		li, lok := lv.(Int)
		ri, rok := rv.(Int)
		if !lok || !rok {
			return nil, in.newError(errors.TypeErrorKind, b, "%% requires two Int operands, got %s and %s", lv.Type(), rv.Type())
		}
		if ri == 0 {
			return nil, in.newError(errors.DivideByZeroKind, b, "modulo by zero")
		}
		return Int(int64(li) % int64(ri)), nil
	case "&", "|", "^", "shl", "shr":
		li, lok := lv.(Int)
		ri, rok := rv.(Int)
		if !lok || !rok {
			return nil, in.newError(errors.TypeErrorKind, b, "%s requires two Int operands, got %s and %s", b.Op, lv.Type(), rv.Type())
		}
		switch b.Op {
		case "&":
			return Int(int64(li) & int64(ri)), nil
		case "|":
			return Int(int64(li) | int64(ri)), nil
		case "^":
			return Int(int64(li) ^ int64(ri)), nil
		case "shl":
			return Int(int64(li) << uint(ri)), nil
		case "shr":
			return Int(int64(li) >> uint(ri)), nil
		}
	}
	return nil, in.newError(errors.TypeErrorKind, b, "unknown operator %q", b.Op)
}

// arith implements + - * / with Int/Double promotion: + - * over two Ints
// stay Int, while / always yields a Double (true division, unlike div); a
// Double on either side promotes both to Double. Str + Str concatenates (spec §4.4:
// operators remain overloaded for strings the way the host corpus's
// arithmetic layer dispatches on operand type).
func (in *Interpreter) arith(b *ast.BinOp, lv, rv Value) (Value, *errors.Diagnostic) {
	if ls, ok := lv.(Str); ok {
		if rs, ok := rv.(Str); ok && b.Op == "+" {
			return NewStr(string(ls + rs)), nil
		}
	}

	if li, lok := lv.(Int); lok {
		if ri, rok := rv.(Int); rok {
			switch b.Op {
			case "+":
				return li + ri, nil
			case "-":
				return li - ri, nil
			case "*":
				return li * ri, nil
			case "/":
				if ri == 0 {
					return nil, in.newError(errors.DivideByZeroKind, b, "division by zero")
				}
				return Double(float64(li) / float64(ri)), nil
			}
		}
	}

	lf, lok := toFloat(lv)
	rf, rok := toFloat(rv)
	if !lok || !rok {
		return nil, in.newError(errors.TypeErrorKind, b, "%s requires numeric operands, got %s and %s", b.Op, lv.Type(), rv.Type())
	}
	switch b.Op {
	case "+":
		return Double(lf + rf), nil
	case "-":
		return Double(lf - rf), nil
	case "*":
		return Double(lf * rf), nil
	case "/":
		if rf == 0 {
			return nil, in.newError(errors.DivideByZeroKind, b, "division by zero")
		}
		return Double(lf / rf), nil
	}
	return nil, in.newError(errors.TypeErrorKind, b, "unknown operator %q", b.Op)
}

func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Double:
		return float64(n), true
	default:
		return 0, false
	}
}

func (in *Interpreter) evalRelOp(r *ast.RelOp, frameID int) (Value, *errors.Diagnostic) {
	lv, err := in.evalExpr(r.Left, frameID)
	if err != nil {
		return nil, err
	}
	rv, err := in.evalExpr(r.Right, frameID)
	if err != nil {
		return nil, err
	}

	if r.Op == "=" || r.Op == "!=" {
		eq := valuesEqual(lv, rv)
		if r.Op == "!=" {
			eq = !eq
		}
		return Bool(eq), nil
	}

	lf, lok := toFloat(lv)
	rf, rok := toFloat(rv)
	if !lok || !rok {
		return nil, in.newError(errors.TypeErrorKind, r, "%s requires numeric operands, got %s and %s", r.Op, lv.Type(), rv.Type())
	}
	switch r.Op {
	case ">":
		return Bool(lf > rf), nil
	case "<":
		return Bool(lf < rf), nil
	case ">=":
		return Bool(lf >= rf), nil
	case "<=":
		return Bool(lf <= rf), nil
	}
	return nil, in.newError(errors.TypeErrorKind, r, "unknown relational operator %q", r.Op)
}

func valuesEqual(a, b Value) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	switch av := a.(type) {
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	default:
		return false
	}
}
