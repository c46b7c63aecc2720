// Package macro implements spec §4.15: vfunc textual/AST substitution
// and the multiselect expansion, both resolved before the resolver ever
// sees a call.
package macro

import (
	"github.com/mldsl-tools/mldsl/internal/dslast"
	"github.com/mldsl-tools/mldsl/internal/mlerr"
)

// VFuncTable is the set of defined vfunc macros, keyed by name.
type VFuncTable map[string]dslast.VFuncDef

// CollectVFuncs walks top-level statements, pulling out vfunc
// definitions and rejecting a name conflict with a real `func`.
func CollectVFuncs(stmts []dslast.Stmt) (VFuncTable, error) {
	table := VFuncTable{}
	funcNames := map[string]bool{}
	for _, s := range stmts {
		switch v := s.(type) {
		case dslast.Func:
			funcNames[v.Name] = true
		case dslast.VFuncDef:
			table[v.Name] = v
		}
	}
	for name := range table {
		if funcNames[name] {
			return nil, mlerr.Newf(mlerr.KindMacroError, "%q is defined as both func and vfunc", name)
		}
	}
	return table, nil
}

// ExpandProgram replaces every call to a vfunc macro (a bare,
// unqualified call whose name matches a VFuncDef) with its substituted
// body, recursively, and drops the vfunc definitions from the output
// statement list.
func ExpandProgram(stmts []dslast.Stmt, table VFuncTable) ([]dslast.Stmt, error) {
	var out []dslast.Stmt
	for _, s := range stmts {
		switch v := s.(type) {
		case dslast.VFuncDef:
			continue
		case dslast.Event:
			body, err := expandBody(v.Body, table, nil)
			if err != nil {
				return nil, err
			}
			v.Body = body
			out = append(out, v)
		case dslast.Func:
			body, err := expandBody(v.Body, table, nil)
			if err != nil {
				return nil, err
			}
			v.Body = body
			out = append(out, v)
		case dslast.Loop:
			body, err := expandBody(v.Body, table, nil)
			if err != nil {
				return nil, err
			}
			v.Body = body
			out = append(out, v)
		default:
			out = append(out, s)
		}
	}
	return out, nil
}

func expandBody(stmts []dslast.Stmt, table VFuncTable, activeStack []string) ([]dslast.Stmt, error) {
	var out []dslast.Stmt
	for _, s := range stmts {
		if ms, ok := s.(dslast.MultiSelect); ok {
			expanded, err := ExpandMultiSelect(ms)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
			continue
		}
		call, isCall := s.(dslast.Call)
		if isCall && call.Module == "" && call.Scope == "" {
			if def, ok := table[call.Name]; ok {
				expanded, err := expandCall(def, call, table, activeStack)
				if err != nil {
					return nil, err
				}
				out = append(out, expanded...)
				continue
			}
		}
		if c, ok := s.(dslast.Call); ok && c.Body != nil {
			body, err := expandBody(c.Body, table, activeStack)
			if err != nil {
				return nil, err
			}
			c.Body = body
			out = append(out, c)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func expandCall(def dslast.VFuncDef, call dslast.Call, table VFuncTable, activeStack []string) ([]dslast.Stmt, error) {
	for _, name := range activeStack {
		if name == def.Name {
			return nil, mlerr.Newf(mlerr.KindMacroError, "recursion cycle in vfunc %q", def.Name).AtLine(call.Pos_.Line, call.Pos_.Column)
		}
	}

	bindings := map[string]dslast.Expr{}
	named := map[string]dslast.Expr{}
	for _, a := range call.Args {
		named[a.Key] = a.Value
	}

	validNames := map[string]bool{}
	for _, p := range def.Params {
		validNames[p.Name] = true
	}
	for key := range named {
		if !validNames[key] {
			return nil, mlerr.Newf(mlerr.KindMacroError, "unknown argument %q for vfunc %q", key, def.Name).AtLine(call.Pos_.Line, call.Pos_.Column)
		}
	}

	positional := call.Args
	for i, p := range def.Params {
		if v, ok := named[p.Name]; ok {
			bindings[p.Name] = v
			continue
		}
		if i < len(positional) && positional[i].Key == "" {
			bindings[p.Name] = positional[i].Value
			continue
		}
		if p.HasDefault {
			bindings[p.Name] = dslast.Ident{Name: p.Default, Pos_: call.Pos_}
			continue
		}
		return nil, mlerr.Newf(mlerr.KindMacroError, "missing required argument %q for vfunc %q", p.Name, def.Name).AtLine(call.Pos_.Line, call.Pos_.Column)
	}

	substituted := substituteStmts(def.Body, bindings)
	return expandBody(substituted, table, append(append([]string{}, activeStack...), def.Name))
}

// substituteStmts walks a vfunc body, replacing bare Ident references
// whose name matches a bound parameter. String literals are left
// untouched: substitution never reaches into quoted text.
func substituteStmts(stmts []dslast.Stmt, bindings map[string]dslast.Expr) []dslast.Stmt {
	out := make([]dslast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = substituteStmt(s, bindings)
	}
	return out
}

func substituteStmt(s dslast.Stmt, bindings map[string]dslast.Expr) dslast.Stmt {
	switch v := s.(type) {
	case dslast.Call:
		v.Args = substituteArgs(v.Args, bindings)
		if v.Body != nil {
			v.Body = substituteStmts(v.Body, bindings)
		}
		return v
	case dslast.Assign:
		v.RHS = substituteExpr(v.RHS, bindings)
		return v
	default:
		return s
	}
}

func substituteArgs(args []dslast.NamedArg, bindings map[string]dslast.Expr) []dslast.NamedArg {
	out := make([]dslast.NamedArg, len(args))
	for i, a := range args {
		a.Value = substituteExpr(a.Value, bindings)
		out[i] = a
	}
	return out
}

func substituteExpr(e dslast.Expr, bindings map[string]dslast.Expr) dslast.Expr {
	switch v := e.(type) {
	case dslast.Ident:
		if repl, ok := bindings[v.Name]; ok {
			return repl
		}
		return v
	case dslast.StringLit:
		return v // substitution never reaches inside string literals
	case dslast.BinaryExpr:
		v.Left = substituteExpr(v.Left, bindings)
		v.Right = substituteExpr(v.Right, bindings)
		return v
	case dslast.UnaryExpr:
		v.Operand = substituteExpr(v.Operand, bindings)
		return v
	case dslast.CallLit:
		v.Positional = append([]dslast.Expr(nil), v.Positional...)
		v.Named = append([]dslast.NamedArg(nil), v.Named...)
		for i, pos := range v.Positional {
			v.Positional[i] = substituteExpr(pos, bindings)
		}
		for i, n := range v.Named {
			v.Named[i].Value = substituteExpr(n.Value, bindings)
		}
		return v
	default:
		return e
	}
}
