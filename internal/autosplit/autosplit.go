// Package autosplit implements spec §4.14: keeping every function body
// within the host's per-row action budget by trampolining overflow into
// fresh synthetic functions, then cleaning up the indirection it
// introduced.
package autosplit

import (
	"fmt"

	"github.com/mldsl-tools/mldsl/internal/dslast"
)

// NamePrefix names every function this package synthesizes.
const NamePrefix = "__autosplit_row_"

// NameGenerator hands out unique, deterministic autosplit function
// names. Not safe for concurrent use.
type NameGenerator struct {
	counter int
}

func (g *NameGenerator) next() string {
	name := fmt.Sprintf("%s%d", NamePrefix, g.counter)
	g.counter++
	return name
}

// Apply runs all three passes over a macro-expanded program: trampoline
// split every oversized Event/Func/Loop body, collapse single-call
// intermediaries to a fixed point, then promote any user function whose
// entire body collapsed to a single autosplit call.
func Apply(stmts []dslast.Stmt, budget int) []dslast.Stmt {
	gen := &NameGenerator{}
	out, extra := splitProgram(stmts, budget, gen)
	out = append(out, wrapFuncs(extra)...)
	out = collapseFixedPoint(out)
	out = promoteSingleCallWrappers(out)
	return out
}

func wrapFuncs(fns []dslast.Func) []dslast.Stmt {
	out := make([]dslast.Stmt, len(fns))
	for i, f := range fns {
		out[i] = f
	}
	return out
}

func splitProgram(stmts []dslast.Stmt, budget int, gen *NameGenerator) ([]dslast.Stmt, []dslast.Func) {
	var out []dslast.Stmt
	var extra []dslast.Func
	for _, s := range stmts {
		switch v := s.(type) {
		case dslast.Event:
			body, fns := splitBody(v.Body, budget, gen)
			v.Body = body
			out = append(out, v)
			extra = append(extra, fns...)
		case dslast.Func:
			body, fns := splitBody(v.Body, budget, gen)
			v.Body = body
			out = append(out, v)
			extra = append(extra, fns...)
		case dslast.Loop:
			body, fns := splitBody(v.Body, budget, gen)
			v.Body = body
			out = append(out, v)
			extra = append(extra, fns...)
		default:
			out = append(out, s)
		}
	}
	return out, extra
}

// splitBody recursively splits a statement list and every nested
// conditional call body it contains.
func splitBody(body []dslast.Stmt, budget int, gen *NameGenerator) ([]dslast.Stmt, []dslast.Func) {
	var extra []dslast.Func
	fixed := make([]dslast.Stmt, len(body))
	for i, s := range body {
		call, ok := s.(dslast.Call)
		if !ok || call.Body == nil {
			fixed[i] = s
			continue
		}
		if len(call.Body) > budget {
			// A single nested conditional that alone overflows the
			// budget cannot be trampolined without splitting its
			// closing brace across two functions; fall back to a
			// newline-split marker instead (spec §4.14), left for
			// the plan emitter to insert between physical rows.
			call.Body = append(append([]dslast.Stmt{}, call.Body...), newlineMarker())
		} else {
			nested, fns := splitBody(call.Body, budget, gen)
			call.Body = nested
			extra = append(extra, fns...)
		}
		fixed[i] = call
	}

	if len(fixed) <= budget {
		return fixed, extra
	}

	chunks := chunkStmts(fixed, budget)
	names := make([]string, len(chunks))
	for i := 1; i < len(chunks); i++ {
		names[i] = gen.next()
	}
	for i := 0; i < len(chunks)-1; i++ {
		chunks[i] = append(chunks[i], dslast.Call{Name: names[i+1]})
	}
	for i := 1; i < len(chunks); i++ {
		extra = append(extra, dslast.Func{Name: names[i], Body: chunks[i]})
	}
	return chunks[0], extra
}

// newlineMarker is a zero-argument pseudo-call the plan emitter
// recognizes and turns into a BlockNewline row-break entry instead of a
// real action.
func newlineMarker() dslast.Stmt {
	return dslast.Call{Name: NewlineMarkerName}
}

// NewlineMarkerName is the sentinel call name splitBody emits when a
// single nested conditional body overflows the row budget on its own.
const NewlineMarkerName = "__autosplit_newline"

// chunkStmts splits body into runs no longer than budget, reserving one
// trailing slot in every non-final chunk for the trampoline call that
// links it to the next.
func chunkStmts(body []dslast.Stmt, budget int) [][]dslast.Stmt {
	var chunks [][]dslast.Stmt
	i := 0
	for i < len(body) {
		remaining := len(body) - i
		size := budget
		if remaining > budget {
			size = budget - 1
		}
		end := i + size
		if end > len(body) {
			end = len(body)
		}
		chunks = append(chunks, append([]dslast.Stmt{}, body[i:end]...))
		i = end
	}
	return chunks
}

// collapseFixedPoint looks at the bare, unqualified calls standing
// directly in stmts (the top level of the program) and replaces each one
// that targets an autosplit function whose body is a single call with
// that call, repeating until nothing changes. Calls inside event, func
// and loop bodies are not examined, and the inlined call may name any
// function, autosplit or not.
func collapseFixedPoint(stmts []dslast.Stmt) []dslast.Stmt {
	for {
		funcs := indexFuncs(stmts)
		changed := false
		for i, s := range stmts {
			call, ok := s.(dslast.Call)
			if !ok || call.Module != "" || call.Body != nil {
				continue
			}
			target, ok := funcs[call.Name]
			if !ok || !isAutosplitName(target.Name) {
				continue
			}
			if len(target.Body) == 1 {
				if _, isCall := target.Body[0].(dslast.Call); isCall {
					stmts[i] = target.Body[0]
					changed = true
				}
			}
		}
		if !changed {
			return stmts
		}
		stmts = pruneUnreferenced(stmts)
	}
}

func indexFuncs(stmts []dslast.Stmt) map[string]dslast.Func {
	out := map[string]dslast.Func{}
	for _, s := range stmts {
		if f, ok := s.(dslast.Func); ok {
			out[f.Name] = f
		}
	}
	return out
}

func isAutosplitName(name string) bool {
	return len(name) > len(NamePrefix) && name[:len(NamePrefix)] == NamePrefix
}

// pruneUnreferenced drops autosplit funcs no statement calls anymore.
func pruneUnreferenced(stmts []dslast.Stmt) []dslast.Stmt {
	referenced := map[string]bool{}
	var walk func([]dslast.Stmt)
	walk = func(body []dslast.Stmt) {
		for _, s := range body {
			if c, ok := s.(dslast.Call); ok {
				referenced[c.Name] = true
				if c.Body != nil {
					walk(c.Body)
				}
			}
		}
	}
	for _, s := range stmts {
		switch v := s.(type) {
		case dslast.Event:
			walk(v.Body)
		case dslast.Func:
			walk(v.Body)
		case dslast.Loop:
			walk(v.Body)
		}
	}

	var out []dslast.Stmt
	for _, s := range stmts {
		if f, ok := s.(dslast.Func); ok && isAutosplitName(f.Name) && !referenced[f.Name] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// promoteSingleCallWrappers finds a user-defined function whose entire
// body, after collapsing, is a single call into an autosplit-generated
// function, and folds the autosplit body directly into the user
// function so the indirection disappears from the final plan.
func promoteSingleCallWrappers(stmts []dslast.Stmt) []dslast.Stmt {
	funcs := indexFuncs(stmts)
	out := make([]dslast.Stmt, len(stmts))
	copy(out, stmts)

	for i, s := range out {
		f, ok := s.(dslast.Func)
		if !ok || isAutosplitName(f.Name) || len(f.Body) != 1 {
			continue
		}
		call, ok := f.Body[0].(dslast.Call)
		if !ok || call.Module != "" {
			continue
		}
		target, ok := funcs[call.Name]
		if !ok || !isAutosplitName(target.Name) {
			continue
		}
		f.Body = target.Body
		out[i] = f
	}
	return pruneUnreferenced(out)
}
