// Package mldsl wires the extractor, API normalizer, and DSL compiler
// into the three entry points the cmd/ binaries call: Extract,
// NormalizeAPI, and Compile.
package mldsl

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/mldsl-tools/mldsl/internal/apinorm"
	"github.com/mldsl-tools/mldsl/internal/apivalidate"
	"github.com/mldsl-tools/mldsl/internal/autosplit"
	"github.com/mldsl-tools/mldsl/internal/coerce"
	"github.com/mldsl-tools/mldsl/internal/dslast"
	"github.com/mldsl-tools/mldsl/internal/dslparser"
	"github.com/mldsl-tools/mldsl/internal/dumpreader"
	"github.com/mldsl-tools/mldsl/internal/extractor"
	"github.com/mldsl-tools/mldsl/internal/macro"
	"github.com/mldsl-tools/mldsl/internal/mconfig"
	"github.com/mldsl-tools/mldsl/internal/mlerr"
	"github.com/mldsl-tools/mldsl/internal/model"
	"github.com/mldsl-tools/mldsl/internal/planemit"
	"github.com/mldsl-tools/mldsl/internal/resolve"
	"github.com/mldsl-tools/mldsl/internal/router"
)

// Logger is the process-wide structured logger every stage reports
// through, in the teacher's hclog idiom.
var Logger = hclog.New(&hclog.LoggerOptions{Name: "mldsl", Level: hclog.Info})

// Extract reads a GUI dump file and returns its raw catalog, using the
// cbor-cached snapshot when the dump's content hash hasn't changed.
func Extract(dumpPath string) ([]model.ActionRecord, error) {
	runID := uuid.NewString()
	log := Logger.With("run_id", runID, "stage", "extract")

	raw, err := os.ReadFile(dumpPath)
	if os.IsNotExist(err) {
		return nil, mlerr.Wrap(mlerr.KindMissingInput, "dump file not found: "+dumpPath, err)
	}
	if err != nil {
		return nil, mlerr.Wrap(mlerr.KindMalformedDump, "reading dump file", err)
	}

	if cached, ok := extractor.LoadCached(dumpPath, raw); ok {
		log.Debug("loaded cached extraction", "records", len(cached))
		return cached, nil
	}

	raws := dumpreader.Parse(raw)
	records := extractor.FromRecords(raws)
	if err := extractor.StoreCache(dumpPath, raw, records); err != nil {
		log.Warn("failed to write extraction cache", "error", err)
	}
	log.Info("extracted action records", "count", len(records))
	return records, nil
}

// NormalizeAPI turns a raw catalog into a validated ApiMap.
func NormalizeAPI(records []model.ActionRecord) (model.ApiMap, error) {
	api := apinorm.Build(records)
	if err := apivalidate.Validate(api); err != nil {
		return nil, err
	}
	if err := apivalidate.ValidateSchema(api); err != nil {
		return nil, err
	}
	return api, nil
}

// Compile turns DSL source into a named plan, given a validated ApiMap
// and the threaded environment Config.
func Compile(source string, api model.ApiMap, cfg mconfig.Config) (model.Plan, error) {
	log := Logger.With("run_id", uuid.NewString(), "stage", "compile")

	program, err := dslparser.Parse(source)
	if err != nil {
		return nil, err
	}

	vtable, err := macro.CollectVFuncs(program.Statements)
	if err != nil {
		return nil, err
	}
	expanded, err := macro.ExpandProgram(program.Statements, vtable)
	if err != nil {
		return nil, err
	}

	split := autosplit.Apply(expanded, cfg.EffectiveRowBudget())
	log.Debug("autosplit complete", "statements", len(split))

	ctx := &compileCtx{api: api, cfg: cfg, coercer: coerce.New(), log: log}
	return compileProgram(split, ctx)
}

type compileCtx struct {
	api     model.ApiMap
	cfg     mconfig.Config
	coercer *coerce.Coercer
	log     hclog.Logger
}

func compileProgram(stmts []dslast.Stmt, ctx *compileCtx) (model.Plan, error) {
	plan := model.Plan{}
	for _, s := range stmts {
		switch v := s.(type) {
		case dslast.Event:
			entries, err := compileStmts(v.Body, ctx)
			if err != nil {
				return nil, err
			}
			plan[v.Name] = model.PlanGroup{Kind: model.PlanKindEvent, Entries: entries}
		case dslast.Func:
			entries, err := compileStmts(v.Body, ctx)
			if err != nil {
				return nil, err
			}
			plan[v.Name] = model.PlanGroup{Kind: model.PlanKindFunc, Entries: entries}
		case dslast.Loop:
			entries, err := compileStmts(v.Body, ctx)
			if err != nil {
				return nil, err
			}
			plan[v.Name] = model.PlanGroup{Kind: model.PlanKindLoop, Ticks: v.Ticks, Entries: entries}
		default:
			return nil, mlerr.Newf(mlerr.KindUnresolvedLine, "unexpected top-level statement %T", s)
		}
	}
	return plan, nil
}

func compileStmts(stmts []dslast.Stmt, ctx *compileCtx) ([]model.PlanEntry, error) {
	var out []model.PlanEntry
	for _, s := range stmts {
		entries, err := compileStmt(s, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

func compileStmt(s dslast.Stmt, ctx *compileCtx) ([]model.PlanEntry, error) {
	switch v := s.(type) {
	case dslast.Call:
		if v.Name == autosplit.NewlineMarkerName {
			return []model.PlanEntry{{Block: model.BlockNewline, Args: model.NoArgs}}, nil
		}
		return compileCall(v, ctx)
	case dslast.Assign:
		return compileAssign(v.Name, v.Op, v.RHS, ctx)
	default:
		return nil, mlerr.Newf(mlerr.KindUnresolvedLine, "unexpected statement inside a body: %T", s)
	}
}

func compileCall(call dslast.Call, ctx *compileCtx) ([]model.PlanEntry, error) {
	resolved, err := resolve.Call(ctx.api, call.Module, call.Scope, call.Name)
	if err != nil {
		if ctx.cfg.WarnUnknown {
			fmt.Fprintln(os.Stderr, "warning:", err)
		}
		return nil, err
	}

	args, hoists, err := ctx.coercer.Coerce(resolved.Func, resolved.Module, call.Args)
	if err != nil {
		return nil, err
	}

	var out []model.PlanEntry
	for _, h := range hoists {
		hoisted, err := compileAssign(h.TempName, "=", h.RHS, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, hoisted...)
	}
	out = append(out, planemit.Entry(resolved.Module, resolved.Func, args, call.Negated))

	if call.Body != nil {
		nested, err := compileStmts(call.Body, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}

// compileAssign lowers a "name op= rhs" assignment (or a hoisted
// temp-variable binding, which is always plain "=") into its canonical
// var.* call, matching the synthesized args to whichever param carries
// the VARIABLE mode versus the operator's right-hand value.
func compileAssign(name, op string, rhs dslast.Expr, ctx *compileCtx) ([]model.PlanEntry, error) {
	key := op
	if key != "=" {
		key = strings.TrimSuffix(key, "=") // "+=" -> "+", "/=" -> "/", etc.
	}
	fnName, ok := router.VarOperator[key]
	if !ok {
		return nil, mlerr.Newf(mlerr.KindUnresolvedLine, "unknown assignment operator %q", op)
	}
	resolved, err := resolve.Call(ctx.api, "var", "", fnName)
	if err != nil {
		return nil, err
	}

	args := make([]dslast.NamedArg, 0, len(resolved.Func.Params))
	for _, p := range resolved.Func.Params {
		if p.Mode == model.ModeVariable {
			args = append(args, dslast.NamedArg{Key: p.Name, Value: dslast.Ident{Name: name}})
		} else {
			args = append(args, dslast.NamedArg{Key: p.Name, Value: rhs})
		}
	}

	coerced, hoists, err := ctx.coercer.Coerce(resolved.Func, resolved.Module, args)
	if err != nil {
		return nil, err
	}

	var out []model.PlanEntry
	for _, h := range hoists {
		sub, err := compileAssign(h.TempName, "=", h.RHS, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	out = append(out, planemit.Entry(resolved.Module, resolved.Func, coerced, false))
	return out, nil
}
