// Package driver runs the analyses over input files in parallel and turns
// their findings into diagnostics.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"phpflow/internal/ast"
	"phpflow/internal/config"
	"phpflow/internal/diag"
	"phpflow/internal/frontend/phpjson"
	"phpflow/internal/observ"
	"phpflow/internal/source"
	"phpflow/internal/trace"
)

// Options configures Check.
type Options struct {
	Config config.Config
	// Cache is consulted and filled when non-nil.
	Cache    *DiskCache
	Timer    *observ.Timer
	Progress ProgressSink
}

// Result is the outcome of one Check run.
type Result struct {
	Files *source.FileSet
	Bag   *diag.Bag
	// Cached counts files whose diagnostics came from the cache.
	Cached int
}

// input is one file to check. Span is the file diagnostics point at: the
// PHP source when it is available, the dump otherwise.
type input struct {
	path string
	span source.FileID
	dump []byte // nil for .php inputs run through the frontend
}

// Check analyses every path and collects diagnostics. Per-file failures
// become diagnostics; only cancellation aborts the run.
func Check(ctx context.Context, paths []string, opts Options) (*Result, error) {
	cfg := opts.Config
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "check")
	defer span.End("")

	fs := source.NewFileSet()
	inputs, loadBag := load(ctx, fs, paths, opts.Progress)
	span.WithExtra("files", fmt.Sprint(len(inputs)))

	jobs := cfg.Run.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Indices are unique per goroutine, so no lock is needed.
	bags := make([]*diag.Bag, len(inputs))
	cached := make([]bool, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(inputs))))
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bags[i], cached[i] = checkFile(gctx, fs, in, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Files: fs, Bag: diag.NewBag(cfg.Output.MaxDiagnostics)}
	res.Bag.Merge(loadBag)
	for i, b := range bags {
		res.Bag.Merge(b)
		if cached[i] {
			res.Cached++
		}
	}
	res.Bag.Sort()
	res.Bag.Dedup()
	res.Bag.Truncate(cfg.Output.MaxDiagnostics)
	emit(opts.Progress, Event{Stage: StageReport, Status: StatusDone})
	return res, nil
}

// load reads every input into fs before any worker starts; FileSet is not
// safe for concurrent writes.
func load(ctx context.Context, fs *source.FileSet, paths []string, progress ProgressSink) ([]input, *diag.Bag) {
	bag := diag.NewBag(0)
	out := make([]input, 0, len(paths))
	for _, path := range paths {
		emit(progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		in, err := loadOne(fs, path)
		if err != nil {
			id := fs.AddVirtual(path, nil)
			bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()))
			trace.Mark(ctx, trace.ScopeFile, "load.error", path)
			emit(progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		out = append(out, in)
	}
	return out, bag
}

func loadOne(fs *source.FileSet, path string) (input, error) {
	if filepath.Ext(path) != ".json" {
		id, err := fs.Load(path)
		if err != nil {
			return input{}, err
		}
		return input{path: path, span: id}, nil
	}
	dump, err := os.ReadFile(path)
	if err != nil {
		return input{}, err
	}
	if php, ok := sourceFor(path); ok {
		if id, err := fs.Load(php); err == nil {
			return input{path: path, span: id, dump: dump}, nil
		}
	}
	return input{path: path, span: fs.Add(path, dump, source.FileSyntaxDump), dump: dump}, nil
}

// checkFile never fails: decode and analysis errors are diagnostics.
func checkFile(ctx context.Context, fs *source.FileSet, in input, opts Options) (*diag.Bag, bool) {
	cfg := opts.Config
	span, ctx := trace.Start(ctx, trace.ScopeFile, "file:"+in.path)
	defer span.End("")
	start := time.Now()
	bag := diag.NewBag(0)
	file := fs.Get(in.span)

	key, keyErr := cacheKey(cfg, file.Content, in.dump)
	if opts.Cache != nil && keyErr == nil {
		var p Payload
		if ok, err := opts.Cache.Get(key, &p); err == nil && ok {
			fromPayload(&p, in.span, bag)
			span.WithExtra("cache", "hit")
			emit(opts.Progress, finished(in.path, StatusCached, bag, time.Since(start)))
			return bag, true
		}
	}

	emit(opts.Progress, Event{File: in.path, Stage: StageDecode, Status: StatusWorking})
	var t *ast.Tree
	err := pass(ctx, opts.Timer, "decode", func() error {
		var err error
		t, err = parse(ctx, in, cfg.Frontend)
		return err
	})
	if err != nil {
		code := diag.FrnDecode
		var de *phpjson.DecodeError
		if in.dump == nil && !errors.As(err, &de) {
			code = diag.FrnCommand
		}
		bag.Add(diag.NewError(code, source.Span{File: in.span}, err.Error()))
		emit(opts.Progress, Event{File: in.path, Stage: StageDecode, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return bag, false
	}

	emit(opts.Progress, Event{File: in.path, Stage: StageAnalyze, Status: StatusWorking})
	failed := analyzeTree(ctx, t, cfg, opts.Timer, diag.NewDedupReporter(diag.BagReporter{Bag: bag}))

	if opts.Cache != nil && keyErr == nil && !failed {
		// A failed write only costs a recomputation next run.
		_ = opts.Cache.Put(key, toPayload(in.path, bag.Items()))
	}
	status := StatusDone
	if bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, finished(in.path, status, bag, time.Since(start)))
	return bag, false
}

func parse(ctx context.Context, in input, fe config.Frontend) (*ast.Tree, error) {
	if in.dump != nil {
		return phpjson.Decode(bytes.NewReader(in.dump), in.span)
	}
	if len(fe.Command) == 0 {
		return nil, fmt.Errorf("driver: %s: no frontend command configured for PHP sources", in.path)
	}
	return phpjson.Command{Argv: fe.Command}.Parse(ctx, in.path, in.span)
}

// analyzeTree runs every unit of t and reports into r. It returns true when
// a unit could not be analysed.
func analyzeTree(ctx context.Context, t *ast.Tree, cfg config.Config, timer *observ.Timer, r diag.Reporter) bool {
	passes := Passes{Undefined: cfg.Analysis.Undefined, DeadCode: cfg.Analysis.DeadCode}
	failed := false
	for _, u := range Units(t) {
		res, err := AnalyzeUnit(ctx, t, u, passes, timer)
		if err != nil {
			sp := source.Span{File: t.File}
			if !u.Script() {
				sp = t.Span(u.Node)
			}
			diag.ReportError(r, diag.IntAnalysisFailure, sp, fmt.Sprintf("%s: %v", u.Name, err)).Emit()
			failed = true
			continue
		}
		Report(r, t, res, cfg.Analysis)
	}
	return failed
}

// Parse loads path into fs and decodes its syntax tree the way Check does.
func Parse(ctx context.Context, fs *source.FileSet, path string, fe config.Frontend) (*ast.Tree, error) {
	in, err := loadOne(fs, path)
	if err != nil {
		return nil, err
	}
	return parse(ctx, in, fe)
}
