// Package driver runs the whole pipeline for source files: read, parse,
// lower, and write the IR next to the input or into an output directory.
package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/sysyc/sysyc/pkg/ast"
	"github.com/sysyc/sysyc/pkg/config"
	"github.com/sysyc/sysyc/pkg/lower"
	"github.com/sysyc/sysyc/pkg/parser"
)

// Options control one driver run.
type Options struct {
	config.Config

	// Output overrides the output path. Only valid for a single input.
	Output string

	// NoWrite skips writing output files; results are still returned.
	NoWrite bool
}

// Result is what one compiled file produced.
type Result struct {
	Input  string
	Output string // empty when nothing was written
	AST    []byte // indented dump, only when DumpAST is set
	IR     []byte
}

// Compile parses and lowers text. The IR is built in memory and returned
// only if every stage succeeds.
func Compile(ctx context.Context, name string, text []byte) (cu *ast.CompUnit, ir []byte, err error) {
	cu, err = parser.Parse(string(text))
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse %s", name)
	}

	tlog.SpanFromContext(ctx).Printw("parsed", "name", name, "defs", len(cu.Items))

	var buf bytes.Buffer
	if err := lower.Lower(ctx, cu, &buf); err != nil {
		return nil, nil, errors.Wrap(err, "lower %s", name)
	}

	tlog.SpanFromContext(ctx).Printw("lowered", "name", name, "ir_size", buf.Len())

	return cu, buf.Bytes(), nil
}

// CompileFile compiles one file. The output file is created only after
// the whole compilation succeeded, so a failure leaves no partial output.
func CompileFile(ctx context.Context, name string, opts Options) (res *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile file", "file", name)
	defer tr.Finish("err", &err)

	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tr.Printw("read file", "size", len(text), "name", name)

	cu, ir, err := Compile(ctx, name, text)
	if err != nil {
		return nil, err
	}

	res = &Result{Input: name, IR: ir}

	if opts.DumpAST {
		var buf bytes.Buffer
		ast.NewPrinter(&buf).PrintCompUnit(cu)
		res.AST = buf.Bytes()
	}

	if opts.NoWrite {
		return res, nil
	}

	out := opts.Output
	if out == "" {
		out = opts.OutputPath(name)
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create output dir")
		}
	}

	if err := os.WriteFile(out, ir, 0o644); err != nil {
		return nil, errors.Wrap(err, "write output")
	}

	tr.Printw("wrote output", "file", out, "size", len(ir))

	res.Output = out

	return res, nil
}

// CompileFiles compiles names concurrently, at most opts.Jobs at a time,
// each with its own lowering session. Results are in input order. The
// first failure cancels the files not yet started and is returned.
func CompileFiles(ctx context.Context, names []string, opts Options) ([]*Result, error) {
	if opts.Output != "" && len(names) > 1 {
		return nil, errors.New("output path given for %d input files", len(names))
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	results := make([]*Result, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, name := range names {
		i, name := i, name

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := CompileFile(gctx, name, opts)
			if err != nil {
				return err
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
