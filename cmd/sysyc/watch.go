package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/sysyc/sysyc/pkg/driver"
)

// doWatch compiles names once, then recompiles each file whenever it is
// written, until ctx is done. Compile errors are reported and watching
// continues.
func doWatch(ctx context.Context, names []string, opts driver.Options, out, errOut io.Writer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	// Editors often replace files instead of writing them, so watch the
	// directories and match events by absolute path.
	files := make(map[string]string, len(names))
	dirs := make(map[string]struct{})

	for _, name := range names {
		abs, err := filepath.Abs(name)
		if err != nil {
			return errors.Wrap(err, "abs path %s", name)
		}

		files[abs] = name
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			fmt.Fprintf(errOut, "sysyc: watch %s: %v\n", dir, err)
			return errors.Wrap(err, "watch %s", dir)
		}
	}

	_ = compileAll(ctx, names, opts, out, errOut)

	fmt.Fprintf(errOut, "sysyc: watching %d file(s)\n", len(names))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			name, ok := files[ev.Name]
			if !ok || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			tlog.V("watch").Printw("changed", "file", name, "op", ev.Op.String())

			recompile(ctx, name, opts, out, errOut)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			fmt.Fprintf(errOut, "sysyc: watch: %v\n", err)
		}
	}
}

func recompile(ctx context.Context, name string, opts driver.Options, out, errOut io.Writer) {
	res, err := driver.CompileFile(ctx, name, opts)
	if err != nil {
		fmt.Fprintf(errOut, "sysyc: %v\n", err)
		return
	}

	printResult(res, opts, out)

	fmt.Fprintf(errOut, "sysyc: wrote %s\n", res.Output)
}
