package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"tlog.app/go/tlog"

	"github.com/sysyc/sysyc/pkg/ast"
	"github.com/sysyc/sysyc/pkg/config"
	"github.com/sysyc/sysyc/pkg/driver"
	"github.com/sysyc/sysyc/pkg/parser"
)

var version = "0.1.0"

// Debug flags for dumping intermediate representations
var (
	dParse bool
	dKoopa bool
	dAsm   bool
	dRISCV bool
)

// Output modes, named after the course test harness
var (
	koopaMode bool
	riscvMode bool
)

var (
	outputPath string
	jobs       int
	configPath string
	logFilter  string
	watchMode  bool
)

// debugFlagInfo holds metadata for a debug flag
type debugFlagInfo struct {
	flag *bool
	desc string
}

// debugFlags maps flag names to descriptions for unimplemented warnings.
// dparse and dkoopa are handled separately as they're implemented.
var debugFlags = map[string]debugFlagInfo{
	"dasm":   {&dAsm, "dump assembly"},
	"driscv": {&dRISCV, "dump RISC-V"},
	"riscv":  {&riscvMode, "emit RISC-V assembly"},
}

// ErrNotImplemented indicates a feature is not yet implemented
var ErrNotImplemented = errors.New("not yet implemented")

// checkDebugFlags checks if any unimplemented debug flags are set and returns an error
func checkDebugFlags(w io.Writer) error {
	for name, info := range debugFlags {
		if *info.flag {
			fmt.Fprintf(w, "sysyc: warning: -%s (%s) is not yet implemented\n", name, info.desc)
			return ErrNotImplemented
		}
	}
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Course-style single-dash flags (-koopa, -dparse) become double-dash for pflag
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// singleDashFlags lists long flags that are also accepted with one dash
var singleDashFlags = []string{"koopa", "riscv", "dparse", "dkoopa", "dasm", "driscv"}

// normalizeFlags converts single-dash long flags like -koopa to --koopa
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		for _, flagName := range singleDashFlags {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
		if result[i] == "" {
			result[i] = arg
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sysyc [flags] file...",
		Short: "sysyc lowers SysY source to Koopa IR",
		Long: `sysyc is the middle-end of a SysY compiler. It parses SysY
source files and lowers every function to textual Koopa IR,
one .koopa file per input.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check unimplemented debug flags first
			if err := checkDebugFlags(errOut); err != nil {
				return err
			}

			if len(args) == 0 {
				cmd.Help()
				return nil
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				fmt.Fprintf(errOut, "sysyc: %v\n", err)
				return err
			}

			setupLogging(errOut, cfg.Log)
			ctx := tlog.ContextWithSpan(cmd.Context(), tlog.Root())

			// Handle -dparse: parse and dump the AST
			if dParse {
				for _, filename := range args {
					if err := doParse(filename, out, errOut); err != nil {
						return err
					}
				}
				return nil
			}

			opts := driver.Options{Config: cfg, Output: outputPath}

			if watchMode {
				return doWatch(ctx, args, opts, out, errOut)
			}

			return compileAll(ctx, args, opts, out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	// Output modes
	rootCmd.Flags().BoolVar(&koopaMode, "koopa", false, "Emit Koopa IR (default)")
	rootCmd.Flags().BoolVar(&riscvMode, "riscv", false, "Emit RISC-V assembly")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write output to `file` (single input only)")

	// Add debug flags
	rootCmd.Flags().BoolVarP(&dParse, "dparse", "", false, "Dump after parsing")
	rootCmd.Flags().BoolVarP(&dKoopa, "dkoopa", "", false, "Print Koopa IR to stdout")
	rootCmd.Flags().BoolVarP(&dAsm, "dasm", "", false, "Dump assembly")
	rootCmd.Flags().BoolVarP(&dRISCV, "driscv", "", false, "Dump RISC-V")

	// Driver options
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Compile up to `n` files at once (default GOMAXPROCS)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Read defaults from `file` (default ./sysyc.yaml or ./sysyc.toml)")
	rootCmd.Flags().StringVar(&logFilter, "log", "", "Enable log `topics` (e.g. lower, or * for all)")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Recompile inputs when they change")

	return rootCmd
}

// loadConfig reads the config file, if any, and applies flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	path := configPath
	if path == "" {
		if p, ok := config.Find("."); ok {
			path = p
		}
	}
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		cfg.Jobs = jobs
	}
	if flags.Changed("log") {
		cfg.Log = logFilter
	}
	if dKoopa {
		cfg.PrintIR = true
	}

	return cfg, cfg.Validate()
}

// setupLogging routes tlog output to w. Without a filter nothing is logged.
func setupLogging(w io.Writer, filter string) {
	if filter == "" {
		tlog.DefaultLogger = tlog.New(io.Discard)
		return
	}

	tlog.DefaultLogger = tlog.New(tlog.NewConsoleWriter(w, tlog.LstdFlags))
	tlog.SetVerbosity(filter)
}

// doParse parses the file and writes the AST dump to a .ast file
func doParse(filename string, out, errOut io.Writer) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "sysyc: error reading %s: %v\n", filename, err)
		return err
	}

	cu, err := parser.Parse(string(content))
	if err != nil {
		fmt.Fprintf(errOut, "sysyc: %s: %v\n", filename, err)
		return err
	}

	outputFilename := astOutputFilename(filename)

	outFile, err := os.Create(outputFilename)
	if err != nil {
		fmt.Fprintf(errOut, "sysyc: error creating %s: %v\n", outputFilename, err)
		return err
	}
	defer outFile.Close()

	ast.NewPrinter(outFile).PrintCompUnit(cu)

	// Also print to stdout for convenience
	ast.NewPrinter(out).PrintCompUnit(cu)

	return nil
}

// astOutputFilename returns the output filename for -dparse
// input.sy -> input.ast
func astOutputFilename(filename string) string {
	ext := ".sy"
	if strings.HasSuffix(filename, ext) {
		return filename[:len(filename)-len(ext)] + ".ast"
	}
	return filename + ".ast"
}

// compileAll lowers every input and prints the requested dumps in input order
func compileAll(ctx context.Context, names []string, opts driver.Options, out, errOut io.Writer) error {
	results, err := driver.CompileFiles(ctx, names, opts)
	if err != nil {
		fmt.Fprintf(errOut, "sysyc: %v\n", err)
		return err
	}

	for _, res := range results {
		printResult(res, opts, out)
	}

	return nil
}

func printResult(res *driver.Result, opts driver.Options, out io.Writer) {
	if res.AST != nil {
		out.Write(res.AST)
	}
	if opts.PrintIR {
		out.Write(res.IR)
	}
}
