// mathc compiles a program to LLVM IR, an object file or a linked binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"go.mathc.dev/internal/config"
	mathc "go.mathc.dev/pkg"
)

var log = commonlog.GetLogger("mathc")

func main() {
	configPath := flag.String("config", "", "Path to mathc.toml (default: search upwards from the working directory)")
	emit := flag.String("emit", "", "What to produce: ir, object, binary or ast")
	output := flag.String("o", "", "Output path")
	verbosity := flag.Int("v", 0, "Log verbosity")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mathc [options] file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *emit != "" {
		cfg.Emit.Mode = *emit
	}

	if *output != "" {
		cfg.Emit.Output = *output
	}

	if *verbosity != 0 {
		cfg.Log.Verbosity = *verbosity
	}

	commonlog.Configure(cfg.Log.Verbosity, nil)

	if err := compile(flag.Arg(0), cfg); err != nil {
		printErrors(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	return config.FindAndLoad(".")
}

func compile(filename string, cfg *config.Config) error {
	source, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	program, err := mathc.ParseNamed(filename, source)
	if err != nil {
		return err
	}

	if cfg.Emit.Mode == "ast" {
		data, err := mathc.MarshalProgram(program)
		if err != nil {
			return err
		}

		log.Infof("writing AST cache to %s", cfg.Emit.Output)
		return os.WriteFile(cfg.Emit.Output, data, 0o644)
	}

	mode, err := mathc.ParseEmitMode(cfg.Emit.Mode)
	if err != nil {
		return err
	}

	unit, err := mathc.Compile(program, mathc.NewLLVMBackend())
	if err != nil {
		return err
	}

	log.Infof("compiling %s into %s (%s)", filename, cfg.Emit.Output, mode)

	return mathc.Emit(context.Background(), unit, mathc.EmitOptions{
		Mode:   mode,
		Output: cfg.Emit.Output,
		LLC:    cfg.Toolchain.LLC,
		CC:     cfg.Toolchain.CC,
		CFlags: cfg.Toolchain.CFlags,
	})
}

func printErrors(w io.Writer, err error) {
	var list mathc.ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			printError(w, e)
		}

		return
	}

	printError(w, err)
}

func printError(w io.Writer, err error) {
	switch e := err.(type) {
	case *mathc.ParseError:
		fmt.Fprintln(w, "Syntax error at", e.Loc.String()+":", e.Msg)
		if rest := e.Remainder; rest != "" {
			if len(rest) > 40 {
				rest = rest[:40] + "..."
			}
			fmt.Fprintf(w, "\tnear %q\n", rest)
		}
	case *mathc.DuplicateInputError:
		fmt.Fprintln(w, "Duplicate input:", e.Name)
	case *mathc.UnassignedOutputError:
		fmt.Fprintln(w, "Unassigned output:", e.Name)
	case *mathc.UnknownVariableError:
		fmt.Fprintln(w, "Undefined variable:", e.Name)
	case *mathc.UnknownFunctionError:
		fmt.Fprintln(w, "Undefined function:", e.Name)
	case *mathc.IncorrectArgumentCountError:
		fmt.Fprintln(w, "Wrong argument count:", e.Name, "expects", e.Expected, "got", e.Actual)
	default:
		fmt.Fprintln(w, err)
	}
}
