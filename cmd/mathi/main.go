// mathi interprets a program. Source is read from the file given with -f or
// from stdin; the remaining arguments are the program inputs.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	mathc "go.mathc.dev/pkg"
)

var log = commonlog.GetLogger("mathi")

func main() {
	file := flag.String("f", "", "Program file (default: stdin)")
	ast := flag.Bool("ast", false, "Input is an AST cache written by mathc -emit ast")
	verbosity := flag.Int("v", 0, "Log verbosity")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mathi [options] inputs...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	commonlog.Configure(*verbosity, nil)

	outputs, err := interpret(*file, *ast, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, n := range outputs {
		fmt.Println(n)
	}
}

func interpret(file string, ast bool, args []string) ([]int64, error) {
	inputs := make([]int64, len(args))
	for i, arg := range args {
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i+1, err)
		}

		inputs[i] = n
	}

	data, err := read(file)
	if err != nil {
		return nil, err
	}

	var program *mathc.Program
	if ast {
		program, err = mathc.UnmarshalProgram(data)
	} else {
		program, err = mathc.ParseNamed(file, data)
	}

	if err != nil {
		return nil, err
	}

	log.Debugf("running %d statements with %d inputs", len(program.Statements), len(inputs))

	return mathc.Run(program, inputs)
}

func read(file string) ([]byte, error) {
	if file == "" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(file)
}
