package mathc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tliron/commonlog"
)

var emitLog = commonlog.GetLogger("mathc.emit")

type EmitMode string

const (
	EmitIR     EmitMode = "ir"
	EmitObject EmitMode = "object"
	EmitBinary EmitMode = "binary"
)

func ParseEmitMode(s string) (EmitMode, error) {
	switch m := EmitMode(s); m {
	case EmitIR, EmitObject, EmitBinary:
		return m, nil
	default:
		return "", fmt.Errorf("unknown emit mode %q", s)
	}
}

// EmitOptions says what to turn a translation unit into. LLC and CC name
// the external assembler and linker.
type EmitOptions struct {
	Mode   EmitMode
	Output string
	LLC    string
	CC     string
	CFlags []string
}

// Emit writes unit as IR text, or hands it to llc (and cc) to produce an
// object file or a linked binary at opts.Output.
func Emit(ctx context.Context, unit TranslationUnit, opts EmitOptions) error {
	if opts.Mode == EmitIR {
		emitLog.Debugf("writing IR to %s", opts.Output)
		return os.WriteFile(opts.Output, []byte(unit.String()), 0o644)
	}

	dir, err := os.MkdirTemp("", "mathc")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	irPath := filepath.Join(dir, "module.ll")
	if err := os.WriteFile(irPath, []byte(unit.String()), 0o644); err != nil {
		return err
	}

	objPath := opts.Output
	if opts.Mode == EmitBinary {
		objPath = filepath.Join(dir, "module.o")
	}

	if err := run(ctx, opts.LLC, "-filetype=obj", "-o", objPath, irPath); err != nil {
		return err
	}

	if opts.Mode == EmitObject {
		return nil
	}

	args := append(append([]string{}, opts.CFlags...), "-o", opts.Output, objPath)
	return run(ctx, opts.CC, args...)
}

func run(ctx context.Context, tool string, args ...string) error {
	emitLog.Debugf("running %s %v", tool, args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", tool, err, bytes.TrimSpace(stderr.Bytes()))
	}

	return nil
}
