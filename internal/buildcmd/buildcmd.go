// Package buildcmd assembles and runs the scan-build invocation that
// produces a trace corpus (spec.md §1/§6 Non-goal: the symbolic-execution
// extractor itself is out of scope, but wrapping the compiler driver that
// invokes it is the documented CLI boundary). Mirrors bin/main.py's
// get_command/handle_build.
package buildcmd

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/standardbeagle/apisan/internal/apisanerr"
)

var errNoBuildCommand = errors.New("build requires at least one command to instrument")

// disabledCheckers are the upstream clang static analyzer checkers turned
// off so only the symbolic-execution extractor's output is produced,
// verbatim from the original's DISABLED_CHECKERS list.
var disabledCheckers = []string{
	"core.CallAndMessage",
	"core.DivideZero",
	"core.DynamicTypePropagation",
	"core.NonNullParamChecker",
	"core.NullDereference",
	"core.StackAddressEscape",
	"core.UndefinedBinaryOperatorResult",
	"core.VLASize",
	"core.builtin.BuiltinFunctions",
	"core.builtin.NoReturnFunctions",
	"core.uninitialized.ArraySubscript",
	"core.uninitialized.Assign",
	"core.uninitialized.Branch",
	"core.uninitialized.CapturedBlockVariable",
	"core.uninitialized.UndefReturn",
	"cplusplus.NewDelete",
	"deadcode.DeadStores",
	"security.insecureAPI.UncheckedReturn",
	"security.insecureAPI.getpw",
	"security.insecureAPI.gets",
	"security.insecureAPI.mkstemp",
	"security.insecureAPI.mktemp",
	"security.insecureAPI.vfork",
	"unix.API",
	"unix.Malloc",
	"unix.MallocSizeof",
	"unix.MismatchedDeallocator",
	"unix.cstring.BadSizeArg",
	"unix.cstring.NullArg",
}

// analyzerConfigs are passed via -analyzer-config, one per entry.
var analyzerConfigs = []string{
	"ipa=basic-inlining",
}

// symExecExtractChecker is the one checker left enabled: it emits the
// ".as" trace files this module's check pipeline consumes.
const symExecExtractChecker = "alpha.unix.SymExecExtract"

// Options configures where scan-build and clang are found. Both default
// to the bare command name, resolved via $PATH, when left empty.
type Options struct {
	ScanBuildPath string
	ClangPath     string
}

func (o Options) scanBuild() string {
	if o.ScanBuildPath != "" {
		return o.ScanBuildPath
	}
	return "scan-build"
}

func (o Options) clang() string {
	if o.ClangPath != "" {
		return o.ClangPath
	}
	return "clang"
}

// Command assembles the scan-build invocation that wraps cmds (the build
// command to instrument, e.g. ["make", "-j8"]), mirroring
// bin/main.py's get_command()+handle_build's cmds += args.cmds.
func Command(opts Options, cmds []string) []string {
	out := []string{opts.scanBuild()}
	for _, checker := range disabledCheckers {
		out = append(out, "-disable-checker", checker)
	}
	for _, cfg := range analyzerConfigs {
		out = append(out, "-analyzer-config", cfg)
	}
	out = append(out,
		"--use-analyzer", opts.clang(),
		"-enable-checker", symExecExtractChecker,
	)
	return append(out, cmds...)
}

// Run executes the assembled scan-build command, inheriting the current
// process's stdio, matching the original's os.spawnv(os.P_WAIT, ...)
// blocking-wait semantics.
func Run(ctx context.Context, opts Options, cmds []string) error {
	if len(cmds) == 0 {
		return apisanerr.New(apisanerr.KindConfig, errNoBuildCommand)
	}

	full := Command(opts, cmds)
	cmd := exec.CommandContext(ctx, full[0], full[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		return apisanerr.New(apisanerr.KindIO, err)
	}
	return nil
}
