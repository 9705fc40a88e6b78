package buildcmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandDefaultsToolNames(t *testing.T) {
	cmds := Command(Options{}, []string{"make", "-j8"})
	require.NotEmpty(t, cmds)
	assert.Equal(t, "scan-build", cmds[0])
	assert.Contains(t, cmds, "--use-analyzer")
	assert.Contains(t, cmds, "clang")
	assert.Contains(t, cmds, "-enable-checker")
	assert.Contains(t, cmds, symExecExtractChecker)
	assert.Equal(t, []string{"make", "-j8"}, cmds[len(cmds)-2:])
}

func TestCommandDisablesEveryDocumentedChecker(t *testing.T) {
	cmds := Command(Options{}, []string{"make"})
	for _, checker := range disabledCheckers {
		assert.Contains(t, cmds, checker)
	}
}

func TestCommandHonorsCustomToolPaths(t *testing.T) {
	cmds := Command(Options{ScanBuildPath: "/opt/llvm/scan-build", ClangPath: "/opt/llvm/clang"}, []string{"make"})
	assert.Equal(t, "/opt/llvm/scan-build", cmds[0])
	assert.Contains(t, cmds, "/opt/llvm/clang")
}

func TestCommandAppliesAnalyzerConfig(t *testing.T) {
	cmds := Command(Options{}, []string{"make"})
	assert.Contains(t, cmds, "-analyzer-config")
	assert.Contains(t, cmds, "ipa=basic-inlining")
}

func TestRunRejectsEmptyCommand(t *testing.T) {
	err := Run(context.Background(), Options{}, nil)
	require.Error(t, err)
}

func TestRunExecutesAssembledCommand(t *testing.T) {
	// Use /bin/echo in place of scan-build to confirm Run assembles and
	// executes the command rather than merely building the slice.
	err := Run(context.Background(), Options{ScanBuildPath: "/bin/echo"}, []string{"ok"})
	require.NoError(t, err)
}
