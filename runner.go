package sqlplus

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// DefaultBinary is the client binary invoked when no Runner is configured.
const DefaultBinary = "sqlplus"

// Runner executes a compiled script file through the external client binary
// and returns once the process has exited. It is the sole subprocess
// boundary in the package: the compiler and decoder never spawn anything,
// so both can be tested against captured fixtures. A caller wanting a
// bounded wait cancels the context; there is no internal timeout.
type Runner interface {
	Run(ctx context.Context, scriptPath string) error
}

type execRunner struct {
	binary string
}

// NewRunner returns a Runner invoking the given client binary, or
// DefaultBinary when empty. The compiled script connects on its own, so the
// process is started with /nolog and credentials never appear on the
// command line.
func NewRunner(binary string) Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &execRunner{binary: binary}
}

func (r *execRunner) Run(ctx context.Context, scriptPath string) error {
	cmd := exec.CommandContext(ctx, r.binary, "-S", "/nolog", "@"+scriptPath)
	cmd.Env = os.Environ()
	// Everything of interest is spooled to the output file by the script
	// itself; the console echo is noise.
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	cmd.Stdin = nil
	return cmd.Run()
}
