package version

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"transit/domain/app"
)

// Tag is set via -ldflags "-X transit/presentation/runners/version.Tag=..." at release time.
var Tag string

type Runner struct {
	out io.Writer
}

func NewRunner(out io.Writer) *Runner { return &Runner{out: out} }

func (r *Runner) Run(_ context.Context) error {
	_, err := fmt.Fprintf(r.out, "%s %s\n", app.Name, Current())
	return err
}

// Current is the release tag, or the module version recorded by the toolchain for untagged builds.
func Current() string {
	if tag := strings.TrimSpace(Tag); tag != "" {
		return tag
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
