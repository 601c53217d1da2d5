// Package pandoc converts Markdown reports to HTML with the pandoc binary.
package pandoc

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

const DefaultBinary = "pandoc"

// Runner invokes pandoc.
type Runner struct {
	binary string
}

func New(binary string) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}

	return &Runner{binary: binary}
}

// HTMLArgs returns the arguments converting Markdown to a standalone HTML5
// document using template and writing it to output.
func HTMLArgs(template, output string) []string {
	return []string{
		"-f", "markdown", "-t", "html5", "--section-divs", "-s",
		"--template", template,
		"-o", output,
	}
}

// Render runs pandoc on input with args. It fails when pandoc cannot be
// started or exits with a non-zero status; the error carries pandoc's stderr.
func (r *Runner) Render(ctx context.Context, input string, args []string) error {
	cmd := exec.CommandContext(ctx, r.binary, append([]string{input}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return errors.Wrapf(err, "%s %s", r.binary, input)
		}

		return errors.Wrapf(err, "%s %s: %s", r.binary, input, msg)
	}

	return nil
}
