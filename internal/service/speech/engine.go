// Package speech announces detection summaries through a text-to-speech
// program.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Engine speaks text aloud. Say blocks until the utterance finishes.
type Engine interface {
	Say(ctx context.Context, text string) error
}

// CommandEngine drives an external TTS program such as espeak.
type CommandEngine struct {
	path string
	rate int
}

// NewCommandEngine resolves program on PATH. It fails when the program is
// not installed.
func NewCommandEngine(program string, rate int) (*CommandEngine, error) {
	path, err := exec.LookPath(program)
	if err != nil {
		return nil, fmt.Errorf("speech program %q not available: %w", program, err)
	}
	return &CommandEngine{path: path, rate: rate}, nil
}

func (e *CommandEngine) args(text string) []string {
	var args []string
	if e.rate > 0 {
		args = append(args, "-s", strconv.Itoa(e.rate))
	}
	return append(args, text)
}

// Say runs the program and waits for it to exit.
func (e *CommandEngine) Say(ctx context.Context, text string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.path, e.args(text)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%v: %s", err, msg)
		}
		return err
	}
	return nil
}
