package requeue

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer gates the write path behind an explicit user decision.
type Confirmer interface {
	// Confirm presents the prompt and reports whether the user approved.
	// Any failure to obtain an answer counts as a decline.
	Confirm(prompt string) (bool, error)
}

// PromptConfirmer reads one line from In and approves only on an exact
// case-insensitive "yes". End of input is a decline, matching the behavior
// of a closed stdin.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (c PromptConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.Out, "%s (yes/no): ", prompt)

	reader := bufio.NewReader(c.In)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes"), nil
}

// AutoConfirmer approves unconditionally; used for --yes.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(string) (bool, error) {
	return true, nil
}
