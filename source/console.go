package source

import (
	"bufio"
	"io"
	"strings"

	"github.com/BaSui01/clinicalflow/pipeline"
)

// ConsoleIdentifier names every item read from the console.
const ConsoleIdentifier = "Terminal"

// quitWords end an interactive session, compared case-insensitively.
var quitWords = map[string]bool{"sair": true, "exit": true, "quit": true}

// Console reads one narrative per line from an interactive stream.
type Console struct {
	scanner *bufio.Scanner
}

// NewConsole wraps r. Lines up to 1 MiB are accepted.
func NewConsole(r io.Reader) *Console {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Console{scanner: s}
}

// Next returns the next non-blank line as an item. It reports false at end
// of input, on a quit word, or when the stream fails.
func (c *Console) Next() (pipeline.Item, bool) {
	for c.scanner.Scan() {
		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}
		if quitWords[strings.ToLower(line)] {
			return pipeline.Item{}, false
		}
		return pipeline.Item{Identifier: ConsoleIdentifier, Text: line}, true
	}
	return pipeline.Item{}, false
}

// Err returns the first non-EOF read error.
func (c *Console) Err() error { return c.scanner.Err() }
