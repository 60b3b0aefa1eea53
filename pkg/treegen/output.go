package treegen

import (
	"fmt"
	"io"
	"strings"
)

// Rendering is the ordered output of one tree generation.
type Rendering struct {
	Root  string
	Lines []string
}

// String joins the lines, terminating each with a newline.
func (r Rendering) String() string {
	var b strings.Builder
	for _, line := range r.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Len returns the number of rendered entries.
func (r Rendering) Len() int {
	return len(r.Lines)
}

// accumulator collects lines in production order and echoes them to sink
// when one is set.
type accumulator struct {
	lines []string
	sink  io.Writer
}

func newAccumulator(sink io.Writer) *accumulator {
	return &accumulator{sink: sink}
}

func (a *accumulator) add(line string) error {
	a.lines = append(a.lines, line)
	if a.sink == nil {
		return nil
	}
	if _, err := fmt.Fprintln(a.sink, line); err != nil {
		return fmt.Errorf("echo tree line: %w", err)
	}
	return nil
}
