package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mock answers without any network call. Used for local development (-mock)
// and front-end work.
type Mock struct {
	Delay time.Duration
	// Extracted is returned by ExtractText; empty means "no legible text".
	Extracted string
}

func (m *Mock) Name() string     { return "mock" }
func (m *Mock) GetModel() string { return "mock" }

func (m *Mock) Simplify(ctx context.Context, text string) (string, error) {
	if err := m.wait(ctx); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("## यह क्या है? (What is this?)\n\n")
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	b.WriteString("\n## Simple Summary\n\nThis is a mock simplification.")
	return b.String(), nil
}

func (m *Mock) ExtractText(ctx context.Context, _ []byte, _ string) (string, error) {
	if err := m.wait(ctx); err != nil {
		return "", err
	}
	return m.Extracted, nil
}

func (m *Mock) wait(ctx context.Context) error {
	if m.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.Delay):
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mock: %w", ctx.Err())
	}
}
