package llm

import (
	"context"
	"errors"
	"strings"
)

// Engine is the generative-AI provider as the mediator sees it: one
// text-to-text capability and one image-to-text capability.
type Engine interface {
	Name() string
	GetModel() string
	Simplify(ctx context.Context, text string) (string, error)
	ExtractText(ctx context.Context, image []byte, mime string) (string, error)
}

type Engines struct {
	Gemini Engine
	OpenAI Engine
	Mock   Engine
}

func (e *Engines) GetEngine(name string) (Engine, error) {
	var eng Engine
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gemini":
		eng = e.Gemini
	case "gpt", "openai":
		eng = e.OpenAI
	case "mock":
		eng = e.Mock
	default:
		return nil, errors.New("unknown llm provider; use 'gemini', 'openai' or 'mock'")
	}
	if eng == nil {
		return nil, errors.New("llm provider " + name + " is not configured")
	}
	return eng, nil
}
