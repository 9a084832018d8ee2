package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"kanoon-saral/api/internal/prompt"
	"kanoon-saral/api/internal/util"
)

type Engine struct {
	APIKey      string
	Model       string // text simplification
	VisionModel string // text extraction from images
	Prompts     prompt.Set

	// Extra client options (endpoint, HTTP client). The API key is always added.
	ClientOptions []option.ClientOption
}

func New(apiKey, model, visionModel string, prompts prompt.Set) *Engine {
	model = strings.TrimSpace(model)
	visionModel = strings.TrimSpace(visionModel)
	if visionModel == "" {
		visionModel = model
	}
	return &Engine{
		APIKey:      strings.TrimSpace(apiKey),
		Model:       model,
		VisionModel: visionModel,
		Prompts:     prompts,
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Simplify rewrites a legal document with the fixed bilingual instruction.
func (e *Engine) Simplify(ctx context.Context, text string) (string, error) {
	cl, err := e.client(ctx)
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(e.Prompts.SimplifySystem)},
	}

	resp, err := m.GenerateContent(ctx, simplifyParts(e.Prompts, text)...)
	if err != nil {
		return "", fmt.Errorf("gemini simplify: %w", err)
	}
	return util.StripCodeFences(responseText(resp)), nil
}

// ExtractText transcribes the document on an image. An image without legible
// text yields "".
func (e *Engine) ExtractText(ctx context.Context, image []byte, mime string) (string, error) {
	cl, err := e.client(ctx)
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.VisionModel)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0),
	}

	resp, err := m.GenerateContent(ctx, extractParts(e.Prompts, image, mime)...)
	if err != nil {
		return "", fmt.Errorf("gemini extract: %w", err)
	}
	return strings.TrimSpace(responseText(resp)), nil
}

func (e *Engine) client(ctx context.Context) (*genai.Client, error) {
	if e.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	opts := append([]option.ClientOption{option.WithAPIKey(e.APIKey)}, e.ClientOptions...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return cl, nil
}

func simplifyParts(p prompt.Set, text string) []genai.Part {
	return []genai.Part{genai.Text(p.SimplifyRequest(text))}
}

func extractParts(p prompt.Set, image []byte, mime string) []genai.Part {
	return []genai.Part{
		genai.Blob{MIMEType: mime, Data: image},
		genai.Text(p.ExtractUser),
	}
}

// responseText joins the text parts of the first candidate that has any.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
