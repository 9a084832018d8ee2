package simplify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"kanoon-saral/api/internal/llm"
	"kanoon-saral/api/internal/util"
)

// Result is one simplified document. It is never stored.
type Result struct {
	OriginalText   string
	Simplified     string
	ProcessingTime time.Duration
}

func (r Result) ProcessingTimeMs() int64 { return r.ProcessingTime.Milliseconds() }

// Service is the request mediator between a front end and the AI provider.
// It keeps no state between calls.
type Service struct {
	engine    llm.Engine
	maxPixels int
	now       func() time.Time
	log       *slog.Logger
}

type Option func(*Service)

// WithClock replaces time.Now for processing-time measurement.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMaxPixels sets the downscaling budget for uploads; 0 disables it.
func WithMaxPixels(n int) Option {
	return func(s *Service) { s.maxPixels = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(engine llm.Engine, opts ...Option) (*Service, error) {
	if engine == nil {
		return nil, errors.New("simplify: engine must not be nil")
	}
	s := &Service{
		engine:    engine,
		maxPixels: util.MaxPixels,
		now:       time.Now,
		log:       slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Engine returns the provider the service talks to.
func (s *Service) Engine() llm.Engine { return s.engine }

// SimplifyText validates a pasted document and sends it to the provider once.
// Result.OriginalText is the input exactly as given.
func (s *Service) SimplifyText(ctx context.Context, text string) (Result, error) {
	start := s.now()
	if err := ValidateText(text); err != nil {
		return Result{}, err
	}
	simplified, err := s.simplify(ctx, text)
	if err != nil {
		return Result{}, errSimplifyFailed(err)
	}
	return Result{
		OriginalText:   text,
		Simplified:     simplified,
		ProcessingTime: s.now().Sub(start),
	}, nil
}

// SimplifyImage validates an uploaded image, extracts its text and simplifies
// the extracted text. Result.OriginalText is the extracted text.
func (s *Service) SimplifyImage(ctx context.Context, data []byte, mime string) (Result, error) {
	start := s.now()
	mime, err := ValidateImage(data, mime)
	if err != nil {
		return Result{}, err
	}

	img := s.fit(data, mime)
	extracted, err := s.engine.ExtractText(ctx, img, mime)
	if err != nil {
		return Result{}, errImageFailed(err)
	}
	if strings.TrimSpace(extracted) == "" {
		return Result{}, errNoText()
	}
	s.log.Debug("text extracted", "engine", s.engine.Name(), "chars", len([]rune(extracted)), "preview", util.Truncate(extracted, 80))

	simplified, err := s.simplify(ctx, extracted)
	if err != nil {
		return Result{}, errImageFailed(err)
	}
	return Result{
		OriginalText:   extracted,
		Simplified:     simplified,
		ProcessingTime: s.now().Sub(start),
	}, nil
}

func (s *Service) simplify(ctx context.Context, text string) (string, error) {
	out, err := s.engine.Simplify(ctx, text)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", errors.New(s.engine.Name() + ": empty simplification")
	}
	return out, nil
}

// fit downsizes oversized images. Anything it cannot decode goes to the
// provider unchanged.
func (s *Service) fit(data []byte, mime string) []byte {
	if s.maxPixels <= 0 {
		return data
	}
	out, resized, err := util.FitPixels(data, mime, s.maxPixels)
	if errors.Is(err, util.ErrTooLargeToDecode) {
		s.log.Warn("image left as uploaded", "mime", mime, "bytes", len(data), "err", err)
		return data
	}
	if err != nil {
		s.log.Debug("image left as uploaded", "mime", mime, "err", err)
		return data
	}
	if resized {
		s.log.Info("image downscaled", "mime", mime, "from_bytes", len(data), "to_bytes", len(out))
	}
	return out
}
