package presenter

import (
	"time"

	"kanoon-saral/api/internal/simplify"
)

// View is one of Input, Processing or Results.
type View interface {
	Name() string
	isView()
}

// Input accepts a new document. Notice carries the last failure, if any.
type Input struct {
	Notice string
}

// Processing waits for the mediator.
type Processing struct {
	Submission Submission
	StartedAt  time.Time
}

// Results shows a finished simplification.
type Results struct {
	Result simplify.Result
}

func (Input) Name() string      { return "input" }
func (Processing) Name() string { return "processing" }
func (Results) Name() string    { return "results" }

func (Input) isView()      {}
func (Processing) isView() {}
func (Results) isView()    {}

// Submission is either pasted text or one uploaded image.
type Submission struct {
	Text     string
	Image    []byte
	MIME     string
	Filename string
}

func TextSubmission(text string) Submission { return Submission{Text: text} }

func ImageSubmission(data []byte, mime, filename string) Submission {
	return Submission{Image: data, MIME: mime, Filename: filename}
}

func (s Submission) IsImage() bool { return s.Image != nil }

func (s Submission) Kind() string {
	if s.IsImage() {
		return "image"
	}
	return "text"
}

// Validate runs the mediator's checks so bad input never leaves Input.
func (s Submission) Validate() error {
	if s.IsImage() {
		_, err := simplify.ValidateImage(s.Image, s.MIME)
		return err
	}
	return simplify.ValidateText(s.Text)
}
