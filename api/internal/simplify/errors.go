package simplify

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "ValidationError"
	KindExtraction ErrorKind = "ExtractionError"
	KindProvider   ErrorKind = "ProviderError"
)

// Error is what the mediator returns. Code and Message are safe to show to a
// user; Err keeps the cause for logs only.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("simplify: %s (%s)", e.Kind, e.Code)
	}
	return fmt.Sprintf("simplify: %s (%s): %v", e.Kind, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ClientCorrectable reports whether resubmitting different input can help.
func (e *Error) ClientCorrectable() bool {
	return e != nil && e.Kind != KindProvider
}

func newError(kind ErrorKind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// KindOf returns the kind of a mediator error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// Invalid builds a ValidationError for checks done outside the mediator
// (malformed request bodies, unknown fields).
func Invalid(code, message string, err error) *Error {
	return newError(KindValidation, code, message, err)
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsExtraction(err error) bool { return KindOf(err) == KindExtraction }
func IsProvider(err error) bool   { return KindOf(err) == KindProvider }

func errTextRequired() *Error {
	return newError(KindValidation, "Text content is required",
		"Please provide legal document text to simplify", nil)
}

// TextTooLong is returned for text over MaxTextChars; n may be a lower bound
// when the body was cut off.
func TextTooLong(n int) *Error {
	return newError(KindValidation, "Text too long",
		"Please limit your text to 10,000 characters.", fmt.Errorf("%d characters", n))
}

// NoFile is returned when an upload request carries no file.
func NoFile() *Error {
	return newError(KindValidation, "No file uploaded",
		"Please upload a document image (JPG or PNG)", nil)
}

func errFileType(mime string) *Error {
	return newError(KindValidation, "Invalid file type",
		"Invalid file type. Only JPG and PNG image files are allowed.", fmt.Errorf("mime %q", mime))
}

// FileTooLarge is returned for uploads over MaxImageBytes; n may be a lower
// bound when the body was cut off.
func FileTooLarge(n int) *Error {
	return newError(KindValidation, "File too large",
		"Please upload a valid image file (JPG or PNG) under 10MB.", fmt.Errorf("%d bytes", n))
}

func errNoText() *Error {
	return newError(KindExtraction, "No text found in image",
		"Unable to extract readable text from the uploaded image. Please ensure the document is clear and legible.", nil)
}

func errSimplifyFailed(err error) *Error {
	return newError(KindProvider, "Failed to simplify document",
		"Our AI service is temporarily unavailable. Please try again later.", err)
}

func errImageFailed(err error) *Error {
	return newError(KindProvider, "Failed to process image",
		"Unable to process the uploaded image. Please try with a different image or use text input instead.", err)
}
