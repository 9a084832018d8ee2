package handle

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"kanoon-saral/api/internal/simplify"
)

// multipart framing allowance on top of the image itself
const uploadOverhead = 1 << 20

type simplifyRequest struct {
	Text *string `json:"text"`
	Type string  `json:"type"`
}

func invalidInput(err error) *simplify.Error {
	return simplify.Invalid("Invalid input", "Please check your input and try again", err)
}

var (
	textFailed = &simplify.Error{
		Kind:    simplify.KindProvider,
		Code:    "Failed to simplify document",
		Message: "Our AI service is temporarily unavailable. Please try again later.",
	}
	imageFailed = &simplify.Error{
		Kind:    simplify.KindProvider,
		Code:    "Failed to process image",
		Message: "Unable to process the uploaded image. Please try with a different image or use text input instead.",
	}
)

// Simplify handles POST /api/simplify with a JSON body {text, type?}.
func (h *Handle) Simplify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req simplifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			h.writeError(w, r, simplify.TextTooLong(simplify.MaxTextChars+1), textFailed)
			return
		}
		h.writeError(w, r, invalidInput(err), textFailed)
		return
	}
	if req.Type != "" && req.Type != "text" && req.Type != "image" {
		h.writeError(w, r, invalidInput(errors.New("type "+req.Type)), textFailed)
		return
	}
	if req.Text == nil {
		h.writeError(w, r, invalidInput(errors.New("text missing")), textFailed)
		return
	}

	ctx, cancel := withDeadline(r)
	defer cancel()

	res, err := h.svc.SimplifyText(ctx, *req.Text)
	if err != nil {
		h.writeError(w, r, err, textFailed)
		return
	}
	h.writeResult(w, r, "text", res)
}

// SimplifyImage handles POST /api/simplify-image with a multipart upload in
// the "document" field.
func (h *Handle) SimplifyImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, simplify.MaxImageBytes+uploadOverhead)
	f, hdr, err := r.FormFile("document")
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			h.writeError(w, r, simplify.FileTooLarge(simplify.MaxImageBytes+1), imageFailed)
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			h.writeError(w, r, simplify.NoFile(), imageFailed)
		default:
			h.writeError(w, r, invalidInput(err), imageFailed)
		}
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, simplify.MaxImageBytes+1))
	if err != nil {
		h.writeError(w, r, invalidInput(err), imageFailed)
		return
	}

	ctx, cancel := withDeadline(r)
	defer cancel()

	res, err := h.svc.SimplifyImage(ctx, data, hdr.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(w, r, err, imageFailed)
		return
	}
	h.writeResult(w, r, "image", res)
}
