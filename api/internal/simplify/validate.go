package simplify

import (
	"strings"
	"unicode/utf8"

	"kanoon-saral/api/internal/util"
)

const (
	MaxTextChars  = 10_000
	MaxImageBytes = 10 << 20
)

// AcceptedImageTypes lists the upload types after normalisation.
var AcceptedImageTypes = []string{util.MimeJPEG, util.MimePNG}

// ValidateText checks a pasted document: non-blank, at most MaxTextChars
// code points counted on the text as given.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errTextRequired()
	}
	if n := utf8.RuneCountInString(text); n > MaxTextChars {
		return TextTooLong(n)
	}
	return nil
}

// ValidateImage checks an upload and returns its normalised MIME type.
// An empty or generic declared type is resolved by sniffing the bytes.
func ValidateImage(data []byte, declared string) (string, error) {
	if len(data) == 0 {
		return "", NoFile()
	}
	if len(data) > MaxImageBytes {
		return "", FileTooLarge(len(data))
	}
	mime := util.PickMIME(declared, data)
	if !IsAcceptedImageType(mime) {
		return "", errFileType(mime)
	}
	return mime, nil
}

func IsAcceptedImageType(mime string) bool {
	mime = util.NormalizeMIME(mime)
	for _, m := range AcceptedImageTypes {
		if m == mime {
			return true
		}
	}
	return false
}
