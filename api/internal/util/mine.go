package util

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// SniffImageMIME returns image/jpeg or image/png by magic bytes, "" otherwise.
func SniffImageMIME(b []byte) string {
	// JPEG: FF D8
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return MimeJPEG
	}
	// PNG: 89 50 4E 47 0D 0A 1A 0A
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return MimePNG
	}
	return ""
}

// NormalizeMIME lowercases, drops parameters and maps image/jpg to image/jpeg.
func NormalizeMIME(m string) string {
	m = strings.ToLower(strings.TrimSpace(m))
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	if m == "image/jpg" || m == "image/pjpeg" {
		return MimeJPEG
	}
	return m
}

// PickMIME prefers the declared type. An empty or generic declared type
// (application/octet-stream) falls back to sniffing the bytes.
func PickMIME(declared string, data []byte) string {
	if m := NormalizeMIME(declared); m != "" && m != "application/octet-stream" {
		return m
	}
	if s := SniffImageMIME(data); s != "" {
		return s
	}
	if len(data) > 0 {
		return NormalizeMIME(http.DetectContentType(data))
	}
	return ""
}

func MakeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
