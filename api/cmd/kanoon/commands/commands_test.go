package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kanoon-saral/api/internal/config"
	"kanoon-saral/api/internal/presenter"
	"kanoon-saral/api/internal/simplify"
)

type stubMediator struct {
	calls []string
	err   error
}

func (s *stubMediator) SimplifyText(_ context.Context, text string) (simplify.Result, error) {
	s.calls = append(s.calls, "text:"+text)
	return simplify.Result{OriginalText: text, Simplified: "## Simple\nPay rent."}, s.err
}

func (s *stubMediator) SimplifyImage(_ context.Context, _ []byte, mime string) (simplify.Result, error) {
	s.calls = append(s.calls, "image:"+mime)
	return simplify.Result{OriginalText: "extracted", Simplified: "Pay rent."}, s.err
}

func run(t *testing.T, med *stubMediator, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "")
	prev := newMediator
	newMediator = func(*config.Config, *slog.Logger) (presenter.Mediator, error) { return med, nil }
	t.Cleanup(func() {
		newMediator = prev
		configPath, provider, verbose = "", "", false
	})

	root := newRoot()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--provider", "mock"}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestSimplifyText(t *testing.T) {
	med := &stubMediator{}
	out, _, err := run(t, med, "", "simplify", "--text", "This agreement shall be binding.")
	require.NoError(t, err)
	require.Equal(t, []string{"text:This agreement shall be binding."}, med.calls)
	require.Contains(t, out, "## Simple\nPay rent.")
	require.Contains(t, out, "min read")
}

func TestSimplifyStdinAndExport(t *testing.T) {
	med := &stubMediator{}
	export := filepath.Join(t.TempDir(), presenter.ExportFilename)
	_, stderr, err := run(t, med, "The lessee shall pay rent.", "simplify", "--file", "-", "--export", export)
	require.NoError(t, err)
	require.Equal(t, []string{"text:The lessee shall pay rent."}, med.calls)
	require.Contains(t, stderr, "saved")

	got, err := os.ReadFile(export)
	require.NoError(t, err)
	require.Equal(t, "ORIGINAL DOCUMENT:\n\nThe lessee shall pay rent.\n\n\nSIMPLIFIED VERSION:\n\n## Simple\nPay rent.", string(got))
}

func TestSimplifyImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.jpeg")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xE0}, 0o644))

	med := &stubMediator{}
	_, _, err := run(t, med, "", "simplify", "--image", path)
	require.NoError(t, err)
	require.Equal(t, []string{"image:image/jpeg"}, med.calls)
}

func TestSimplifyRejectsInvalidInput(t *testing.T) {
	med := &stubMediator{}
	_, _, err := run(t, med, "", "simplify", "--text", "   ")
	require.EqualError(t, err, "Please provide legal document text to simplify")
	require.Empty(t, med.calls)
}

func TestSimplifyProviderError(t *testing.T) {
	med := &stubMediator{err: &simplify.Error{
		Kind:    simplify.KindProvider,
		Message: "Our AI service is temporarily unavailable. Please try again later.",
		Err:     errors.New("secret"),
	}}
	_, _, err := run(t, med, "", "simplify", "--text", "clause")
	require.EqualError(t, err, "Our AI service is temporarily unavailable. Please try again later.")
}

func TestSimplifyFlagRules(t *testing.T) {
	_, _, err := run(t, &stubMediator{}, "", "simplify")
	require.Error(t, err)

	_, _, err = run(t, &stubMediator{}, "", "simplify", "--text", "a", "--image", "b.png")
	require.Error(t, err)
}

func TestMimeFor(t *testing.T) {
	require.Equal(t, "image/png", mimeFor("x.jpg", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}))
	require.Equal(t, "image/jpeg", mimeFor("x.JPG", []byte("????")))
	require.Equal(t, "image/png", mimeFor("x.png", nil))
	require.Equal(t, "application/pdf", mimeFor("x.pdf", []byte("%PDF-1.7")))
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","service":"Kanoon Saral API"}`))
	}))
	defer ts.Close()

	out, _, err := run(t, &stubMediator{}, "", "health", "--url", ts.URL)
	require.NoError(t, err)
	require.Equal(t, "Kanoon Saral API: ok\n", out)
}

func TestWithTimeoutZeroHasNoDeadline(t *testing.T) {
	ctx, cancel := withTimeout(context.Background(), 0)
	defer cancel()
	_, ok := ctx.Deadline()
	require.False(t, ok)

	ctx, cancel = withTimeout(context.Background(), time.Minute)
	defer cancel()
	_, ok = ctx.Deadline()
	require.True(t, ok)
}
