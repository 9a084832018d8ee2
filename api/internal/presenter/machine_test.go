package presenter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kanoon-saral/api/internal/simplify"
)

var png1x1 = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestMachineHappyPath(t *testing.T) {
	m := NewMachine()
	require.IsType(t, Input{}, m.View())

	require.NoError(t, m.Submit(TextSubmission("The lessee shall pay rent.")))
	p, ok := m.View().(Processing)
	require.True(t, ok)
	require.Equal(t, "text", p.Submission.Kind())
	require.False(t, p.StartedAt.IsZero())

	res := simplify.Result{OriginalText: "The lessee shall pay rent.", Simplified: "Pay rent."}
	require.NoError(t, m.Succeed(res))
	require.Equal(t, Results{Result: res}, m.View())

	require.NoError(t, m.NewDocument())
	require.Equal(t, Input{}, m.View())
}

func TestMachineFailureKeepsNoticeOnInput(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Submit(ImageSubmission(png1x1, "image/png", "scan.png")))
	require.NoError(t, m.Fail("Unable to extract readable text"))
	require.Equal(t, Input{Notice: "Unable to extract readable text"}, m.View())

	require.NoError(t, m.Submit(TextSubmission("retry with text")))
	require.IsType(t, Processing{}, m.View())
}

func TestMachineIllegalTransitions(t *testing.T) {
	m := NewMachine()
	require.ErrorIs(t, m.Succeed(simplify.Result{}), ErrNotProcessing)
	require.ErrorIs(t, m.Fail("x"), ErrNotProcessing)
	require.ErrorIs(t, m.NewDocument(), ErrNoResults)

	require.NoError(t, m.Submit(TextSubmission("clause")))
	require.ErrorIs(t, m.Submit(TextSubmission("another")), ErrBusy)
	require.ErrorIs(t, m.Restart(TextSubmission("another")), ErrBusy)
	require.ErrorIs(t, m.NewDocument(), ErrNoResults)

	require.NoError(t, m.Succeed(simplify.Result{Simplified: "ok"}))
	require.ErrorIs(t, m.Submit(TextSubmission("another")), ErrNotInput)
	require.ErrorIs(t, m.Fail("x"), ErrNotProcessing)
}

func TestMachineRejectsInvalidSubmission(t *testing.T) {
	cases := []Submission{
		TextSubmission("   "),
		TextSubmission(strings.Repeat("a", simplify.MaxTextChars+1)),
		ImageSubmission([]byte("GIF89a"), "image/gif", "a.gif"),
		ImageSubmission([]byte{}, "image/png", "empty.png"),
	}
	for _, sub := range cases {
		m := NewMachine()
		err := m.Submit(sub)
		require.True(t, simplify.IsValidation(err), "got %v", err)
		require.Equal(t, Input{}, m.View())
	}
}

func TestMachineRestartFromResults(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Submit(TextSubmission("first")))
	require.NoError(t, m.Succeed(simplify.Result{Simplified: "ok"}))

	err := m.Restart(TextSubmission(" "))
	require.True(t, simplify.IsValidation(err))
	require.IsType(t, Results{}, m.View(), "invalid input keeps results")

	require.NoError(t, m.Restart(TextSubmission("second")))
	p := m.View().(Processing)
	require.Equal(t, "second", p.Submission.Text)
}

func TestMachineSingleOutstandingSubmission(t *testing.T) {
	m := NewMachine()
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Submit(TextSubmission("clause")) == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, accepted)
}

type stubMediator struct {
	res   simplify.Result
	err   error
	calls []string
}

func (s *stubMediator) SimplifyText(_ context.Context, text string) (simplify.Result, error) {
	s.calls = append(s.calls, "text:"+text)
	return s.res, s.err
}

func (s *stubMediator) SimplifyImage(_ context.Context, _ []byte, mime string) (simplify.Result, error) {
	s.calls = append(s.calls, "image:"+mime)
	return s.res, s.err
}

func TestProcessSuccess(t *testing.T) {
	med := &stubMediator{res: simplify.Result{OriginalText: "a", Simplified: "b", ProcessingTime: time.Second}}
	m := NewMachine()
	require.NoError(t, m.Submit(ImageSubmission(png1x1, "image/png", "scan.png")))

	res, err := m.Process(context.Background(), med)
	require.NoError(t, err)
	require.Equal(t, med.res, res)
	require.Equal(t, []string{"image:image/png"}, med.calls)
	require.Equal(t, Results{Result: med.res}, m.View())
}

func TestProcessFailureShowsFriendlyNotice(t *testing.T) {
	cause := errors.New("googleapi: Error 503: backend secret")
	med := &stubMediator{err: &simplify.Error{
		Kind:    simplify.KindProvider,
		Code:    "Failed to simplify document",
		Message: "Our AI service is temporarily unavailable. Please try again later.",
		Err:     cause,
	}}
	m := NewMachine()
	require.NoError(t, m.Submit(TextSubmission("clause")))

	_, err := m.Process(context.Background(), med)
	require.ErrorIs(t, err, cause)
	in, ok := m.View().(Input)
	require.True(t, ok)
	require.Equal(t, "Our AI service is temporarily unavailable. Please try again later.", in.Notice)
}

func TestProcessRequiresProcessing(t *testing.T) {
	_, err := NewMachine().Process(context.Background(), &stubMediator{})
	require.ErrorIs(t, err, ErrNotProcessing)
}

func TestNotice(t *testing.T) {
	require.Equal(t, genericNotice, Notice(errors.New("boom")))
	require.Equal(t, "Please provide legal document text to simplify", Notice(simplify.ValidateText("")))
}
