package presenter

import (
	"context"
	"errors"
	"sync"
	"time"

	"kanoon-saral/api/internal/simplify"
)

var (
	ErrBusy          = errors.New("presenter: a document is already being processed")
	ErrNotInput      = errors.New("presenter: start a new document first")
	ErrNotProcessing = errors.New("presenter: nothing is being processed")
	ErrNoResults     = errors.New("presenter: no results to clear")
)

// Machine holds the view of one session. It is safe for concurrent use.
type Machine struct {
	mu   sync.Mutex
	view View
	now  func() time.Time
}

func NewMachine() *Machine {
	return &Machine{view: Input{}, now: time.Now}
}

func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Submit moves Input to Processing. Invalid submissions leave the view as is.
func (m *Machine) Submit(sub Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submit(sub)
}

func (m *Machine) submit(sub Submission) error {
	switch m.view.(type) {
	case Processing:
		return ErrBusy
	case Results:
		return ErrNotInput
	}
	if err := sub.Validate(); err != nil {
		return err
	}
	m.view = Processing{Submission: sub, StartedAt: m.now()}
	return nil
}

// Restart is NewDocument followed by Submit, done atomically. It is what a
// chat front end does when a document arrives while results are shown.
func (m *Machine) Restart(sub Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.view.(Results); ok {
		if err := sub.Validate(); err != nil {
			return err
		}
		m.view = Input{}
	}
	return m.submit(sub)
}

func (m *Machine) Succeed(res simplify.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.view.(Processing); !ok {
		return ErrNotProcessing
	}
	m.view = Results{Result: res}
	return nil
}

// Fail returns to Input with notice shown inline.
func (m *Machine) Fail(notice string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.view.(Processing); !ok {
		return ErrNotProcessing
	}
	m.view = Input{Notice: notice}
	return nil
}

// NewDocument clears the results and everything typed or uploaded.
func (m *Machine) NewDocument() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.view.(Results); !ok {
		return ErrNoResults
	}
	m.view = Input{}
	return nil
}

// Mediator is the part of simplify.Service a front end needs.
type Mediator interface {
	SimplifyText(ctx context.Context, text string) (simplify.Result, error)
	SimplifyImage(ctx context.Context, data []byte, mime string) (simplify.Result, error)
}

// Process runs the submission currently held in Processing through med and
// moves the machine to Results or back to Input.
func (m *Machine) Process(ctx context.Context, med Mediator) (simplify.Result, error) {
	p, ok := m.View().(Processing)
	if !ok {
		return simplify.Result{}, ErrNotProcessing
	}

	var (
		res simplify.Result
		err error
	)
	if p.Submission.IsImage() {
		res, err = med.SimplifyImage(ctx, p.Submission.Image, p.Submission.MIME)
	} else {
		res, err = med.SimplifyText(ctx, p.Submission.Text)
	}
	if err != nil {
		_ = m.Fail(Notice(err))
		return simplify.Result{}, err
	}
	if err := m.Succeed(res); err != nil {
		return simplify.Result{}, err
	}
	return res, nil
}

const genericNotice = "Something went wrong. Please try again."

// Notice is the user-facing text for err.
func Notice(err error) string {
	var se *simplify.Error
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return genericNotice
}
