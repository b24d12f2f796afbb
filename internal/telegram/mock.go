package telegram

import (
	"context"
	"sync"
)

// PhotoCall records one SendPhoto invocation.
type PhotoCall struct {
	Caption   string
	PhotoPath string
}

// PollCall records one SendPoll invocation.
type PollCall struct {
	Question string
	Options  []string
}

// MockSender is a deterministic Sender for tests and dry runs. Errors queued
// with AddError are returned in FIFO order, one per call; a nil entry means
// that call succeeds.
type MockSender struct {
	mu     sync.Mutex
	errs   []error
	nextID int64

	Photos []PhotoCall
	Polls  []PollCall
}

// NewMockSender creates a MockSender with queued errors.
func NewMockSender(errs ...error) *MockSender {
	return &MockSender{errs: errs}
}

// AddError queues an outcome for the next call.
func (m *MockSender) AddError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, err)
}

func (m *MockSender) SendPhoto(_ context.Context, caption, photoPath string) (*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Photos = append(m.Photos, PhotoCall{Caption: caption, PhotoPath: photoPath})
	return m.next()
}

func (m *MockSender) SendPoll(_ context.Context, question string, options []string) (*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Polls = append(m.Polls, PollCall{Question: question, Options: append([]string(nil), options...)})
	return m.next()
}

// CallCount returns the number of calls of either kind.
func (m *MockSender) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Photos) + len(m.Polls)
}

func (m *MockSender) next() (*Message, error) {
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	m.nextID++
	return &Message{MessageID: m.nextID}, nil
}
