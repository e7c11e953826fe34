package notifier

import (
	"context"
	"errors"
	"sync"

	"github.com/segmentio/kafka-go"
	"gopkg.in/gomail.v2"
)

type mockNotifier struct {
	mu        sync.Mutex
	sent      []Message
	err       error
	failFirst int
	calls     int
	block     chan struct{}
}

func (m *mockNotifier) Send(ctx context.Context, msg Message) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	if m.calls <= m.failFirst {
		return errors.New("transient send failure")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockNotifier) messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

type toast struct {
	text    string
	isError bool
}

type mockToaster struct {
	mu     sync.Mutex
	toasts []toast
}

func (m *mockToaster) Toast(text string, isError bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = append(m.toasts, toast{text, isError})
}

func (m *mockToaster) all() []toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]toast(nil), m.toasts...)
}

type mockSender struct {
	msgs  []*gomail.Message
	err   error
	block chan struct{}
}

func (m *mockSender) DialAndSend(msgs ...*gomail.Message) error {
	if m.block != nil {
		<-m.block
	}
	m.msgs = append(m.msgs, msgs...)
	return m.err
}

type mockWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

type mockReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	closed    bool
}

func (m *mockReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.msgs) == 0 {
		return kafka.Message{}, context.Canceled
	}
	msg := m.msgs[0]
	m.msgs = m.msgs[1:]
	return msg, nil
}

func (m *mockReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range msgs {
		m.committed = append(m.committed, msg.Offset)
	}
	return nil
}

func (m *mockReader) commits() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.committed...)
}

func (m *mockReader) Close() error {
	m.closed = true
	return nil
}
