package testutil

import "sync"

// SentMail is one message captured by RecordingMailer
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// RecordingMailer implements mailer.Mailer and captures every dispatch,
// so tests can assert on delivery counts and contents.
type RecordingMailer struct {
	mu   sync.Mutex
	sent []SentMail

	// FailNext makes the next Send return this error, then resets.
	FailNext error
}

func NewRecordingMailer() *RecordingMailer {
	return &RecordingMailer{}
}

func (m *RecordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return err
	}

	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of all captured messages
func (m *RecordingMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// Reset drops captured messages
func (m *RecordingMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
