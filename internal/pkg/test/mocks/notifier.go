package mocks

import (
	"github.com/airenas/audiobook/internal/pkg/events"
	"github.com/stretchr/testify/mock"
)

// Notifier is a testify mock of events.Notifier
type Notifier struct {
	mock.Mock
}

// Notify mocked
func (m *Notifier) Notify(e events.Event) {
	m.Called(e)
}
