package mocks

import "github.com/stretchr/testify/mock"

// Publisher is a testify mock of an id publisher
type Publisher struct {
	mock.Mock
}

// Publish mocked
func (m *Publisher) Publish(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
