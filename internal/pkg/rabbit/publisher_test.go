package rabbit

import (
	"errors"
	"testing"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerMock struct {
	errs  []error
	calls int
}

func (r *runnerMock) RunOnChannelWithRetry(f runOnChannelFunc) error {
	r.calls++
	if len(r.errs) == 0 {
		return nil
	}
	err := r.errs[0]
	r.errs = r.errs[1:]
	return err
}

func newTestPublisher(t *testing.T, r *runnerMock) *Publisher {
	t.Helper()
	p, err := newPublisher(r, "AudiobookJobChanged")
	require.Nil(t, err)
	p.backOff = func() backoff.BackOff { return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2) }
	return p
}

func TestNewPublisher_Fails(t *testing.T) {
	_, err := newPublisher(nil, "ex")
	assert.NotNil(t, err)
	_, err = newPublisher(&runnerMock{}, "")
	assert.NotNil(t, err)
}

func TestPublish(t *testing.T) {
	r := &runnerMock{}
	p := newTestPublisher(t, r)
	assert.Nil(t, p.Publish("id"))
	assert.Equal(t, 1, r.calls)
}

func TestPublish_Retries(t *testing.T) {
	r := &runnerMock{errs: []error{errors.New("olia"), errors.New("olia")}}
	p := newTestPublisher(t, r)
	assert.Nil(t, p.Publish("id"))
	assert.Equal(t, 3, r.calls)
}

func TestPublish_Fails(t *testing.T) {
	r := &runnerMock{errs: []error{errors.New("olia"), errors.New("olia"), errors.New("olia")}}
	p := newTestPublisher(t, r)
	assert.NotNil(t, p.Publish("id"))
	assert.Equal(t, 3, r.calls)
}
