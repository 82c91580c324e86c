package rabbit

import (
	"time"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

type channelRunner interface {
	RunOnChannelWithRetry(f runOnChannelFunc) error
}

// Publisher publishes job ids to a fanout exchange
type Publisher struct {
	runner   channelRunner
	exchange string
	backOff  func() backoff.BackOff
	declared bool
}

// NewPublisher initializes rabbit publisher, the exchange is declared on first publish
func NewPublisher(provider *ChannelProvider, exchange string) (*Publisher, error) {
	return newPublisher(provider, exchange)
}

func newPublisher(r channelRunner, exchange string) (*Publisher, error) {
	if r == nil {
		return nil, errors.New("No channel provider")
	}
	if exchange == "" {
		return nil, errors.New("No exchange")
	}
	return &Publisher{runner: r, exchange: exchange, backOff: newBackOff}, nil
}

// Publish sends id to the exchange, retries with exponential backoff
func (p *Publisher) Publish(id string) error {
	op := func() error {
		return p.runner.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
			if !p.declared {
				if err := DeclareExchange(ch, p.exchange); err != nil {
					return errors.Wrapf(err, "Can't declare exchange %s", p.exchange)
				}
				p.declared = true
			}
			return ch.Publish(
				p.exchange,
				"",    // routing key
				false, // mandatory
				false, // immediate
				amqp.Publishing{
					ContentType: "text/plain",
					Body:        []byte(id),
				})
		})
	}
	err := backoff.Retry(func() error {
		err := op()
		if err != nil {
			p.declared = false
			cmdapp.Log.Warnf("Publish %s failed: %v", id, err)
		}
		return err
	}, p.backOff())
	if err != nil {
		return errors.Wrapf(err, "Can't publish event %s", id)
	}
	return nil
}

func newBackOff() backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     backoff.DefaultInitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         5 * time.Second,
		MaxElapsedTime:      30 * time.Second,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}
