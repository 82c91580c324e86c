package rabbit

import (
	"sync"

	"github.com/airenas/audiobook/internal/pkg/cmdapp"
	"github.com/airenas/audiobook/internal/pkg/utils"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// ChannelProvider provides cached amqp channel
type ChannelProvider struct {
	url  string
	conn *amqp.Connection
	ch   *amqp.Channel
	m    sync.Mutex
}

type runOnChannelFunc func(*amqp.Channel) error

// NewChannelProvider initializes channel provider from messageServer.* config
func NewChannelProvider() (*ChannelProvider, error) {
	url, err := brokerURL(cmdapp.Config.GetString("messageServer.url"),
		cmdapp.Config.GetString("messageServer.user"), cmdapp.Config.GetString("messageServer.pass"))
	if err != nil {
		return nil, err
	}
	cmdapp.Log.Infof("Broker: %s", utils.URLToLog(url))
	return &ChannelProvider{url: url}, nil
}

func brokerURL(url, user, pass string) (string, error) {
	if url == "" {
		return "", errors.New("No broker url from messageServer.url")
	}
	if user != "" && pass == "" {
		return "", errors.New("No broker pass from messageServer.pass")
	}
	res := "amqp://"
	if user != "" {
		res = res + user + ":" + pass + "@"
	}
	return res + url, nil
}

// Channel returns cached channel or connects to the broker
func (pr *ChannelProvider) Channel() (*amqp.Channel, error) {
	pr.m.Lock()
	defer pr.m.Unlock()

	if pr.ch != nil {
		return pr.ch, nil
	}
	conn, err := amqp.Dial(pr.url)
	if err != nil {
		return nil, errors.Wrap(err, "Can't connect to rabbit broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		defer conn.Close()
		return nil, errors.Wrap(err, "Can't create channel")
	}
	pr.conn = conn
	pr.ch = ch
	return pr.ch, nil
}

// RunOnChannelWithRetry invokes f on the channel, reconnects once on failure
func (pr *ChannelProvider) RunOnChannelWithRetry(f runOnChannelFunc) error {
	ch, err := pr.Channel()
	if err != nil {
		return errors.Wrap(err, "Can't init channel")
	}
	err = f(ch)
	if err != nil {
		cmdapp.Log.Infof("Retry opening channel")
		pr.Close()
		ch, err = pr.Channel()
		if err != nil {
			return errors.Wrap(err, "Can't init channel")
		}
		err = f(ch)
	}
	return err
}

// Healthy checks the broker connection, used by the readiness check
func (pr *ChannelProvider) Healthy() error {
	_, err := pr.Channel()
	return err
}

// Close drops the connection
func (pr *ChannelProvider) Close() {
	pr.m.Lock()
	defer pr.m.Unlock()

	if pr.ch != nil {
		defer pr.ch.Close()
	}
	if pr.conn != nil {
		defer pr.conn.Close()
	}
	pr.ch = nil
	pr.conn = nil
}

// DeclareExchange declares durable fanout exchange
func DeclareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		amqp.ExchangeFanout,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
}
