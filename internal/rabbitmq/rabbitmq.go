package rabbitmq

import (
	e "accountd/internal/core/domain/errors"
	"accountd/internal/core/domain/logging"
	"context"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 3 * time.Second

// Connection wraps amqp.Connection and re-dials after unexpected closes.
type Connection struct {
	*amqp.Connection
	log logging.Logger
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	amqpConn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	conn := &Connection{Connection: amqpConn, log: log}
	go conn.reconnect(url)
	return conn, nil
}

func (c *Connection) reconnect(url string) {
	for {
		reason, ok := <-c.Connection.NotifyClose(make(chan *amqp.Error))
		if !ok {
			c.log.Info(context.Background(), "RabbitMQ connection closed.")
			return
		}
		c.log.Warning(context.Background(), "RabbitMQ connection lost.", logging.Entry("reason", *reason))

		for {
			time.Sleep(reconnectDelay)

			amqpConn, err := amqp.Dial(url)
			if err == nil {
				c.Connection = amqpConn
				c.log.Info(context.Background(), "RabbitMQ reconnected.")
				break
			}
			c.log.Error(context.Background(), "RabbitMQ reconnect failed.", logging.Entry("err", err))
		}
	}
}

// Channel opens a channel that recreates itself while the connection survives.
func (c *Connection) Channel() (*Channel, error) {
	amqpChannel, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}

	channel := &Channel{Channel: amqpChannel, log: c.log}
	go channel.recreate(c)
	return channel, nil
}

// Channel wraps amqp.Channel with an explicit closed flag so that the
// reconnect goroutine can tell a developer close from a broken connection.
type Channel struct {
	*amqp.Channel
	closed int32
	log    logging.Logger
}

func (ch *Channel) recreate(conn *Connection) {
	for {
		reason, ok := <-ch.Channel.NotifyClose(make(chan *amqp.Error))
		if !ok || ch.IsClosed() {
			ch.Close() // ensure the closed flag is set when connection closed
			return
		}
		ch.log.Warning(context.Background(), "RabbitMQ channel closed.", logging.Entry("reason", *reason))

		for {
			time.Sleep(reconnectDelay)

			amqpChannel, err := conn.Connection.Channel()
			if err == nil {
				ch.Channel = amqpChannel
				ch.log.Info(context.Background(), "RabbitMQ channel recreated.")
				break
			}
			ch.log.Error(context.Background(), "Channel recreate failed.", logging.Entry("err", err))
		}
	}
}

func (ch *Channel) IsClosed() bool {
	return atomic.LoadInt32(&ch.closed) == 1
}

func (ch *Channel) Close() error {
	if ch.IsClosed() {
		return amqp.ErrClosed
	}
	atomic.StoreInt32(&ch.closed, 1)
	return ch.Channel.Close()
}

// Consume keeps delivering across channel recreations, the returned channel
// ends only after a developer close.
func (ch *Channel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	deliveries := make(chan amqp.Delivery)

	go func() {
		for {
			d, err := ch.Channel.Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
			if err != nil {
				ch.log.Error(context.Background(), "Consume failed.", logging.Entry("err", err))
				time.Sleep(reconnectDelay)
				continue
			}

			for msg := range d {
				deliveries <- msg
			}

			// sleep before the IsClosed call, the flag may not be set yet
			time.Sleep(reconnectDelay)

			if ch.IsClosed() {
				ch.log.Info(context.Background(), "Channel is closed, stop consuming.", logging.Entry("queue", queue))
				return
			}
		}
	}()

	return deliveries, nil
}
