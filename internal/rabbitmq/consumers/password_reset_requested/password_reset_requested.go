package passwordresetrequested

import (
	"accountd/internal/core/domain/common"
	e "accountd/internal/core/domain/errors"
	"accountd/internal/core/domain/logging"
	"accountd/internal/core/domain/user"
	"accountd/internal/core/services"
	sendpasswordresetemail "accountd/internal/core/services/send_password_reset_email"
	"accountd/internal/rabbitmq"
	"accountd/internal/rabbitmq/schema"
	"context"

	"github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	log     logging.Logger
	channel *rabbitmq.Channel
	queue   string
	service services.Service[sendpasswordresetemail.Input, sendpasswordresetemail.Result]
}

func New(
	log logging.Logger,
	channel *rabbitmq.Channel,
	queue string,
	service services.Service[sendpasswordresetemail.Input, sendpasswordresetemail.Result],
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}

	return &Consumer{log: log, channel: channel, queue: queue, service: service}
}

func (c *Consumer) Consume() error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(context.Background(), "Could not start consuming.", logging.Entry("err", err))
		return err
	}

	go func() {
		for delivery := range deliveries {
			event := &schema.PasswordResetRequested{}
			if err := event.Unmarshal(delivery.Body); err != nil {
				c.log.Error(
					context.Background(),
					"Could not unmarshal password reset requested event.",
					logging.Entry("err", err),
					logging.Entry("delivery", delivery),
				)
				c.Ack(delivery)
				continue
			}

			c.log.Info(
				context.Background(),
				"Got password reset requested event.",
				logging.Entry("eventID", event.EventID),
				logging.Entry("userID", event.UserID),
			)
			_, err := c.service.Run(
				context.Background(),
				sendpasswordresetemail.Input{
					UserID: user.ID(event.UserID),
					Email:  common.Email(event.Email),
					Token:  user.PasswordResetToken(event.Token),
				},
			)
			if err != nil {
				c.log.Error(
					context.Background(),
					"Could not send password reset email, service returned an error.",
					logging.Entry("eventID", event.EventID),
					logging.Entry("err", err),
				)
			}
			c.Ack(delivery)
		}
	}()
	return nil
}

func (c *Consumer) Ack(delivery amqp091.Delivery) {
	if err := delivery.Ack(true); err != nil {
		c.log.Error(context.Background(), "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}
