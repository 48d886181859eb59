package passwordresetrequested

import (
	e "accountd/internal/core/domain/errors"
	"accountd/internal/core/domain/logging"
	"accountd/internal/core/domain/user"
	"accountd/internal/rabbitmq"
	"accountd/internal/rabbitmq/schema"
	"context"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

type RabbitMQ struct {
	log        logging.Logger
	channel    *rabbitmq.Channel
	exchange   string
	routingKey string
}

func NewRabbitMQ(log logging.Logger, channel *rabbitmq.Channel, exchange string, routingKey string) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange, routingKey: routingKey}
}

func (p *RabbitMQ) PublishPasswordResetRequested(
	ctx context.Context,
	u user.User,
	token user.PasswordResetToken,
) error {
	event := schema.PasswordResetRequested{
		EventID: uuid.NewString(),
		UserID:  int64(u.ID),
		Email:   string(u.Email),
		Token:   string(token),
	}
	body, err := event.Marshal()
	if err != nil {
		logging.Error(ctx, p.log, err)
		return err
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		logging.Error(ctx, p.log, err)
		return err
	}
	p.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", p.exchange),
		logging.Entry("RK", p.routingKey),
		logging.Entry("eventID", event.EventID),
		logging.Entry("userID", u.ID),
	)
	return nil
}
