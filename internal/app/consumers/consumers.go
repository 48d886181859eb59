package consumers

import (
	"accountd/internal/app/deps"
	"accountd/internal/app/services"
	dl "accountd/internal/core/domain/logging"
	passwordresetrequested "accountd/internal/rabbitmq/consumers/password_reset_requested"
	"context"
)

func initPasswordResetRequestedConsumer(deps *deps.Deps, services *services.Services) func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqPasswordResetQueue
	passwordResetRequestedConsumer := passwordresetrequested.New(
		deps.Logger,
		rabbitmqChannel,
		queue,
		services.SendPasswordResetEmail,
	)
	if err = passwordResetRequestedConsumer.Consume(); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() { rabbitmqChannel.Close() }
}

func InitConsumers(deps *deps.Deps, services *services.Services) func() {
	shutdownPasswordResetRequestedConsumer := initPasswordResetRequestedConsumer(deps, services)

	return func() {
		shutdownPasswordResetRequestedConsumer()
	}
}
