package deps

import (
	"accountd/internal/config"
	dl "accountd/internal/core/domain/logging"
	drl "accountd/internal/core/domain/rate_limiter"
	duow "accountd/internal/core/domain/unit_of_work"
	"accountd/internal/core/domain/user"
	uow "accountd/internal/db/unit_of_work"
	"accountd/internal/implementations/email"
	"accountd/internal/implementations/logging"
	passwordhasher "accountd/internal/implementations/password_hasher"
	randomstringgenerator "accountd/internal/implementations/random_string_generator"
	ratelimiter "accountd/internal/implementations/rate_limiter"
	resettokenmanager "accountd/internal/implementations/reset_token_manager"
	"accountd/internal/rabbitmq"
	passwordresetrequested "accountd/internal/rabbitmq/publishers/password_reset_requested"
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UnitOfWork duow.UnitOfWork

	RateLimiter drl.RateLimiter

	EmailSender *email.EmailSender

	PasswordHasher                  user.PasswordHasher
	PasswordResetTokenGenerator     user.PasswordResetTokenGenerator
	PasswordResetTokenManager       user.PasswordResetTokenManager
	PasswordResetTokenSender        user.PasswordResetTokenSender
	PasswordResetRequestedPublisher user.PasswordResetRequestedPublisher
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)

	deps.EmailSender = email.NewEmailSender(
		deps.AwsConfig,
		deps.Config.AwsEmailSender,
		deps.Config.AwsEmailPasswordResetTemplate,
		deps.passwordResetBaseUrl(),
	)

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasswordResetTokenGenerator = randomstringgenerator.NewGenerator()
	deps.PasswordResetTokenManager = resettokenmanager.New(
		deps.PasswordResetTokenGenerator,
		time.Duration(deps.Config.PasswordResetValidDurationHours)*time.Hour,
		deps.Now,
	)
	deps.PasswordResetTokenSender = deps.EmailSender

	closePublisher := deps.initRabbitmqPublisher()

	flushSentry := deps.initSentry()

	return deps, func() {
		closeFuncs := []func(){
			closePublisher,
			closeRabbitmqConn,
			closeRedisClient,
			closePgxPool,
			closeLogger,
			flushSentry,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initRabbitmqPublisher() func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	if err := declareUserEventsTopology(rabbitmqChannel, deps.Config); err != nil {
		deps.Logger.Error(context.Background(), "Could not declare RabbitMQ topology.", dl.Entry("err", err))
		panic(err)
	}

	deps.PasswordResetRequestedPublisher = passwordresetrequested.NewRabbitMQ(
		deps.Logger,
		rabbitmqChannel,
		deps.Config.RabbitmqUserEventsExchange,
		deps.Config.RabbitmqPasswordResetRoutingKey,
	)

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ publisher shut down.")
	}
}

func declareUserEventsTopology(channel *rabbitmq.Channel, config *config.Config) error {
	err := channel.ExchangeDeclare(
		config.RabbitmqUserEventsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}
	if _, err := channel.QueueDeclare(config.RabbitmqPasswordResetQueue, true, false, false, false, nil); err != nil {
		return err
	}
	return channel.QueueBind(
		config.RabbitmqPasswordResetQueue,
		config.RabbitmqPasswordResetRoutingKey,
		config.RabbitmqUserEventsExchange,
		false,
		nil,
	)
}

func (deps *Deps) passwordResetBaseUrl() url.URL {
	baseUrl, err := url.Parse(deps.Config.AwsEmailPasswordResetBaseUrl)
	if err != nil {
		panic(fmt.Sprintf("invalid password reset base URL: %v", err))
	}
	return *baseUrl
}

func (deps *Deps) initSentry() func() {
	if deps.Config.SentryDsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              deps.Config.SentryDsn,
			TracesSampleRate: 0.01,
		})
		if err != nil {
			panic(fmt.Sprintf("could not init Sentry: %v\n", err))
		}
		deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
		return func() {
			ok := sentry.Flush(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}
