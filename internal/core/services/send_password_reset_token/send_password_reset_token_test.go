package sendpasswordresettoken

import (
	c "accountd/internal/core/domain/common"
	"accountd/internal/core/domain/logging"
	uow "accountd/internal/core/domain/unit_of_work"
	"accountd/internal/core/domain/user"
	"accountd/internal/core/services"
	resettokenmanager "accountd/internal/implementations/reset_token_manager"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	USER_ID = user.ID(7)
	EMAIL   = "alice@mail.com"
	TOKEN   = "fixed-reset-token"
)

var NOW = time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)

type suite struct {
	log        *logging.FakeLogger
	unitOfWork *uow.FakeUnitOfWork
	publisher  *user.FakePasswordResetRequestedPublisher
}

func setupSuite() *suite {
	s := &suite{
		log:        logging.NewFakeLogger(),
		unitOfWork: uow.NewFakeUnitOfWork(),
		publisher:  user.NewFakePasswordResetRequestedPublisher(),
	}
	s.unitOfWork.Context.UserRepository.Users = []user.User{
		{ID: USER_ID, Email: c.Email(EMAIL), PasswordHash: "test-hash", CreatedAt: NOW},
	}
	return s
}

func (s *suite) createService() services.Service[Input, Result] {
	manager := resettokenmanager.New(
		user.NewFakePasswordResetTokenGenerator(TOKEN),
		24*time.Hour,
		func() time.Time { return NOW },
	)
	return New(s.log, s.unitOfWork, manager, s.publisher)
}

func TestTokenIssuedForExistingUser(t *testing.T) {
	suite := setupSuite()
	service := suite.createService()

	result, err := service.Run(context.Background(), Input{Email: c.NewEmail(EMAIL)})

	require.NoError(t, err)
	require.Equal(t, user.PasswordResetToken(TOKEN), result.Token)
	require.True(t, suite.unitOfWork.Context.WasCommitCalled)

	reset, err := suite.unitOfWork.Context.PasswordResetRepository.GetByToken(
		context.Background(),
		result.Token,
	)
	require.NoError(t, err)
	require.Equal(t, USER_ID, reset.UserID)
}

func TestEventPublishedAfterIssue(t *testing.T) {
	suite := setupSuite()
	service := suite.createService()

	_, err := service.Run(context.Background(), Input{Email: c.NewEmail(EMAIL)})

	require.NoError(t, err)
	require.Equal(t, 1, suite.publisher.PublishedCount())
	require.Equal(t, user.PasswordResetToken(TOKEN), suite.publisher.Published[0].Token)
	require.Equal(t, USER_ID, suite.publisher.PublishedTo[0].ID)
}

func TestEmailLookupIsCaseInsensitive(t *testing.T) {
	suite := setupSuite()
	service := suite.createService()

	result, err := service.Run(context.Background(), Input{Email: c.NewEmail("Alice@Mail.Com")})

	require.NoError(t, err)
	require.Equal(t, user.PasswordResetToken(TOKEN), result.Token)
}

func TestSecondIssueSupersedesFirst(t *testing.T) {
	suite := setupSuite()
	service := suite.createService()

	_, err := suite.unitOfWork.Context.PasswordResetRepository.Create(
		context.Background(),
		user.CreatePasswordResetInput{Token: "first-token", UserID: USER_ID, CreatedAt: NOW},
	)
	require.NoError(t, err)

	_, err = service.Run(context.Background(), Input{Email: c.NewEmail(EMAIL)})

	require.NoError(t, err)
	resets := suite.unitOfWork.Context.PasswordResetRepository
	require.Len(t, resets.Resets, 1)
	_, err = resets.GetByToken(context.Background(), "first-token")
	require.ErrorIs(t, err, user.ErrResetTokenNotFound)
}

func TestUnknownEmailReportsSuccessWithoutToken(t *testing.T) {
	suite := setupSuite()
	service := suite.createService()

	result, err := service.Run(context.Background(), Input{Email: c.NewEmail("bob@mail.com")})

	require.NoError(t, err)
	require.Equal(t, user.PasswordResetToken(""), result.Token)
	require.Len(t, suite.unitOfWork.Context.PasswordResetRepository.Resets, 0)
	require.Equal(t, 0, suite.publisher.PublishedCount())
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	suite := setupSuite()
	suite.publisher.ReturnError = true
	service := suite.createService()

	result, err := service.Run(context.Background(), Input{Email: c.NewEmail(EMAIL)})

	require.NoError(t, err)
	require.Equal(t, user.PasswordResetToken(TOKEN), result.Token)
	require.Len(t, suite.unitOfWork.Context.PasswordResetRepository.Resets, 1)
}
