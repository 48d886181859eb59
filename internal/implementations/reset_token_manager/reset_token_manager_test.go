package resettokenmanager

import (
	"accountd/internal/core/domain/user"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const TOKEN = "test-reset-token"

var NOW = time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)

type suite struct {
	resets  *user.FakePasswordResetRepository
	manager *Manager
	now     time.Time
}

func setupSuite() *suite {
	s := &suite{
		resets: user.NewFakePasswordResetRepository(),
		now:    NOW,
	}
	s.manager = New(
		user.NewFakePasswordResetTokenGenerator(TOKEN),
		24*time.Hour,
		func() time.Time { return s.now },
	)
	return s
}

func TestIssueCreatesRecord(t *testing.T) {
	suite := setupSuite()

	token, err := suite.manager.Issue(context.Background(), suite.resets, user.ID(1))

	require.NoError(t, err)
	require.Equal(t, user.PasswordResetToken(TOKEN), token)
	reset, err := suite.resets.GetByToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, user.ID(1), reset.UserID)
	require.True(t, NOW.Equal(reset.CreatedAt))
}

func TestIssueReplacesExistingRecord(t *testing.T) {
	suite := setupSuite()
	_, err := suite.resets.Create(context.Background(), user.CreatePasswordResetInput{
		Token:     "old-token",
		UserID:    user.ID(1),
		CreatedAt: NOW.Add(-time.Hour),
	})
	require.NoError(t, err)

	_, err = suite.manager.Issue(context.Background(), suite.resets, user.ID(1))

	require.NoError(t, err)
	require.Len(t, suite.resets.Resets, 1)
	_, err = suite.resets.GetByToken(context.Background(), "old-token")
	require.ErrorIs(t, err, user.ErrResetTokenNotFound)
}

func TestIssueKeepsOtherUsersRecords(t *testing.T) {
	suite := setupSuite()
	_, err := suite.resets.Create(context.Background(), user.CreatePasswordResetInput{
		Token:     "other-user-token",
		UserID:    user.ID(2),
		CreatedAt: NOW,
	})
	require.NoError(t, err)

	_, err = suite.manager.Issue(context.Background(), suite.resets, user.ID(1))

	require.NoError(t, err)
	require.Len(t, suite.resets.Resets, 2)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		id          string
		createdAt   time.Time
		token       user.PasswordResetToken
		expectedErr error
	}{
		{id: "fresh", createdAt: NOW, token: TOKEN},
		{id: "one hour old", createdAt: NOW.Add(-time.Hour), token: TOKEN},
		{id: "exactly at the window boundary", createdAt: NOW.Add(-24 * time.Hour), token: TOKEN},
		{
			id:          "just past the window",
			createdAt:   NOW.Add(-24*time.Hour - time.Second),
			token:       TOKEN,
			expectedErr: user.ErrResetTokenExpired,
		},
		{
			id:          "years past the window",
			createdAt:   time.Date(2016, 8, 25, 0, 0, 0, 0, time.UTC),
			token:       TOKEN,
			expectedErr: user.ErrResetTokenExpired,
		},
		{
			id:          "unknown token",
			createdAt:   NOW,
			token:       "never-issued-token",
			expectedErr: user.ErrResetTokenNotFound,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			suite := setupSuite()
			_, err := suite.resets.Create(context.Background(), user.CreatePasswordResetInput{
				Token:     TOKEN,
				UserID:    user.ID(1),
				CreatedAt: testcase.createdAt,
			})
			require.NoError(t, err)

			userID, err := suite.manager.Validate(context.Background(), suite.resets, testcase.token)

			if testcase.expectedErr != nil {
				require.ErrorIs(t, err, testcase.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, user.ID(1), userID)
		})
	}
}

func TestValidateDoesNotDeleteRecord(t *testing.T) {
	suite := setupSuite()
	_, err := suite.resets.Create(context.Background(), user.CreatePasswordResetInput{
		Token:     TOKEN,
		UserID:    user.ID(1),
		CreatedAt: NOW,
	})
	require.NoError(t, err)

	_, err = suite.manager.Validate(context.Background(), suite.resets, TOKEN)

	require.NoError(t, err)
	require.Len(t, suite.resets.Resets, 1)
}

func TestConsumeDeletesRecord(t *testing.T) {
	suite := setupSuite()
	_, err := suite.resets.Create(context.Background(), user.CreatePasswordResetInput{
		Token:     TOKEN,
		UserID:    user.ID(1),
		CreatedAt: NOW,
	})
	require.NoError(t, err)

	userID, err := suite.manager.Consume(context.Background(), suite.resets, TOKEN)

	require.NoError(t, err)
	require.Equal(t, user.ID(1), userID)
	require.Len(t, suite.resets.Resets, 0)
}

func TestConsumeIsSingleUse(t *testing.T) {
	suite := setupSuite()
	_, err := suite.resets.Create(context.Background(), user.CreatePasswordResetInput{
		Token:     TOKEN,
		UserID:    user.ID(1),
		CreatedAt: NOW,
	})
	require.NoError(t, err)

	_, err = suite.manager.Consume(context.Background(), suite.resets, TOKEN)
	require.NoError(t, err)

	_, err = suite.manager.Consume(context.Background(), suite.resets, TOKEN)
	require.ErrorIs(t, err, user.ErrResetTokenNotFound)
}

func TestConsumeExpiredKeepsRecord(t *testing.T) {
	suite := setupSuite()
	_, err := suite.resets.Create(context.Background(), user.CreatePasswordResetInput{
		Token:     TOKEN,
		UserID:    user.ID(1),
		CreatedAt: NOW.Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = suite.manager.Consume(context.Background(), suite.resets, TOKEN)

	require.ErrorIs(t, err, user.ErrResetTokenExpired)
	require.Len(t, suite.resets.Resets, 1)
}
