package sendpasswordresettoken

import (
	c "accountd/internal/core/domain/common"
	ratelimiter "accountd/internal/core/domain/rate_limiter"
	"accountd/internal/core/domain/user"
	service "accountd/internal/core/services/send_password_reset_token"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const TOKEN = user.PasswordResetToken("yarBq7Wo9Cn1JVLN")

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	if s.err != nil {
		return result, s.err
	}
	s.input = &input
	result.Token = TOKEN
	return result, nil
}

func TestSendPasswordResetTokenHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		serviceError   error
		expectedStatus int
		expectedInput  *service.Input
	}{
		{
			id:             "valid email",
			body:           `{"email": "alice@mail.com"}`,
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{Email: c.NewEmail("alice@mail.com")},
		},
		{
			id:             "email is normalized",
			body:           `{"email": "  Alice@Mail.com "}`,
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{Email: c.NewEmail("alice@mail.com")},
		},
		{
			id:             "invalid json",
			body:           `{"email": `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "email is missing",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "email is not valid",
			body:           `{"email": "not-an-email"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "rate limit exceeded",
			body:           `{"email": "alice@mail.com"}`,
			serviceError:   ratelimiter.ErrRateLimitExceeded,
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			id:             "internal error",
			body:           `{"email": "alice@mail.com"}`,
			serviceError:   errors.New("something went wrong"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			req, err := http.NewRequest("POST", "/auth/password_reset/token", strings.NewReader(testcase.body))
			if err != nil {
				t.Fatal(err)
			}

			service := &stubService{err: testcase.serviceError}
			rr := httptest.NewRecorder()
			handler := New(service, false)
			handler.ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, testcase.expectedInput, service.input)
			assert.Empty(t, rr.Header().Get(TestTokenHeader))
		})
	}
}

func TestSendPasswordResetTokenHandlerTestMode(t *testing.T) {
	req, err := http.NewRequest("POST", "/auth/password_reset/token", strings.NewReader(`{"email": "alice@mail.com"}`))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	handler := New(&stubService{}, true)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, string(TOKEN), rr.Header().Get(TestTokenHeader))
}
