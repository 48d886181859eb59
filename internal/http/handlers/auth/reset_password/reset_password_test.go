package resetpassword

import (
	c "accountd/internal/core/domain/common"
	"accountd/internal/core/domain/user"
	resetpassword "accountd/internal/core/services/reset_password"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	err   error
	input *resetpassword.Input
}

func (s *stubService) Run(
	ctx context.Context,
	input resetpassword.Input,
) (result resetpassword.Result, err error) {
	if s.err != nil {
		return result, s.err
	}
	s.input = &input
	return result, nil
}

func TestResetPasswordHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		serviceError   error
		expectedStatus int
		expectedInput  *resetpassword.Input
	}{
		{
			id:             "valid input",
			body:           `{"email": "alice@mail.com", "token": "yarBq7Wo9Cn1JVLN", "password": "passwordnew"}`,
			expectedStatus: http.StatusOK,
			expectedInput: &resetpassword.Input{
				Email:       c.NewEmail("alice@mail.com"),
				Token:       user.PasswordResetToken("yarBq7Wo9Cn1JVLN"),
				NewPassword: user.RawPassword("passwordnew"),
			},
		},
		{
			id:             "invalid json",
			body:           `{"email": `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "email is missing",
			body:           `{"token": "yarBq7Wo9Cn1JVLN", "password": "passwordnew"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "token is missing",
			body:           `{"email": "alice@mail.com", "password": "passwordnew"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "token is too short",
			body:           `{"email": "alice@mail.com", "token": "123456789012345", "password": "passwordnew"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "token is too long",
			body:           `{"email": "alice@mail.com", "token": "12345678901234567", "password": "passwordnew"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "password is missing",
			body:           `{"email": "alice@mail.com", "token": "yarBq7Wo9Cn1JVLN"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "password is too short",
			body:           `{"email": "alice@mail.com", "token": "yarBq7Wo9Cn1JVLN", "password": "12345"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "invalid token",
			body:           `{"email": "alice@mail.com", "token": "yarBq7Wo9Cn1JVLN", "password": "passwordnew"}`,
			serviceError:   user.ErrInvalidPasswordResetToken,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			id:             "internal error",
			body:           `{"email": "alice@mail.com", "token": "yarBq7Wo9Cn1JVLN", "password": "passwordnew"}`,
			serviceError:   errors.New("something went wrong"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			req, err := http.NewRequest("PUT", "/auth/password_reset", strings.NewReader(testcase.body))
			if err != nil {
				t.Fatal(err)
			}

			service := &stubService{err: testcase.serviceError}
			rr := httptest.NewRecorder()
			handler := New(service)
			handler.ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, testcase.expectedInput, service.input)
		})
	}
}
