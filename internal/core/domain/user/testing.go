package user

import (
	c "accountd/internal/core/domain/common"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sync"
)

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if c.NewEmail(string(u.Email)) == c.NewEmail(string(input.Email)) {
			return u, ErrEmailAlreadyExists
		}
		maxID = u.ID
	}
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by ID %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by email %s", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	// Matches case-insensitively, as the SQL repository does with lower(email).
	for _, u := range r.Users {
		if c.NewEmail(string(u.Email)) == c.NewEmail(string(email)) {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, id ID, password PasswordHash) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordHash = password
			return nil
		}
	}
	return ErrUserDoesNotExist
}

type FakePasswordResetRepository struct {
	Resets      map[PasswordResetToken]PasswordReset
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetRepository() *FakePasswordResetRepository {
	return &FakePasswordResetRepository{Resets: make(map[PasswordResetToken]PasswordReset)}
}

func (r *FakePasswordResetRepository) Create(
	ctx context.Context,
	input CreatePasswordResetInput,
) (reset PasswordReset, err error) {
	if r.ReturnError {
		return reset, fmt.Errorf("could not create password reset %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	reset = PasswordReset{Token: input.Token, UserID: input.UserID, CreatedAt: input.CreatedAt}
	r.Resets[input.Token] = reset
	return reset, nil
}

func (r *FakePasswordResetRepository) GetByToken(
	ctx context.Context,
	token PasswordResetToken,
) (reset PasswordReset, err error) {
	if r.ReturnError {
		return reset, fmt.Errorf("could not get password reset by token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	reset, ok := r.Resets[token]
	if !ok {
		return reset, ErrResetTokenNotFound
	}
	return reset, nil
}

func (r *FakePasswordResetRepository) DeleteByToken(ctx context.Context, token PasswordResetToken) error {
	if r.ReturnError {
		return fmt.Errorf("could not delete password reset by token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.Resets[token]; !ok {
		return ErrResetTokenNotFound
	}
	delete(r.Resets, token)
	return nil
}

func (r *FakePasswordResetRepository) DeleteForUser(ctx context.Context, userID ID) error {
	if r.ReturnError {
		return fmt.Errorf("could not delete password resets for user %d", userID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for token, reset := range r.Resets {
		if reset.UserID == userID {
			delete(r.Resets, token)
		}
	}
	return nil
}

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakePasswordResetTokenGenerator struct {
	Token PasswordResetToken
}

func NewFakePasswordResetTokenGenerator(token string) *FakePasswordResetTokenGenerator {
	return &FakePasswordResetTokenGenerator{Token: PasswordResetToken(token)}
}

func (g *FakePasswordResetTokenGenerator) GeneratePasswordResetToken() PasswordResetToken {
	return g.Token
}

type FakePasswordResetRequestedPublisher struct {
	Published   []PasswordReset
	PublishedTo []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetRequestedPublisher() *FakePasswordResetRequestedPublisher {
	return &FakePasswordResetRequestedPublisher{}
}

func (p *FakePasswordResetRequestedPublisher) PublishPasswordResetRequested(
	ctx context.Context,
	u User,
	token PasswordResetToken,
) error {
	if p.ReturnError {
		return fmt.Errorf("could not publish password reset requested event")
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	p.Published = append(p.Published, PasswordReset{Token: token, UserID: u.ID})
	p.PublishedTo = append(p.PublishedTo, u)
	return nil
}

func (p *FakePasswordResetRequestedPublisher) PublishedCount() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.Published)
}

type FakePasswordResetTokenSender struct {
	Sent        []PasswordResetToken
	SentTo      []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetTokenSender() *FakePasswordResetTokenSender {
	return &FakePasswordResetTokenSender{}
}

func (s *FakePasswordResetTokenSender) SendPasswordResetToken(
	ctx context.Context,
	u User,
	token PasswordResetToken,
) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password reset token")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, token)
	s.SentTo = append(s.SentTo, u)
	return nil
}

func (s *FakePasswordResetTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}
