package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	assert := require.New(t)

	assert.Equal(Email("alice@mail.com"), NewEmail("alice@mail.com"))
	assert.Equal(Email("alice@mail.com"), NewEmail("Alice@Mail.Com"))
	assert.Equal(Email("alice@mail.com"), NewEmail("  alice@mail.com "))
}
