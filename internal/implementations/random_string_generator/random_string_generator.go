package randomstringgenerator

import (
	"accountd/internal/core/domain/user"
	"crypto/rand"
	"fmt"
	"math/big"
)

var chars = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// Generator produces opaque tokens from a cryptographically secure source.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) GeneratePasswordResetToken() user.PasswordResetToken {
	return user.PasswordResetToken(randomString(user.PasswordResetTokenLength))
}

func randomString(length int) string {
	b := make([]rune, length)
	max := big.NewInt(int64(len(chars)))
	for i := range b {
		ix, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("could not read from crypto/rand: %v", err))
		}
		b[i] = chars[ix.Int64()]
	}
	return string(b)
}
