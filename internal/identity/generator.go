package identity

import (
	"math/rand/v2"
	"strings"

	"tempmailgen/internal/domain"
)

var usernamePrefixes = []string{"user", "admin", "guest", "client", "member", "demo", "test", "temp"}

const (
	usernameSuffixChars = "abcdefghijklmnopqrstuvwxyz0123456789"
	usernameSuffixLen   = 4

	passwordSymbols = "!@#$%^&*+=_-"
	passwordChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" + passwordSymbols

	passwordMinLen = 8
	passwordMaxLen = 16
)

// Source is the random source used by a Generator. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// runtimeSource draws from the top-level math/rand/v2 generator, which is
// seeded by the runtime and safe for concurrent use.
type runtimeSource struct{}

func (runtimeSource) IntN(n int) int { return rand.IntN(n) }

// Generator produces random credentials. It makes no cryptographic strength
// guarantee; supply a crypto/rand backed Source for that.
type Generator struct {
	src Source
}

// New returns a Generator. A nil src uses the runtime generator.
func New(src Source) *Generator {
	if src == nil {
		src = runtimeSource{}
	}
	return &Generator{src: src}
}

// Username returns one of the fixed prefixes followed by four lowercase
// letters or digits.
func (g *Generator) Username() string {
	var b strings.Builder
	prefix := usernamePrefixes[g.src.IntN(len(usernamePrefixes))]
	b.Grow(len(prefix) + usernameSuffixLen)
	b.WriteString(prefix)
	g.pick(&b, usernameSuffixChars, usernameSuffixLen)
	return b.String()
}

// Password returns 8 to 16 characters drawn from letters, digits and
// !@#$%^&*+=_-.
func (g *Generator) Password() string {
	n := passwordMinLen + g.src.IntN(passwordMaxLen-passwordMinLen+1)
	var b strings.Builder
	b.Grow(n)
	g.pick(&b, passwordChars, n)
	return b.String()
}

func (g *Generator) Credential() domain.Credential {
	return domain.Credential{
		Username: g.Username(),
		Password: g.Password(),
	}
}

func (g *Generator) pick(b *strings.Builder, alphabet string, n int) {
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[g.src.IntN(len(alphabet))])
	}
}
