package platform

import (
	"crypto/rand"
	"io"
)

const (
	tokenLength   = 50
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// TokenSource produces the opaque security tokens used to default the state
// and nonce parameters of an authentication request. Implementations must
// draw from a source suitable for security tokens; tests may substitute a
// deterministic reader through NewTokenSourceFromReader.
type TokenSource interface {
	Token() (string, error)
}

// NewTokenSource returns the default TokenSource, backed by crypto/rand.
func NewTokenSource() TokenSource {
	return NewTokenSourceFromReader(rand.Reader)
}

func NewTokenSourceFromReader(r io.Reader) TokenSource {
	return &tokenSource{rand: r}
}

type tokenSource struct {
	rand io.Reader
}

// Token returns a 50 character token drawn uniformly from the alphanumeric
// alphabet. Bytes outside the largest multiple of the alphabet size are
// rejected and redrawn, so no alphabet symbol is favored.
func (s *tokenSource) Token() (string, error) {
	const limit = byte(len(tokenAlphabet) * (256 / len(tokenAlphabet)))

	token := make([]byte, 0, tokenLength)
	buf := make([]byte, tokenLength)
	for {
		if _, err := io.ReadFull(s.rand, buf); err != nil {
			return "", ErrServerError().WithDescription("token source exhausted").WithParent(err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			token = append(token, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(token) == tokenLength {
				return string(token), nil
			}
		}
	}
}
