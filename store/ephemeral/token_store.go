package ephemeral

import (
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/redact"
)

// TokenStore maps single-use password reset tokens to the email they were issued for.
type TokenStore struct {
	core *coreStore[string]
}

func NewTokenStore(maxTokens int) *TokenStore {
	return &TokenStore{core: newCoreStore[string](maxTokens, sweepInterval, nil)}
}

func (s *TokenStore) Set(token, email string, ttl time.Duration) error {
	err := s.core.set(token, email, ttl)
	if err != nil {
		logging.WarnLog("Token store set failed [%s]: %v", redact.ID(token), err)
	}
	return err
}

// Take consumes a token. A token can be taken at most once.
func (s *TokenStore) Take(token string) (string, bool) {
	return s.core.take(token)
}

func (s *TokenStore) Close() {
	s.core.close()
}
