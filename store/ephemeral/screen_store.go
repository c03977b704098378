package ephemeral

import (
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/metrics"
	"github.com/Goofygiraffe06/authscreen/internal/redact"
	"github.com/Goofygiraffe06/authscreen/internal/view"
)

// ScreenStore holds the live auth screens, one controller per browser. An entry
// that is not touched for its TTL is discarded, which is the screen's unmount.
type ScreenStore struct {
	core *coreStore[*view.Controller]
	ttl  time.Duration
}

// NewScreenStore creates a store capped at maxScreens entries.
func NewScreenStore(ttl time.Duration, maxScreens int) *ScreenStore {
	s := &ScreenStore{ttl: ttl}
	s.core = newCoreStore(maxScreens, sweepInterval, func(id string, _ *view.Controller) {
		metrics.ScreensActive.Dec()
		logging.DebugLog("Screen expired [%s]", redact.ID(id))
	})
	return s
}

// Put mounts a controller under id.
func (s *ScreenStore) Put(id string, c *view.Controller) error {
	_, existed := s.core.get(id, false)
	if err := s.core.set(id, c, s.ttl); err != nil {
		return err
	}
	if !existed {
		metrics.ScreensActive.Inc()
	}
	return nil
}

// Get returns the controller and extends its lifetime.
func (s *ScreenStore) Get(id string) (*view.Controller, bool) {
	return s.core.get(id, true)
}

// Delete unmounts a screen.
func (s *ScreenStore) Delete(id string) {
	if _, ok := s.core.delete(id); ok {
		metrics.ScreensActive.Dec()
	}
}

// Len returns the number of mounted screens, expired-but-unswept included.
func (s *ScreenStore) Len() int {
	return s.core.len()
}

// Close stops the expiry sweeper.
func (s *ScreenStore) Close() {
	s.core.close()
}
