package expr

import (
	"sync"
	"sync/atomic"

	"github.com/convexgo/convex/internal/config"
)

var (
	settingsOnce sync.Once
	strictDiv    atomic.Bool
)

func loadSettings() {
	settingsOnce.Do(func() {
		strictDiv.Store(config.LoadOrDefault().Compile.StrictDivision)
	})
}

// strictDivision reports whether zero-containing divisors are rejected.
func strictDivision() bool {
	loadSettings()
	return strictDiv.Load()
}

// SetStrictDivision overrides the STRICT_DIVISION environment setting.
func SetStrictDivision(v bool) {
	loadSettings()
	strictDiv.Store(v)
}
