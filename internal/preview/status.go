package preview

import (
	"sync"
	"time"

	"git.home.luguber.info/inful/themebridge/internal/build"
)

// buildStatus tracks the latest build for error display and health checks.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastReport   *build.Report
	lastBuild    time.Time
	builds       int
	hasGoodBuild bool // true if at least one successful build exists
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastBuild = time.Now()
	bs.builds++
}

func (bs *buildStatus) setSuccess(report *build.Report) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastReport = report
	bs.lastBuild = time.Now()
	bs.builds++
	bs.hasGoodBuild = true
}

func (bs *buildStatus) getStatus() (hasError bool, err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError != nil, bs.lastError, bs.hasGoodBuild
}

type healthSnapshot struct {
	Status    string        `json:"status"`
	Builds    int           `json:"builds"`
	LastBuild time.Time     `json:"last_build,omitzero"`
	Error     string        `json:"error,omitempty"`
	Report    *build.Report `json:"report,omitempty"`
}

func (bs *buildStatus) snapshot() healthSnapshot {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	snap := healthSnapshot{Status: "ok", Builds: bs.builds, LastBuild: bs.lastBuild, Report: bs.lastReport}
	switch {
	case bs.builds == 0:
		snap.Status = "starting"
	case bs.lastError != nil:
		snap.Status = "degraded"
		snap.Error = bs.lastError.Error()
	}
	return snap
}
