package features

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Checker answers whether an organization's plan includes a feature.
type Checker interface {
	CheckFeature(ctx context.Context, orgID, feature string) (bool, error)
}

// Gate caches plan checks. A Gate with no Checker or no organization id
// allows everything.
type Gate struct {
	checker Checker
	orgID   string
	cache   *cache.Cache
	logger  *zap.Logger
}

// NewGate creates a Gate. checker may be nil for offline use.
func NewGate(checker Checker, orgID string, ttl time.Duration, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		checker: checker,
		orgID:   orgID,
		cache:   cache.New(ttl, 2*ttl),
		logger:  logger,
	}
}

// Offline reports whether the gate answers without a backend.
func (g *Gate) Offline() bool {
	return g.checker == nil || g.orgID == ""
}

// Allowed reports whether the organization may use module. Answers are cached
// for the gate's TTL; failed checks are not cached.
func (g *Gate) Allowed(ctx context.Context, module Module) (bool, error) {
	if g.Offline() {
		return true, nil
	}
	if v, ok := g.cache.Get(string(module)); ok {
		return v.(bool), nil
	}

	allowed, err := g.checker.CheckFeature(ctx, g.orgID, string(module))
	if err != nil {
		g.logger.Warn("feature check failed", zap.String("feature", string(module)), zap.Error(err))
		return false, err
	}
	g.cache.SetDefault(string(module), allowed)
	return allowed, nil
}

// ModuleStatus is a visible module and whether the plan allows it.
type ModuleStatus struct {
	Module  Module
	Allowed bool
}

// Visible returns the industry's visible modules with their plan status. The
// first failed check aborts the listing.
func (g *Gate) Visible(ctx context.Context, industry Industry) ([]ModuleStatus, error) {
	modules := VisibleModules(industry)
	out := make([]ModuleStatus, 0, len(modules))
	for _, m := range modules {
		ok, err := g.Allowed(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, ModuleStatus{Module: m, Allowed: ok})
	}
	return out, nil
}
