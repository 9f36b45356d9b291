package signature

import (
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/logger"
)

// Resolver memoizes a Provider per kind. Safe for concurrent use: the
// first signature stored for a kind wins and is returned from then on.
type Resolver struct {
	provider Provider
	log      *zap.SugaredLogger

	mu   sync.Mutex
	memo map[string][]string
}

// NewResolver wraps a provider with a memo table
func NewResolver(provider Provider) *Resolver {
	return &Resolver{
		provider: provider,
		log:      logger.ComponentLogger("signature"),
		memo:     make(map[string][]string),
	}
}

// Resolve returns the ordered build parameters for kind.
// The returned slice is shared; callers must not modify it.
func (r *Resolver) Resolve(kind string) ([]string, error) {
	r.mu.Lock()
	params, ok := r.memo[kind]
	r.mu.Unlock()
	if ok {
		return params, nil
	}

	params, err := r.provider.Signature(kind)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving builder signature for %s", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.memo[kind]; ok {
		return existing, nil
	}
	r.memo[kind] = params
	r.log.Debugw("cached builder signature",
		logger.FieldKind, kind,
		logger.FieldParams, params,
		logger.FieldProvider, r.provider.Name())
	return params, nil
}

// Provider returns the underlying provider
func (r *Resolver) Provider() Provider {
	return r.provider
}
