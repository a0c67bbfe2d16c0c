package highlight

import (
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Provider highlights buffer lines for a renderer and memoizes the result by
// line text, so an unchanged line is never re-lexed and an edited line always
// is.
type Provider struct {
	mu sync.RWMutex

	rules RuleSet

	// cache maps line text to its spans for the current rule set.
	cache *gocache.Cache

	// lineGetter retrieves line content by line index.
	lineGetter func(line int) string

	hits   atomic.Uint64
	misses atomic.Uint64
}

// ProviderStats reports cache effectiveness.
type ProviderStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// NewProvider creates a provider for rs. Cached entries not touched for ttl
// are dropped; ttl <= 0 selects five minutes.
func NewProvider(rs RuleSet, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Provider{
		rules: rs,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// RuleSet returns the active rule set.
func (p *Provider) RuleSet() RuleSet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rules
}

// SetRuleSet swaps the rule set and drops every cached line.
func (p *Provider) SetRuleSet(rs RuleSet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rules = rs
	p.cache.Flush()
}

// SetLineGetter sets the function used by HighlightsForLine.
func (p *Provider) SetLineGetter(getter func(line int) string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lineGetter = getter
}

// Spans returns the highlighted spans for text.
// The returned slice is shared; callers must not modify it.
func (p *Provider) Spans(text string) []Span {
	// The read lock is held through the store so that SetRuleSet cannot
	// flush between computing with the old rules and caching the result.
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.rules.IsPlain() || text == "" {
		return nil
	}
	if v, ok := p.cache.Get(text); ok {
		p.hits.Add(1)
		return v.([]Span)
	}
	p.misses.Add(1)
	spans := HighlightLine(text, p.rules)
	p.cache.SetDefault(text, spans)
	return spans
}

// HighlightsForLine returns spans for a buffer line via the line getter.
func (p *Provider) HighlightsForLine(line int) []Span {
	p.mu.RLock()
	getter := p.lineGetter
	p.mu.RUnlock()

	if getter == nil {
		return nil
	}
	return p.Spans(getter(line))
}

// Invalidate drops the cached spans for text.
func (p *Provider) Invalidate(text string) {
	p.cache.Delete(text)
}

// InvalidateAll clears the cache.
func (p *Provider) InvalidateAll() {
	p.cache.Flush()
}

// Stats returns cache counters.
func (p *Provider) Stats() ProviderStats {
	return ProviderStats{
		Hits:    p.hits.Load(),
		Misses:  p.misses.Load(),
		Entries: p.cache.ItemCount(),
	}
}
