package treecache

import (
	"time"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/metrics"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// Wrap returns a parse wrapper that answers whole-document parses from the
// cache and stores the trees of the ones it had to run. Parses given
// fragments, partial ranges or a stop position bypass the cache.
func (c *Cache) Wrap(scope Scope) markdown.ParseWrapper {
	return func(inner markdown.PartialParse, input tree.Input, fragments []tree.Fragment, ranges []tree.Range) markdown.PartialParse {
		whole := len(fragments) == 0 && len(ranges) == 1 &&
			ranges[0].From == 0 && ranges[0].To == input.Length()
		if !whole {
			return inner
		}
		return &cachingParse{PartialParse: inner, cache: c, scope: scope, input: input}
	}
}

// Configure returns p extended with the cache. Configure it after every
// extension that changes parsing and before extensions that attach
// mounts, since mounts are not stored.
func (c *Cache) Configure(p *markdown.Parser) (*markdown.Parser, error) {
	return p.Configure(markdown.Extension{Name: "cache", Wrap: c.Wrap(ScopeOf(p))})
}

type cachingParse struct {
	markdown.PartialParse
	cache   *Cache
	scope   Scope
	input   tree.Input
	text    string
	started bool
	done    *tree.Tree
}

func (p *cachingParse) Advance() *tree.Tree {
	if p.done != nil {
		return p.done
	}
	if !p.started {
		p.started = true
		p.text = p.input.Read(0, p.input.Length())
		if _, stopped := p.StoppedAt(); !stopped {
			start := time.Now()
			if t, ok, err := p.cache.Get(p.text, p.scope); err == nil && ok {
				p.cache.recorder.ObserveParse(metrics.ParseCached, time.Since(start))
				p.done = t
				return t
			}
		}
	}
	t := p.PartialParse.Advance()
	if t == nil {
		return nil
	}
	p.done = t
	if stop, stopped := p.StoppedAt(); !stopped || stop >= len(p.text) {
		if err := p.cache.Put(p.text, p.scope, t); err != nil {
			p.cache.logger.Warn("tree cache write failed", logging.FieldError, err)
		}
	}
	return t
}

func (p *cachingParse) ParsedPos() int {
	if p.done != nil {
		return p.input.Length()
	}
	return p.PartialParse.ParsedPos()
}
