package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/nao1215/antcrawl/ant"
	"github.com/nao1215/antcrawl/config"
	"github.com/nao1215/antcrawl/thing"
)

// spider is the reference crawl logic shipped with the CLI. It fetches
// the seed URLs, collects one Item per page, and follows allowed links
// up to the configured depth, scheduling every fetch as concurrent work
// on the engine.
type spider struct {
	seeds      []*url.URL
	maxDepth   int
	maxPages   int
	allowHosts map[string]struct{}
	logger     *slog.Logger

	// mutex protects visited and pages across concurrent fetches.
	mutex   sync.Mutex
	visited map[string]struct{}
	pages   int
}

// newSpider validates the spider configuration and resolves the allowed
// host set (seed hosts plus any configured extras).
func newSpider(cfg config.Spider, logger *slog.Logger) (*spider, error) {
	s := &spider{
		maxDepth:   cfg.MaxDepth,
		maxPages:   cfg.MaxPages,
		allowHosts: make(map[string]struct{}, len(cfg.AllowHosts)+len(cfg.Seeds)),
		logger:     logger,
		visited:    make(map[string]struct{}),
	}

	for _, raw := range cfg.Seeds {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse seed url %q: %w", raw, err)
		}
		if !u.IsAbs() || u.Hostname() == "" {
			return nil, fmt.Errorf("seed url %q must be absolute with a host", raw)
		}
		s.seeds = append(s.seeds, u)
		s.allowHosts[u.Hostname()] = struct{}{}
	}
	for _, host := range cfg.AllowHosts {
		s.allowHosts[host] = struct{}{}
	}
	return s, nil
}

// Run implements ant.Runner. Every seed starts its own concurrent crawl.
func (s *spider) Run(ctx context.Context, a *ant.Ant) error {
	for _, seed := range s.seeds {
		u := seed
		a.Schedule(ctx, func(ctx context.Context) error {
			return s.crawl(ctx, a, u, 0)
		})
	}
	return nil
}

// crawl fetches one page, collects its Item, and schedules the links
// worth following. Dropped requests and exhausted retries end this
// branch only; the error is logged by the scheduler.
func (s *spider) crawl(ctx context.Context, a *ant.Ant, u *url.URL, depth int) error {
	if !s.claim(u) {
		return nil
	}

	req, err := thing.NewRequest(u.String())
	if err != nil {
		return err
	}
	res, err := a.Request(ctx, req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", u, err)
	}

	page, err := parsePage(res)
	if err != nil {
		return fmt.Errorf("parse %s: %w", u, err)
	}

	item := thing.NewItem().
		Set("url", res.Request.FullURL().String()).
		Set("status", res.StatusCode).
		Set("title", page.Title).
		Set("links", len(page.Links))
	if err := a.Collect(ctx, item); err != nil {
		return err
	}

	if depth >= s.maxDepth {
		return nil
	}
	for _, link := range page.Links {
		if _, ok := s.allowHosts[link.Hostname()]; !ok {
			continue
		}
		next := link
		a.Schedule(ctx, func(ctx context.Context) error {
			return s.crawl(ctx, a, next, depth+1)
		})
	}
	return nil
}

// claim marks u as visited and charges it against the page cap. It
// returns false when the URL was already fetched or the cap is reached.
func (s *spider) claim(u *url.URL) bool {
	key := *u
	key.Fragment = ""

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.pages >= s.maxPages {
		return false
	}
	if _, seen := s.visited[key.String()]; seen {
		return false
	}
	s.visited[key.String()] = struct{}{}
	s.pages++
	return true
}
