package services

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/chosic-go/chosic/internal/catalog"
)

// DefaultPageDelay spaces consecutive page requests. The upstream sits behind
// Cloudflare and bans sessions that page too fast.
const DefaultPageDelay = 500 * time.Millisecond

// pageFetcher performs a single page request and returns the decoded body
// plus the response headers.
type pageFetcher func(ctx context.Context, params map[string]any) (any, http.Header, error)

// paginator accumulates a multi-page result set into one payload. It walks
// pages sequentially: either the count advertised by the WordPress pagination
// headers, or — when the upstream omits them — a bounded probe capped at
// ceil(limit/pageSize) pages that stops early on an empty or short page.
type paginator struct {
	fetch     pageFetcher
	limit     int
	pageSize  int
	mergeKeys []string
	limiter   *rate.Limiter
	logger    *log.Logger
}

// newPaginator wires a paginator with the standard inter-page delay. The
// limiter starts with one token, so page 1 goes out immediately and every
// later page waits out the delay.
//
// The per-request ceiling applies to pageSize only. limit is the target
// total across pages and must stay unclamped: the bounded walk derives its
// page budget from it, so capping it at one page's worth would stop every
// fetch-all after the first page.
func newPaginator(fetch pageFetcher, limit, pageSize int, mergeKeys []string, delay time.Duration, logger *log.Logger) *paginator {
	if delay <= 0 {
		delay = DefaultPageDelay
	}
	if limit < 1 {
		limit = 1
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	return &paginator{
		fetch:     fetch,
		limit:     limit,
		pageSize:  ClampLimit(pageSize),
		mergeKeys: mergeKeys,
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
		logger:    logger,
	}
}

// run fetches and merges pages starting from the given base params. A failed
// first page is a hard error; a failure on any later page truncates the
// result to the pages already merged.
func (p *paginator) run(ctx context.Context, params map[string]any) (map[string]any, error) {
	pageParams := make(map[string]any, len(params)+2)
	for k, v := range params {
		pageParams[k] = v
	}
	pageParams["limit"] = p.pageSize
	pageParams["page"] = 1

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	first, headers, err := p.fetch(ctx, pageParams)
	if err != nil {
		return nil, err
	}

	aggregated, ok := first.(map[string]any)
	if !ok {
		aggregated = map[string]any{"tracks": []any{}}
	}

	if totalPages := totalPagesFrom(headers, p.pageSize); totalPages >= 2 {
		p.walkKnown(ctx, pageParams, aggregated, totalPages)
	} else {
		p.walkBounded(ctx, pageParams, aggregated)
	}

	return aggregated, nil
}

// walkKnown fetches pages 2..totalPages advertised by the response headers.
func (p *paginator) walkKnown(ctx context.Context, params, aggregated map[string]any, totalPages int) {
	p.logger.Debug("paginating with known total", "pages", totalPages)
	for page := 2; page <= totalPages; page++ {
		params["page"] = page
		body, err := p.fetchPage(ctx, params)
		if err != nil {
			p.logger.Warn("page fetch failed, keeping partial result", "page", page, "error", err)
			return
		}
		if part, ok := body.(map[string]any); ok {
			catalog.MergeInto(aggregated, part, p.mergeKeys...)
		}
	}
}

// walkBounded probes successive pages without knowing the total, capped at
// ceil(limit/pageSize) requests. An empty page stops before merging; a page
// shorter than pageSize stops after merging.
func (p *paginator) walkBounded(ctx context.Context, params, aggregated map[string]any) {
	budget := (p.limit + p.pageSize - 1) / p.pageSize
	p.logger.Debug("paginating without total", "budget", budget)

	fetched := 1
	for page := 2; fetched < budget; page++ {
		params["page"] = page
		body, err := p.fetchPage(ctx, params)
		if err != nil {
			p.logger.Warn("page fetch failed, keeping partial result", "page", page, "error", err)
			return
		}
		part, ok := body.(map[string]any)
		if !ok {
			return
		}

		hasItems := false
		for _, key := range p.mergeKeys {
			if catalog.ItemCount(part, key) > 0 {
				hasItems = true
				break
			}
		}
		if !hasItems {
			p.logger.Debug("empty page, stopping", "page", page)
			return
		}

		catalog.MergeInto(aggregated, part, p.mergeKeys...)
		fetched++

		for _, key := range p.mergeKeys {
			if n := catalog.ItemCount(part, key); n > 0 && n < p.pageSize {
				p.logger.Debug("short page, stopping", "page", page, "items", n)
				return
			}
		}
	}
}

// fetchPage waits out the inter-page delay before fetching.
func (p *paginator) fetchPage(ctx context.Context, params map[string]any) (any, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	body, _, err := p.fetch(ctx, params)
	return body, err
}

// totalPagesFrom extracts the page count from WordPress pagination headers:
// X-WP-TotalPages directly, else X-WP-Total divided by the page size. Returns
// 0 when neither header yields a usable value.
func totalPagesFrom(headers http.Header, pageSize int) int {
	if headers == nil {
		return 0
	}
	if raw := strings.TrimSpace(headers.Get("X-WP-TotalPages")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	if raw := strings.TrimSpace(headers.Get("X-WP-Total")); raw != "" {
		if total, err := strconv.Atoi(raw); err == nil && total > 0 && pageSize > 0 {
			return (total + pageSize - 1) / pageSize
		}
	}
	return 0
}
