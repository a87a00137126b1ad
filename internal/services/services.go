package services

import (
	"context"
	"net/http"

	"github.com/chosic-go/chosic/internal/catalog"
)

// Transport is the HTTP collaborator the catalog operations run through.
// Implementations return the decoded JSON body; failures surface as
// [*APIError]. Retry behavior beyond the paginator's fixed inter-page delay
// is the transport's concern, not the caller's.
type Transport interface {
	// Request performs a request and returns the decoded JSON body.
	Request(ctx context.Context, method, endpoint string, params map[string]any) (any, error)

	// RequestWithHeaders additionally returns the response headers, which
	// carry the pagination metadata when the upstream populates it.
	RequestWithHeaders(ctx context.Context, method, endpoint string, params map[string]any) (any, http.Header, error)
}

// IDResolver extracts a canonical catalog identifier from heterogeneous
// input forms (bare id, URI, share URL). Implementations must be idempotent:
// resolving an already-canonical id returns it unchanged.
type IDResolver interface {
	Resolve(value any) string
}

// Cacher persists fetched entities for offline listing. Caching is
// best-effort: the facade logs failures and keeps going.
type Cacher interface {
	CacheTrack(track catalog.TrackItem) error
	CacheArtist(artist catalog.ArtistItem) error
}
