package client

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/svgholder/svgholder/common/models"
)

// galleryAPI is the slice of the API client the gallery needs
type galleryAPI interface {
	ListSvgs(ctx context.Context) ([]*models.Svg, error)
	SearchSvgs(ctx context.Context, query string) ([]*models.Svg, error)
	DeleteSvg(ctx context.Context, id string) error
}

// Gallery is the in-memory mirror of the record list plus its derived
// views. It is never the source of truth: every transition rebuilds
// state from the server's response. Not safe for concurrent use.
type Gallery struct {
	api      galleryAPI
	svgs     []*models.Svg
	query    string
	selected *models.Svg
	loading  bool
	lastErr  string
	deleting map[string]bool
}

// NewGallery creates a gallery backed by the given API client
func NewGallery(api *Client) *Gallery {
	return newGallery(api)
}

func newGallery(api galleryAPI) *Gallery {
	return &Gallery{
		api:      api,
		svgs:     []*models.Svg{},
		deleting: make(map[string]bool),
	}
}

// Load fetches the full record list and replaces the local copy. On
// failure the previous list is kept and the error is surfaced for a
// manual retry.
func (g *Gallery) Load(ctx context.Context) error {
	g.loading = true
	g.lastErr = ""
	g.query = ""

	svgs, err := g.api.ListSvgs(ctx)
	g.loading = false
	if err != nil {
		g.lastErr = "Failed to load SVGs"
		return err
	}

	g.svgs = svgs
	return nil
}

// Search fetches the filtered list for a non-empty query; an empty or
// whitespace-only query reloads the full list instead.
func (g *Gallery) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return g.Load(ctx)
	}

	g.loading = true
	g.lastErr = ""

	svgs, err := g.api.SearchSvgs(ctx, query)
	g.loading = false
	if err != nil {
		g.lastErr = "Search failed"
		return err
	}

	g.query = query
	g.svgs = svgs
	return nil
}

// Delete removes a record on the server, then from the local list.
// The record stays visible until the server confirms; on failure the
// list is left unchanged and the error is surfaced.
func (g *Gallery) Delete(ctx context.Context, id string) error {
	g.deleting[id] = true
	defer delete(g.deleting, id)

	if err := g.api.DeleteSvg(ctx, id); err != nil {
		g.lastErr = "Failed to delete SVG"
		return err
	}

	kept := g.svgs[:0]
	for _, svg := range g.svgs {
		if svg.ID.String() != id {
			kept = append(kept, svg)
		}
	}
	g.svgs = kept

	if g.selected != nil && g.selected.ID.String() == id {
		g.selected = nil
	}

	return nil
}

// Select marks a record as the detail view's subject. Returns false
// when the id is not in the current list.
func (g *Gallery) Select(id string) bool {
	for _, svg := range g.svgs {
		if svg.ID.String() == id {
			g.selected = svg
			return true
		}
	}
	return false
}

// Deselect clears the detail view selection
func (g *Gallery) Deselect() {
	g.selected = nil
}

// Selected returns the record currently shown in the detail view
func (g *Gallery) Selected() *models.Svg {
	return g.selected
}

// Records returns the current list as last fetched
func (g *Gallery) Records() []*models.Svg {
	return g.svgs
}

// Query returns the active search query, empty when showing all
func (g *Gallery) Query() string {
	return g.query
}

// Loading reports whether a fetch is in flight
func (g *Gallery) Loading() bool {
	return g.loading
}

// Err returns the last surfaced error message, empty when healthy
func (g *Gallery) Err() string {
	return g.lastErr
}

// Deleting reports whether a delete for id is pending confirmation
func (g *Gallery) Deleting(id string) bool {
	return g.deleting[id]
}

// DateGroup is one calendar day's worth of records
type DateGroup struct {
	// Midnight UTC of the upload day
	Date time.Time
	Svgs []*models.Svg
}

// Groups buckets the current list by the UTC calendar date of upload,
// newest day first, records within a day newest first.
func (g *Gallery) Groups() []DateGroup {
	buckets := make(map[time.Time][]*models.Svg)
	for _, svg := range g.svgs {
		day := svg.CreatedAt.UTC().Truncate(24 * time.Hour)
		buckets[day] = append(buckets[day], svg)
	}

	groups := make([]DateGroup, 0, len(buckets))
	for day, svgs := range buckets {
		sort.SliceStable(svgs, func(i, j int) bool {
			return svgs[i].CreatedAt.After(svgs[j].CreatedAt)
		})
		groups = append(groups, DateGroup{Date: day, Svgs: svgs})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})

	return groups
}
