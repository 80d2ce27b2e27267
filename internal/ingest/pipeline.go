// Package ingest runs the scan: one Overpass query per configured category,
// normalization of every hit, and assembly of the knowledge-base document.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"alpenlodge/internal/config"
	"alpenlodge/internal/crawler"
	"alpenlodge/internal/logger"
	"alpenlodge/internal/models"
	"alpenlodge/internal/normalizer"
	"alpenlodge/pkg/metadata"
)

// DataSourceNote is appended to the configured meta notes.
const DataSourceNote = "Datenquelle: OpenStreetMap via Overpass API."

// Source keys written into every document.
const (
	SourceOSM      = "osm"
	SourceOverpass = "overpass"
)

// Pipeline errors.
var (
	ErrFetchFailed   = errors.New("category fetch failed")
	ErrInvalidRadius = errors.New("scan radius is not a positive number")
)

// Fetcher executes one Overpass query.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (*models.OverpassResponse, error)
}

// Pipeline turns a scan config into a knowledge-base document.
type Pipeline struct {
	cfg            *config.ScanConfig
	fetcher        Fetcher
	log            *logger.Logger
	now            func() time.Time
	maxPerCategory int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the time source used for generated_at and the run date.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithMaxPerCategory overrides the per-category safety cap. Values below 1 are ignored.
func WithMaxPerCategory(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxPerCategory = n
		}
	}
}

// NewPipeline creates a pipeline for cfg. A nil logger discards output.
func NewPipeline(cfg *config.ScanConfig, fetcher Fetcher, log *logger.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = logger.Discard()
	}

	p := &Pipeline{
		cfg:            cfg,
		fetcher:        fetcher,
		log:            log,
		now:            time.Now,
		maxPerCategory: cfg.Advanced.MaxPerCategory,
	}

	if p.maxPerCategory <= 0 {
		p.maxPerCategory = config.DefaultMaxPerCategory
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run fetches every category in order and assembles the document. A fetch
// failure aborts the run unless advanced.continue_on_fetch_error is set, in
// which case the category is skipped and recorded in the stats.
func (p *Pipeline) Run(ctx context.Context) (*models.Document, *Stats, error) {
	radiusKm, ok := p.cfg.RadiusKm()
	if !ok || radiusKm <= 0 {
		return nil, nil, ErrInvalidRadius
	}

	started := p.now()
	runDate := metadata.RunDate(started)
	processor := normalizer.NewProcessor(p.cfg.Center, radiusKm, runDate)
	stats := &Stats{}
	items := []models.Item{}

	p.log.Info("Starting scan",
		"center", p.cfg.Center,
		"radius_km", radiusKm,
		"categories", len(p.cfg.Categories),
		"max_per_category", p.maxPerCategory,
	)

	for _, cat := range p.cfg.Categories {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		cs := stats.category(cat.Type)
		log := p.log.With("category", cat.Type)
		query := crawler.BuildQuery(p.cfg.Center, radiusKm, cat.Type, cat.Values)

		log.Debug("Querying category", "values", cat.Values)

		resp, err := p.fetcher.Fetch(ctx, query)
		if err != nil {
			if !p.cfg.Advanced.ContinueOnFetchError || ctx.Err() != nil {
				return nil, stats, fmt.Errorf("%w %q: %w", ErrFetchFailed, cat.Type, err)
			}

			cs.Failed = true
			cs.Error = err.Error()
			log.Warn("Skipping category after fetch failure", "error", err)

			continue
		}

		elements := resp.Elements
		cs.Fetched = len(elements)

		if len(elements) > p.maxPerCategory {
			cs.Capped = len(elements) - p.maxPerCategory
			elements = elements[:p.maxPerCategory]
			log.Warn("Category exceeds safety cap",
				"fetched", cs.Fetched,
				"dropped", cs.Capped,
			)
		}

		for i := range elements {
			item, reason := processor.Process(&elements[i], cat.Type)
			if reason != normalizer.ReasonAccepted {
				cs.Rejected[reason]++
				continue
			}

			items = append(items, *item)
			cs.Accepted++
		}

		log.Info("Category processed",
			"fetched", cs.Fetched,
			"accepted", cs.Accepted,
			"rejected", cs.RejectedTotal(),
		)
	}

	doc := p.assemble(started, items)

	p.log.Info("Scan complete", "items", len(doc.Items), "duration", p.now().Sub(started))

	return doc, stats, nil
}

func (p *Pipeline) assemble(generated time.Time, items []models.Item) *models.Document {
	notes := slices.Clone(p.cfg.Meta.Notes)
	notes = append(notes, DataSourceNote)

	return &models.Document{
		Meta: models.Meta{
			Version:     metadata.DumpVersion(p.cfg.Meta.Version),
			Language:    p.cfg.Meta.Language,
			GeneratedAt: metadata.GeneratedAt(generated),
			Maintainer:  p.cfg.Meta.Maintainer,
			Rules:       maps.Clone(p.cfg.Meta.Rules),
			Notes:       notes,
		},
		Alpenlodge: models.Lodge{
			Name:      p.cfg.Alpenlodge.Name,
			Timezone:  p.cfg.Meta.Timezone,
			Center:    p.cfg.Center,
			Amenities: []models.Amenity{},
		},
		Sources: DefaultSources(),
		Items:   items,
	}
}

// DefaultSources returns the source descriptors every scan document carries.
func DefaultSources() map[string]models.SourceDescriptor {
	return map[string]models.SourceDescriptor{
		SourceOSM: {
			Label: "OpenStreetMap (Overpass API)",
			URL:   "https://www.openstreetmap.org",
			Scope: "general",
		},
		SourceOverpass: {
			Label: "Overpass API",
			URL:   "https://overpass-api.de/",
			Scope: "general",
		},
	}
}
