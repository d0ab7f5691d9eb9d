// Package updateservice coordinates the weekly-updates pipeline: fetching raw
// records from the configured source, normalizing and classifying them,
// persisting the result, and serving the paginated week views.
package updateservice

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/subhashbohra/acloudresume-site/internal/apperr"
	"github.com/subhashbohra/acloudresume-site/internal/digest"
	"github.com/subhashbohra/acloudresume-site/internal/feed"
	"github.com/subhashbohra/acloudresume-site/internal/models"
	"github.com/subhashbohra/acloudresume-site/internal/store"
)

// Source produces raw feed records. The RSS, JSON-API, and sample-file
// fetchers all satisfy it via small adapters in the wiring layer.
type Source func(ctx context.Context) ([]models.RawUpdate, error)

// Notifier receives pipeline events for live page updates.
type Notifier interface {
	PublishRefresh(weekKey string, count int)
}

// RefreshResult summarizes a completed refresh: the newest week present in
// the ingested batch and how many of its items were written. A feed fetch
// can span week boundaries, so the count is per reported week, not per batch.
type RefreshResult struct {
	WeekKey string `json:"weekKey"`
	Count   int    `json:"count"`
}

func refreshSummary(items []models.Update) RefreshResult {
	groups := feed.GroupByWeek(items)
	if len(groups) == 0 {
		return RefreshResult{}
	}
	return RefreshResult{WeekKey: groups[0].WeekKey, Count: len(groups[0].Items)}
}

// WeekPage is one page of a week's updates after filtering.
type WeekPage struct {
	WeekKey    string          `json:"weekKey"`
	RangeLabel string          `json:"rangeLabel"`
	Items      []models.Update `json:"items"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Total      int             `json:"total"`
}

// Digest is a share-ready weekly summary.
type Digest struct {
	WeekKey string            `json:"weekKey"`
	Text    string            `json:"text"`
	Share   digest.ShareLinks `json:"share"`
}

// Service coordinates fetching, storage, and read-side assembly.
type Service struct {
	db       *store.DB
	source   Source
	notifier Notifier
	logger   *slog.Logger

	normOpts   feed.Options
	digestOpts digest.Options
	pageSize   int

	// refreshSeq orders refresh attempts so a slow fetch cannot overwrite
	// the result of a newer one. commitMu serializes the store write, and
	// inFlight backs the skip-if-busy path used by the scheduler.
	refreshSeq atomic.Int64
	commitMu   sync.Mutex
	inFlight   atomic.Bool

	weekRangeLabel func(string) string
}

// Config carries the service's tunables.
type Config struct {
	Source         Source
	Notifier       Notifier
	Logger         *slog.Logger
	ClampFuture    bool
	Now            func() time.Time
	SiteBaseURL    string
	PageSize       int
	MaxPerCategory int
	WeekRangeLabel func(string) string
}

// NewService creates a new update service.
func NewService(db *store.DB, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 12
	}
	return &Service{
		db:       db,
		source:   cfg.Source,
		notifier: cfg.Notifier,
		logger:   logger,
		normOpts: feed.Options{ClampFuture: cfg.ClampFuture, Now: cfg.Now},
		digestOpts: digest.Options{
			SiteBaseURL:    cfg.SiteBaseURL,
			MaxPerCategory: cfg.MaxPerCategory,
		},
		pageSize:       pageSize,
		weekRangeLabel: cfg.WeekRangeLabel,
	}
}

// Refresh fetches from the configured source, normalizes, classifies, and
// persists the result. Concurrent refreshes race on a sequence number: the
// most recently issued one wins, older ones return ErrStaleRefresh without
// writing.
func (s *Service) Refresh(ctx context.Context) (RefreshResult, error) {
	if s.source == nil {
		return RefreshResult{}, apperr.ErrNoFeedConfigured
	}
	seq := s.refreshSeq.Add(1)

	raw, err := s.source(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	// Classification runs on the raw records so an upstream category, when
	// recognized, is kept as-is and only unlabeled items get the keyword pass.
	for i := range raw {
		if !models.KnownCategory(raw[i].Category) {
			raw[i].Category = feed.Classify(raw[i].Title, raw[i].Tags)
		}
	}

	items := feed.Normalize(raw, s.normOpts)

	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	if seq != s.refreshSeq.Load() {
		return RefreshResult{}, apperr.ErrStaleRefresh
	}

	if err := s.db.UpsertUpdates(items); err != nil {
		return RefreshResult{}, err
	}

	res := refreshSummary(items)
	s.logger.Info("feed refreshed", "week", res.WeekKey, "count", res.Count, "total", len(items))

	if s.notifier != nil {
		s.notifier.PublishRefresh(res.WeekKey, res.Count)
	}
	return res, nil
}

// TryRefresh runs Refresh unless one is already in flight, in which case it
// returns ErrRefreshInFlight. Used by the scheduler, which prefers skipping a
// tick over stacking fetches.
func (s *Service) TryRefresh(ctx context.Context) (RefreshResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return RefreshResult{}, apperr.ErrRefreshInFlight
	}
	defer s.inFlight.Store(false)
	return s.Refresh(ctx)
}

// Import normalizes and persists records supplied directly (admin import),
// bypassing the configured source.
func (s *Service) Import(_ context.Context, raw []models.RawUpdate) (RefreshResult, error) {
	for i := range raw {
		if !models.KnownCategory(raw[i].Category) {
			raw[i].Category = feed.Classify(raw[i].Title, raw[i].Tags)
		}
	}
	items := feed.Normalize(raw, s.normOpts)

	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	if err := s.db.UpsertUpdates(items); err != nil {
		return RefreshResult{}, err
	}

	res := refreshSummary(items)
	if s.notifier != nil {
		s.notifier.PublishRefresh(res.WeekKey, res.Count)
	}
	return res, nil
}

// Weeks returns all known week keys, newest first.
func (s *Service) Weeks(_ context.Context) ([]string, error) {
	return s.db.Weeks()
}

// LatestWeek returns the newest known week key, or ErrNotFound when the store
// is empty.
func (s *Service) LatestWeek(ctx context.Context) (string, error) {
	weeks, err := s.Weeks(ctx)
	if err != nil {
		return "", err
	}
	if len(weeks) == 0 {
		return "", apperr.ErrNotFound
	}
	return weeks[0], nil
}

// Week assembles one filtered, paginated page of a week's updates.
func (s *Service) Week(_ context.Context, weekKey, category, query string, page int) (*WeekPage, error) {
	items, err := s.db.ListWeek(weekKey)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.ErrNotFound
	}

	filtered := feed.Filter(items, category, query)
	pageItems, clampedPage, totalPages := feed.Paginate(filtered, page, s.pageSize)

	label := ""
	if s.weekRangeLabel != nil {
		label = s.weekRangeLabel(weekKey)
	}
	return &WeekPage{
		WeekKey:    weekKey,
		RangeLabel: label,
		Items:      pageItems,
		Page:       clampedPage,
		TotalPages: totalPages,
		Total:      len(filtered),
	}, nil
}

// WeeklyDigest builds the share-ready text summary for a week.
func (s *Service) WeeklyDigest(_ context.Context, weekKey string) (*Digest, error) {
	items, err := s.db.ListWeek(weekKey)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.ErrNotFound
	}

	text := digest.Build(items, weekKey, s.digestOpts)
	target := s.digestOpts.SiteBaseURL + "/aws-updates.html?week=" + weekKey
	return &Digest{
		WeekKey: weekKey,
		Text:    text,
		Share:   digest.BuildShareLinks(target),
	}, nil
}

// Search delegates full-text search to the store.
func (s *Service) Search(_ context.Context, query string, limit int) ([]store.SearchResult, error) {
	return s.db.Search(query, limit)
}
