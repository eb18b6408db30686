package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	adsrepo "github.com/leap-pm/ads-service/internal/data/repos/ads"
	types "github.com/leap-pm/ads-service/internal/domain"
	"github.com/leap-pm/ads-service/internal/observability"
	pkgerrors "github.com/leap-pm/ads-service/internal/pkg/errors"
	"github.com/leap-pm/ads-service/internal/platform/ctxutil"
	"github.com/leap-pm/ads-service/internal/platform/envutil"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

const (
	analyticsDefaultWindow  = 30 * 24 * time.Hour
	analyticsDailyLimit     = 30
	analyticsPlacementLimit = 10
)

type ImpressionInput struct {
	AdID          uuid.UUID      `json:"ad_id"`
	PlacementCode string         `json:"placement_code,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

type ClickInput struct {
	AdID         uuid.UUID      `json:"ad_id"`
	ImpressionID *uuid.UUID     `json:"impression_id,omitempty"`
	Referrer     string         `json:"referrer,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type TrackingConfig struct {
	FlushInterval       time.Duration
	FlushThreshold      int
	ImpressionRateLimit int
	ClickRateLimit      int
}

func TrackingConfigFromEnv() TrackingConfig {
	return TrackingConfig{
		FlushInterval:       envutil.Seconds("AD_FLUSH_INTERVAL_SECONDS", 30*time.Second),
		FlushThreshold:      envutil.Int("AD_FLUSH_THRESHOLD", 50),
		ImpressionRateLimit: envutil.Int("AD_IMPRESSION_RATE_LIMIT", 100),
		ClickRateLimit:      envutil.Int("AD_CLICK_RATE_LIMIT", 20),
	}
}

type TrackingService interface {
	// TrackImpression buffers one impression. The write to Postgres happens
	// on the next flush, so a success here means accepted, not persisted.
	TrackImpression(ctx context.Context, in ImpressionInput) error
	// TrackBulkImpressions buffers a whole batch under a single rate-limit
	// check weighted by its size, then flushes eagerly.
	TrackBulkImpressions(ctx context.Context, ins []ImpressionInput) (int, error)
	// TrackClick records a click synchronously and refreshes the ad's
	// lifetime CTR.
	TrackClick(ctx context.Context, in ClickInput) (*types.AdClick, error)
	GetAdAnalytics(ctx context.Context, adID uuid.UUID, from, to time.Time) (*types.AdAnalytics, error)
	// Flush drains the buffer now. Concurrent callers share one drain.
	Flush(ctx context.Context) error
	QueueDepth() int
	Start()
	Stop(ctx context.Context)
}

type trackingService struct {
	db          *gorm.DB
	log         *logger.Logger
	ads         adsrepo.AdRepo
	impressions adsrepo.ImpressionRepo
	clicks      adsrepo.ClickRepo
	placements  adsrepo.PlacementRepo
	metrics     *observability.Metrics

	impLimiter   *IPRateLimiter
	clickLimiter *IPRateLimiter

	mu        sync.Mutex
	buffer    []*types.AdImpression
	threshold int
	interval  time.Duration

	flights singleflight.Group

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
	now      func() time.Time
}

func NewTrackingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	ads adsrepo.AdRepo,
	impressions adsrepo.ImpressionRepo,
	clicks adsrepo.ClickRepo,
	placements adsrepo.PlacementRepo,
	metrics *observability.Metrics,
	cfg TrackingConfig,
) TrackingService {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 30 * time.Second
	}
	if cfg.FlushThreshold <= 0 {
		cfg.FlushThreshold = 50
	}
	return &trackingService{
		db:           db,
		log:          baseLog.With("service", "TrackingService"),
		ads:          ads,
		impressions:  impressions,
		clicks:       clicks,
		placements:   placements,
		metrics:      metrics,
		impLimiter:   NewIPRateLimiter(cfg.ImpressionRateLimit, time.Minute),
		clickLimiter: NewIPRateLimiter(cfg.ClickRateLimit, time.Minute),
		threshold:    cfg.FlushThreshold,
		interval:     cfg.FlushInterval,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		now:          time.Now,
	}
}

func (s *trackingService) TrackImpression(ctx context.Context, in ImpressionInput) error {
	if in.AdID == uuid.Nil {
		return fmt.Errorf("%w: ad_id required", pkgerrors.ErrInvalidArgument)
	}

	rd := ctxutil.GetRequestData(ctx)
	if !s.impLimiter.Allow(clientIP(rd), 1) {
		s.metrics.IncRateLimitRejected("impression")
		return pkgerrors.ErrRateLimited
	}

	placementID, err := s.resolvePlacement(ctx, in.PlacementCode)
	if err != nil {
		return err
	}

	row := s.buildImpression(in, rd, placementID)
	s.enqueue([]*types.AdImpression{row})
	s.metrics.AddImpressionsTracked(1)
	return nil
}

func (s *trackingService) TrackBulkImpressions(ctx context.Context, ins []ImpressionInput) (int, error) {
	if len(ins) == 0 {
		return 0, nil
	}
	for _, in := range ins {
		if in.AdID == uuid.Nil {
			return 0, fmt.Errorf("%w: ad_id required", pkgerrors.ErrInvalidArgument)
		}
	}

	rd := ctxutil.GetRequestData(ctx)
	if !s.impLimiter.Allow(clientIP(rd), len(ins)) {
		s.metrics.IncRateLimitRejected("impression")
		return 0, pkgerrors.ErrRateLimited
	}

	placementIDs := map[string]*uuid.UUID{}
	rows := make([]*types.AdImpression, 0, len(ins))
	for _, in := range ins {
		pid, ok := placementIDs[in.PlacementCode]
		if !ok {
			var err error
			pid, err = s.resolvePlacement(ctx, in.PlacementCode)
			if err != nil {
				return 0, err
			}
			placementIDs[in.PlacementCode] = pid
		}
		rows = append(rows, s.buildImpression(in, rd, pid))
	}

	s.enqueue(rows)
	s.metrics.AddImpressionsTracked(len(rows))

	// A bulk submit is usually a client-side buffer draining; persist it
	// right away instead of waiting for the ticker.
	if err := s.Flush(ctx); err != nil {
		s.log.Warn("bulk impression flush failed, batch re-queued", "error", err, "count", len(rows))
	}
	return len(rows), nil
}

func (s *trackingService) TrackClick(ctx context.Context, in ClickInput) (*types.AdClick, error) {
	if in.AdID == uuid.Nil {
		return nil, fmt.Errorf("%w: ad_id required", pkgerrors.ErrInvalidArgument)
	}

	rd := ctxutil.GetRequestData(ctx)
	if !s.clickLimiter.Allow(clientIP(rd), 1) {
		s.metrics.IncRateLimitRejected("click")
		return nil, pkgerrors.ErrRateLimited
	}

	ad, err := s.ads.GetByID(ctx, nil, in.AdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ad %s", pkgerrors.ErrNotFound, in.AdID)
		}
		return nil, err
	}

	click := &types.AdClick{
		ID:             uuid.New(),
		AdID:           ad.ID,
		ImpressionID:   in.ImpressionID,
		Referrer:       in.Referrer,
		DestinationURL: ad.DestinationURL,
		Metadata:       marshalMetadata(in.Metadata),
		CreatedAt:      s.now().UTC(),
	}
	if rd != nil {
		if rd.UserID != uuid.Nil {
			id := rd.UserID
			click.UserID = &id
		}
		if rd.SessionID != uuid.Nil {
			id := rd.SessionID
			click.SessionID = &id
		}
		click.IPAddress = rd.ClientIP
		click.UserAgent = rd.UserAgent
	}

	if _, err := s.clicks.Create(ctx, nil, []*types.AdClick{click}); err != nil {
		return nil, err
	}
	if err := s.ads.IncrementClicks(ctx, nil, ad.ID, 1); err != nil {
		return nil, err
	}
	if err := s.recomputeCTR(ctx, ad.ID); err != nil {
		s.log.Warn("ctr recompute failed after click", "error", err, "ad_id", ad.ID)
	}
	s.metrics.IncClickTracked()
	return click, nil
}

func (s *trackingService) GetAdAnalytics(ctx context.Context, adID uuid.UUID, from, to time.Time) (*types.AdAnalytics, error) {
	if adID == uuid.Nil {
		return nil, fmt.Errorf("%w: ad_id required", pkgerrors.ErrInvalidArgument)
	}
	if to.IsZero() {
		to = s.now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-analyticsDefaultWindow)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: from is after to", pkgerrors.ErrInvalidArgument)
	}

	if _, err := s.ads.GetByID(ctx, nil, adID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ad %s", pkgerrors.ErrNotFound, adID)
		}
		return nil, err
	}

	impressions, err := s.impressions.CountByAd(ctx, nil, adID, from, to)
	if err != nil {
		return nil, err
	}
	uniqueUsers, err := s.impressions.CountDistinctUsers(ctx, nil, adID, from, to)
	if err != nil {
		return nil, err
	}
	clicks, err := s.clicks.CountByAd(ctx, nil, adID, from, to)
	if err != nil {
		return nil, err
	}
	daily, err := s.impressions.DailyCounts(ctx, nil, adID, from, to, analyticsDailyLimit)
	if err != nil {
		return nil, err
	}
	topPlacements, err := s.impressions.TopPlacements(ctx, nil, adID, from, to, analyticsPlacementLimit)
	if err != nil {
		return nil, err
	}

	out := &types.AdAnalytics{
		AdID:        adID,
		From:        from,
		To:          to,
		Impressions: impressions,
		UniqueUsers: uniqueUsers,
		Clicks:      clicks,
		CTR:         formatCTR(clicks, impressions),
	}
	for _, d := range daily {
		out.Daily = append(out.Daily, *d)
	}
	for _, p := range topPlacements {
		out.TopPlacements = append(out.TopPlacements, *p)
	}
	return out, nil
}

// Flush drains the buffer through a single flight so the ticker, threshold
// trips and bulk submits never run concurrent batch inserts.
func (s *trackingService) Flush(ctx context.Context) error {
	_, err, _ := s.flights.Do("flush", func() (any, error) {
		return nil, s.drain(ctx)
	})
	return err
}

func (s *trackingService) drain(ctx context.Context) error {
	s.mu.Lock()
	batch := s.buffer
	s.buffer = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := s.impressions.CreateBatch(ctx, nil, batch); err != nil {
		// Put the batch back in front so nothing is lost and order holds.
		s.mu.Lock()
		s.buffer = append(batch, s.buffer...)
		depth := len(s.buffer)
		s.mu.Unlock()
		s.metrics.ObserveFlush(len(batch), true)
		s.metrics.SetTrackerQueueDepth(depth)
		return err
	}
	s.metrics.ObserveFlush(len(batch), false)
	s.metrics.SetTrackerQueueDepth(s.QueueDepth())

	perAd := map[uuid.UUID]int64{}
	for _, imp := range batch {
		perAd[imp.AdID]++
	}
	for adID, n := range perAd {
		if err := s.ads.IncrementImpressions(ctx, nil, adID, n); err != nil {
			s.log.Warn("impression counter update failed", "error", err, "ad_id", adID)
			continue
		}
		if err := s.recomputeCTR(ctx, adID); err != nil {
			s.log.Warn("ctr recompute failed after flush", "error", err, "ad_id", adID)
		}
	}
	return nil
}

// recomputeCTR rewrites the ad's lifetime CTR from its counters. An ad with
// no impressions keeps whatever CTR it had; division waits for data.
func (s *trackingService) recomputeCTR(ctx context.Context, adID uuid.UUID) error {
	ad, err := s.ads.GetByID(ctx, nil, adID)
	if err != nil {
		return err
	}
	if ad.Impressions == 0 {
		return nil
	}
	return s.ads.UpdateCTR(ctx, nil, adID, formatCTR(ad.Clicks, ad.Impressions))
}

func (s *trackingService) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}

func (s *trackingService) Start() {
	go func() {
		defer close(s.doneCh)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				if err := s.Flush(context.Background()); err != nil {
					s.log.Warn("periodic impression flush failed", "error", err)
				}
			}
		}
	}()
}

// Stop halts the ticker and runs a final flush so buffered impressions
// survive a shutdown. Repeat calls are no-ops.
func (s *trackingService) Stop(ctx context.Context) {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		if err := s.Flush(ctx); err != nil {
			s.log.Error("final impression flush failed", "error", err, "dropped", s.QueueDepth())
		}
	})
}

func (s *trackingService) enqueue(rows []*types.AdImpression) {
	s.mu.Lock()
	s.buffer = append(s.buffer, rows...)
	depth := len(s.buffer)
	s.mu.Unlock()

	s.metrics.SetTrackerQueueDepth(depth)
	// Crossing the threshold flushes on the caller's request, not on the
	// next tick.
	if depth >= s.threshold {
		if err := s.Flush(context.Background()); err != nil {
			s.log.Warn("threshold impression flush failed", "error", err)
		}
	}
}

func (s *trackingService) buildImpression(in ImpressionInput, rd *ctxutil.RequestData, placementID *uuid.UUID) *types.AdImpression {
	row := &types.AdImpression{
		ID:          uuid.New(),
		AdID:        in.AdID,
		PlacementID: placementID,
		Metadata:    marshalMetadata(in.Metadata),
		CreatedAt:   s.now().UTC(),
	}
	if rd != nil {
		if rd.UserID != uuid.Nil {
			id := rd.UserID
			row.UserID = &id
		}
		if rd.SessionID != uuid.Nil {
			id := rd.SessionID
			row.SessionID = &id
		}
		row.IPAddress = rd.ClientIP
		row.UserAgent = rd.UserAgent
	}
	return row
}

// resolvePlacement maps a placement code to its id. Unknown codes track with
// a nil placement rather than failing the impression.
func (s *trackingService) resolvePlacement(ctx context.Context, code string) (*uuid.UUID, error) {
	if code == "" {
		return nil, nil
	}
	placement, err := s.placements.GetByCode(ctx, nil, code)
	if err != nil {
		return nil, err
	}
	if placement == nil {
		return nil, nil
	}
	id := placement.ID
	return &id, nil
}

func formatCTR(clicks, impressions int64) string {
	if impressions == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(clicks)/float64(impressions)*100)
}

func marshalMetadata(meta map[string]any) datatypes.JSON {
	if len(meta) == 0 {
		return nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func clientIP(rd *ctxutil.RequestData) string {
	if rd == nil || rd.ClientIP == "" {
		return "unknown"
	}
	return rd.ClientIP
}
