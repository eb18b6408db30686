package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/leap-pm/ads-service/internal/clients/redis"
	adsrepo "github.com/leap-pm/ads-service/internal/data/repos/ads"
	types "github.com/leap-pm/ads-service/internal/domain"
	"github.com/leap-pm/ads-service/internal/observability"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

const (
	// DefaultPlacementLimit caps a placement request when the caller sends
	// no limit of its own.
	DefaultPlacementLimit = 3
	// DefaultRecommendLimit caps a recommendation request likewise.
	DefaultRecommendLimit = 5
)

// Relevance weights for RecommendAds. An ad whose rule contributes nothing
// scores zero and is not recommended.
const (
	scoreRoleMatch     = 10
	scorePlanMatch     = 10
	scorePerInterest   = 5
	scoreBehaviorMatch = 15
)

type TargetingService interface {
	// SelectAdsForPlacement resolves the placement by code and returns the
	// eligible ads for the viewer in priority order. Unknown or inactive
	// placements serve nothing.
	SelectAdsForPlacement(ctx context.Context, code string, viewer *types.ViewerProfile, limit int) (*types.AdPlacement, []*types.Ad, error)
	// RecommendAds ranks targeted ads purely by rule affinity with the
	// viewer. A predicate that fails contributes no points but does not
	// disqualify the ad; only a zero total score drops it, so untargeted
	// ads are never recommended.
	RecommendAds(ctx context.Context, viewer *types.ViewerProfile, limit int) ([]*types.Ad, error)
	ValidateTargetingRules(input map[string]any) types.RuleValidation
}

type targetingService struct {
	db         *gorm.DB
	log        *logger.Logger
	ads        adsrepo.AdRepo
	rules      adsrepo.TargetingRuleRepo
	placements adsrepo.PlacementRepo
	cache      redisclient.AdCache
	metrics    *observability.Metrics

	now func() time.Time
}

// NewTargetingService wires the delivery path. cache may be nil, in which
// case every request reads the pool from Postgres.
func NewTargetingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	ads adsrepo.AdRepo,
	rules adsrepo.TargetingRuleRepo,
	placements adsrepo.PlacementRepo,
	cache redisclient.AdCache,
	metrics *observability.Metrics,
) TargetingService {
	return &targetingService{
		db:         db,
		log:        baseLog.With("service", "TargetingService"),
		ads:        ads,
		rules:      rules,
		placements: placements,
		cache:      cache,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (s *targetingService) SelectAdsForPlacement(ctx context.Context, code string, viewer *types.ViewerProfile, limit int) (*types.AdPlacement, []*types.Ad, error) {
	placement, err := s.placements.GetByCode(ctx, nil, code)
	if err != nil {
		return nil, nil, err
	}
	if placement == nil || !placement.IsActive {
		return placement, []*types.Ad{}, nil
	}

	if limit <= 0 {
		limit = DefaultPlacementLimit
	}
	if placement.MaxAds > 0 && placement.MaxAds < limit {
		limit = placement.MaxAds
	}

	now := s.now().UTC()
	pool, ruleByAd, err := s.loadPool(ctx, now)
	if err != nil {
		return nil, nil, err
	}

	selected := make([]*types.Ad, 0, limit)
	filtered := 0
	for _, ad := range pool {
		if !RuleMatches(ruleByAd[ad.ID], viewer, now) {
			filtered++
			continue
		}
		selected = append(selected, ad)
		if len(selected) == limit {
			break
		}
	}
	s.metrics.AddAdsServed(len(selected))
	s.metrics.AddAdsFiltered(filtered)
	return placement, selected, nil
}

func (s *targetingService) RecommendAds(ctx context.Context, viewer *types.ViewerProfile, limit int) ([]*types.Ad, error) {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	now := s.now().UTC()
	pool, ruleByAd, err := s.loadPool(ctx, now)
	if err != nil {
		return nil, err
	}

	type scored struct {
		ad    *types.Ad
		score int
	}
	ranked := make([]scored, 0, len(pool))
	for _, ad := range pool {
		sc := ScoreAd(ruleByAd[ad.ID], viewer, now)
		if sc == 0 {
			continue
		}
		ranked = append(ranked, scored{ad: ad, score: sc})
	}

	// Stable keeps the pool's priority order among equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]*types.Ad, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.ad)
	}
	s.metrics.AddAdsServed(len(out))
	return out, nil
}

// loadPool returns the servable ads in priority order plus their decoded
// rules. The pool comes from the Redis snapshot when one is fresh; either
// way the date window is re-checked against now before anything is served.
func (s *targetingService) loadPool(ctx context.Context, now time.Time) ([]*types.Ad, map[uuid.UUID]types.TargetingRule, error) {
	if s.cache != nil {
		snap, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn("ad pool cache read failed", "error", err)
		} else if snap != nil {
			return filterRunnable(snap.Ads, now), decodeRules(snap.Rules), nil
		}
	}

	ads, err := s.ads.ListServable(ctx, nil, now)
	if err != nil {
		return nil, nil, err
	}
	adIDs := make([]uuid.UUID, 0, len(ads))
	for _, ad := range ads {
		adIDs = append(adIDs, ad.ID)
	}
	rules, err := s.rules.GetByAdIDs(ctx, nil, adIDs)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, &redisclient.AdPoolSnapshot{Ads: ads, Rules: rules}); err != nil {
			s.log.Warn("ad pool cache write failed", "error", err)
		}
	}
	return ads, decodeRules(rules), nil
}

func filterRunnable(ads []*types.Ad, now time.Time) []*types.Ad {
	out := make([]*types.Ad, 0, len(ads))
	for _, ad := range ads {
		if ad.Runnable(now) {
			out = append(out, ad)
		}
	}
	return out
}

func decodeRules(rules []*types.AdTargetingRule) map[uuid.UUID]types.TargetingRule {
	out := make(map[uuid.UUID]types.TargetingRule, len(rules))
	for _, r := range rules {
		out[r.AdID] = r.Decode()
	}
	return out
}

// RuleMatches evaluates a decoded rule against a viewer. Every present
// predicate must pass. An empty rule matches anyone, including an absent
// viewer; a non-empty rule never matches an absent viewer. Predicates whose
// viewer field is missing fail closed, with one exception: activeInDays is
// skipped when the viewer's last activity is unknown.
func RuleMatches(rule types.TargetingRule, viewer *types.ViewerProfile, now time.Time) bool {
	if rule.Empty() {
		return true
	}
	if viewer == nil {
		return false
	}

	if len(rule.UserRoles) > 0 && !containsString(rule.UserRoles, viewer.Role) {
		return false
	}
	if len(rule.SubscriptionPlans) > 0 {
		if viewer.SubscriptionPlanID == nil || !containsInt64(rule.SubscriptionPlans, *viewer.SubscriptionPlanID) {
			return false
		}
	}
	if rule.AgeRange != nil {
		if viewer.Age == nil {
			return false
		}
		if rule.AgeRange.Min != nil && *viewer.Age < *rule.AgeRange.Min {
			return false
		}
		if rule.AgeRange.Max != nil && *viewer.Age > *rule.AgeRange.Max {
			return false
		}
	}
	if len(rule.Locations) > 0 && !containsString(rule.Locations, viewer.Location) {
		return false
	}
	if len(rule.Interests) > 0 && countOverlap(rule.Interests, viewer.Interests) == 0 {
		return false
	}
	if rule.Behavior != nil && !behaviorMatches(rule.Behavior, viewer, now) {
		return false
	}
	return true
}

func behaviorMatches(b *types.BehaviorRule, viewer *types.ViewerProfile, now time.Time) bool {
	if b.EnrolledCourses != nil {
		enrolled := len(viewer.EnrolledCourseIDs) > 0
		if enrolled != *b.EnrolledCourses {
			return false
		}
	}
	if b.ActiveInDays != nil && viewer.LastActiveAt != nil {
		// Whole elapsed days; 7.5 days ago still counts as day 7.
		days := int(now.Sub(*viewer.LastActiveAt) / (24 * time.Hour))
		if days > *b.ActiveInDays {
			return false
		}
	}
	if b.MinCourseEnrollments != nil && len(viewer.EnrolledCourseIDs) < *b.MinCourseEnrollments {
		return false
	}
	return true
}

// ScoreAd computes the recommendation affinity of a rule with a viewer.
// Predicates only ever add points; a mismatch is worth nothing rather than
// disqualifying. An empty rule or absent viewer scores zero.
func ScoreAd(rule types.TargetingRule, viewer *types.ViewerProfile, now time.Time) int {
	if rule.Empty() || viewer == nil {
		return 0
	}
	score := 0
	if len(rule.UserRoles) > 0 && containsString(rule.UserRoles, viewer.Role) {
		score += scoreRoleMatch
	}
	if len(rule.SubscriptionPlans) > 0 && viewer.SubscriptionPlanID != nil &&
		containsInt64(rule.SubscriptionPlans, *viewer.SubscriptionPlanID) {
		score += scorePlanMatch
	}
	if len(rule.Interests) > 0 {
		score += scorePerInterest * countOverlap(rule.Interests, viewer.Interests)
	}
	if rule.Behavior != nil && behaviorMatches(rule.Behavior, viewer, now) {
		score += scoreBehaviorMatch
	}
	return score
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt64(set []int64, v int64) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func countOverlap(want, have []string) int {
	if len(want) == 0 || len(have) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	n := 0
	for _, w := range want {
		if _, ok := set[w]; ok {
			n++
		}
	}
	return n
}
