package domain

import (
	types "github.com/leap-pm/ads-service/internal/domain/ads"
)

const AdStatusApproved = types.AdStatusApproved

var ValidUserRoles = types.ValidUserRoles

type Ad = types.Ad
type AdPlacement = types.AdPlacement
type AdTargetingRule = types.AdTargetingRule
type AdImpression = types.AdImpression
type AdClick = types.AdClick

type TargetingRule = types.TargetingRule
type AgeRange = types.AgeRange
type BehaviorRule = types.BehaviorRule
type RuleValidation = types.RuleValidation
type ViewerProfile = types.ViewerProfile

type AdAnalytics = types.AdAnalytics
type DailyImpressions = types.DailyImpressions
type PlacementImpressions = types.PlacementImpressions
