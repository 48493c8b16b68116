// Package templates is the deterministic strategy and marketing-plan
// generator used when the remote generator is unavailable or fails.
// Every function here is pure: same profile in, deep-equal value out.
package templates

import "omnia-service/internal/domain/business"

type bundleID uint8

const (
	bundleNone bundleID = iota
	bundleCapture
	bundleUpsell
	bundleReviews
	bundleVirality

	bundleCount
)

// strategyBundleFor routes every objective to a strategy bundle.
// ObjectiveUnknown is the explicit "no match" row.
var strategyBundleFor = [...]bundleID{
	business.ObjectiveUnknown:          bundleCapture,
	business.ObjectiveCapture:          bundleCapture,
	business.ObjectiveFrequency:        bundleCapture,
	business.ObjectiveRaiseTicket:      bundleUpsell,
	business.ObjectiveReviews:          bundleReviews,
	business.ObjectiveVirality:         bundleVirality,
	business.ObjectiveLoyalty:          bundleCapture,
	business.ObjectiveOffPeak:          bundleCapture,
	business.ObjectiveLaunch:           bundleCapture,
	business.ObjectiveRotateProducts:   bundleCapture,
	business.ObjectiveReduceDependency: bundleCapture,
}

// marketingBundleFor has no upsell plan; raising the ticket is marketed
// like capture.
var marketingBundleFor = [...]bundleID{
	business.ObjectiveUnknown:          bundleCapture,
	business.ObjectiveCapture:          bundleCapture,
	business.ObjectiveFrequency:        bundleCapture,
	business.ObjectiveRaiseTicket:      bundleCapture,
	business.ObjectiveReviews:          bundleReviews,
	business.ObjectiveVirality:         bundleVirality,
	business.ObjectiveLoyalty:          bundleCapture,
	business.ObjectiveOffPeak:          bundleCapture,
	business.ObjectiveLaunch:           bundleCapture,
	business.ObjectiveRotateProducts:   bundleCapture,
	business.ObjectiveReduceDependency: bundleCapture,
}

// Adding an objective without a row in each table fails to compile.
var (
	_ [len(strategyBundleFor) - int(business.ObjectiveCount)]struct{}
	_ [int(business.ObjectiveCount) - len(strategyBundleFor)]struct{}
	_ [len(marketingBundleFor) - int(business.ObjectiveCount)]struct{}
	_ [int(business.ObjectiveCount) - len(marketingBundleFor)]struct{}
	_ [len(strategyBundles) - int(bundleCount)]struct{}
	_ [int(bundleCount) - len(strategyBundles)]struct{}
	_ [len(marketingBundles) - int(bundleCount)]struct{}
	_ [int(bundleCount) - len(marketingBundles)]struct{}
)

func strategyBundleOf(o business.Objective) *strategyBundle {
	id := bundleCapture
	if int(o) < len(strategyBundleFor) {
		id = strategyBundleFor[o]
	}
	return &strategyBundles[id]
}

func marketingBundleOf(o business.Objective) *marketingBundle {
	id := bundleCapture
	if int(o) < len(marketingBundleFor) {
		id = marketingBundleFor[o]
	}
	b := &marketingBundles[id]
	if b.posts == nil {
		return &marketingBundles[bundleCapture]
	}
	return b
}
