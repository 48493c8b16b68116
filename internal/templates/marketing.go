package templates

import (
	"strconv"
	"strings"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/strategy"
)

// SelectMarketingTemplate builds the social and paid plan for the
// profile's primary objective. Unknown objectives use the capture plan.
func SelectMarketingTemplate(p business.Profile) strategy.MarketingPlan {
	b := marketingBundleOf(p.PrimaryObjective)
	r := strings.NewReplacer(
		phStarProduct, starProduct(p),
		phOffPeak, offPeakWindow(p),
		phAdBudget, "€"+formatAmount(adBudget(p, b.adBudget))+"/día",
	)

	plan := strategy.MarketingPlan{
		Organic: strategy.OrganicContent{
			Posts:   make([]strategy.Post, len(b.posts)),
			Stories: make([]strategy.Story, len(b.stories)),
			Reels:   make([]strategy.Reel, len(b.reels)),
		},
		Paid: strategy.PaidContent{
			Campaigns: make([]strategy.Campaign, len(b.campaigns)),
		},
		Actions:        append([]string(nil), offlineActions...),
		WeeklyCalendar: weeklyCalendar,
	}

	for i, post := range b.posts {
		post.Copy = r.Replace(post.Copy)
		post.SuggestedVisual = r.Replace(post.SuggestedVisual)
		plan.Organic.Posts[i] = post
	}
	for i, story := range b.stories {
		story.Copy = r.Replace(story.Copy)
		story.Stickers = r.Replace(story.Stickers)
		plan.Organic.Stories[i] = story
	}
	for i, reel := range b.reels {
		reel.Script = r.Replace(reel.Script)
		plan.Organic.Reels[i] = reel
	}
	for i, c := range b.campaigns {
		c.Copy = r.Replace(c.Copy)
		c.SuggestedBudget = r.Replace(c.SuggestedBudget)
		plan.Paid.Campaigns[i] = c
	}
	return plan
}

func starProduct(p business.Profile) string {
	for _, prod := range p.TopProducts(len(p.Products)) {
		if name := strings.TrimSpace(prod.Name); name != "" {
			return name
		}
	}
	return defaultStarProduct
}

// offPeakWindow renders the quiet days and hours, e.g.
// "Lunes, Martes 15:00-19:00".
func offPeakWindow(p business.Profile) string {
	s := p.Capacity.Schedule
	if len(s.OffPeakDays) == 0 && len(s.OffPeakHours) == 0 {
		return defaultOffPeakWindow
	}
	parts := make([]string, 0, 2)
	if len(s.OffPeakDays) > 0 {
		parts = append(parts, strings.Join(s.OffPeakDays, ", "))
	}
	if len(s.OffPeakHours) > 0 {
		parts = append(parts, strings.Join(s.OffPeakHours, ", "))
	}
	return strings.Join(parts, " ")
}

// adBudget prefers the business's own daily spend and never exceeds the
// daily cap in its constraints.
func adBudget(p business.Profile, fallback float64) float64 {
	budget := fallback
	switch {
	case p.Marketing.AdsActive && p.Marketing.DailyBudget > 0:
		budget = p.Marketing.DailyBudget
	case p.Constraints.AdBudgetDaily > 0:
		budget = p.Constraints.AdBudgetDaily
	}
	if limit := p.Constraints.AdBudgetDaily; limit > 0 && budget > limit {
		budget = limit
	}
	return budget
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
