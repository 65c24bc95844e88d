// Package scheduler provides the background analysis jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyaachaabene/agrimarket/internal/modules/listings"
	"github.com/eyaachaabene/agrimarket/internal/modules/notifications"
	"github.com/eyaachaabene/agrimarket/internal/modules/pricing"
	"github.com/eyaachaabene/agrimarket/internal/modules/users"
	"github.com/eyaachaabene/agrimarket/internal/utils"
)

// ListingFailure records a listing that could not be processed during a run.
// Per-listing failures never abort the run; they are collected and reported.
type ListingFailure struct {
	ListingID string `json:"listing_id"`
	Reason    string `json:"reason"`
}

// Summary is the result of one price alert run.
type Summary struct {
	UsersAnalyzed     int              `json:"usersAnalyzed"`
	NotificationsSent int              `json:"notificationsSent"`
	Failures          []ListingFailure `json:"failures,omitempty"`
}

// PriceAlertJob analyzes every active seller listing against the market feed
// and writes at most one alert per listing per rolling window.
type PriceAlertJob struct {
	log       zerolog.Logger
	feed      FeedClient
	sellers   SellerSource
	products  ProductSource
	resources ResourceSource
	alerts    AlertSink
	matcher   *pricing.Matcher
	window    time.Duration
}

// NewPriceAlertJob creates a new PriceAlertJob
func NewPriceAlertJob(
	feed FeedClient,
	sellers SellerSource,
	products ProductSource,
	resources ResourceSource,
	alerts AlertSink,
	matcher *pricing.Matcher,
	window time.Duration,
) *PriceAlertJob {
	return &PriceAlertJob{
		log:       zerolog.Nop(),
		feed:      feed,
		sellers:   sellers,
		products:  products,
		resources: resources,
		alerts:    alerts,
		matcher:   matcher,
		window:    window,
	}
}

// SetLogger sets the logger for the job
func (j *PriceAlertJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *PriceAlertJob) Name() string {
	return "price_alert_analysis"
}

// Run executes one analysis pass. The feed is fetched exactly once per run;
// a feed failure aborts the whole run and is surfaced to the trigger caller.
// Everything below the feed level is contained per listing.
func (j *PriceAlertJob) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	timer := utils.NewTimer(j.log, j.Name())
	defer timer.Stop()

	commodities, err := j.feed.Fetch(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch market prices: %w", err)
	}

	sellers, err := j.sellers.GetActiveSellers()
	if err != nil {
		return summary, fmt.Errorf("failed to load sellers: %w", err)
	}

	for _, seller := range sellers {
		summary.UsersAnalyzed++

		switch seller.Role {
		case users.RoleFarmer:
			prods, err := j.products.GetActiveByFarmer(seller.ID)
			if err != nil {
				j.log.Error().Err(err).Str("seller", seller.ID).Msg("Failed to load products")
				continue
			}
			for _, p := range prods {
				j.processListing(&summary, commodities, seller.ID, p.ID, listings.KindProduct, p.Name, p.Price)
			}

		case users.RoleSupplier:
			ress, err := j.resources.GetActiveBySupplier(seller.ID)
			if err != nil {
				j.log.Error().Err(err).Str("seller", seller.ID).Msg("Failed to load resources")
				continue
			}
			for _, res := range ress {
				price, err := res.Price()
				if err != nil {
					j.log.Warn().Err(err).Str("listing", res.ID).Msg("Skipping listing with bad pricing")
					summary.Failures = append(summary.Failures, ListingFailure{ListingID: res.ID, Reason: err.Error()})
					continue
				}
				j.processListing(&summary, commodities, seller.ID, res.ID, listings.KindResource, res.Name, price)
			}
		}
	}

	j.log.Info().
		Int("users_analyzed", summary.UsersAnalyzed).
		Int("notifications_sent", summary.NotificationsSent).
		Int("failures", len(summary.Failures)).
		Msg("Price alert run completed")

	return summary, nil
}

// processListing scores one listing and writes an alert when the price is off
// market. A listing with no commodity match is skipped silently - that is the
// expected outcome for most of the catalog, not a failure.
func (j *PriceAlertJob) processListing(
	summary *Summary,
	commodities []pricing.MarketCommodity,
	sellerID, listingID, kind, name string,
	price float64,
) {
	if price < 0 {
		summary.Failures = append(summary.Failures, ListingFailure{
			ListingID: listingID,
			Reason:    fmt.Sprintf("negative price %.2f", price),
		})
		return
	}

	commodity := j.matcher.Match(name, commodities)
	if commodity == nil || commodity.Price <= 0 {
		return
	}

	analysis := pricing.Analyze(price, commodity.Price)
	if analysis.Status == pricing.StatusOptimal {
		return
	}

	created, err := j.alerts.InsertIfAbsent(notifications.Notification{
		UserID:      sellerID,
		ListingID:   listingID,
		ListingKind: kind,
		Type:        notifications.TypePriceAlert,
		Message:     fmt.Sprintf("Price alert for %s: %s", name, analysis.Recommendation),
		MarketData: notifications.MarketData{
			CommodityName:  commodity.Name,
			MarketPrice:    commodity.Price,
			UserPrice:      price,
			Difference:     analysis.Difference,
			Percentage:     analysis.Percentage,
			Status:         string(analysis.Status),
			Recommendation: analysis.Recommendation,
		},
	}, j.window)
	if err != nil {
		j.log.Error().Err(err).Str("listing", listingID).Msg("Failed to store notification")
		summary.Failures = append(summary.Failures, ListingFailure{ListingID: listingID, Reason: err.Error()})
		return
	}

	if created {
		summary.NotificationsSent++
		j.log.Debug().
			Str("listing", listingID).
			Str("status", string(analysis.Status)).
			Float64("percentage", analysis.Percentage).
			Msg("Price alert created")
	}
}
