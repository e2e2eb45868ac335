package tools

import (
	"context"

	"github.com/Agents-Store/openclaw-deepsearch/internal/research"
)

// Handlers decode validated arguments into workflow params. Clamping of
// numeric parameters happens inside the workflows.

func (r *Registry) handleDeepSearch(ctx context.Context, args map[string]any) string {
	return r.service.DeepSearch(ctx, research.DeepSearchParams{
		Query:          argString(args, "query"),
		NumResults:     argInt(args, "numResults"),
		Domains:        argStringSlice(args, "domains"),
		ExcludeDomains: argStringSlice(args, "excludeDomains"),
		Category:       argString(args, "category"),
	})
}

func (r *Registry) handleDeepResearch(ctx context.Context, args map[string]any) string {
	return r.service.DeepResearch(ctx, research.DeepResearchParams{
		Topic:      argString(args, "topic"),
		Depth:      argString(args, "depth"),
		FocusAreas: argStringSlice(args, "focusAreas"),
		Language:   argString(args, "language"),
	})
}

func (r *Registry) handleMassSummary(ctx context.Context, args map[string]any) string {
	return r.service.MassSummary(ctx, research.MassSummaryParams{
		Topic:      argString(args, "topic"),
		MinSources: argInt(args, "minSources"),
		MaxSources: argInt(args, "maxSources"),
		Domains:    argStringSlice(args, "domains"),
		DateFrom:   argString(args, "dateFrom"),
		DateTo:     argString(args, "dateTo"),
	})
}

func (r *Registry) handleDateSearch(ctx context.Context, args map[string]any) string {
	return r.service.DateSearch(ctx, research.DateSearchParams{
		Query:      argString(args, "query"),
		DateFrom:   argString(args, "dateFrom"),
		DateTo:     argString(args, "dateTo"),
		Domains:    argStringSlice(args, "domains"),
		NumResults: argInt(args, "numResults"),
	})
}

func (r *Registry) handleCompareOffers(ctx context.Context, args map[string]any) string {
	return r.service.CompareOffers(ctx, research.CompareOffersParams{
		Query:     argString(args, "query"),
		Criteria:  argStringSlice(args, "criteria"),
		NumOffers: argInt(args, "numOffers"),
		Domains:   argStringSlice(args, "domains"),
	})
}

func (r *Registry) handleScrape(ctx context.Context, args map[string]any) string {
	return r.service.ScrapeAndExtract(ctx, research.ScrapeParams{
		URLs:          argStringSlice(args, "urls"),
		ExtractPrompt: argString(args, "extractPrompt"),
		ExtractSchema: argMap(args, "extractSchema"),
		Formats:       argStringSlice(args, "formats"),
	})
}

func (r *Registry) handleSiteSearch(ctx context.Context, args map[string]any) string {
	return r.service.SiteSearch(ctx, research.SiteSearchParams{
		Query:      argString(args, "query"),
		Domains:    argStringSlice(args, "domains"),
		NumResults: argInt(args, "numResults"),
		MapSites:   argBool(args, "mapSites"),
	})
}

func (r *Registry) handleFindSimilar(ctx context.Context, args map[string]any) string {
	return r.service.FindSimilar(ctx, research.FindSimilarParams{
		URL:            argString(args, "url"),
		NumResults:     argInt(args, "numResults"),
		ExcludeDomains: argStringSlice(args, "excludeDomains"),
	})
}
