package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"estatewatch/estatesales"
	"estatewatch/filter"
	"estatewatch/geocode"
	"estatewatch/model"
	"estatewatch/notify"
)

type Stage string

const (
	StageFetching    Stage = "fetching"
	StageParsing     Stage = "parsing"
	StageFiltering   Stage = "filtering"
	StageFormatting  Stage = "formatting"
	StageDispatching Stage = "dispatching"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Report is the run's outcome. Only the fetch/parse stages can fail the run:
// past them the pipeline always proceeds, absorbing per-listing and
// per-recipient failures into the counters.
type Report struct {
	Stage   Stage
	Pages   int
	Parsed  int
	Kept    int
	Dropped int
	TooFar  int
	Sent    int
	Skipped int
	Failed  int
	Elapsed time.Duration
	Err     error
}

type Fetcher interface {
	FetchAll(ctx context.Context, baseURL string) ([]*estatesales.Page, error)
}

// Pipeline wires one run: fetch the listing pages, parse them, filter by
// distance from the reference point, format the message and dispatch it.
type Pipeline struct {
	BaseURL    string
	Reference  string
	MaxMiles   float64
	Recipients []string

	Fetcher    Fetcher
	Resolver   *geocode.Resolver
	Dispatcher *notify.Dispatcher
	Logger     *slog.Logger
}

func (p *Pipeline) Run(ctx context.Context) Report {
	started := time.Now()
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	report := Report{Stage: StageFetching}

	fail := func(err error) Report {
		report.Stage = StageFailed
		report.Err = err
		report.Elapsed = time.Since(started)
		return report
	}

	if p.Fetcher == nil {
		return fail(errors.New("run: fetcher is required"))
	}

	// The reference point is an external lookup too; without it nothing
	// downstream can be computed, so it fails the run like a fetch failure.
	reference, err := p.resolveReference(ctx)
	if err != nil {
		return fail(err)
	}

	logger.Info("fetching listings", "url", p.BaseURL)
	pages, err := p.Fetcher.FetchAll(ctx, p.BaseURL)
	if err != nil {
		return fail(err)
	}
	if len(pages) == 0 {
		return fail(errors.New("run: no pages fetched"))
	}
	report.Pages = len(pages)

	report.Stage = StageParsing
	var listings []model.SaleListing
	for _, page := range pages {
		listings = append(listings, estatesales.ParsePage(page)...)
	}
	report.Parsed = len(listings)
	logger.Info("parsed listings", "pages", report.Pages, "listings", report.Parsed)

	report.Stage = StageFiltering
	selector := filter.New(reference, p.MaxMiles, p.Resolver)
	for _, listing := range listings {
		selector.Add(ctx, listing)
	}
	kept := selector.Results()
	report.Kept = len(kept)
	report.Dropped = selector.Dropped()
	report.TooFar = selector.TooFar()
	logger.Info("filtered listings", "kept", report.Kept, "dropped", report.Dropped, "too_far", report.TooFar)

	report.Stage = StageFormatting
	text := notify.FormatMessage(kept, p.Reference, p.MaxMiles)

	report.Stage = StageDispatching
	outcomes := p.Dispatcher.Send(ctx, text, p.Recipients)
	report.Sent, report.Skipped, report.Failed = notify.Tally(outcomes)

	report.Stage = StageDone
	report.Elapsed = time.Since(started)
	return report
}

func (p *Pipeline) resolveReference(ctx context.Context) (model.Coordinates, error) {
	result, _, err := p.Resolver.Resolve(ctx, p.Reference)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("run: resolve reference %q: %w", p.Reference, err)
	}
	if !result.Found {
		return model.Coordinates{}, fmt.Errorf("run: reference %q did not geocode", p.Reference)
	}
	return model.Coordinates{Lat: result.Lat, Lng: result.Lng}, nil
}
