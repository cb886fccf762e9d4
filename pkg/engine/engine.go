// Package engine runs a complete chart computation: one birth input in, one
// self-contained ChartBundle out. The D1 chart is built first and acts as
// the serialization point; every downstream stage reads it immutably and
// runs concurrently with the others.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/navagraha/jyotish/internal/constants"
	"github.com/navagraha/jyotish/internal/log"
	"github.com/navagraha/jyotish/pkg/chart"
	"github.com/navagraha/jyotish/pkg/dasha"
	"github.com/navagraha/jyotish/pkg/ephemeris"
	"github.com/navagraha/jyotish/pkg/strength"
	"github.com/navagraha/jyotish/pkg/transit"
	"github.com/navagraha/jyotish/pkg/varga"
	"github.com/navagraha/jyotish/pkg/yoga"
)

// ErrInvalidInput wraps every input validation failure.
var ErrInvalidInput = errors.New("engine: invalid input")

// InvariantError reports an internal-consistency defect. It is fatal for the
// computation that produced it and carries the input so the failing profile
// can be reproduced.
type InvariantError struct {
	Stage string
	Input chart.BirthInput
	Err   error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("engine: invariant violated in %s stage: %v", e.Stage, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

// Options tunes a single Compute call. The zero value computes a D1-only
// bundle with the built-in ephemeris, the default catalog, three dasha
// levels and the default transit horizon.
type Options struct {
	// Variants lists divisional charts to derive beyond D1, e.g. "D9".
	Variants []string
	// DashaDepth is the number of Vimshottari levels, 1 to 5. Zero means 3.
	DashaDepth int
	// Catalog overrides the built-in yoga rule catalog.
	Catalog *yoga.Catalog
	// TransitHorizon bounds the forward transit scan. Zero picks the
	// transit package default.
	TransitHorizon time.Duration
	// AsOf anchors the transit scan. Zero means the current instant.
	AsOf time.Time
	// ComputationVersion tags the bundle for reproducibility audits.
	ComputationVersion string
	// Provider overrides the built-in ephemeris, mainly for tests.
	Provider ephemeris.Provider
}

const defaultDashaDepth = 3

// ChartBundle is the complete result of one computation. Slices are in
// deterministic order throughout, so two bundles from the same input and
// options differ only in ID and ComputedAt.
type ChartBundle struct {
	ID                 string           `json:"id"`
	EngineVersion      string           `json:"engine_version"`
	ComputationVersion string           `json:"computation_version"`
	Input              chart.BirthInput `json:"input"`

	Charts         []*chart.ChartVariant   `json:"charts"` // D1 first, then Variants order
	Dasha          *dasha.Tree             `json:"dasha"`
	Patterns       []yoga.Detection        `json:"patterns"`
	Strengths      []strength.Score        `json:"strengths"`
	Ashtakavarga   *strength.Ashtakavarga  `json:"ashtakavarga"`
	Transits       []transit.Window        `json:"transits"`
	DoubleTransits []transit.DoubleTransit `json:"double_transits"`

	ComputedAt time.Time `json:"computed_at"`
}

// Chart returns the variant with the given tag, or nil.
func (b *ChartBundle) Chart(tag string) *chart.ChartVariant {
	for _, c := range b.Charts {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Compute validates the input, builds the D1 chart, then fans the remaining
// stages out over the immutable result.
func Compute(ctx context.Context, input chart.BirthInput, opts Options) (*ChartBundle, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, tag := range opts.Variants {
		if !varga.IsSupported(tag) {
			return nil, fmt.Errorf("%w: unsupported chart variant %q", ErrInvalidInput, tag)
		}
	}
	depth := opts.DashaDepth
	if depth == 0 {
		depth = defaultDashaDepth
	}
	if depth < 1 || depth > dasha.MaxDepth {
		return nil, fmt.Errorf("%w: dasha depth %d outside [1, %d]", ErrInvalidInput, depth, dasha.MaxDepth)
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = yoga.Builtin()
	}
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	inner := opts.Provider
	if inner == nil {
		inner = ephemeris.NewBuiltinProvider()
	}
	provider := ephemeris.NewCache(inner)

	start := time.Now()
	d1, err := chart.BuildD1(provider, input)
	if err != nil {
		return nil, err
	}
	moon, ok := d1.Placement(ephemeris.Moon)
	if !ok {
		return nil, &InvariantError{Stage: "chart", Input: input, Err: errors.New("D1 chart has no Moon")}
	}

	bundle := &ChartBundle{
		ID:                 uuid.NewString(),
		EngineVersion:      constants.Version,
		ComputationVersion: opts.ComputationVersion,
		Input:              input,
		Charts:             make([]*chart.ChartVariant, len(opts.Variants)+1),
	}
	if bundle.ComputationVersion == "" {
		bundle.ComputationVersion = constants.DefaultComputationVersion
	}
	bundle.Charts[0] = d1

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for i, tag := range opts.Variants {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := varga.Derive(d1, tag)
			if err != nil {
				return err
			}
			bundle.Charts[i+1] = v
		}
		return nil
	})

	g.Go(func() error {
		bundle.Patterns = yoga.Evaluate(d1, catalog)
		return gctx.Err()
	})

	g.Go(func() error {
		tree, err := dasha.Build(moon.Longitude, input.Time, depth)
		if err != nil {
			return err
		}
		if err := dasha.Verify(tree); err != nil {
			return &InvariantError{Stage: "dasha", Input: input, Err: err}
		}
		bundle.Dasha = tree
		return gctx.Err()
	})

	g.Go(func() error {
		scores, err := strength.Shadbala(d1, input.Time)
		if err != nil {
			return &InvariantError{Stage: "strength", Input: input, Err: err}
		}
		av, err := strength.ComputeAshtakavarga(d1)
		if err != nil {
			return &InvariantError{Stage: "strength", Input: input, Err: err}
		}
		bundle.Strengths = scores
		bundle.Ashtakavarga = av
		return gctx.Err()
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		windows, err := transit.Analyze(provider, d1, transit.Options{
			From:     asOf,
			Horizon:  opts.TransitHorizon,
			Ayanamsa: input.Ayanamsa,
		})
		if err != nil {
			return err
		}
		bundle.Transits = windows
		bundle.DoubleTransits = transit.DoubleTransits(windows, moon.Sign)
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		var inv *InvariantError
		if errors.As(err, &inv) {
			log.Errorw("computation invariant violated",
				"stage", inv.Stage,
				"birth_time", input.Time,
				"latitude", input.Latitude,
				"longitude", input.Longitude,
				"error", inv.Err)
		}
		return nil, err
	}

	log.Debugf("bundle %s computed in %s", bundle.ID, time.Since(start))
	return bundle, nil
}
