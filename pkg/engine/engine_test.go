package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/navagraha/jyotish/pkg/chart"
	"github.com/navagraha/jyotish/pkg/dasha"
	"github.com/navagraha/jyotish/pkg/ephemeris"
)

func testInput() chart.BirthInput {
	return chart.BirthInput{
		Time:      time.Date(1990, 6, 15, 6, 30, 0, 0, time.UTC),
		Latitude:  28.61,
		Longitude: 77.21,
	}
}

func testOptions() Options {
	return Options{
		Variants:       []string{"D9", "D12"},
		DashaDepth:     3,
		AsOf:           time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		TransitHorizon: 2 * 365 * 24 * time.Hour,
	}
}

func TestComputeValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		input chart.BirthInput
		opts  Options
	}{
		{"zero input", chart.BirthInput{}, Options{}},
		{"bad latitude", chart.BirthInput{Time: time.Now(), Latitude: 91}, Options{}},
		{"unknown variant", testInput(), Options{Variants: []string{"D5"}}},
		{"depth too deep", testInput(), Options{DashaDepth: dasha.MaxDepth + 1}},
		{"negative depth", testInput(), Options{DashaDepth: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Compute(ctx, tc.input, tc.opts); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("want ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestComputeBundle(t *testing.T) {
	bundle, err := Compute(context.Background(), testInput(), testOptions())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if bundle.ID == "" {
		t.Error("bundle has no ID")
	}
	if bundle.EngineVersion == "" {
		t.Error("bundle has no engine version")
	}
	if bundle.ComputationVersion != "v1" {
		t.Errorf("computation version = %q, want v1", bundle.ComputationVersion)
	}

	wantTags := []string{"D1", "D9", "D12"}
	if len(bundle.Charts) != len(wantTags) {
		t.Fatalf("got %d charts, want %d", len(bundle.Charts), len(wantTags))
	}
	for i, tag := range wantTags {
		if bundle.Charts[i].Tag != tag {
			t.Errorf("chart %d tagged %q, want %q", i, bundle.Charts[i].Tag, tag)
		}
	}
	if d1 := bundle.Chart("D1"); d1 == nil || len(d1.Bodies) != len(ephemeris.Bodies) {
		t.Errorf("D1 chart incomplete: %+v", bundle.Chart("D1"))
	}
	if bundle.Chart("D60") != nil {
		t.Error("lookup of underived variant should return nil")
	}

	if bundle.Dasha == nil {
		t.Fatal("bundle has no dasha tree")
	}
	if err := dasha.Verify(bundle.Dasha); err != nil {
		t.Errorf("dasha tree fails verification: %v", err)
	}
	if bundle.Dasha.Depth != 3 {
		t.Errorf("dasha depth = %d, want 3", bundle.Dasha.Depth)
	}

	if len(bundle.Strengths) != 7 {
		t.Errorf("got %d strength scores, want 7", len(bundle.Strengths))
	}
	if bundle.Ashtakavarga == nil || bundle.Ashtakavarga.Total != 337 {
		t.Errorf("ashtakavarga incomplete: %+v", bundle.Ashtakavarga)
	}
	if len(bundle.Transits) == 0 {
		t.Error("no transit windows over a two-year horizon")
	}
}

func TestComputeDeterminism(t *testing.T) {
	a, err := Compute(context.Background(), testInput(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compute(context.Background(), testInput(), testOptions())
	if err != nil {
		t.Fatal(err)
	}

	if a.ID == b.ID {
		t.Error("two bundles share an ID")
	}

	// Everything except the run identity must be byte-identical.
	a.ID, b.ID = "", ""
	a.ComputedAt, b.ComputedAt = time.Time{}, time.Time{}
	ja, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	jb, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(ja) != string(jb) {
		t.Error("identical inputs produced different bundles")
	}
}

func TestComputeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Compute(ctx, testInput(), testOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}

func TestComputeDefaults(t *testing.T) {
	bundle, err := Compute(context.Background(), testInput(), Options{
		AsOf:           time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		TransitHorizon: 30 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(bundle.Charts) != 1 || bundle.Charts[0].Tag != "D1" {
		t.Errorf("default bundle should carry only D1, got %d charts", len(bundle.Charts))
	}
	if bundle.Dasha.Depth != 3 {
		t.Errorf("default dasha depth = %d, want 3", bundle.Dasha.Depth)
	}
	if len(bundle.Patterns) == 0 {
		t.Log("no patterns detected for this input; catalog still ran")
	}
}
