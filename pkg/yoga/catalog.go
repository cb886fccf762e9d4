package yoga

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/navagraha/jyotish/internal/log"
	"github.com/navagraha/jyotish/pkg/chart"
	"github.com/navagraha/jyotish/pkg/ephemeris"
)

// Category classifies a pattern as beneficial or afflictive.
type Category string

const (
	Benefic Category = "benefic"
	Malefic Category = "malefic"
)

// Tier is the strength classification of a fired detection.
type Tier string

const (
	Weak     Tier = "weak"
	Moderate Tier = "moderate"
	Strong   Tier = "strong"
)

// Rule is one catalog entry: a main predicate, an optional cancellation
// predicate, and optional boost predicates that raise the strength tier.
type Rule struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`

	When         *Predicate   `json:"when"`
	CancelWhen   *Predicate   `json:"cancel_when,omitempty"`
	CancelReason string       `json:"cancel_reason,omitempty"`
	Boosts       []*Predicate `json:"boosts,omitempty"`
}

// Validate rejects a malformed rule before it reaches evaluation.
func (r *Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule has no id")
	}
	if r.Category != Benefic && r.Category != Malefic {
		return fmt.Errorf("rule %s: category %q", r.ID, r.Category)
	}
	if r.When == nil {
		return fmt.Errorf("rule %s: no main predicate", r.ID)
	}
	if err := r.When.Validate(); err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}
	if r.CancelWhen != nil {
		if err := r.CancelWhen.Validate(); err != nil {
			return fmt.Errorf("rule %s cancellation: %w", r.ID, err)
		}
	}
	for i, b := range r.Boosts {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("rule %s boost %d: %w", r.ID, i, err)
		}
	}
	return nil
}

// Catalog is a versioned, hot-swappable set of rules.
type Catalog struct {
	Version string `json:"version"`
	Rules   []Rule `json:"rules"`
}

// Load reads a JSON catalog.
func Load(r io.Reader) (*Catalog, error) {
	var cat Catalog
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("yoga: decode catalog: %w", err)
	}
	if cat.Version == "" {
		return nil, fmt.Errorf("yoga: catalog has no version")
	}
	return &cat, nil
}

// Detection is one fired pattern. Cancellation never removes a detection,
// it only flags it.
type Detection struct {
	RuleID       string           `json:"rule_id"`
	Name         string           `json:"name"`
	Category     Category         `json:"category"`
	Bodies       []ephemeris.Body `json:"bodies"`
	Houses       []int            `json:"houses"`
	Tier         Tier             `json:"tier"`
	Cancelled    bool             `json:"cancelled"`
	CancelReason string           `json:"cancel_reason,omitempty"`
}

// Evaluate runs every rule of the catalog against the chart independently.
// Detections are returned in catalog order. A malformed rule is skipped and
// logged; it never aborts the batch.
func Evaluate(c *chart.ChartVariant, cat *Catalog) []Detection {
	var out []Detection
	for i := range cat.Rules {
		rule := &cat.Rules[i]
		if err := rule.Validate(); err != nil {
			log.Warnf("skipping malformed rule in catalog %s: %v", cat.Version, err)
			continue
		}
		if !rule.When.Eval(c) {
			continue
		}

		det := Detection{
			RuleID:   rule.ID,
			Name:     rule.Name,
			Category: rule.Category,
			Tier:     tierFor(rule, c),
		}
		det.Bodies, det.Houses = participants(rule.When, c)

		if rule.CancelWhen != nil && rule.CancelWhen.Eval(c) {
			det.Cancelled = true
			det.CancelReason = rule.CancelReason
		}
		out = append(out, det)
	}
	return out
}

// tierFor scores a fired rule. Rules without boosts are moderate by
// definition; boosts raise or lower the tier by the fraction satisfied.
func tierFor(rule *Rule, c *chart.ChartVariant) Tier {
	if len(rule.Boosts) == 0 {
		return Moderate
	}
	satisfied := 0
	for _, b := range rule.Boosts {
		if b.Eval(c) {
			satisfied++
		}
	}
	frac := float64(satisfied) / float64(len(rule.Boosts))
	switch {
	case frac >= 2.0/3.0:
		return Strong
	case frac >= 1.0/3.0:
		return Moderate
	}
	return Weak
}

// participants reports the bodies the rule references and the houses they
// occupy, both deduplicated and sorted for reproducible output.
func participants(p *Predicate, c *chart.ChartVariant) ([]ephemeris.Body, []int) {
	set := make(map[ephemeris.Body]bool)
	p.referencedBodies(set)

	var bodies []ephemeris.Body
	houseSet := make(map[int]bool)
	for _, b := range ephemeris.Bodies {
		if !set[b] {
			continue
		}
		bodies = append(bodies, b)
		if h := c.HouseOf(b); h != 0 {
			houseSet[h] = true
		}
	}

	houses := make([]int, 0, len(houseSet))
	for h := range houseSet {
		houses = append(houses, h)
	}
	sort.Ints(houses)
	return bodies, houses
}
