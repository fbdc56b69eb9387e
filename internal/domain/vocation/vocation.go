package vocation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/natal/internal/domain/astro"
)

const (
	topDomains      = 3
	domainReasonTop = 3
	trackReasonTop  = 2
	evidenceInline  = 3
)

// Track is a scored specialization inside a domain.
type Track struct {
	Name     string   `json:"name"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons"`
	Examples []string `json:"examples"`
}

// DomainScore is a scored career domain with its tracks, best first.
type DomainScore struct {
	Domain  Domain   `json:"domain"`
	Name    string   `json:"name"`
	Summary string   `json:"summary"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
	Tracks  []Track  `json:"tracks"`
}

// Result is the output of Infer.
type Result struct {
	Vector     Vector        `json:"tagVector"`
	Reasons    []string      `json:"tagReasons"`
	Domains    []DomainScore `json:"domainScores"`
	TopDomains []DomainScore `json:"topDomains"`
}

// Infer ranks every career domain for placements. Ties keep catalog order.
func Infer(placements []astro.Placement) Result {
	v, reasons := BuildVector(placements)

	domains := make([]DomainScore, 0, len(library))
	for _, def := range library {
		ds := DomainScore{
			Domain:  def.domain,
			Name:    def.name,
			Summary: def.summary,
			Score:   def.weights.dot(v),
			Reasons: make([]string, 0, domainReasonTop+1),
		}
		for _, c := range topContributions(def.weights, v, domainReasonTop) {
			ds.Reasons = append(ds.Reasons, fmt.Sprintf("matches %s × weight %.1f", c.tag.Name(), c.w))
		}
		if len(reasons) > 0 {
			n := min(evidenceInline, len(reasons))
			ds.Reasons = append(ds.Reasons, "chart evidence: "+strings.Join(reasons[:n], "; "))
		}

		for _, tr := range def.tracks {
			t := Track{
				Name:     tr.name,
				Score:    tr.weights.dot(v),
				Reasons:  make([]string, 0, trackReasonTop),
				Examples: append([]string(nil), tr.examples...),
			}
			for _, c := range topContributions(tr.weights, v, trackReasonTop) {
				t.Reasons = append(t.Reasons, "leans toward "+c.tag.Name())
			}
			ds.Tracks = append(ds.Tracks, t)
		}
		sort.SliceStable(ds.Tracks, func(i, j int) bool { return ds.Tracks[i].Score > ds.Tracks[j].Score })
		domains = append(domains, ds)
	}
	sort.SliceStable(domains, func(i, j int) bool { return domains[i].Score > domains[j].Score })

	return Result{
		Vector:     v,
		Reasons:    reasons,
		Domains:    domains,
		TopDomains: domains[:min(topDomains, len(domains))],
	}
}

// topContributions returns up to n weights with a positive contribution,
// largest first.
func topContributions(ws weights, v Vector, n int) weights {
	sorted := append(weights(nil), ws...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return v[sorted[i].tag]*sorted[i].w > v[sorted[j].tag]*sorted[j].w
	})
	out := make(weights, 0, n)
	for _, x := range sorted[:min(n, len(sorted))] {
		if v[x.tag]*x.w > 0 {
			out = append(out, x)
		}
	}
	return out
}
