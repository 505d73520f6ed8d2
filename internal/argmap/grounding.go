package argmap

import (
	"math"
	"sort"
	"strings"

	"github.com/credencelab/credence/internal/domain"
)

// The grounding queries relate a model back to the source text its nodes
// were extracted from. textual_basis spans hold verbatim quotes, not
// character offsets, so positions are recovered by searching for each quote
// in the source document.

// QuotedTexts returns the textual_basis quote strings of a node, in span
// order. Empty for an ungrounded or unknown id.
func (m *Model) QuotedTexts(id string) []string {
	var spans []domain.TextSpan
	if c, ok := m.claims[id]; ok {
		spans = c.TextualBasis
	} else if l, ok := m.links[id]; ok {
		spans = l.TextualBasis
	}
	var out []string
	for _, s := range spans {
		if s.Text != "" {
			out = append(out, s.Text)
		}
	}
	return out
}

// span is a half-open [Start, End) character range in the source text.
type span struct {
	Start int
	End   int
}

// NodesAtPosition returns the ids of nodes whose quoted text contains the
// given character position in the source, in declaration order.
func (m *Model) NodesAtPosition(source string, position int) []string {
	return m.NodesInSpan(source, position, position+1)
}

// NodesInSpan returns the ids of nodes whose quoted text overlaps the
// half-open range [start, end) of the source, in declaration order.
func (m *Model) NodesInSpan(source string, start, end int) []string {
	var out []string
	for _, id := range m.ids() {
		for _, quoted := range m.QuotedTexts(id) {
			idx := strings.Index(source, quoted)
			if idx < 0 {
				continue
			}
			if idx < end && start < idx+len(quoted) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// mergedSpans locates every quote in the source and merges overlapping
// ranges, sorted by start position. Quotes not found in the source are
// dropped.
func (m *Model) mergedSpans(source string) []span {
	var spans []span
	for _, id := range m.ids() {
		for _, quoted := range m.QuotedTexts(id) {
			if idx := strings.Index(source, quoted); idx >= 0 {
				spans = append(spans, span{Start: idx, End: idx + len(quoted)})
			}
		}
	}
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

// GroundingCoverage returns the fraction of the source text covered by node
// quotes, overlaps counted once. Zero for an empty source.
func (m *Model) GroundingCoverage(source string) float64 {
	if source == "" {
		return 0
	}
	covered := 0
	for _, s := range m.mergedSpans(source) {
		covered += s.End - s.Start
	}
	return float64(covered) / float64(len(source))
}

// GroundingGap is a stretch of source text no node quote covers.
type GroundingGap struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// GroundingGaps returns the uncovered ranges of the source that are at least
// minGap characters long, in position order.
func (m *Model) GroundingGaps(source string, minGap int) []GroundingGap {
	if source == "" {
		return nil
	}
	merged := m.mergedSpans(source)
	if len(merged) == 0 {
		if len(source) >= minGap {
			return []GroundingGap{{Start: 0, End: len(source)}}
		}
		return nil
	}

	var gaps []GroundingGap
	if merged[0].Start >= minGap {
		gaps = append(gaps, GroundingGap{Start: 0, End: merged[0].Start})
	}
	for i := 0; i < len(merged)-1; i++ {
		if merged[i+1].Start-merged[i].End >= minGap {
			gaps = append(gaps, GroundingGap{Start: merged[i].End, End: merged[i+1].Start})
		}
	}
	if len(source)-merged[len(merged)-1].End >= minGap {
		gaps = append(gaps, GroundingGap{Start: merged[len(merged)-1].End, End: len(source)})
	}
	return gaps
}

// GroundingStats summarizes how well a model is anchored to its source.
type GroundingStats struct {
	GroundedNodes   int            `json:"grounded_node_count"`
	UngroundedNodes int            `json:"ungrounded_node_count"`
	CoverageRatio   float64        `json:"coverage_ratio"`
	AvgSpanLength   float64        `json:"avg_span_length"`
	GroundedByType  map[string]int `json:"grounded_by_type"`
}

// ComputeGroundingStats counts grounded and ungrounded nodes per variant and
// measures source coverage. Links count under the "Link" type.
func (m *Model) ComputeGroundingStats(source string) GroundingStats {
	s := GroundingStats{GroundedByType: make(map[string]int)}

	var totalLen, spanCount int
	count := func(id, typ string) {
		quotes := m.QuotedTexts(id)
		if len(quotes) == 0 {
			s.UngroundedNodes++
			return
		}
		s.GroundedNodes++
		s.GroundedByType[typ]++
		for _, q := range quotes {
			totalLen += len(q)
			spanCount++
		}
	}
	for _, id := range m.claimOrder {
		count(id, string(m.claims[id].Type))
	}
	for _, id := range m.linkOrder {
		count(id, string(domain.NodeLink))
	}

	if spanCount > 0 {
		s.AvgSpanLength = math.Round(float64(totalLen)/float64(spanCount)*10) / 10
	}
	s.CoverageRatio = m.GroundingCoverage(source)
	return s
}
