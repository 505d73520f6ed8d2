package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/credencelab/credence/internal/argmap"
	"github.com/credencelab/credence/internal/domain"
)

// OutlineExporter renders each Conclusion as a numbered hierarchical text
// tree. Shared sub-arguments appear once: later occurrences become
// "(see N)" back-references. Links targeting links surface as warrants with
// "w"-suffixed numbers under the inference they qualify.
type OutlineExporter struct {
	m *argmap.Model
	// first outline number where each node appeared
	registry map[string]string
}

func NewOutlineExporter() *OutlineExporter {
	return &OutlineExporter{}
}

func (e *OutlineExporter) Export(m *argmap.Model) string {
	e.m = m
	e.registry = make(map[string]string)

	var conclusions []*domain.Claim
	for _, c := range m.Claims() {
		if c.Type == domain.NodeConclusion {
			conclusions = append(conclusions, c)
		}
	}
	sort.Slice(conclusions, func(i, j int) bool {
		a, b := conclusions[i], conclusions[j]
		if a.Content != b.Content {
			return a.Content < b.Content
		}
		return a.ID < b.ID
	})

	var sections []string
	for i, c := range conclusions {
		sections = append(sections, e.conclusionTree(c, fmt.Sprintf("%d", i+1)))
	}
	return strings.Join(sections, "\n\n")
}

func (e *OutlineExporter) conclusionTree(c *domain.Claim, number string) string {
	content := c.Content
	if content == "" {
		content = c.ID
	}
	lines := []string{fmt.Sprintf("%s. [Conclusion] %s", number, content)}
	e.registry[c.ID] = number

	for i, link := range e.sortedIncoming(c.ID) {
		childNumber := fmt.Sprintf("%s.%d", number, i+1)
		lines = append(lines, e.linkSubtree(link, childNumber, 1)...)
	}
	return strings.Join(lines, "\n")
}

func (e *OutlineExporter) linkSubtree(link *domain.Link, number string, indent int) []string {
	var lines []string
	for k, srcID := range link.SourceIDs {
		srcNumber := number
		if len(link.SourceIDs) > 1 {
			srcNumber = fmt.Sprintf("%s.%d", number, k+1)
		}

		if seen, ok := e.registry[srcID]; ok {
			lines = append(lines, fmt.Sprintf("%s%s [%s] (see %s)", pad(indent), srcNumber, link.Polarity, seen))
			continue
		}

		src, ok := e.m.Claim(srcID)
		if !ok {
			// A link sourced from another link has no content line of its
			// own; its tree is rendered where that link targets something.
			continue
		}
		content := src.Content
		if content == "" {
			content = src.ID
		}
		lines = append(lines, fmt.Sprintf("%s%s [%s] [%s] %s", pad(indent), srcNumber, link.Polarity, src.Type, content))
		e.registry[srcID] = srcNumber
		lines = append(lines, e.childLines(srcID, srcNumber, indent+1)...)
	}

	lines = append(lines, e.warrantLines(link.ID, number, indent)...)
	return lines
}

func (e *OutlineExporter) warrantLines(linkID, parentNumber string, indent int) []string {
	var lines []string
	warrantIndex := 1
	for _, w := range e.sortedIncoming(linkID) {
		for _, srcID := range w.SourceIDs {
			number := fmt.Sprintf("%sw%d", parentNumber, warrantIndex)
			if seen, ok := e.registry[srcID]; ok {
				lines = append(lines, fmt.Sprintf("%s%s [warrant] (see %s)", pad(indent), number, seen))
				warrantIndex++
				continue
			}
			src, ok := e.m.Claim(srcID)
			if !ok {
				continue
			}
			content := src.Content
			if content == "" {
				content = src.ID
			}
			lines = append(lines, fmt.Sprintf("%s%s [warrant] [%s] %s", pad(indent), number, src.Type, content))
			e.registry[srcID] = number
			lines = append(lines, e.childLines(srcID, number, indent+1)...)
			warrantIndex++
		}
	}
	return lines
}

func (e *OutlineExporter) childLines(nodeID, parentNumber string, indent int) []string {
	var lines []string
	for i, link := range e.sortedIncoming(nodeID) {
		childNumber := fmt.Sprintf("%s.%d", parentNumber, i+1)
		lines = append(lines, e.linkSubtree(link, childNumber, indent)...)
	}
	return lines
}

// sortedIncoming orders incoming links by polarity then id so output is
// stable across runs.
func (e *OutlineExporter) sortedIncoming(id string) []*domain.Link {
	links := e.m.IncomingLinks(id)
	sort.Slice(links, func(i, j int) bool {
		if links[i].Polarity != links[j].Polarity {
			return links[i].Polarity < links[j].Polarity
		}
		return links[i].ID < links[j].ID
	})
	return links
}

func pad(indent int) string {
	return strings.Repeat("   ", indent)
}
