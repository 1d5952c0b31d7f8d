package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/lumen/internal/debuglog"
	"github.com/pders01/lumen/internal/search"
	"github.com/pders01/lumen/internal/session"
)

const filterDebounce = 150 * time.Millisecond

type searchSettledMsg struct {
	settled session.Settled
}

type filterDebounceMsg struct {
	seq   int
	query string
}

type filterResultsMsg struct {
	seq  int
	hits []search.Hit
	all  bool
	err  error
}

type detailRenderedMsg struct {
	seq     int
	content string
}

type imageOpenedMsg struct {
	url string
}

type errorMsg struct {
	err error
}

// runSearch performs the catalog request off the UI goroutine. The result is
// settled back in Update so stale generations can be dropped there.
func (a *App) runSearch(p session.Pending) tea.Cmd {
	ctl := a.session
	return func() tea.Msg {
		return searchSettledMsg{settled: ctl.Run(context.Background(), p)}
	}
}

func (a *App) onFilterInput() tea.Cmd {
	a.filterSeq++
	seq := a.filterSeq
	query := sanitizeSearchInput(a.filterInput.Value())
	return tea.Tick(filterDebounce, func(time.Time) tea.Msg {
		return filterDebounceMsg{seq: seq, query: query}
	})
}

func (a *App) runFilter(seq int, query string) tea.Cmd {
	filter := a.filter
	limit := len(a.items)
	return func() tea.Msg {
		if filter == nil || len([]rune(query)) < search.MinQueryLength {
			return filterResultsMsg{seq: seq, all: true}
		}
		hits, err := filter.Filter(query, limit)
		if err != nil {
			return filterResultsMsg{seq: seq, err: err}
		}
		if ds, ok := filter.(search.DebugStatser); ok {
			if n, err := ds.DocCount(); err == nil {
				debuglog.Debugf("filter %q matched %d of %d indexed results", query, len(hits), n)
			}
		}
		return filterResultsMsg{seq: seq, hits: hits}
	}
}

func renderDetail(r *glamour.TermRenderer, seq int, p session.NavigationPayload) tea.Cmd {
	return func() tea.Msg {
		md := detailMarkdown(p)
		out, err := r.Render(md)
		if err != nil {
			debuglog.Warnf("rendering detail markdown: %v", err)
			out = md
		}
		return detailRenderedMsg{seq: seq, content: out}
	}
}

// detailMarkdown lays out the selected result for glamour.
func detailMarkdown(p session.NavigationPayload) string {
	item, err := p.Item()
	if err != nil {
		return "_This result has no details to show._\n"
	}

	var b strings.Builder
	title := item.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if item.Photographer != "" {
		fmt.Fprintf(&b, "- **Photographer:** %s\n", item.Photographer)
	}
	if item.Location != "" {
		fmt.Fprintf(&b, "- **Location:** %s\n", item.Location)
	}
	if !item.DateCreated.IsZero() {
		fmt.Fprintf(&b, "- **Date:** %s\n", item.DateCreated.Format("Jan 2, 2006"))
	}
	if item.ID != "" {
		fmt.Fprintf(&b, "- **NASA ID:** `%s`\n", item.ID)
	}
	if line := item.KeywordLine(); line != "" {
		fmt.Fprintf(&b, "\n**Keywords:** %s\n", line)
	}
	if item.Description != "" {
		fmt.Fprintf(&b, "\n---\n\n%s\n", item.Description)
	}
	if item.PreviewHref != "" {
		fmt.Fprintf(&b, "\n---\n\nPreview: %s\n", item.PreviewHref)
	}
	return b.String()
}

func (a *App) openImage(url string) tea.Cmd {
	opener := a.opener
	return func() tea.Msg {
		if opener == nil {
			return errorMsg{err: fmt.Errorf("no image viewer configured")}
		}
		if err := opener.Open(url); err != nil {
			return errorMsg{err: wrapErr("opening image", err)}
		}
		return imageOpenedMsg{url: url}
	}
}
