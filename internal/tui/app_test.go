package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/lumen/internal/catalog"
	"github.com/pders01/lumen/internal/config"
	"github.com/pders01/lumen/internal/session"
)

type searchFunc func(ctx context.Context, q catalog.Query) (catalog.Outcome, error)

func (f searchFunc) Search(ctx context.Context, q catalog.Query) (catalog.Outcome, error) {
	return f(ctx, q)
}

type fakeOpener struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (o *fakeOpener) Open(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.opened = append(o.opened, url)
	return nil
}

func record(id, title, href string) catalog.Record {
	r := catalog.Record{Data: []catalog.Metadata{{
		ID:          id,
		Title:       title,
		Description: title + " as seen from orbit",
		Location:    "Sea of Tranquility",
		DateCreated: "1969-07-20T00:00:00Z",
	}}}
	if href != "" {
		r.Links = []catalog.Link{{Href: href}}
	}
	return r
}

func moonResults() catalog.Outcome {
	return catalog.Success{
		Items: []catalog.Record{
			record("as11-1", "Apollo 11 moon landing", "https://img/a.jpg"),
			record("as11-2", "Moon rock sample", "https://img/a.jpg"),
			record("mer-1", "Mars rover tracks", "https://img/b.jpg"),
		},
		TotalHits: 812,
	}
}

func staticSearcher(outcome catalog.Outcome) searchFunc {
	return func(context.Context, catalog.Query) (catalog.Outcome, error) {
		return outcome, nil
	}
}

func newTestApp(t *testing.T, searcher session.Searcher) (*App, *fakeOpener) {
	t.Helper()
	opener := &fakeOpener{}
	app := NewApp(config.TestConfig(), searcher, opener)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app, opener
}

func typeText(app *App, s string) {
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(app *App, k tea.KeyType) tea.Cmd {
	_, cmd := app.Update(tea.KeyMsg{Type: k})
	return cmd
}

// collect runs cmd and flattens batches. Only use it with commands that
// return immediately.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func deliver(app *App, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		app.Update(msg)
	}
}

func searchMoon(t *testing.T, app *App) {
	t.Helper()
	typeText(app, "moon")
	cmd := press(app, tea.KeyEnter)
	require.NotNil(t, cmd)
	deliver(app, cmd)
}

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t, staticSearcher(catalog.Empty{}))

	assert.Equal(t, ViewSearch, app.view)
	assert.Equal(t, 0, app.focus)
	assert.True(t, app.inputs[0].Focused())
	assert.NotNil(t, app.keyHandler)
	assert.Contains(t, app.View(), "ctrl+s")
}

func TestSearchFlow(t *testing.T) {
	var got catalog.Query
	app, _ := newTestApp(t, searchFunc(func(_ context.Context, q catalog.Query) (catalog.Outcome, error) {
		got = q
		return moonResults(), nil
	}))

	typeText(app, "moon")
	press(app, tea.KeyTab)
	typeText(app, "1969")
	assert.Equal(t, "1969", app.session.State().YearStart())

	cmd := press(app, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, app.session.State().Loading())
	assert.Contains(t, app.View(), "Searching for 'moon'")

	deliver(app, cmd)

	st := app.session.State()
	assert.False(t, st.Loading())
	assert.Equal(t, catalog.Query{Text: "moon", YearStart: "1969"}, got)
	assert.Empty(t, app.inputs[0].Value(), "inputs reset after a search")
	assert.Empty(t, app.inputs[1].Value())
	assert.Len(t, app.resultList.Items(), 3)
	assert.Equal(t, []string{"https://img/a.jpg", "https://img/b.jpg"}, st.Gallery().URLs())
	assert.Equal(t, "3 results of 812", app.status)
	assert.NotNil(t, app.filter)
}

func TestSearchRequiresQuery(t *testing.T) {
	called := false
	app, _ := newTestApp(t, searchFunc(func(context.Context, catalog.Query) (catalog.Outcome, error) {
		called = true
		return catalog.Empty{}, nil
	}))

	typeText(app, "   ")
	cmd := press(app, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.False(t, called)
	assert.Equal(t, MsgNeedQuery, app.status)
}

func TestSearchRejectsOverlap(t *testing.T) {
	app, _ := newTestApp(t, staticSearcher(moonResults()))

	typeText(app, "moon")
	first := press(app, tea.KeyEnter)
	require.NotNil(t, first)

	assert.Nil(t, press(app, tea.KeyEnter), "second submit while loading")
	assert.Equal(t, MsgAlreadyLoading, app.status)

	deliver(app, first)
	assert.Len(t, app.resultList.Items(), 3)
}

func TestSearchErrorBanner(t *testing.T) {
	app, _ := newTestApp(t, staticSearcher(catalog.ServerError{Status: 502}))
	searchMoon(t, app)

	st := app.session.State()
	require.True(t, st.ErrorVisible())
	assert.Equal(t, catalog.MsgServerError, st.Message())
	assert.Empty(t, app.resultList.Items())
	assert.Contains(t, app.View(), "✗")

	press(app, tea.KeyCtrlD)
	assert.False(t, app.session.State().ErrorVisible())
	assert.NotContains(t, app.View(), "✗")
}

func TestSearchTransportFailure(t *testing.T) {
	app, _ := newTestApp(t, searchFunc(func(context.Context, catalog.Query) (catalog.Outcome, error) {
		return nil, errors.New("dial tcp: connection refused")
	}))
	searchMoon(t, app)

	st := app.session.State()
	assert.True(t, st.ErrorVisible())
	assert.Equal(t, catalog.MsgUnknownError, st.Message())
}

func TestCancelDropsLateResult(t *testing.T) {
	app, _ := newTestApp(t, staticSearcher(moonResults()))

	typeText(app, "moon")
	cmd := press(app, tea.KeyEnter)
	require.NotNil(t, cmd)

	press(app, tea.KeyEsc)
	assert.False(t, app.session.State().Loading())
	assert.Equal(t, MsgCancelled, app.status)

	deliver(app, cmd)
	assert.Empty(t, app.resultList.Items(), "result of a cancelled search must be dropped")
	assert.Equal(t, MsgCancelled, app.status)
}

func TestYearInputKeepsDigits(t *testing.T) {
	app, _ := newTestApp(t, staticSearcher(catalog.Empty{}))

	press(app, tea.KeyTab)
	typeText(app, "19a6")
	assert.Equal(t, "196", app.inputs[1].Value())
	assert.Equal(t, "196", app.session.State().YearStart())

	press(app, tea.KeyShiftTab)
	assert.Equal(t, 0, app.focus)
}

func TestTabSkipsEmptyResults(t *testing.T) {
	app, _ := newTestApp(t, staticSearcher(catalog.Empty{}))

	press(app, tea.KeyTab)
	press(app, tea.KeyTab)
	press(app, tea.KeyTab)
	assert.Equal(t, 0, app.focus, "focus wraps to the query when there are no results")
}

func TestDetailAndGallery(t *testing.T) {
	app, opener := newTestApp(t, staticSearcher(moonResults()))
	searchMoon(t, app)

	app.setFocus(focusResults)
	press(app, tea.KeyDown)
	cmd := press(app, tea.KeyEnter)
	require.Equal(t, ViewDetail, app.view)
	require.NotNil(t, app.payload)
	assert.Equal(t, "as11-2", app.payload.Record().Data[0].ID)

	deliver(app, cmd)
	assert.False(t, app.loadingDetail)
	assert.Contains(t, app.View(), "2 images in gallery")

	press(app, tea.KeyCtrlG)
	require.Equal(t, ViewGallery, app.view)
	assert.Len(t, app.galleryList.Items(), 2)

	press(app, tea.KeyDown)
	deliver(app, press(app, tea.KeyEnter))
	assert.Equal(t, []string{"https://img/b.jpg"}, opener.opened)
	assert.Contains(t, app.status, "Opened")

	press(app, tea.KeyEsc)
	assert.Equal(t, ViewDetail, app.view)
	deliver(app, press(app, tea.KeyCtrlO))
	assert.Equal(t, []string{"https://img/b.jpg", "https://img/a.jpg"}, opener.opened)

	press(app, tea.KeyEsc)
	assert.Equal(t, ViewSearch, app.view)
	assert.Nil(t, app.payload)
}

func TestOpenImageFailure(t *testing.T) {
	app, opener := newTestApp(t, staticSearcher(moonResults()))
	opener.err = errors.New("no viewer")
	searchMoon(t, app)

	app.setFocus(focusResults)
	deliver(app, press(app, tea.KeyEnter))
	deliver(app, press(app, tea.KeyCtrlO))

	require.Error(t, app.err)
	assert.Contains(t, app.View(), "opening image")

	press(app, tea.KeyCtrlD)
	assert.NoError(t, app.err)
}

func TestGalleryNeedsImages(t *testing.T) {
	app, _ := newTestApp(t, staticSearcher(moonResults()))
	app.view = ViewDetail
	app.payload = &session.NavigationPayload{}

	press(app, tea.KeyCtrlG)
	assert.Equal(t, ViewDetail, app.view)
	assert.Equal(t, MsgNoGallery, app.status)
}

func TestFilterResults(t *testing.T) {
	app, _ := newTestApp(t, staticSearcher(moonResults()))
	searchMoon(t, app)

	press(app, tea.KeyCtrlF)
	require.Equal(t, ViewFilter, app.view)
	assert.True(t, app.filterInput.Focused())

	typeText(app, "mars")
	assert.Equal(t, "mars", app.filterInput.Value())

	app.Update(collect(app.runFilter(app.filterSeq, "mars"))[0])
	items := app.resultList.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].(resultItem).index)
	assert.Equal(t, MsgFiltered(1, 3), app.status)

	// short queries show everything
	app.Update(collect(app.runFilter(app.filterSeq, "m"))[0])
	assert.Len(t, app.resultList.Items(), 3)

	// results for an older keystroke are ignored
	stale := collect(app.runFilter(app.filterSeq-1, "mars"))[0]
	app.Update(stale)
	assert.Len(t, app.resultList.Items(), 3)

	press(app, tea.KeyEsc)
	assert.Equal(t, ViewSearch, app.view)
	assert.Empty(t, app.filterInput.Value())
	assert.Len(t, app.resultList.Items(), 3)
}

func TestFilterNeedsResults(t *testing.T) {
	app, _ := newTestApp(t, staticSearcher(catalog.Empty{}))

	press(app, tea.KeyCtrlF)
	assert.Equal(t, ViewSearch, app.view)
	assert.Equal(t, StatusWarn, app.statusKind)
}

func TestUnrenderableResultsSkipped(t *testing.T) {
	outcome := catalog.Success{
		Items: []catalog.Record{
			record("a", "Earthrise", "https://img/earth.jpg"),
			record("b", "No link", ""),
			{},
		},
		TotalHits: 3,
	}
	app, _ := newTestApp(t, staticSearcher(outcome))
	searchMoon(t, app)

	items := app.resultList.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Earthrise", items[0].(resultItem).Title())
	assert.Equal(t, "1 result of 3", app.status)
}

func TestQuitKeys(t *testing.T) {
	app, _ := newTestApp(t, staticSearcher(moonResults()))

	cmd := press(app, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// q types into the query box
	typeText(app, "q")
	assert.Equal(t, "q", app.inputs[0].Value())

	app.setFocus(focusResults)
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestResultItem(t *testing.T) {
	item, err := catalog.Normalize(record("x", strings.Repeat("a", 60), "https://img/x.jpg"))
	require.NoError(t, err)

	ri := resultItem{index: 4, item: item}
	assert.Len(t, []rune(ri.Title()), catalog.ListTitleLength)
	assert.Equal(t, "Sea of Tranquility • 1969-07-20", ri.Description())

	bare := resultItem{item: catalog.ResultItem{ID: "bare"}}
	assert.Equal(t, "bare", bare.Description())
}

func TestDetailMarkdown(t *testing.T) {
	r := record("as11-40-5903", "Buzz Aldrin on the Moon", "https://img/buzz.jpg")
	r.Data[0].Photographer = "Neil Armstrong"
	r.Data[0].Keywords = []string{"Apollo 11", "EVA"}
	p := session.NewPayload(r, catalog.NewGallery([]catalog.Record{r}))

	md := detailMarkdown(p)
	assert.Contains(t, md, "# Buzz Aldrin on the Moon")
	assert.Contains(t, md, "**Photographer:** Neil Armstrong")
	assert.Contains(t, md, "**Date:** Jul 20, 1969")
	assert.Contains(t, md, "**Keywords:** Apollo 11 | EVA")
	assert.Contains(t, md, "Preview: https://img/buzz.jpg")

	assert.Contains(t, detailMarkdown(session.NavigationPayload{}), "no details")
}
