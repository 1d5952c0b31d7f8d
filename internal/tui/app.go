package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/lumen/internal/catalog"
	"github.com/pders01/lumen/internal/config"
	"github.com/pders01/lumen/internal/debuglog"
	"github.com/pders01/lumen/internal/search"
	"github.com/pders01/lumen/internal/session"
)

// ImageOpener starts an external viewer for a gallery URL.
type ImageOpener interface {
	Open(url string) error
}

const (
	fieldCount   = 3
	focusResults = fieldCount

	yearInputWidth = 10
	// header, form, notice line and footer around the result list
	searchChromeHeight = 14
	detailChromeHeight = 5
)

var formFields = [fieldCount]session.Field{
	session.FieldQuery,
	session.FieldYearStart,
	session.FieldYearEnd,
}

type App struct {
	config     *config.Config
	session    *session.Controller
	opener     ImageOpener
	filter     search.Filterer
	keyHandler *KeyHandler

	inputs      [fieldCount]textinput.Model
	focus       int
	resultList  list.Model
	galleryList list.Model
	filterInput textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model
	help        help.Model

	view     View
	listView View
	payload  *session.NavigationPayload

	items         []list.Item
	itemsByIndex  map[int]resultItem
	filterSeq     int
	detailSeq     int
	loadingDetail bool

	status     string
	statusKind StatusKind
	err        error

	width  int
	height int

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

type resultItem struct {
	index int
	item  catalog.ResultItem
}

func (i resultItem) Title() string { return i.item.ListTitle() }

func (i resultItem) Description() string {
	var parts []string
	if i.item.Location != "" {
		parts = append(parts, i.item.Location)
	}
	if i.item.Photographer != "" {
		parts = append(parts, i.item.Photographer)
	}
	if !i.item.DateCreated.IsZero() {
		parts = append(parts, i.item.DateCreated.Format("2006-01-02"))
	}
	if len(parts) == 0 {
		return i.item.ID
	}
	return strings.Join(parts, " • ")
}

func (i resultItem) FilterValue() string { return i.item.Title }

type galleryItem struct {
	url      string
	position int
	total    int
}

func (i galleryItem) Title() string {
	return fmt.Sprintf("Image %d of %d", i.position, i.total)
}

func (i galleryItem) Description() string {
	if i.url == "" {
		return "no preview link"
	}
	return truncateMiddle(i.url, 72)
}

func (i galleryItem) FilterValue() string { return i.url }

func galleryItems(g catalog.Gallery) []list.Item {
	items := make([]list.Item, 0, g.Len())
	for i, url := range g.URLs() {
		items = append(items, galleryItem{url: url, position: i + 1, total: g.Len()})
	}
	return items
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(AccentColor).
		BorderLeftForeground(AccentColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(SecondaryColor).
		BorderLeftForeground(AccentColor)

	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.Styles.Title = TitleStyle
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

func NewApp(cfg *config.Config, searcher session.Searcher, opener ImageOpener) *App {
	ApplyTheme(cfg.UI.Colors)

	placeholders := [fieldCount]string{"Search NASA images…", "From year", "To year"}
	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		if formFields[i] == session.FieldQuery {
			ti.CharLimit = maxQueryLength
			ti.Width = 50
		} else {
			ti.CharLimit = 4
			ti.Width = yearInputWidth
		}
		inputs[i] = ti
	}
	inputs[0].Focus()

	fi := textinput.New()
	fi.Placeholder = "Filter these results…"
	fi.Prompt = "/ "
	fi.CharLimit = maxQueryLength
	fi.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:       cfg,
		session:      session.NewController(searcher),
		opener:       opener,
		inputs:       inputs,
		resultList:   newList("Results"),
		galleryList:  newList("Gallery"),
		filterInput:  fi,
		viewport:     viewport.New(0, 0),
		spinner:      sp,
		help:         help.New(),
		view:         ViewSearch,
		listView:     ViewSearch,
		itemsByIndex: make(map[int]resultItem),
	}
	app.keyHandler = NewKeyHandler(app, cfg)
	return app
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case searchSettledMsg:
		a.applySettled(msg.settled)
		return a, nil

	case filterDebounceMsg:
		if msg.seq != a.filterSeq {
			return a, nil
		}
		return a, a.runFilter(msg.seq, msg.query)

	case filterResultsMsg:
		a.applyFilterResults(msg)
		return a, nil

	case detailRenderedMsg:
		if msg.seq != a.detailSeq {
			return a, nil
		}
		a.loadingDetail = false
		a.viewport.SetContent(msg.content)
		a.viewport.GotoTop()
		a.setStatus("", StatusInfo)
		return a, nil

	case imageOpenedMsg:
		a.err = nil
		a.setStatus(MsgOpened(msg.url), StatusSuccess)
		return a, nil

	case errorMsg:
		a.err = msg.err
		a.loadingDetail = false
		return a, nil
	}

	return a.delegateToComponent(msg)
}

// delegateToComponent forwards everything else (cursor blinks, mouse) to
// whichever component currently has focus.
func (a *App) delegateToComponent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case ViewSearch:
		if a.focus < fieldCount {
			a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
		} else {
			a.resultList, cmd = a.resultList.Update(msg)
		}
	case ViewFilter:
		if a.filterInput.Focused() {
			a.filterInput, cmd = a.filterInput.Update(msg)
		} else {
			a.resultList, cmd = a.resultList.Update(msg)
		}
	case ViewDetail:
		a.viewport, cmd = a.viewport.Update(msg)
	case ViewGallery:
		a.galleryList, cmd = a.galleryList.Update(msg)
	}
	return a, cmd
}

func (a *App) busy() bool {
	return a.session.State().Loading() || a.loadingDetail
}

func (a *App) layout() {
	inputWidth := max(20, a.width-8)
	a.inputs[0].Width = inputWidth
	a.filterInput.Width = inputWidth - 2

	a.resultList.SetSize(a.width, max(5, a.height-searchChromeHeight))
	a.galleryList.SetSize(a.width, max(5, a.height-3))
	a.viewport.Width = a.width
	a.viewport.Height = max(5, a.height-detailChromeHeight)
	a.help.Width = a.width
}

func (a *App) setStatus(msg string, kind StatusKind) {
	a.status = msg
	a.statusKind = kind
}

func (a *App) setFocus(i int) tea.Cmd {
	for j := range a.inputs {
		a.inputs[j].Blur()
	}
	a.focus = i
	if i < fieldCount {
		return a.inputs[i].Focus()
	}
	return nil
}

// updateField feeds a key to the focused form input and mirrors the
// cleaned value into the session.
func (a *App) updateField(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)

	field := formFields[a.focus]
	value := a.inputs[a.focus].Value()
	if field == session.FieldQuery {
		value = sanitizeSearchInput(value)
	} else if digits := keepDigits(value); digits != value {
		a.inputs[a.focus].SetValue(digits)
		value = digits
	}
	a.session.Edit(field, value)
	return cmd
}

func (a *App) syncInputs(st session.State) {
	for i, f := range formFields {
		a.inputs[i].SetValue(st.Value(f))
	}
}

func (a *App) submitSearch() tea.Cmd {
	if a.session.State().Loading() {
		a.setStatus(MsgAlreadyLoading, StatusWarn)
		return nil
	}
	p, ok := a.session.Begin()
	if !ok {
		a.setStatus(MsgNeedQuery, StatusWarn)
		return nil
	}
	a.err = nil
	a.setStatus(MsgSearching(p.Query.Text), StatusInfo)
	return tea.Batch(a.spinner.Tick, a.runSearch(p))
}

func (a *App) cancelSearch() {
	a.session.Reset()
	st := a.session.State()
	a.syncInputs(st)
	a.rebuildResults(st)
	a.setStatus(MsgCancelled, StatusWarn)
}

func (a *App) applySettled(s session.Settled) {
	if !a.session.Settle(s) {
		return
	}

	st := a.session.State()
	a.syncInputs(st)
	a.rebuildResults(st)

	if st.ErrorVisible() {
		a.setStatus("", StatusError)
		return
	}
	a.setStatus(MsgResultsCount(len(a.items), st.TotalHits()), StatusSuccess)
}

// rebuildResults replaces the list contents and the local filter index with
// the session's current result set.
func (a *App) rebuildResults(st session.State) {
	if a.filter != nil {
		if err := a.filter.Close(); err != nil {
			debuglog.Warnf("closing filter index: %v", err)
		}
		a.filter = nil
	}

	records := st.Results()
	a.items = make([]list.Item, 0, len(records))
	a.itemsByIndex = make(map[int]resultItem, len(records))
	for i, r := range records {
		item, err := catalog.Normalize(r)
		if err != nil {
			debuglog.Debugf("skipping result %d: %v", i, err)
			continue
		}
		ri := resultItem{index: i, item: item}
		a.items = append(a.items, ri)
		a.itemsByIndex[i] = ri
	}
	a.resultList.SetItems(a.items)
	a.resultList.ResetSelected()

	a.filterSeq++
	a.filterInput.SetValue("")
	if len(records) > 0 {
		a.filter = search.New(records)
	}
	if a.view == ViewFilter {
		a.filterInput.Blur()
		a.view = ViewSearch
	}
	a.listView = ViewSearch
}

func (a *App) dismiss() {
	a.session.Dismiss()
	a.err = nil
	if a.statusKind == StatusError {
		a.setStatus("", StatusInfo)
	}
}

func (a *App) focusSearch() tea.Cmd {
	if a.view == ViewFilter {
		a.leaveFilter()
	}
	a.view = ViewSearch
	a.payload = nil
	return a.setFocus(0)
}

func (a *App) enterFilter() tea.Cmd {
	if len(a.items) == 0 {
		a.setStatus("Nothing to filter yet", StatusWarn)
		return nil
	}
	a.setFocus(focusResults)
	a.view = ViewFilter
	return a.filterInput.Focus()
}

func (a *App) leaveFilter() {
	a.filterSeq++
	a.filterInput.Blur()
	a.filterInput.SetValue("")
	a.resultList.SetItems(a.items)
	a.resultList.ResetSelected()
	a.view = ViewSearch
	a.setStatus("", StatusInfo)
	a.setFocus(focusResults)
}

func (a *App) applyFilterResults(msg filterResultsMsg) {
	if msg.seq != a.filterSeq {
		return
	}
	if msg.err != nil {
		a.err = wrapErr("filtering results", msg.err)
		return
	}
	if msg.all {
		a.resultList.SetItems(a.items)
		a.setStatus("", StatusInfo)
		return
	}

	items := make([]list.Item, 0, len(msg.hits))
	for _, h := range msg.hits {
		if ri, ok := a.itemsByIndex[h.Index]; ok {
			items = append(items, ri)
		}
	}
	a.resultList.SetItems(items)
	a.resultList.ResetSelected()
	if len(items) == 0 {
		a.setStatus(MsgNoFilterHits, StatusWarn)
		return
	}
	a.setStatus(MsgFiltered(len(items), len(a.items)), StatusInfo)
}

// openSelected hands the highlighted result over to the detail view.
func (a *App) openSelected() tea.Cmd {
	ri, ok := a.resultList.SelectedItem().(resultItem)
	if !ok {
		return nil
	}
	payload, err := a.session.Select(ri.index)
	if err != nil {
		a.err = err
		return nil
	}

	a.payload = &payload
	a.listView = a.view
	a.view = ViewDetail
	a.err = nil
	a.galleryList.SetItems(galleryItems(payload.Gallery()))
	a.galleryList.ResetSelected()
	a.viewport.SetContent("")
	a.detailSeq++

	renderer, err := a.getRenderer()
	if err != nil {
		debuglog.Warnf("glamour renderer unavailable: %v", err)
		a.viewport.SetContent(detailMarkdown(payload))
		return nil
	}
	a.loadingDetail = true
	a.setStatus(MsgLoadingDetail, StatusInfo)
	return tea.Batch(a.spinner.Tick, renderDetail(renderer, a.detailSeq, payload))
}

func (a *App) showGallery() {
	if a.payload == nil {
		return
	}
	if a.payload.Gallery().Len() == 0 {
		a.setStatus(MsgNoGallery, StatusWarn)
		return
	}
	a.view = ViewGallery
}

// imageTarget is the URL the open key acts on in the current view.
func (a *App) imageTarget() (string, bool) {
	switch a.view {
	case ViewDetail:
		if a.payload == nil {
			return "", false
		}
		item, err := a.payload.Item()
		if err != nil {
			return "", false
		}
		return item.PreviewHref, true
	case ViewGallery:
		gi, ok := a.galleryList.SelectedItem().(galleryItem)
		return gi.url, ok
	}
	return "", false
}

// getRenderer returns a glamour renderer for the current width, reusing the
// cached one until the width drifts noticeably.
func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	lo := a.config.UI.Detail.WordWrapMinWidth
	hi := a.config.UI.Detail.WordWrapMaxWidth
	if lo <= 0 {
		lo = 40
	}
	if hi <= 0 {
		hi = 120
	}
	hi = max(hi, lo)
	wrap := min(max(a.width*9/10, lo), hi)

	if a.glamourRenderer != nil && abs(wrap-a.rendererWidth) <= 10 {
		return a.glamourRenderer, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil, err
	}
	a.glamourRenderer = r
	a.rendererWidth = wrap
	return r, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) View() string {
	var body string
	switch a.view {
	case ViewSearch:
		body = a.searchView()
	case ViewFilter:
		body = a.filterView()
	case ViewDetail:
		body = a.detailView()
	case ViewGallery:
		body = a.galleryList.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar())
}

func (a *App) searchView() string {
	st := a.session.State()

	header := renderHeader("› "+AppName, Tagline, a.width)
	query := renderInputFrame(a.inputs[0].View(), a.focus == 0, a.inputs[0].Width)
	years := lipgloss.JoinHorizontal(lipgloss.Top,
		renderInputFrame(a.inputs[1].View(), a.focus == 1, yearInputWidth+1),
		" ",
		renderInputFrame(a.inputs[2].View(), a.focus == 2, yearInputWidth+1),
	)

	var content string
	if len(a.items) == 0 && !st.Loading() && !st.ErrorVisible() {
		content = renderCentered(a.width, max(5, a.height-searchChromeHeight),
			GetWelcomeMessage(a.keyHandler.keys.Search.Help().Key))
	} else {
		content = a.resultList.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		query,
		years,
		a.noticeLine(st),
		content,
	)
}

func (a *App) noticeLine(st session.State) string {
	switch {
	case st.Loading():
		return a.spinner.View() + " " + renderMuted(MsgSearching(st.Query()))
	case st.ErrorVisible():
		return renderErrorBanner(st.Message(), a.keyHandler.keys.Dismiss.Help().Key, a.width)
	case len(a.items) > 0:
		return MetaStyle.Render(MsgResultsCount(len(a.items), st.TotalHits()))
	default:
		return ""
	}
}

func (a *App) filterView() string {
	header := renderHeader("› Filter results", MsgFiltered(len(a.resultList.Items()), len(a.items)), a.width)
	input := renderInputFrame(a.filterInput.View(), a.filterInput.Focused(), a.filterInput.Width+2)
	return lipgloss.JoinVertical(lipgloss.Left, header, "", input, a.resultList.View())
}

func (a *App) detailView() string {
	if a.payload == nil {
		return renderCentered(a.width, a.viewport.Height, renderMuted("Nothing selected"))
	}
	if a.loadingDetail {
		return renderCentered(a.width, a.viewport.Height, a.spinner.View()+" "+renderMuted(MsgLoadingDetail))
	}

	title := "Untitled"
	if item, err := a.payload.Item(); err == nil && item.Title != "" {
		title = item.ListTitle()
	}
	subtitle := fmt.Sprintf("%d images in gallery • %s: gallery", a.payload.Gallery().Len(),
		a.keyHandler.keys.Gallery.Help().Key)
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(title, subtitle, a.width),
		"",
		a.viewport.View(),
	)
}

func (a *App) statusBar() string {
	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width, 1)))

	var left string
	switch {
	case a.err != nil:
		left = StatusErrorStyle.Render("✗ " + friendlyError(a.err))
	case a.status != "":
		left = a.statusKind.style().Render(a.status)
	}

	bindings := a.keyHandler.GetHelpForCurrentView()
	var helpView string
	if a.help.ShowAll {
		helpView = a.help.FullHelpView([][]key.Binding{bindings, a.keyHandler.GlobalBindings()})
	} else {
		helpView = a.help.ShortHelpView(bindings)
	}

	line := helpView
	if left != "" {
		line = left + renderHelp(" • ") + helpView
	}
	return separator + "\n" + StatusBarStyle.Render(line)
}
