package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/lumen/internal/config"
)

const maxQueryLength = 256

type keyMap struct {
	Quit      key.Binding
	Search    key.Binding
	Filter    key.Binding
	Gallery   key.Binding
	Open      key.Binding
	Dismiss   key.Binding
	Back      key.Binding
	Help      key.Binding
	Submit    key.Binding
	Select    key.Binding
	Choose    key.Binding
	NextField key.Binding
}

func newKeyMap(modifier string, b config.KeyBindings) keyMap {
	mod := func(k string, desc string) key.Binding {
		return key.NewBinding(key.WithKeys(modifier+k), key.WithHelp(modifier+k, desc))
	}
	plain := func(k string, desc string) key.Binding {
		return key.NewBinding(key.WithKeys(k), key.WithHelp(k, desc))
	}

	return keyMap{
		Quit:      plain(b.Quit, "quit"),
		Search:    mod(b.Search, "search"),
		Filter:    mod(b.Filter, "filter"),
		Gallery:   mod(b.Gallery, "gallery"),
		Open:      mod(b.OpenImage, "open image"),
		Dismiss:   mod(b.Dismiss, "dismiss"),
		Back:      plain(b.Back, "back"),
		Help:      plain(b.Help, "more"),
		Submit:    plain("enter", "search"),
		Select:    plain("enter", "details"),
		Choose:    plain("enter", "open"),
		NextField: plain("tab", "next field"),
	}
}

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
	keys        keyMap
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifier := ""
	if cfg.Keys.Modifier != "" {
		modifier = cfg.Keys.Modifier + "+"
	}
	return &KeyHandler{
		app:         app,
		config:      cfg,
		modifierKey: modifier,
		keys:        newKeyMap(modifier, cfg.Keys.Bindings),
	}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return kh.app, tea.Quit
	}

	// Without a modifier the bindings are plain letters and must not steal
	// keystrokes from the inputs.
	if kh.modifierKey != "" || !kh.isInTextInputMode() {
		if cmd, handled := kh.handleModifierKeys(msg); handled {
			return kh.app, cmd
		}
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if cmd, handled := kh.handleViewKeys(msg); handled {
		return kh.app, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch:
		return kh.app.focus < fieldCount
	case ViewFilter:
		return kh.app.filterInput.Focused()
	}
	return false
}

func (kh *KeyHandler) handleModifierKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	app := kh.app
	switch {
	case key.Matches(msg, kh.keys.Search):
		return app.focusSearch(), true

	case key.Matches(msg, kh.keys.Filter):
		if app.view != ViewSearch && app.view != ViewFilter {
			return nil, true
		}
		return app.enterFilter(), true

	case key.Matches(msg, kh.keys.Dismiss):
		app.dismiss()
		return nil, true

	case key.Matches(msg, kh.keys.Gallery):
		if app.view == ViewDetail {
			app.showGallery()
		}
		return nil, true

	case key.Matches(msg, kh.keys.Open):
		if url, ok := app.imageTarget(); ok {
			return app.openImage(url), true
		}
		return nil, true
	}
	return nil, false
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app

	switch msg.String() {
	case "esc":
		return app, kh.navigateBack()

	case "enter":
		if app.view == ViewSearch {
			return app, app.submitSearch()
		}
		app.filterInput.Blur()
		return app, nil

	case "tab", "down":
		if app.view == ViewFilter {
			app.filterInput.Blur()
			return app, nil
		}
		next := app.focus + 1
		if next == focusResults && len(app.resultList.Items()) == 0 {
			next = 0
		}
		return app, app.setFocus(next)

	case "shift+tab", "up":
		if app.view == ViewSearch && app.focus > 0 {
			return app, app.setFocus(app.focus - 1)
		}
		return app, nil
	}

	if app.view == ViewSearch {
		return app, app.updateField(msg)
	}

	before := app.filterInput.Value()
	var cmd tea.Cmd
	app.filterInput, cmd = app.filterInput.Update(msg)
	if app.filterInput.Value() != before {
		return app, tea.Batch(cmd, app.onFilterInput())
	}
	return app, cmd
}

func (kh *KeyHandler) handleViewKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	app := kh.app

	switch {
	case key.Matches(msg, kh.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, kh.keys.Back):
		return kh.navigateBack(), true
	case key.Matches(msg, kh.keys.Help):
		app.help.ShowAll = !app.help.ShowAll
		return nil, true
	}

	switch app.view {
	case ViewSearch, ViewFilter:
		switch msg.String() {
		case "enter":
			return app.openSelected(), true
		case "tab", "/":
			return kh.refocusInput(), true
		case "up", "k":
			if app.resultList.Index() == 0 {
				return kh.refocusInput(), true
			}
		}

	case ViewGallery:
		if msg.String() == "enter" {
			if url, ok := app.imageTarget(); ok {
				return app.openImage(url), true
			}
			return nil, true
		}
	}
	return nil, false
}

func (kh *KeyHandler) refocusInput() tea.Cmd {
	if kh.app.view == ViewFilter {
		return kh.app.filterInput.Focus()
	}
	return kh.app.setFocus(0)
}

func (kh *KeyHandler) navigateBack() tea.Cmd {
	app := kh.app
	switch app.view {
	case ViewGallery:
		app.view = ViewDetail
	case ViewDetail:
		app.view = app.listView
		app.payload = nil
		app.loadingDetail = false
		app.setStatus("", StatusInfo)
	case ViewFilter:
		app.leaveFilter()
	default:
		if app.session.State().Loading() {
			app.cancelSearch()
			return nil
		}
		if app.focus == focusResults {
			return app.setFocus(0)
		}
		return tea.Quit
	}
	return nil
}

func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app
	var cmd tea.Cmd
	switch app.view {
	case ViewSearch, ViewFilter:
		app.resultList, cmd = app.resultList.Update(msg)
	case ViewDetail:
		app.viewport, cmd = app.viewport.Update(msg)
	case ViewGallery:
		app.galleryList, cmd = app.galleryList.Update(msg)
	}
	return app, cmd
}

// GetHelpForCurrentView returns the bindings shown in the footer.
func (kh *KeyHandler) GetHelpForCurrentView() []key.Binding {
	k := kh.keys
	switch kh.app.view {
	case ViewSearch:
		var bindings []key.Binding
		if kh.isInTextInputMode() {
			bindings = []key.Binding{k.Submit, k.NextField, k.Filter}
		} else {
			bindings = []key.Binding{k.Select, k.Search, k.Filter, k.Quit}
		}
		if kh.app.session.State().ErrorVisible() {
			bindings = append(bindings, k.Dismiss)
		}
		return append(bindings, k.Back)
	case ViewFilter:
		return []key.Binding{k.Select, k.NextField, k.Back}
	case ViewDetail:
		return []key.Binding{k.Gallery, k.Open, k.Back}
	case ViewGallery:
		return []key.Binding{k.Choose, k.Back}
	}
	return nil
}

// GlobalBindings are available from every view.
func (kh *KeyHandler) GlobalBindings() []key.Binding {
	k := kh.keys
	return []key.Binding{k.Search, k.Dismiss, k.Help, k.Quit}
}

// sanitizeSearchInput trims and collapses whitespace and caps the length.
func sanitizeSearchInput(input string) string {
	input = strings.Join(strings.Fields(input), " ")
	if utf8.RuneCountInString(input) > maxQueryLength {
		input = strings.TrimSpace(string([]rune(input)[:maxQueryLength]))
	}
	return input
}

func keepDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < utf8.RuneSelf {
			return r
		}
		return -1
	}, s)
}
