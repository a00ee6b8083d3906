package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvanc-yurii/veteran-aid/internal/api"
	"github.com/xvanc-yurii/veteran-aid/internal/query"
)

type casesMode int

const (
	casesModeList casesMode = iota
	casesModePickBenefit
	casesModeNewCase
)

type caseItem struct {
	record api.Case
}

func (i caseItem) Title() string {
	title := strings.TrimSpace(i.record.Title)
	if title == "" {
		title = fmt.Sprintf("Case #%d", i.record.ID)
	}
	return title
}

func (i caseItem) Description() string {
	return fmt.Sprintf("%s · created %s", caseStatusLabel(i.record.Status), formatTimestamp(i.record.CreatedAt))
}

func (i caseItem) FilterValue() string { return i.Title() }

// casesView lists the user's cases and hosts the new-case form.
type casesView struct {
	app *App

	mode    casesMode
	menu    list.Model
	picker  list.Model
	loading bool
	spin    spinner.Model
	errMsg  string

	formBenefit api.Benefit
	titleInput  textinput.Model
	descInput   textarea.Model
	formFocus   int
	submitting  bool

	width  int
	height int
}

func newCasesView(app *App) *casesView {
	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "My Cases"
	menu.SetShowStatusBar(false)

	picker := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	picker.Title = "Choose a Benefit"
	picker.SetShowStatusBar(false)

	title := textinput.New()
	title.Placeholder = "case title"
	title.CharLimit = 160

	desc := textarea.New()
	desc.Placeholder = "description (optional)"
	desc.SetHeight(4)

	v := &casesView{app: app, menu: menu, picker: picker, titleInput: title, descInput: desc}
	v.spin = spinner.New()
	v.spin.Spinner = spinner.Dot
	return v
}

func (v *casesView) setSize(width, height int) {
	v.width = width
	v.height = height
	v.menu.SetSize(max(0, width-6), max(0, height-12))
	v.picker.SetSize(max(0, width-6), max(0, height-12))
	v.titleInput.Width = max(20, width-12)
	v.descInput.SetWidth(max(20, width-12))
}

// Open switches to the case list and loads it through the cache.
func (v *casesView) Open() tea.Cmd {
	v.mode = casesModeList
	v.errMsg = ""
	if cached, ok := query.Peek[[]api.Case](v.app.cache, query.CasesKey()); ok {
		v.setItems(cached)
	}
	v.loading = true
	app := v.app
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		items, err := query.Fetch(app.ctx(), app.cache, query.CasesKey(), func(ctx context.Context) ([]api.Case, error) {
			return app.client.Cases(ctx)
		})
		return casesLoadedMsg{items: items, err: err}
	})
}

// OpenNewCase jumps straight to the form with the benefit preselected,
// used from the benefit detail screen.
func (v *casesView) OpenNewCase(benefit api.Benefit) tea.Cmd {
	v.startForm(benefit)
	return textinput.Blink
}

func (v *casesView) startForm(benefit api.Benefit) {
	v.mode = casesModeNewCase
	v.formBenefit = benefit
	v.titleInput.SetValue("")
	v.descInput.SetValue("")
	v.formFocus = 0
	v.titleInput.Focus()
	v.descInput.Blur()
	v.errMsg = ""
	v.submitting = false
}

func (v *casesView) setItems(cases []api.Case) {
	items := make([]list.Item, len(cases))
	for i := range cases {
		items[i] = caseItem{record: cases[i]}
	}
	v.menu.SetItems(items)
}

// handleBack steps form → picker → list; false when already at the list.
func (v *casesView) handleBack() bool {
	switch v.mode {
	case casesModeNewCase, casesModePickBenefit:
		v.mode = casesModeList
		v.errMsg = ""
		return true
	}
	return false
}

func (v *casesView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.loading && !v.submitting {
			return nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return cmd

	case casesLoadedMsg:
		v.loading = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "Could not load your cases.")
			return nil
		}
		v.errMsg = ""
		v.setItems(msg.items)
		return nil

	case benefitsLoadedMsg:
		// Feeds the benefit picker when the form was opened from the list.
		if v.mode != casesModePickBenefit {
			return nil
		}
		v.loading = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "Could not load benefits.")
			return nil
		}
		items := make([]list.Item, len(msg.items))
		for i := range msg.items {
			items[i] = benefitItem{benefit: msg.items[i]}
		}
		v.picker.SetItems(items)
		return nil

	case caseCreatedMsg:
		v.submitting = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "Could not create the case.")
			return nil
		}
		query.InvalidateCaseCreation(v.app.cache)
		v.app.logbook.Info("case created", "case_id", msg.created.ID)
		v.app.setStatus(fmt.Sprintf("Case #%d created", msg.created.ID))
		return v.app.openCase(msg.created)

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v.forward(msg)
}

func (v *casesView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch v.mode {
	case casesModeList:
		switch msg.String() {
		case "enter":
			item, ok := v.menu.SelectedItem().(caseItem)
			if !ok {
				return nil
			}
			return v.app.openCase(item.record)
		case "n":
			return v.openPicker()
		case "r":
			return v.Open()
		}
	case casesModePickBenefit:
		if msg.String() == "enter" {
			item, ok := v.picker.SelectedItem().(benefitItem)
			if !ok {
				return nil
			}
			v.startForm(item.benefit)
			return textinput.Blink
		}
	case casesModeNewCase:
		if v.submitting {
			return nil
		}
		switch msg.String() {
		case "tab", "shift+tab":
			v.toggleFormFocus()
			return nil
		case "enter":
			if v.formFocus == 0 {
				v.toggleFormFocus()
				return nil
			}
		case "ctrl+s":
			return v.submitForm()
		}
	}
	return v.forward(msg)
}

func (v *casesView) toggleFormFocus() {
	if v.formFocus == 0 {
		v.formFocus = 1
		v.titleInput.Blur()
		v.descInput.Focus()
	} else {
		v.formFocus = 0
		v.descInput.Blur()
		v.titleInput.Focus()
	}
}

func (v *casesView) openPicker() tea.Cmd {
	v.mode = casesModePickBenefit
	v.errMsg = ""
	if cached, ok := query.Peek[[]api.Benefit](v.app.cache, query.BenefitsKey()); ok {
		items := make([]list.Item, len(cached))
		for i := range cached {
			items[i] = benefitItem{benefit: cached[i]}
		}
		v.picker.SetItems(items)
	}
	v.loading = true
	app := v.app
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		items, err := query.Fetch(app.ctx(), app.cache, query.BenefitsKey(), func(ctx context.Context) ([]api.Benefit, error) {
			return app.client.Benefits(ctx)
		})
		return benefitsLoadedMsg{items: items, err: err}
	})
}

func (v *casesView) submitForm() tea.Cmd {
	form := newCaseForm{
		BenefitID: v.formBenefit.ID,
		Title:     strings.TrimSpace(v.titleInput.Value()),
	}
	if msg := validateForm(form); msg != "" {
		v.errMsg = msg
		return nil
	}
	v.submitting = true
	v.errMsg = ""
	app := v.app
	req := api.CreateCaseRequest{
		BenefitID:   form.BenefitID,
		Title:       form.Title,
		Description: strings.TrimSpace(v.descInput.Value()),
	}
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		created, err := app.client.CreateCase(app.ctx(), req)
		return caseCreatedMsg{created: created, err: err}
	})
}

func (v *casesView) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.mode {
	case casesModeList:
		v.menu, cmd = v.menu.Update(msg)
	case casesModePickBenefit:
		v.picker, cmd = v.picker.Update(msg)
	case casesModeNewCase:
		if v.formFocus == 0 {
			v.titleInput, cmd = v.titleInput.Update(msg)
		} else {
			v.descInput, cmd = v.descInput.Update(msg)
		}
	}
	return cmd
}

func (v *casesView) View() string {
	switch v.mode {
	case casesModePickBenefit:
		rows := []string{v.picker.View()}
		if v.loading {
			rows = append(rows, v.spin.View()+" loading benefits…")
		}
		if v.errMsg != "" {
			rows = append(rows, errorStyle.Render(v.errMsg))
		}
		rows = append(rows, hintStyle.Render("Enter → choose benefit    Esc → back"))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)

	case casesModeNewCase:
		rows := []string{
			labelStyle.Render("New case"),
			subtleStyle.Render("Benefit: " + v.formBenefit.Title),
			"",
			v.titleInput.View(),
			"",
			v.descInput.View(),
		}
		if v.submitting {
			rows = append(rows, "", v.spin.View()+" creating the case…")
		}
		if v.errMsg != "" {
			rows = append(rows, "", errorStyle.Render(v.errMsg))
		}
		rows = append(rows, hintStyle.Render("Ctrl+S → create    Tab → switch field    Esc → cancel"))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)

	default:
		rows := []string{v.menu.View()}
		if v.loading {
			rows = append(rows, v.spin.View()+" loading cases…")
		}
		if v.errMsg != "" {
			rows = append(rows, errorStyle.Render(v.errMsg))
		}
		rows = append(rows, hintStyle.Render("Enter → open case    n → new case    r → refresh    Esc → menu"))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}
}
