package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvanc-yurii/veteran-aid/internal/api"
	"github.com/xvanc-yurii/veteran-aid/internal/query"
)

type benefitsMode int

const (
	benefitsModeList benefitsMode = iota
	benefitsModeDetail
)

type benefitItem struct {
	benefit api.Benefit
}

func (i benefitItem) Title() string { return i.benefit.Title }
func (i benefitItem) Description() string {
	desc := strings.TrimSpace(i.benefit.Description)
	if desc == "" {
		desc = "No description"
	}
	if i.benefit.Category != "" {
		return i.benefit.Category + " · " + desc
	}
	return desc
}
func (i benefitItem) FilterValue() string { return i.benefit.Title }

// benefitsView shows the catalog (full or recommended) and a detail screen
// with the AI explanation.
type benefitsView struct {
	app *App

	mode        benefitsMode
	recommended bool
	menu        list.Model
	loading     bool
	spin        spinner.Model
	errMsg      string

	selected    api.Benefit
	detail      viewport.Model
	explanation string
	explaining  bool

	width  int
	height int
}

func newBenefitsView(app *App) *benefitsView {
	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Benefits"
	menu.SetShowStatusBar(false)
	v := &benefitsView{app: app, menu: menu}
	v.spin = spinner.New()
	v.spin.Spinner = spinner.Dot
	v.detail = viewport.New(80, 20)
	return v
}

func (v *benefitsView) setSize(width, height int) {
	v.width = width
	v.height = height
	v.menu.SetSize(max(0, width-6), max(0, height-12))
	v.detail.Width = max(40, width-8)
	v.detail.Height = max(8, height-14)
}

// Open switches to the list and loads the catalog through the cache.
func (v *benefitsView) Open(recommended bool) tea.Cmd {
	v.mode = benefitsModeList
	v.recommended = recommended
	v.errMsg = ""
	if recommended {
		v.menu.Title = "Recommended for Me"
	} else {
		v.menu.Title = "Benefits"
	}
	if cached, ok := query.Peek[[]api.Benefit](v.app.cache, v.cacheKey()); ok {
		v.setItems(cached)
	}
	v.loading = true
	app := v.app
	key := v.cacheKey()
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		items, err := query.Fetch(app.ctx(), app.cache, key, func(ctx context.Context) ([]api.Benefit, error) {
			if recommended {
				return app.client.RecommendedBenefits(ctx)
			}
			return app.client.Benefits(ctx)
		})
		return benefitsLoadedMsg{recommended: recommended, items: items, err: err}
	})
}

func (v *benefitsView) cacheKey() query.Key {
	if v.recommended {
		return query.RecommendedKey()
	}
	return query.BenefitsKey()
}

func (v *benefitsView) setItems(benefits []api.Benefit) {
	items := make([]list.Item, len(benefits))
	for i := range benefits {
		items[i] = benefitItem{benefit: benefits[i]}
	}
	v.menu.SetItems(items)
}

// handleBack steps detail → list; returns false when already at the list so
// the app can leave the screen.
func (v *benefitsView) handleBack() bool {
	if v.mode == benefitsModeDetail {
		v.mode = benefitsModeList
		v.explanation = ""
		v.explaining = false
		v.errMsg = ""
		return true
	}
	return false
}

func (v *benefitsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.loading && !v.explaining {
			return nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return cmd

	case benefitsLoadedMsg:
		if msg.recommended != v.recommended {
			return nil // superseded by a later navigation
		}
		v.loading = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "Could not load benefits.")
			return nil
		}
		v.errMsg = ""
		v.setItems(msg.items)
		return nil

	case explainLoadedMsg:
		if msg.benefitID != v.selected.ID {
			return nil
		}
		v.explaining = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "The assistant is unavailable right now.")
			return nil
		}
		v.errMsg = ""
		v.explanation = msg.text
		v.refreshDetail()
		return nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v.forward(msg)
}

func (v *benefitsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch v.mode {
	case benefitsModeList:
		switch msg.String() {
		case "enter":
			item, ok := v.menu.SelectedItem().(benefitItem)
			if !ok {
				return nil
			}
			v.selected = item.benefit
			v.mode = benefitsModeDetail
			v.explanation = ""
			v.errMsg = ""
			v.refreshDetail()
			return nil
		case "r":
			return v.Open(v.recommended)
		}
	case benefitsModeDetail:
		switch msg.String() {
		case "e":
			return v.explain()
		case "c":
			v.app.state = stateCases
			return v.app.cases.OpenNewCase(v.selected)
		}
	}
	return v.forward(msg)
}

func (v *benefitsView) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.mode {
	case benefitsModeList:
		v.menu, cmd = v.menu.Update(msg)
	case benefitsModeDetail:
		v.detail, cmd = v.detail.Update(msg)
	}
	return cmd
}

func (v *benefitsView) explain() tea.Cmd {
	if v.explaining {
		return nil
	}
	v.explaining = true
	v.errMsg = ""
	app := v.app
	benefitID := v.selected.ID
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		text, err := app.client.ExplainBenefit(app.ctx(), benefitID)
		return explainLoadedMsg{benefitID: benefitID, text: text, err: err}
	})
}

func (v *benefitsView) refreshDetail() {
	b := v.selected
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", labelStyle.Render(b.Title))
	if b.Category != "" {
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Category:"), b.Category)
	}
	if b.Authority != "" {
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Authority:"), b.Authority)
	}
	if b.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", b.Description)
	}
	if len(b.RequiredDocuments) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", labelStyle.Render("Required documents:"))
		for _, doc := range b.RequiredDocuments {
			fmt.Fprintf(&sb, "  • %s\n", doc)
		}
	}
	if len(b.EligibleStatuses) > 0 {
		fmt.Fprintf(&sb, "\n%s %s\n", labelStyle.Render("Eligible:"), strings.Join(b.EligibleStatuses, ", "))
	}
	if v.explanation != "" {
		fmt.Fprintf(&sb, "\n%s\n%s\n", labelStyle.Render("Assistant:"), v.explanation)
	}
	v.detail.SetContent(sb.String())
}

func (v *benefitsView) View() string {
	switch v.mode {
	case benefitsModeDetail:
		rows := []string{v.detail.View()}
		if v.explaining {
			rows = append(rows, v.spin.View()+" asking the assistant…")
		}
		if v.errMsg != "" {
			rows = append(rows, errorStyle.Render(v.errMsg))
		}
		rows = append(rows, hintStyle.Render("e → explain with AI    c → open a case    Esc → back"))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	default:
		rows := []string{v.menu.View()}
		if v.loading {
			rows = append(rows, v.spin.View()+" loading benefits…")
		}
		if v.errMsg != "" {
			rows = append(rows, errorStyle.Render(v.errMsg))
		}
		rows = append(rows, hintStyle.Render("Enter → details    r → refresh    Esc → menu"))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}
}
