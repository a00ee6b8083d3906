package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvanc-yurii/veteran-aid/internal/api"
	caseprogress "github.com/xvanc-yurii/veteran-aid/internal/progress"
	"github.com/xvanc-yurii/veteran-aid/internal/query"
)

type caseTab int

const (
	tabOverview caseTab = iota
	tabDocuments
	tabHistory
	tabArtifacts
	tabAsk
)

var caseTabs = []string{"Overview", "Documents", "History", "Artifacts", "Ask AI"}

type docAction int

const (
	docActionNone docAction = iota
	docActionStatus
	docActionComment
	docActionUpload
)

// caseView is the case detail screen: the case record plus its documents,
// progress, history, artifacts and the ask-AI prompt, one tab each.
type caseView struct {
	app    *App
	caseID int
	record api.Case

	tab    caseTab
	busy   bool
	spin   spinner.Model
	errMsg string

	docs              []api.CaseDocument
	serverProgress    api.CaseProgress
	hasServerProgress bool
	history           []api.CaseHistoryEntry
	artifacts         []api.CaseArtifact

	docTable  table.Model
	progBar   progress.Model
	bodyView  viewport.Model
	askInput  textarea.Model
	askAnswer string
	asking    bool

	action       docAction
	statusPick   []api.DocumentStatus
	statusCursor int
	actionInput  textinput.Model

	noteEditing bool
	noteInput   textinput.Model

	width  int
	height int
}

func newCaseView(app *App, record api.Case) *caseView {
	columns := []table.Column{
		{Title: "Document", Width: 36},
		{Title: "Status", Width: 10},
		{Title: "File", Width: 22},
		{Title: "Comment", Width: 30},
	}
	docTable := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(8))

	askInput := textarea.New()
	askInput.Placeholder = "ask the assistant about this case"
	askInput.SetHeight(3)

	actionInput := textinput.New()
	noteInput := textinput.New()
	noteInput.Placeholder = "case note"
	noteInput.CharLimit = 300

	v := &caseView{
		app:         app,
		caseID:      record.ID,
		record:      record,
		docTable:    docTable,
		progBar:     progress.New(progress.WithDefaultGradient()),
		bodyView:    viewport.New(80, 14),
		askInput:    askInput,
		actionInput: actionInput,
		noteInput:   noteInput,
	}
	v.spin = spinner.New()
	v.spin.Spinner = spinner.Dot
	return v
}

func (v *caseView) setSize(width, height int) {
	v.width = width
	v.height = height
	v.bodyView.Width = max(40, width-8)
	v.bodyView.Height = max(6, height-16)
	v.progBar.Width = max(20, width-24)
	v.askInput.SetWidth(max(20, width-12))
	v.actionInput.Width = max(20, width-16)
	v.noteInput.Width = max(20, width-16)
	v.docTable.SetHeight(max(4, height-18))
}

// Init loads everything the screen renders. Cached values appear instantly
// through Peek; each fetch lands as its own message.
func (v *caseView) Init() tea.Cmd {
	if docs, ok := query.Peek[[]api.CaseDocument](v.app.cache, query.CaseDocumentsKey(v.caseID)); ok {
		v.docs = docs
		v.refreshDocTable()
	}
	if p, ok := query.Peek[api.CaseProgress](v.app.cache, query.CaseProgressKey(v.caseID)); ok {
		v.serverProgress = p
		v.hasServerProgress = true
	}
	v.busy = true
	return tea.Batch(
		v.spin.Tick,
		v.fetchCase(),
		v.fetchDocuments(),
		v.fetchProgress(),
		v.fetchHistory(),
		v.fetchArtifacts(),
	)
}

func (v *caseView) refresh() tea.Cmd {
	id := v.caseID
	v.app.cache.Invalidate(
		query.CaseKey(id),
		query.CaseDocumentsKey(id),
		query.CaseProgressKey(id),
		query.CaseHistoryKey(id),
		query.CaseArtifactsKey(id),
	)
	return v.Init()
}

func (v *caseView) fetchCase() tea.Cmd {
	app, id := v.app, v.caseID
	return func() tea.Msg {
		record, err := query.Fetch(app.ctx(), app.cache, query.CaseKey(id), func(ctx context.Context) (api.Case, error) {
			return app.client.Case(ctx, id)
		})
		return caseLoadedMsg{record: record, err: err}
	}
}

func (v *caseView) fetchDocuments() tea.Cmd {
	app, id := v.app, v.caseID
	return func() tea.Msg {
		docs, err := query.Fetch(app.ctx(), app.cache, query.CaseDocumentsKey(id), func(ctx context.Context) ([]api.CaseDocument, error) {
			return app.client.CaseDocuments(ctx, id)
		})
		return documentsLoadedMsg{caseID: id, docs: docs, err: err}
	}
}

func (v *caseView) fetchProgress() tea.Cmd {
	app, id := v.app, v.caseID
	return func() tea.Msg {
		p, err := query.Fetch(app.ctx(), app.cache, query.CaseProgressKey(id), func(ctx context.Context) (api.CaseProgress, error) {
			return app.client.CaseProgress(ctx, id)
		})
		return progressLoadedMsg{caseID: id, progress: p, err: err}
	}
}

func (v *caseView) fetchHistory() tea.Cmd {
	app, id := v.app, v.caseID
	return func() tea.Msg {
		entries, err := query.Fetch(app.ctx(), app.cache, query.CaseHistoryKey(id), func(ctx context.Context) ([]api.CaseHistoryEntry, error) {
			return app.client.CaseHistory(ctx, id)
		})
		return historyLoadedMsg{caseID: id, entries: entries, err: err}
	}
}

func (v *caseView) fetchArtifacts() tea.Cmd {
	app, id := v.app, v.caseID
	return func() tea.Msg {
		items, err := query.Fetch(app.ctx(), app.cache, query.CaseArtifactsKey(id), func(ctx context.Context) ([]api.CaseArtifact, error) {
			return app.client.CaseArtifacts(ctx, id)
		})
		return artifactsLoadedMsg{caseID: id, items: items, err: err}
	}
}

// refetchAfterDocumentMutation re-fetches everything a document write could
// have touched. The invalidation already happened.
func (v *caseView) refetchAfterDocumentMutation() tea.Cmd {
	return tea.Batch(v.fetchDocuments(), v.fetchProgress(), v.fetchHistory(), v.fetchCase())
}

// handleBack closes any inline action first; false means leave the screen.
func (v *caseView) handleBack() bool {
	if v.action != docActionNone {
		v.action = docActionNone
		v.errMsg = ""
		return true
	}
	if v.noteEditing {
		v.noteEditing = false
		v.errMsg = ""
		return true
	}
	return false
}

func (v *caseView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.busy && !v.asking {
			return nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return cmd

	case caseLoadedMsg:
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err == nil && msg.record.ID == v.caseID {
			v.record = msg.record
		}
		return nil

	case caseUpdatedMsg:
		v.busy = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "Could not update the case.")
			return nil
		}
		v.errMsg = ""
		v.record = msg.record
		query.InvalidateCaseMutation(v.app.cache, v.caseID)
		v.app.logbook.Info("case updated", "case_id", v.caseID, "status", string(msg.record.Status))
		return tea.Batch(v.fetchCase(), v.fetchHistory())

	case documentsLoadedMsg:
		if msg.caseID != v.caseID {
			return nil
		}
		v.busy = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "Could not load the documents.")
			return nil
		}
		v.docs = msg.docs
		v.refreshDocTable()
		return nil

	case progressLoadedMsg:
		if msg.caseID != v.caseID {
			return nil
		}
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			// Keep rendering the local fallback summary.
			v.hasServerProgress = false
			return nil
		}
		v.serverProgress = msg.progress
		v.hasServerProgress = true
		return nil

	case historyLoadedMsg:
		if msg.caseID != v.caseID {
			return nil
		}
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "Could not load the history.")
			return nil
		}
		v.history = msg.entries
		return nil

	case artifactsLoadedMsg:
		if msg.caseID != v.caseID {
			return nil
		}
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "Could not load the artifacts.")
			return nil
		}
		v.artifacts = msg.items
		return nil

	case documentUpdatedMsg:
		v.busy = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "The update was rejected.")
			return nil
		}
		v.errMsg = ""
		v.app.setStatus(fmt.Sprintf("Document %q updated", msg.doc.Title))
		query.InvalidateDocumentMutation(v.app.cache, v.caseID)
		return v.refetchAfterDocumentMutation()

	case documentUploadedMsg:
		v.busy = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "The upload failed.")
			return nil
		}
		v.errMsg = ""
		v.app.setStatus(fmt.Sprintf("File attached to %q", msg.doc.Title))
		v.app.logbook.Info("document uploaded", "case_id", v.caseID, "doc_id", msg.doc.ID)
		query.InvalidateDocumentMutation(v.app.cache, v.caseID)
		return v.refetchAfterDocumentMutation()

	case documentDownloadedMsg:
		v.busy = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "The download failed.")
			return nil
		}
		v.errMsg = ""
		v.app.setStatus("Saved " + msg.path)
		return nil

	case pdfGeneratedMsg:
		v.busy = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "PDF generation failed.")
			return nil
		}
		v.errMsg = ""
		v.app.setStatus("Application PDF saved to " + msg.path)
		v.app.logbook.Info("pdf generated", "case_id", v.caseID, "path", msg.path)
		query.InvalidateArtifactGeneration(v.app.cache, v.caseID)
		return tea.Batch(v.fetchArtifacts(), v.fetchHistory())

	case askAnsweredMsg:
		v.asking = false
		if cmd := v.app.checkAuth(msg.err); cmd != nil {
			return cmd
		}
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "The assistant is unavailable right now.")
			return nil
		}
		v.errMsg = ""
		v.askAnswer = msg.answer
		return nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v.forward(msg)
}

func (v *caseView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.action != docActionNone {
		return v.handleActionKey(msg)
	}
	if v.noteEditing {
		return v.handleNoteKey(msg)
	}
	if v.tab == tabAsk && v.askInput.Focused() {
		switch msg.String() {
		case "ctrl+s":
			return v.submitQuestion()
		case "tab":
			return v.switchTab(tabOverview)
		}
		var cmd tea.Cmd
		v.askInput, cmd = v.askInput.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "right", "]":
		return v.switchTab(caseTab((int(v.tab) + 1) % len(caseTabs)))
	case "left", "[":
		return v.switchTab(caseTab((int(v.tab) - 1 + len(caseTabs)) % len(caseTabs)))
	case "r":
		if v.tab != tabAsk {
			return v.refresh()
		}
	}

	switch v.tab {
	case tabOverview:
		switch msg.String() {
		case "b":
			return v.submitCase()
		case "n":
			v.noteEditing = true
			v.noteInput.SetValue(v.record.Note)
			v.noteInput.Focus()
			return textinput.Blink
		}
	case tabDocuments:
		switch msg.String() {
		case "s":
			return v.beginStatusChange()
		case "c":
			return v.beginCommentEdit()
		case "u":
			return v.beginUpload()
		case "d":
			return v.downloadSelected()
		}
	case tabArtifacts:
		if msg.String() == "g" {
			return v.generatePDF()
		}
	case tabAsk:
		if msg.String() == "ctrl+s" {
			return v.submitQuestion()
		}
	}
	return v.forward(msg)
}

func (v *caseView) switchTab(next caseTab) tea.Cmd {
	v.tab = next
	v.errMsg = ""
	if next == tabAsk {
		return v.askInput.Focus()
	}
	v.askInput.Blur()
	return nil
}

func (v *caseView) handleActionKey(msg tea.KeyMsg) tea.Cmd {
	switch v.action {
	case docActionStatus:
		switch msg.String() {
		case "up", "k":
			if v.statusCursor > 0 {
				v.statusCursor--
			}
		case "down", "j":
			if v.statusCursor < len(v.statusPick)-1 {
				v.statusCursor++
			}
		case "enter":
			return v.submitStatusChange()
		}
		return nil
	case docActionComment, docActionUpload:
		if msg.String() == "enter" {
			if v.action == docActionComment {
				return v.submitComment()
			}
			return v.submitUpload()
		}
		var cmd tea.Cmd
		v.actionInput, cmd = v.actionInput.Update(msg)
		return cmd
	}
	return nil
}

func (v *caseView) handleNoteKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "enter" {
		v.noteEditing = false
		note := strings.TrimSpace(v.noteInput.Value())
		return v.updateCase(api.UpdateCaseRequest{Note: &note})
	}
	var cmd tea.Cmd
	v.noteInput, cmd = v.noteInput.Update(msg)
	return cmd
}

func (v *caseView) selectedDocument() (api.CaseDocument, bool) {
	idx := v.docTable.Cursor()
	if idx < 0 || idx >= len(v.docs) {
		return api.CaseDocument{}, false
	}
	return v.docs[idx], true
}

func (v *caseView) beginStatusChange() tea.Cmd {
	doc, ok := v.selectedDocument()
	if !ok {
		return nil
	}
	v.statusPick = caseprogress.NextStatuses(doc.Status)
	if len(v.statusPick) == 0 {
		return nil
	}
	v.statusCursor = 0
	v.action = docActionStatus
	v.errMsg = ""
	return nil
}

func (v *caseView) submitStatusChange() tea.Cmd {
	doc, ok := v.selectedDocument()
	if !ok || v.statusCursor >= len(v.statusPick) {
		v.action = docActionNone
		return nil
	}
	status := v.statusPick[v.statusCursor]
	v.action = docActionNone
	v.busy = true
	app := v.app
	caseID, docID := v.caseID, doc.ID
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		updated, err := app.client.UpdateCaseDocument(app.ctx(), caseID, docID, api.UpdateDocumentRequest{Status: &status})
		return documentUpdatedMsg{doc: updated, err: err}
	})
}

func (v *caseView) beginCommentEdit() tea.Cmd {
	doc, ok := v.selectedDocument()
	if !ok {
		return nil
	}
	v.action = docActionComment
	v.actionInput.Placeholder = "comment"
	v.actionInput.SetValue(doc.Comment)
	v.actionInput.Focus()
	v.errMsg = ""
	return textinput.Blink
}

func (v *caseView) submitComment() tea.Cmd {
	doc, ok := v.selectedDocument()
	if !ok {
		v.action = docActionNone
		return nil
	}
	comment := strings.TrimSpace(v.actionInput.Value())
	v.action = docActionNone
	v.busy = true
	app := v.app
	caseID, docID := v.caseID, doc.ID
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		updated, err := app.client.UpdateCaseDocument(app.ctx(), caseID, docID, api.UpdateDocumentRequest{Comment: &comment})
		return documentUpdatedMsg{doc: updated, err: err}
	})
}

func (v *caseView) beginUpload() tea.Cmd {
	if _, ok := v.selectedDocument(); !ok {
		return nil
	}
	v.action = docActionUpload
	v.actionInput.Placeholder = "path to the file"
	v.actionInput.SetValue("")
	v.actionInput.Focus()
	v.errMsg = ""
	return textinput.Blink
}

func (v *caseView) submitUpload() tea.Cmd {
	doc, ok := v.selectedDocument()
	path := strings.TrimSpace(v.actionInput.Value())
	v.action = docActionNone
	if !ok || path == "" {
		return nil
	}
	v.busy = true
	app := v.app
	caseID, docID := v.caseID, doc.ID
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		file, err := os.Open(path)
		if err != nil {
			return documentUploadedMsg{err: fmt.Errorf("open %s: %w", path, err)}
		}
		defer file.Close()
		updated, err := app.client.UploadCaseDocument(app.ctx(), caseID, docID, filepath.Base(path), file)
		return documentUploadedMsg{doc: updated, err: err}
	})
}

func (v *caseView) downloadSelected() tea.Cmd {
	doc, ok := v.selectedDocument()
	if !ok {
		return nil
	}
	if doc.FileName == "" {
		v.errMsg = "No file attached to this document yet."
		return nil
	}
	v.busy = true
	app := v.app
	caseID, docID := v.caseID, doc.ID
	dir := app.cfg.DownloadsDir()
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		download, err := app.client.DownloadCaseDocument(app.ctx(), caseID, docID)
		if err != nil {
			return documentDownloadedMsg{err: err}
		}
		if doc.FileName != "" {
			download.Filename = doc.FileName
		}
		path, err := download.SaveTo(dir)
		return documentDownloadedMsg{path: path, err: err}
	})
}

func (v *caseView) generatePDF() tea.Cmd {
	v.busy = true
	v.errMsg = ""
	app := v.app
	caseID := v.caseID
	dir := app.cfg.DownloadsDir()
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		download, err := app.client.GenerateApplicationPDF(app.ctx(), caseID)
		if err != nil {
			return pdfGeneratedMsg{err: err}
		}
		path, err := download.SaveTo(dir)
		return pdfGeneratedMsg{path: path, err: err}
	})
}

// submitCase proposes moving the case to submitted. The server may refuse;
// its reason lands inline.
func (v *caseView) submitCase() tea.Cmd {
	status := api.CaseSubmitted
	return v.updateCase(api.UpdateCaseRequest{Status: &status})
}

func (v *caseView) updateCase(req api.UpdateCaseRequest) tea.Cmd {
	v.busy = true
	app := v.app
	caseID := v.caseID
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		updated, err := app.client.UpdateCase(app.ctx(), caseID, req)
		return caseUpdatedMsg{record: updated, err: err}
	})
}

func (v *caseView) submitQuestion() tea.Cmd {
	question := strings.TrimSpace(v.askInput.Value())
	if question == "" {
		v.errMsg = "Type a question first."
		return nil
	}
	v.asking = true
	v.errMsg = ""
	app := v.app
	caseID := v.caseID
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		answer, err := app.client.Ask(app.ctx(), caseID, question)
		return askAnsweredMsg{answer: answer, err: err}
	})
}

func (v *caseView) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.tab {
	case tabDocuments:
		v.docTable, cmd = v.docTable.Update(msg)
	case tabHistory, tabArtifacts:
		v.bodyView, cmd = v.bodyView.Update(msg)
	case tabAsk:
		v.askInput, cmd = v.askInput.Update(msg)
	}
	return cmd
}

func (v *caseView) refreshDocTable() {
	rows := make([]table.Row, len(v.docs))
	for i, doc := range v.docs {
		rows[i] = table.Row{doc.Title, string(doc.Status), doc.FileName, doc.Comment}
	}
	v.docTable.SetRows(rows)
}

// currentProgress prefers the server record and falls back to the local
// recomputation while the fetch is outstanding or failing.
func (v *caseView) currentProgress() (api.CaseProgress, bool) {
	if v.hasServerProgress {
		return v.serverProgress, true
	}
	return caseprogress.Summarize(v.caseID, v.docs), false
}

func (v *caseView) View() string {
	rows := []string{v.renderTabs(), ""}
	switch v.tab {
	case tabOverview:
		rows = append(rows, v.renderOverview())
	case tabDocuments:
		rows = append(rows, v.renderDocuments())
	case tabHistory:
		rows = append(rows, v.renderHistory())
	case tabArtifacts:
		rows = append(rows, v.renderArtifacts())
	case tabAsk:
		rows = append(rows, v.renderAsk())
	}
	if v.busy {
		rows = append(rows, v.spin.View()+" working…")
	}
	if v.errMsg != "" {
		rows = append(rows, errorStyle.Render(v.errMsg))
	}
	rows = append(rows, hintStyle.Render(v.hintLine()))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *caseView) renderTabs() string {
	parts := make([]string, len(caseTabs))
	for i, name := range caseTabs {
		if caseTab(i) == v.tab {
			parts[i] = okStyle.Render("[" + name + "]")
		} else {
			parts[i] = subtleStyle.Render(" " + name + " ")
		}
	}
	title := strings.TrimSpace(v.record.Title)
	if title == "" {
		title = fmt.Sprintf("Case #%d", v.caseID)
	}
	return labelStyle.Render(title) + "  " + strings.Join(parts, " ")
}

func (v *caseView) renderOverview() string {
	p, authoritative := v.currentProgress()
	readiness := "Collecting documents"
	if p.IsReadyForApproval {
		readiness = "Ready for approval"
	} else if p.IsReadyToSubmit {
		readiness = "Ready to submit"
	}
	source := "server"
	if !authoritative {
		source = "local estimate"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", labelStyle.Render("Status:"), caseStatusLabel(v.record.Status))
	if hint := caseprogress.DeriveCaseStatus(v.docs); len(v.docs) > 0 && hint != v.record.Status {
		fmt.Fprintf(&sb, " %s", subtleStyle.Render("(documents suggest: "+caseStatusLabel(hint)+")"))
	}
	fmt.Fprintf(&sb, "\n%s %s\n", labelStyle.Render("Created:"), formatTimestamp(v.record.CreatedAt))
	if v.record.Description != "" {
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Description:"), v.record.Description)
	}
	if v.noteEditing {
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Note:"), v.noteInput.View())
	} else if v.record.Note != "" {
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Note:"), v.record.Note)
	}
	fmt.Fprintf(&sb, "\n%s %s %s\n", labelStyle.Render(readiness), subtleStyle.Render(fmt.Sprintf("%d%%", p.Percent)), subtleStyle.Render("("+source+")"))
	sb.WriteString(v.progBar.ViewAs(float64(p.Percent) / 100))
	fmt.Fprintf(&sb, "\n\nDocuments: %d approved, %d uploaded, %d required, %d rejected of %d total\n",
		p.Approved, p.Uploaded, p.Required, p.Rejected, p.Total)
	return sb.String()
}

func (v *caseView) renderDocuments() string {
	if len(v.docs) == 0 {
		return subtleStyle.Render("No documents on this case.")
	}
	out := v.docTable.View()
	switch v.action {
	case docActionStatus:
		var picks []string
		for i, status := range v.statusPick {
			marker := "  "
			if i == v.statusCursor {
				marker = "→ "
			}
			picks = append(picks, marker+docStatusLabel(status))
		}
		out += "\n" + labelStyle.Render("New status:") + "\n" + strings.Join(picks, "\n")
	case docActionComment:
		out += "\n" + labelStyle.Render("Comment:") + " " + v.actionInput.View()
	case docActionUpload:
		out += "\n" + labelStyle.Render("Upload file:") + " " + v.actionInput.View()
	}
	return out
}

func (v *caseView) renderHistory() string {
	if len(v.history) == 0 {
		return subtleStyle.Render("No history yet.")
	}
	var lines []string
	for _, entry := range v.history {
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			subtleStyle.Render(formatTimestamp(entry.CreatedAt)),
			caseStatusLabel(api.CaseStatus(entry.Status)),
			entry.Comment,
		))
	}
	v.bodyView.SetContent(strings.Join(lines, "\n"))
	return v.bodyView.View()
}

func (v *caseView) renderArtifacts() string {
	if len(v.artifacts) == 0 {
		v.bodyView.SetContent(subtleStyle.Render("No artifacts yet. Press g to generate the application PDF."))
		return v.bodyView.View()
	}
	var lines []string
	for _, artifact := range v.artifacts {
		lines = append(lines, fmt.Sprintf("%s  %s (%s)",
			subtleStyle.Render(formatTimestamp(artifact.CreatedAt)), artifact.Title, artifact.Type))
		if artifact.ContentText != "" {
			lines = append(lines, subtleStyle.Render(truncate(artifact.ContentText, 400)), "")
		}
	}
	v.bodyView.SetContent(strings.Join(lines, "\n"))
	return v.bodyView.View()
}

func (v *caseView) renderAsk() string {
	rows := []string{v.askInput.View()}
	if v.asking {
		rows = append(rows, "", v.spin.View()+" asking the assistant…")
	}
	if v.askAnswer != "" {
		rows = append(rows, "", labelStyle.Render("Assistant:"), v.askAnswer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *caseView) hintLine() string {
	switch {
	case v.action == docActionStatus:
		return "Enter → apply status    Esc → cancel"
	case v.action == docActionComment || v.action == docActionUpload:
		return "Enter → submit    Esc → cancel"
	case v.noteEditing:
		return "Enter → save note    Esc → cancel"
	}
	switch v.tab {
	case tabDocuments:
		return "s → status    c → comment    u → upload    d → download    ←/→ tabs    Esc → cases"
	case tabArtifacts:
		return "g → generate PDF    ←/→ tabs    Esc → cases"
	case tabAsk:
		return "Ctrl+S → ask    Tab → overview    Esc → cases"
	case tabOverview:
		return "b → submit case    n → edit note    r → refresh    ←/→ tabs    Esc → cases"
	}
	return "←/→ tabs    r → refresh    Esc → cases"
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	// Cut on rune boundaries; backend text is mostly Cyrillic.
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
