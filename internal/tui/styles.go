package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/xvanc-yurii/veteran-aid/internal/api"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	logHeadStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	logBoxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	docRequiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	docUploadedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	docApprovedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	docRejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// caseStatusLabel renders a case status for display.
func caseStatusLabel(s api.CaseStatus) string {
	switch s {
	case api.CaseDraft:
		return "Draft"
	case api.CaseSubmitted:
		return "Submitted"
	case api.CaseInReview:
		return "In review"
	case api.CaseApproved:
		return "Approved"
	case api.CaseDone:
		return "Done"
	}
	if s == "" {
		return "—"
	}
	return string(s)
}

// docStatusLabel renders a document status with its color.
func docStatusLabel(s api.DocumentStatus) string {
	switch s {
	case api.DocRequired:
		return docRequiredStyle.Render("required")
	case api.DocUploaded:
		return docUploadedStyle.Render("uploaded")
	case api.DocApproved:
		return docApprovedStyle.Render("approved")
	case api.DocRejected:
		return docRejectedStyle.Render("rejected")
	}
	return string(s)
}
