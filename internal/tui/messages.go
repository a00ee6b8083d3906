package tui

import "github.com/xvanc-yurii/veteran-aid/internal/api"

// sessionExpiredMsg routes the app back to login after a 401.
type sessionExpiredMsg struct{}

type loginResultMsg struct {
	token api.TokenResponse
	err   error
}

type registerResultMsg struct {
	resp api.RegisterResponse
	err  error
}

type benefitsLoadedMsg struct {
	recommended bool
	items       []api.Benefit
	err         error
}

type explainLoadedMsg struct {
	benefitID int
	text      string
	err       error
}

type casesLoadedMsg struct {
	items []api.Case
	err   error
}

type caseCreatedMsg struct {
	created api.Case
	err     error
}

type caseLoadedMsg struct {
	record api.Case
	err    error
}

type caseUpdatedMsg struct {
	record api.Case
	err    error
}

type documentsLoadedMsg struct {
	caseID int
	docs   []api.CaseDocument
	err    error
}

type progressLoadedMsg struct {
	caseID   int
	progress api.CaseProgress
	err      error
}

type historyLoadedMsg struct {
	caseID  int
	entries []api.CaseHistoryEntry
	err     error
}

type artifactsLoadedMsg struct {
	caseID int
	items  []api.CaseArtifact
	err    error
}

type documentUpdatedMsg struct {
	doc api.CaseDocument
	err error
}

type documentUploadedMsg struct {
	doc api.CaseDocument
	err error
}

type documentDownloadedMsg struct {
	path string
	err  error
}

type pdfGeneratedMsg struct {
	path string
	err  error
}

type askAnsweredMsg struct {
	answer string
	err    error
}
