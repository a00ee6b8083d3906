// internal/progress/progress.go
//
// Pure derivations over a case's document list. Summarize is the local
// fallback for the server's /cases/{id}/progress record; when the server
// record is available it wins, this one only drives the display while a
// fetch is outstanding or failing.

package progress

import (
	"math"

	"github.com/xvanc-yurii/veteran-aid/internal/api"
)

// Summarize computes a completion summary from the current document set.
// Pure function of the input; safe to recompute on every render.
//
// The ready-to-submit flag is true whenever nothing is outstanding, which
// makes a case with zero documents vacuously ready. The server additionally
// requires total > 0; its record is authoritative where fetched.
func Summarize(caseID int, docs []api.CaseDocument) api.CaseProgress {
	p := api.CaseProgress{CaseID: caseID, Total: len(docs)}
	for _, doc := range docs {
		switch doc.Status {
		case api.DocApproved:
			p.Approved++
		case api.DocUploaded:
			p.Uploaded++
		case api.DocRejected:
			p.Rejected++
		default:
			// Unknown values count as outstanding rather than vanishing
			// from the partition.
			p.Required++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(100 * float64(p.Approved) / float64(p.Total)))
	}
	p.IsReadyToSubmit = p.Required == 0
	p.IsReadyForApproval = p.Total > 0 && p.Approved == p.Total
	return p
}

// NextStatuses returns the transitions the UI offers from a given document
// status. Advisory only: the client sends whatever the user picks and the
// server is the authority, so every status can reach every listed peer.
func NextStatuses(from api.DocumentStatus) []api.DocumentStatus {
	switch from {
	case api.DocRequired:
		return []api.DocumentStatus{api.DocUploaded, api.DocApproved, api.DocRejected}
	case api.DocUploaded:
		return []api.DocumentStatus{api.DocApproved, api.DocRejected, api.DocRequired}
	case api.DocApproved:
		return []api.DocumentStatus{api.DocRejected, api.DocRequired}
	case api.DocRejected:
		return []api.DocumentStatus{api.DocRequired, api.DocUploaded}
	}
	if !api.ValidDocumentStatus(from) {
		// A value the backend added later still gets the full picker.
		return api.DocumentStatuses
	}
	return nil
}

// DeriveCaseStatus mirrors the server's automatic case-status recalculation
// so the UI can hint at the next workflow state. Display only; the case
// record's own status field stays authoritative.
func DeriveCaseStatus(docs []api.CaseDocument) api.CaseStatus {
	p := Summarize(0, docs)
	switch {
	case p.Total == 0:
		return api.CaseDraft
	case p.Approved == p.Total:
		return api.CaseDone
	case p.Rejected > 0:
		return api.CaseInReview
	case p.Required == 0:
		return api.CaseSubmitted
	default:
		return api.CaseDraft
	}
}
