package api

import (
	"encoding/json"
	"strings"
)

// CaseStatus is the backend's case workflow state. The client never computes
// it; the server mutates it in response to workflow events.
type CaseStatus string

const (
	CaseDraft     CaseStatus = "draft"
	CaseSubmitted CaseStatus = "submitted"
	CaseInReview  CaseStatus = "in_review"
	CaseApproved  CaseStatus = "approved"
	CaseDone      CaseStatus = "done"
)

// DocumentStatus is the required-document lifecycle state.
type DocumentStatus string

const (
	DocRequired DocumentStatus = "required"
	DocUploaded DocumentStatus = "uploaded"
	DocApproved DocumentStatus = "approved"
	DocRejected DocumentStatus = "rejected"
)

// DocumentStatuses lists every legal document status, in display order.
var DocumentStatuses = []DocumentStatus{DocRequired, DocUploaded, DocApproved, DocRejected}

// ValidDocumentStatus reports whether s is one of the four legal values.
func ValidDocumentStatus(s DocumentStatus) bool {
	switch s {
	case DocRequired, DocUploaded, DocApproved, DocRejected:
		return true
	}
	return false
}

// StringList accepts either a JSON array of strings or a single
// newline-separated string. The backend has served both shapes for
// benefit required-document lists.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	var out []string
	for _, line := range strings.Split(joined, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	*l = out
	return nil
}

// Benefit is a catalog entry. Read-only from the client's perspective.
type Benefit struct {
	ID                int        `json:"id"`
	Title             string     `json:"title"`
	Category          string     `json:"category,omitempty"`
	Description       string     `json:"description,omitempty"`
	Authority         string     `json:"authority,omitempty"`
	RequiredDocuments StringList `json:"required_documents,omitempty"`
	EligibleStatuses  StringList `json:"eligible_statuses,omitempty"`
}

// Case is one benefit application owned by a user.
type Case struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	BenefitID   int        `json:"benefit_id"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Note        string     `json:"note,omitempty"`
	Status      CaseStatus `json:"status"`
	CreatedAt   string     `json:"created_at,omitempty"`
}

// CaseDocument is one required document attached to a case. Created
// server-side from the benefit's required-document list; never deleted
// by the client.
type CaseDocument struct {
	ID       int            `json:"id"`
	CaseID   int            `json:"case_id"`
	Title    string         `json:"title"`
	Status   DocumentStatus `json:"status"`
	Comment  string         `json:"comment,omitempty"`
	FileName string         `json:"file_name,omitempty"`
}

// CaseHistoryEntry is one record of the append-only audit trail.
type CaseHistoryEntry struct {
	ID        int    `json:"id"`
	CaseID    int    `json:"case_id"`
	Status    string `json:"status"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// CaseArtifact is a generated output stored with the case, such as the
// application PDF text.
type CaseArtifact struct {
	ID          int    `json:"id"`
	CaseID      int    `json:"case_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	ContentText string `json:"content_text,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CaseProgress is the server's derived completion summary for a case.
// When the server supplies it, its readiness flags are authoritative.
type CaseProgress struct {
	CaseID             int  `json:"case_id"`
	Total              int  `json:"total"`
	Approved           int  `json:"approved"`
	Uploaded           int  `json:"uploaded"`
	Rejected           int  `json:"rejected"`
	Required           int  `json:"required"`
	Percent            int  `json:"percent"`
	IsReadyToSubmit    bool `json:"is_ready_to_submit"`
	IsReadyForApproval bool `json:"is_ready_for_approval"`
}

// TokenResponse is returned by login (and by register on backends that
// auto-login).
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// RegisterResponse covers both observed register reply shapes: a token, or
// an id/email/message acknowledgment.
type RegisterResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	ID          int    `json:"id,omitempty"`
	Email       string `json:"email,omitempty"`
	Message     string `json:"message,omitempty"`
}

// LoginRequest is the POST /auth/login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the POST /auth/register payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Region   string `json:"region,omitempty"`
}

// CreateCaseRequest is the POST /cases payload.
type CreateCaseRequest struct {
	BenefitID   int    `json:"benefit_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// UpdateCaseRequest is the PATCH /cases/{id} payload. Nil fields are
// omitted so the server only touches what the client proposes.
type UpdateCaseRequest struct {
	Status *CaseStatus `json:"status,omitempty"`
	Note   *string     `json:"note,omitempty"`
}

// UpdateDocumentRequest is the PATCH /cases/{id}/documents/{docId} payload.
type UpdateDocumentRequest struct {
	Status  *DocumentStatus `json:"status,omitempty"`
	Comment *string         `json:"comment,omitempty"`
}

// ExplainResponse is returned by GET /benefits/{id}/explain.
type ExplainResponse struct {
	BenefitID   int    `json:"benefit_id,omitempty"`
	Explanation string `json:"explanation"`
}

// AskResponse is returned by POST /cases/{id}/ask.
type AskResponse struct {
	Answer string `json:"answer"`
}
