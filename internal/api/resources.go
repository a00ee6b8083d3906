package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	var out TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

// Register creates a new account. Depending on the backend version the
// response is either a token (auto-login) or an acknowledgment.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	var out RegisterResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &out)
	return out, err
}

// Benefits lists the full catalog. No token required.
func (c *Client) Benefits(ctx context.Context) ([]Benefit, error) {
	var out []Benefit
	err := c.doJSON(ctx, http.MethodGet, "/benefits", nil, &out)
	return out, err
}

// RecommendedBenefits lists benefits filtered by the current user's status.
func (c *Client) RecommendedBenefits(ctx context.Context) ([]Benefit, error) {
	var out []Benefit
	err := c.doJSON(ctx, http.MethodGet, "/benefits/recommended/me", nil, &out)
	return out, err
}

// Benefit fetches one catalog entry.
func (c *Client) Benefit(ctx context.Context, id int) (Benefit, error) {
	var out Benefit
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/benefits/%d", id), nil, &out)
	return out, err
}

// ExplainBenefit asks the assistant why a benefit may (or may not) apply.
func (c *Client) ExplainBenefit(ctx context.Context, id int) (string, error) {
	var out ExplainResponse
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/benefits/%d/explain", id), nil, &out); err != nil {
		return "", err
	}
	return out.Explanation, nil
}

// Cases lists the current user's cases.
func (c *Client) Cases(ctx context.Context) ([]Case, error) {
	var out []Case
	err := c.doJSON(ctx, http.MethodGet, "/cases", nil, &out)
	return out, err
}

// Case fetches one case record.
func (c *Client) Case(ctx context.Context, id int) (Case, error) {
	var out Case
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/cases/%d", id), nil, &out)
	return out, err
}

// CreateCase opens a new case against a benefit. The server derives the
// required-document list from the benefit.
func (c *Client) CreateCase(ctx context.Context, req CreateCaseRequest) (Case, error) {
	var out Case
	err := c.doJSON(ctx, http.MethodPost, "/cases", req, &out)
	return out, err
}

// UpdateCase proposes a status and/or note change for a case.
func (c *Client) UpdateCase(ctx context.Context, id int, req UpdateCaseRequest) (Case, error) {
	var out Case
	err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/cases/%d", id), req, &out)
	return out, err
}

// CaseProgress fetches the server's derived completion summary. Its
// readiness flags take precedence over any local recomputation.
func (c *Client) CaseProgress(ctx context.Context, id int) (CaseProgress, error) {
	var out CaseProgress
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/cases/%d/progress", id), nil, &out)
	return out, err
}

// CaseDocuments lists a case's documents.
func (c *Client) CaseDocuments(ctx context.Context, caseID int) ([]CaseDocument, error) {
	var out []CaseDocument
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/cases/%d/documents", caseID), nil, &out)
	return out, err
}

// UpdateCaseDocument proposes a status/comment change for one document.
// All transitions are sent as-is; the server validates and its rejection
// reason is surfaced verbatim.
func (c *Client) UpdateCaseDocument(ctx context.Context, caseID, docID int, req UpdateDocumentRequest) (CaseDocument, error) {
	var out CaseDocument
	err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/cases/%d/documents/%d", caseID, docID), req, &out)
	return out, err
}

// UploadCaseDocument attaches a file to a document. Any status change is a
// server-side effect; callers re-fetch to observe it.
func (c *Client) UploadCaseDocument(ctx context.Context, caseID, docID int, filename string, file io.Reader) (CaseDocument, error) {
	var out CaseDocument
	err := c.doMultipart(ctx, fmt.Sprintf("/cases/%d/documents/%d/upload", caseID, docID), filename, file, &out)
	return out, err
}

// DownloadCaseDocument fetches a document's stored file.
func (c *Client) DownloadCaseDocument(ctx context.Context, caseID, docID int) (Download, error) {
	path := fmt.Sprintf("/cases/%d/documents/%d/download", caseID, docID)
	return c.doDownload(ctx, http.MethodGet, path, fmt.Sprintf("case_%d_document_%d", caseID, docID))
}

// CaseHistory lists the case's audit trail, newest first.
func (c *Client) CaseHistory(ctx context.Context, caseID int) ([]CaseHistoryEntry, error) {
	var out []CaseHistoryEntry
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/cases/%d/history", caseID), nil, &out)
	return out, err
}

// CaseArtifacts lists generated outputs stored with the case.
func (c *Client) CaseArtifacts(ctx context.Context, caseID int) ([]CaseArtifact, error) {
	var out []CaseArtifact
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/cases/%d/artifacts", caseID), nil, &out)
	return out, err
}

// GenerateApplicationPDF produces the application PDF for a case and returns
// it with the filename from the content-disposition header.
func (c *Client) GenerateApplicationPDF(ctx context.Context, caseID int) (Download, error) {
	path := fmt.Sprintf("/cases/%d/application/pdf", caseID)
	return c.doDownload(ctx, http.MethodPost, path, fmt.Sprintf("zayava_case_%d.pdf", caseID))
}

// Ask sends a free-form question about a case to the assistant.
func (c *Client) Ask(ctx context.Context, caseID int, question string) (string, error) {
	var out AskResponse
	payload := struct {
		Question string `json:"question"`
	}{Question: question}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/cases/%d/ask", caseID), payload, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}
