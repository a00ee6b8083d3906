package query

// Resource kinds, mirroring the query keys the web client used.
const (
	KindBenefits      = "benefits"
	KindRecommended   = "benefits-recommended"
	KindCases         = "cases"
	KindCase          = "case"
	KindCaseDocs      = "case-documents"
	KindCaseProgress  = "case-progress"
	KindCaseHistory   = "case-history"
	KindCaseArtifacts = "case-artifacts"
)

// BenefitsKey caches the full benefit catalog.
func BenefitsKey() Key { return NewKey(KindBenefits) }

// RecommendedKey caches the recommended-for-me listing.
func RecommendedKey() Key { return NewKey(KindRecommended) }

// CasesKey caches the user's case list.
func CasesKey() Key { return NewKey(KindCases) }

// CaseKey caches one case record.
func CaseKey(caseID int) Key { return NewKey(KindCase, caseID) }

// CaseDocumentsKey caches one case's document list.
func CaseDocumentsKey(caseID int) Key { return NewKey(KindCaseDocs, caseID) }

// CaseProgressKey caches one case's server-side progress record.
func CaseProgressKey(caseID int) Key { return NewKey(KindCaseProgress, caseID) }

// CaseHistoryKey caches one case's audit trail.
func CaseHistoryKey(caseID int) Key { return NewKey(KindCaseHistory, caseID) }

// CaseArtifactsKey caches one case's artifact list.
func CaseArtifactsKey(caseID int) Key { return NewKey(KindCaseArtifacts, caseID) }

// InvalidateDocumentMutation marks everything a document update or upload
// could have affected: the document list, the derived progress, the history,
// and the case record itself (the server may auto-advance its status).
func InvalidateDocumentMutation(c *Cache, caseID int) {
	c.Invalidate(
		CaseDocumentsKey(caseID),
		CaseProgressKey(caseID),
		CaseHistoryKey(caseID),
		CaseKey(caseID),
	)
}

// InvalidateCaseMutation marks a case record and its history after a direct
// case update.
func InvalidateCaseMutation(c *Cache, caseID int) {
	c.Invalidate(CaseKey(caseID), CaseHistoryKey(caseID), CasesKey())
}

// InvalidateArtifactGeneration marks the artifact list and history after a
// PDF generation.
func InvalidateArtifactGeneration(c *Cache, caseID int) {
	c.Invalidate(CaseArtifactsKey(caseID), CaseHistoryKey(caseID))
}

// InvalidateCaseCreation marks the case list after a new case is opened.
func InvalidateCaseCreation(c *Cache) {
	c.Invalidate(CasesKey())
}
