package api

// SalesAnalysisRequest triggers a background analysis of an uploaded sales
// dataset. The summary is produced by the upload parser, not the end user.
type SalesAnalysisRequest struct {
	Summary   string   `json:"summary"   validate:"required"`
	RowCount  int      `json:"rowCount"  validate:"gte=0"`
	Companies []string `json:"companies"`
	CompanyID int      `json:"companyId"`
}

// DocumentAnalysisRequest triggers a background analysis of the fields
// extracted from an uploaded document or payment voucher.
type DocumentAnalysisRequest struct {
	FileName string            `json:"fileName" validate:"required"`
	Fields   map[string]string `json:"fields"   validate:"required,min=1"`
}

// SubmitAnalysisResponse carries the id clients use to poll for the result.
type SubmitAnalysisResponse struct {
	AnalysisID string `json:"analysisId"`
}
