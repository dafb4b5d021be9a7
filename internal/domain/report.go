// Package domain holds the data model shared by the tracer pipeline stages.
package domain

// Category names a class of textual defect signal.
type Category string

// Built-in defect categories.
const (
	CategoryBulkApproval    Category = "BULK_APPROVAL"
	CategoryRubberStamp     Category = "RUBBER_STAMP"
	CategoryProcedural      Category = "PROCEDURAL"
	CategoryDownstreamTaint Category = "DOWNSTREAM_TAINT"
)

// Status is the terminal outcome of tracing one document.
type Status string

const (
	// StatusOK means the document was fetched, extracted and scanned.
	StatusOK Status = "ok"
	// StatusHTTPError means a response was received with a non-2xx code.
	StatusHTTPError Status = "http_error"
	// StatusConnectionError means no HTTP response was obtained.
	StatusConnectionError Status = "connection_error"
	// StatusParseError means the body could not be reduced to text.
	StatusParseError Status = "parse_error"
)

// Hit is a single signature match found in a document.
type Hit struct {
	Category Category `json:"category"`
	Pattern  string   `json:"pattern"`
	Excerpt  string   `json:"excerpt"`
	// Offset is the byte offset of the match start in the extracted text.
	Offset int `json:"offset"`
}

// DocumentReport is the finalized result for one URL.
type DocumentReport struct {
	URL        string     `json:"url"`
	Status     Status     `json:"status"`
	HTTPCode   *int       `json:"http_code"`
	Title      *string    `json:"title"`
	Hits       []Hit      `json:"hits"`
	Categories []Category `json:"categories"`
	Summary    string     `json:"summary"`
}

// OK reports whether the document was processed without a fetch or parse failure.
func (r *DocumentReport) OK() bool {
	return r.Status == StatusOK
}

// Flagged reports whether at least one defect category was triggered.
func (r *DocumentReport) Flagged() bool {
	return len(r.Categories) > 0
}
