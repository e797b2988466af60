package models

// FormatCodeRequest carries a source snippet for the formatting endpoint
type FormatCodeRequest struct {
	Language string `json:"language" binding:"required" conform:"trim,lower"`
	Source   string `json:"source" binding:"required"`
}

type FormatCodeResponse struct {
	Language  string `json:"language"`
	Formatted string `json:"formatted"`
	Changed   bool   `json:"changed"`
}

type ValidateCodeRequest struct {
	Language string `json:"language" binding:"required" conform:"trim,lower"`
	Source   string `json:"source" binding:"required"`
}

// SyntaxIssue is one problem found while parsing a snippet
type SyntaxIssue struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

type ValidateCodeResponse struct {
	Language string        `json:"language"`
	Valid    bool          `json:"valid"`
	Issues   []SyntaxIssue `json:"issues"`
}
