package models

// Recommendation is a suggested action surfaced on the console dashboard
type Recommendation struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Severity string `json:"severity"`
}
