package domain

import "time"

// Draft is an approved content item frozen at review time and persisted
// locally. Variant is empty for single outputs, "a" or "b" for comparisons.
type Draft struct {
	ID           string
	ThreadID     string
	Variant      string
	Platform     string
	Language     string
	Body         string
	Hashtags     []string
	CallToAction string
	PostingTime  string
	ApprovedAt   time.Time
}
