package model

import "time"

// UserCorrection records a manual recategorization made by a user. Repeat
// matches bump Frequency and LastUsedAt; corrections are never deleted
// automatically.
type UserCorrection struct {
	LastUsedAt         time.Time
	CreatedAt          time.Time
	ID                 string
	UserID             string
	DescriptionPattern string
	CorrectedCategory  string
	CorrectedLabel     string
	Frequency          int
}
