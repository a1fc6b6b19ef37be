package analytics

// StatusCount is one slice of the loan status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Bucket is one bin of a histogram (loan amounts, credit scores).
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LenderSummary mirrors the lender dashboard headline numbers.
type LenderSummary struct {
	LenderID      string  `json:"lender_id"`
	TotalInvested float64 `json:"total_invested"`
	ActiveLoans   int     `json:"active_loans"`
	TotalProfit   float64 `json:"total_profit"`
}

// BorrowerSummary mirrors the borrower dashboard headline numbers.
type BorrowerSummary struct {
	BorrowerID  string  `json:"borrower_id"`
	TotalLoans  int     `json:"total_loans"`
	ActiveLoans int     `json:"active_loans"`
	Outstanding float64 `json:"outstanding"`
}

// PlatformSummary is the analyst overview of the whole book.
type PlatformSummary struct {
	TotalUsers         int           `json:"total_users"`
	TotalBorrowers     int           `json:"total_borrowers"`
	TotalLenders       int           `json:"total_lenders"`
	TotalLoans         int           `json:"total_loans"`
	TotalDisbursed     float64       `json:"total_disbursed"`
	StatusDistribution []StatusCount `json:"status_distribution"`
}
