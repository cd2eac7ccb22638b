package domain

// TypeCount is one slice of the per-type breakdown. The order of the
// breakdown array is fixed (Deposit, Withdrawal, Transfer, Payment) so
// the dashboard chart colors stay stable.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Summary is the aggregate view of a transaction set.
type Summary struct {
	TotalVolume           float64     `json:"totalVolume"`
	TotalTransactions     int         `json:"totalTransactions"`
	AvgTransactionSize    float64     `json:"avgTransactionSize"`
	CompletedTransactions int         `json:"completedTransactions"`
	TypeBreakdown         []TypeCount `json:"typeBreakdown"`
}

// TopTransaction is the denormalized display subset of a highly-ranked
// transaction carried into the PDF report.
type TopTransaction struct {
	TransactionID      string  `json:"transactionId"`
	Amount             float64 `json:"amount"`
	Currency           string  `json:"currency"`
	Type               string  `json:"type"`
	Timestamp          int64   `json:"timestamp"`
	Reference          string  `json:"reference"`
	OriginUserID       string  `json:"originUserId"`
	DestinationUserID  string  `json:"destinationUserId"`
	OriginCountry      string  `json:"originCountry"`
	DestinationCountry string  `json:"destinationCountry"`
}

// ReportSummary is the input to the PDF renderer: the aggregate summary
// plus the top transactions ranked descending by origin amount.
type ReportSummary struct {
	Summary
	TopTransactions []TopTransaction `json:"topTransactions"`
}
