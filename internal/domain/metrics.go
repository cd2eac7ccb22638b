package domain

// OpsMetrics is a snapshot of operational counters exposed on the
// GET /v1/metrics/ops endpoint. All values are cumulative since start.
type OpsMetrics struct {
	TotalRequests     int64   `json:"totalRequests"`
	ErrorRate         float64 `json:"errorRate"`
	CacheHitRate      float64 `json:"cacheHitRate"`
	StoreErrors       int64   `json:"storeErrors"`
	ReportsCSV        int64   `json:"reportsCsv"`
	ReportsPDF        int64   `json:"reportsPdf"`
	GeneratorInserts  int64   `json:"generatorInserts"`
	GeneratorFailures int64   `json:"generatorFailures"`
	Period            string  `json:"period"`
}
