package httpapi

// IngestStatus snapshots the most recent ingest run for /health consumers.
type IngestStatus struct {
	LastRunAt    string `json:"last_run_at"`
	LastOkAt     string `json:"last_ok_at"`
	LastError    string `json:"last_error"`
	LastAccepted int    `json:"last_accepted"`
	LastRejected int    `json:"last_rejected"`
	Running      bool   `json:"running"`
}
