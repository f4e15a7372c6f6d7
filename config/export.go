package config

// ExportConfig names the files a run report is written to. Empty paths
// disable the corresponding export.
type ExportConfig struct {
	CSVPath     string `json:"csv_path"`
	SummaryPath string `json:"summary_path"`
	JSONPath    string `json:"json_path"`
}
