package models

// VideoSpec is one scanned file as reported by the scanner.
type VideoSpec struct {
	RelPath  string  `json:"rel_path"`
	Duration float64 `json:"duration"`
}

// ScanStats carries the scanner's aggregate counts.
type ScanStats struct {
	TotalVideos   int     `json:"total_videos"`
	TotalDuration float64 `json:"total_duration"`
}
