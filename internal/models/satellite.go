package models

type DatasetPreview struct {
	Filename  string `json:"filename"`
	SizeBytes int    `json:"size_bytes"`
	Preview   string `json:"preview"`
}

type SummaryResponse struct {
	DatasetPreview
	Summary string `json:"summary"`
}

type SupportedFormat struct {
	Extension   string `json:"extension"`
	MimeType    string `json:"mime_type"`
	Description string `json:"description"`
}
