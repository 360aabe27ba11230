package models

// ScreeningRequest is the input of a single pipeline run.
type ScreeningRequest struct {
	ResumePDF      []byte
	Filename       string
	JobDescription string
}

// NormalizedInput is what the cache key and the prompt are built from.
type NormalizedInput struct {
	Resume         string
	JobDescription string
}
