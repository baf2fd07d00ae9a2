package models

type UploadRequest struct {
	File     []byte
	Filename string
}

// Report is a rendered, downloadable insight report.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// OriginalDocument is an archived upload as it was received.
type OriginalDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}
