package domain

import "time"

// FileAttachment is metadata for a file referenced by a lead or proposal.
// The bytes themselves live outside this service.
type FileAttachment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func cloneAttachments(in []FileAttachment) []FileAttachment {
	out := make([]FileAttachment, len(in))
	copy(out, in)
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
