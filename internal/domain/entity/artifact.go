package entity

import "github.com/google/uuid"

// Accepted invoice media types
const (
	MediaTypeJPEG = "image/jpeg"
	MediaTypePNG  = "image/png"
	MediaTypePDF  = "application/pdf"
)

// MaxArtifactBytes is the largest invoice upload accepted (10 MiB).
const MaxArtifactBytes int64 = 10 * 1024 * 1024

// IsAllowedMediaType reports whether mediaType is one of the accepted invoice types.
func IsAllowedMediaType(mediaType string) bool {
	switch mediaType {
	case MediaTypeJPEG, MediaTypePNG, MediaTypePDF:
		return true
	default:
		return false
	}
}

// InvoiceArtifact is a validated invoice file. Only the upload validator
// constructs it, so every value satisfies the media type and size policy.
type InvoiceArtifact struct {
	fileName  string
	mediaType string
	content   []byte
}

// NewInvoiceArtifact copies content into a new artifact. Callers are expected
// to have enforced the upload policy already.
func NewInvoiceArtifact(fileName, mediaType string, content []byte) InvoiceArtifact {
	buf := make([]byte, len(content))
	copy(buf, content)
	return InvoiceArtifact{
		fileName:  fileName,
		mediaType: mediaType,
		content:   buf,
	}
}

// FileName returns the original file name, possibly empty.
func (a InvoiceArtifact) FileName() string { return a.fileName }

// MediaType returns the validated media type.
func (a InvoiceArtifact) MediaType() string { return a.mediaType }

// Size returns the content length in bytes.
func (a InvoiceArtifact) Size() int64 { return int64(len(a.content)) }

// Content returns a copy of the file bytes.
func (a InvoiceArtifact) Content() []byte {
	buf := make([]byte, len(a.content))
	copy(buf, a.content)
	return buf
}

// IsZero reports whether the artifact was never set.
func (a InvoiceArtifact) IsZero() bool {
	return a.mediaType == "" && a.content == nil
}

// Info returns the artifact metadata without its content.
func (a InvoiceArtifact) Info() ArtifactInfo {
	return ArtifactInfo{
		FileName:  a.fileName,
		MediaType: a.mediaType,
		Size:      a.Size(),
	}
}

// ArtifactInfo describes a selected artifact for display.
type ArtifactInfo struct {
	FileName  string `json:"file_name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
}

// SubmissionRequest is the single request sent to the decision engine per cycle.
type SubmissionRequest struct {
	EmployeeID uuid.UUID
	Artifact   InvoiceArtifact
}
