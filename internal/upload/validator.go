// Package upload enforces the invoice upload policy and holds the current
// invoice selection.
package upload

import (
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

// Reason identifies why a candidate file was rejected
type Reason string

const (
	ReasonInvalidType Reason = "invalid_type"
	ReasonTooLarge    Reason = "too_large"
)

// RejectedError is returned by Validate for files that break the upload policy
type RejectedError struct {
	Reason    Reason
	MediaType string
	Size      int64
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("invoice rejected: %s (type=%q, size=%d)", e.Reason, e.MediaType, e.Size)
}

// Message returns the text shown next to the uploader
func (e *RejectedError) Message() string {
	switch e.Reason {
	case ReasonInvalidType:
		return "Invalid file type. Please upload JPG, PNG, or PDF."
	case ReasonTooLarge:
		return "File size exceeds 10MB limit."
	default:
		return "Invoice file was rejected."
	}
}

// Candidate is a file the user picked or dropped, not yet validated
type Candidate struct {
	FileName string
	// MediaType is the declared type; when empty it is sniffed from Content.
	MediaType string
	Content   []byte
}

// Validate checks the candidate against the accepted media types and the
// 10 MiB size ceiling, type first. It has no side effects.
func Validate(c Candidate) (entity.InvoiceArtifact, error) {
	mediaType := normalizeMediaType(c.MediaType)
	if mediaType == "" {
		mediaType = normalizeMediaType(mimetype.Detect(c.Content).String())
	}
	size := int64(len(c.Content))

	if !entity.IsAllowedMediaType(mediaType) {
		return entity.InvoiceArtifact{}, &RejectedError{Reason: ReasonInvalidType, MediaType: mediaType, Size: size}
	}

	if size > entity.MaxArtifactBytes {
		return entity.InvoiceArtifact{}, &RejectedError{Reason: ReasonTooLarge, MediaType: mediaType, Size: size}
	}

	return entity.NewInvoiceArtifact(c.FileName, mediaType, c.Content), nil
}

// normalizeMediaType lower-cases the type and drops parameters such as charset.
func normalizeMediaType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if parsed, _, err := mime.ParseMediaType(raw); err == nil {
		raw = parsed
	} else if i := strings.IndexByte(raw, ';'); i >= 0 {
		raw = raw[:i]
	}

	mediaType := strings.ToLower(strings.TrimSpace(raw))
	if mediaType == "image/jpg" || mediaType == "image/pjpeg" {
		return entity.MediaTypeJPEG
	}
	return mediaType
}
