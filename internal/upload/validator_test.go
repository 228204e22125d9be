package upload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidate_MediaTypes(t *testing.T) {
	tests := []struct {
		name      string
		mediaType string
		content   []byte
		wantType  string
		wantErr   bool
	}{
		{"jpeg", "image/jpeg", []byte("jpeg"), entity.MediaTypeJPEG, false},
		{"png", "image/png", []byte("png"), entity.MediaTypePNG, false},
		{"pdf", "application/pdf", []byte("%PDF"), entity.MediaTypePDF, false},
		{"upper case with params", "Application/PDF; charset=binary", []byte("%PDF"), entity.MediaTypePDF, false},
		{"jpg alias", "image/jpg", []byte("jpeg"), entity.MediaTypeJPEG, false},
		{"gif", "image/gif", []byte("GIF89a"), "", true},
		{"word document", "application/msword", []byte("doc"), "", true},
		{"sniffed png", "", pngMagic, entity.MediaTypePNG, false},
		{"sniffed pdf", "", []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"), entity.MediaTypePDF, false},
		{"sniffed text", "", []byte("just some notes"), "", true},
		{"empty", "", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact, err := Validate(Candidate{FileName: "f", MediaType: tt.mediaType, Content: tt.content})
			if tt.wantErr {
				var rejected *RejectedError
				require.True(t, errors.As(err, &rejected), "expected RejectedError, got %v", err)
				assert.Equal(t, ReasonInvalidType, rejected.Reason)
				assert.True(t, artifact.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, artifact.MediaType())
			assert.Equal(t, "f", artifact.FileName())
		})
	}
}

func TestValidate_SizeBoundary(t *testing.T) {
	exact := make([]byte, entity.MaxArtifactBytes)
	artifact, err := Validate(Candidate{MediaType: "application/pdf", Content: exact})
	require.NoError(t, err)
	assert.Equal(t, entity.MaxArtifactBytes, artifact.Size())

	over := make([]byte, entity.MaxArtifactBytes+1)
	_, err = Validate(Candidate{MediaType: "application/pdf", Content: over})
	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, ReasonTooLarge, rejected.Reason)
	assert.Equal(t, entity.MaxArtifactBytes+1, rejected.Size)
	assert.Equal(t, "File size exceeds 10MB limit.", rejected.Message())
}

func TestValidate_TypeCheckedBeforeSize(t *testing.T) {
	over := make([]byte, entity.MaxArtifactBytes+1)
	_, err := Validate(Candidate{MediaType: "image/gif", Content: over})

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, ReasonInvalidType, rejected.Reason)
	assert.Equal(t, "Invalid file type. Please upload JPG, PNG, or PDF.", rejected.Message())
}

func TestSlot_ReplacesAndKeepsOnRejection(t *testing.T) {
	var slot Slot

	_, ok := slot.Current()
	assert.False(t, ok)

	first, err := slot.Offer(Candidate{FileName: "a.png", MediaType: "image/png", Content: []byte("a")})
	require.NoError(t, err)

	_, err = slot.Offer(Candidate{FileName: "b.gif", MediaType: "image/gif", Content: []byte("b")})
	require.Error(t, err)

	current, ok := slot.Current()
	require.True(t, ok)
	assert.Equal(t, first.FileName(), current.FileName())

	_, err = slot.Offer(Candidate{FileName: "c.pdf", MediaType: "application/pdf", Content: []byte("c")})
	require.NoError(t, err)
	current, _ = slot.Current()
	assert.Equal(t, "c.pdf", current.FileName())

	slot.Clear()
	_, ok = slot.Current()
	assert.False(t, ok)
}

func TestRenderPreview_ScalesImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1600, 400))
	for x := 0; x < 1600; x++ {
		src.Set(x, 10, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	artifact, err := Validate(Candidate{FileName: "wide.png", MediaType: "image/png", Content: buf.Bytes()})
	require.NoError(t, err)

	out, err := RenderPreview(artifact, 800)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 800, decoded.Bounds().Dx())
	assert.Equal(t, 200, decoded.Bounds().Dy())
}

func TestRenderPreview_CorruptImage(t *testing.T) {
	artifact, err := Validate(Candidate{MediaType: "image/png", Content: []byte("not really a png")})
	require.NoError(t, err)

	_, err = RenderPreview(artifact, 0)
	assert.Error(t, err)
}
