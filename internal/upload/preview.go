package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/gen2brain/go-fitz"
	xdraw "golang.org/x/image/draw"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

// DefaultPreviewWidth bounds preview images served to the portal
const DefaultPreviewWidth = 800

// ErrNoPages is returned for PDFs that render no pages
var ErrNoPages = errors.New("pdf has no renderable pages")

// RenderPreview returns a JPEG of the artifact (first page for PDFs), scaled
// down to maxWidth when wider. It is a display aid and never part of validation.
func RenderPreview(a entity.InvoiceArtifact, maxWidth int) ([]byte, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultPreviewWidth
	}

	var (
		img image.Image
		err error
	)

	switch a.MediaType() {
	case entity.MediaTypePDF:
		img, err = renderFirstPage(a.Content())
	case entity.MediaTypeJPEG, entity.MediaTypePNG:
		img, _, err = image.Decode(bytes.NewReader(a.Content()))
	default:
		return nil, fmt.Errorf("no preview for media type %q", a.MediaType())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}

	img = scaleToWidth(img, maxWidth)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

func renderFirstPage(content []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, ErrNoPages
	}

	return doc.Image(0)
}

func scaleToWidth(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth {
		return img
	}

	height := bounds.Dy() * maxWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
