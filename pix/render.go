package pix

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Renderer turns payload text into a scannable image.
type Renderer interface {
	Render(text string) ([]byte, error)
}

// defaultModulePixels is the size of one QR module in the PNG.
const defaultModulePixels = 10

// QRRenderer renders QR codes as PNG at error-correction level Medium with the
// standard 4-module quiet zone. The version is the smallest one that fits the text.
type QRRenderer struct {
	ModulePixels int
}

// Render generates the PNG for text
func (r QRRenderer) Render(text string) ([]byte, error) {
	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	px := r.ModulePixels
	if px <= 0 {
		px = defaultModulePixels
	}

	// negative size means pixels per module, so the image grows with the version
	png, err := qr.PNG(-px)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}
