package document

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
)

// Code128PNG encodes the token as a Code128 barcode scaled to width x height pixels.
func Code128PNG(content string, width, height int) ([]byte, error) {
	bc, err := code128.Encode(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode barcode: %w", err)
	}
	return scaledPNG(bc, width, height)
}

// QRPNG encodes content as a square QR code of size pixels.
func QRPNG(content string, size int) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return scaledPNG(code, size, size)
}

func scaledPNG(code barcode.Barcode, width, height int) ([]byte, error) {
	bounds := code.Bounds()
	if width < bounds.Dx() {
		width = bounds.Dx()
	}
	if height < bounds.Dy() {
		height = bounds.Dy()
	}

	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to scale code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
