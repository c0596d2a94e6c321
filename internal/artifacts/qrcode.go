package artifacts

import (
	"fmt"

	"ticketflow/internal/shared/apperrors"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultQRSize = 256

// EncodeQR renders payload as a PNG QR code of size x size pixels.
func EncodeQR(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty qr payload", apperrors.ErrArtifact)
	}
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("%w: encode qr: %w", apperrors.ErrArtifact, err)
	}
	return png, nil
}
