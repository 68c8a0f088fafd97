package preview

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/ivlev/vl53l1x/internal/config"
)

// EncodeConfigQR returns a PNG QR code holding cfg as YAML, so a sensor
// setup can be scanned onto another device.
func EncodeConfigQR(cfg *config.Config, size int) ([]byte, error) {
	data, err := cfg.Marshal()
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}
