// Package qrgen encodes URLs as QR code PNGs for printed materials (table
// cards pointing at the donation forms).
package qrgen

import qrcode "github.com/skip2/go-qrcode"

const (
	MinSize     = 64
	MaxSize     = 1024
	DefaultSize = 256
)

// Encode renders url as a PNG of size x size pixels. Out-of-range sizes are
// clamped; zero means DefaultSize.
func Encode(url string, size int) ([]byte, error) {
	if size == 0 {
		size = DefaultSize
	}
	if size < MinSize {
		size = MinSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}
