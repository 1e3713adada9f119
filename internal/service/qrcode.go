package service

import (
	"strings"

	"cafe-tab/internal/domain"

	"github.com/skip2/go-qrcode"
)

const DefaultQRSize = 256

// DefaultQRGenerator renders a PNG QR code pointing at the tab, for printing
// on the check.
type DefaultQRGenerator struct {
	BaseURL string
	Size    int
}

// Link is the address encoded in the tab's QR code.
func (g DefaultQRGenerator) Link(id domain.TabID) string {
	return strings.TrimRight(g.BaseURL, "/") + "/api/tabs/" + id.String()
}

func (g DefaultQRGenerator) Generate(id domain.TabID) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = DefaultQRSize
	}
	code, err := qrcode.New(g.Link(id), qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return code.PNG(size)
}
