package qrcode

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent             = errors.New("qrcode.errors.empty_content")
	ErrInvalidURL               = errors.New("qrcode.errors.invalid_url")
	ErrInvalidSize              = errors.New("qrcode.errors.invalid_size")
	ErrorFailedToGenerateQRCode = errors.New("qrcode.errors.failed_to_generate")
)

// Size bounds in pixels.
const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

// Generate encodes content as a square PNG of size pixels.
// A non-positive size uses DefaultSize.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size < MinSize || size > MaxSize {
		return nil, ErrInvalidSize
	}

	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrorFailedToGenerateQRCode, err)
	}
	return png, nil
}

// GenerateURL encodes an absolute http(s) link, such as a review funnel
// page printed on receipts or table cards.
func GenerateURL(rawURL string, size int) ([]byte, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	return Generate(u.String(), size)
}

// GenerateBase64Image returns the PNG as a data URI for inline <img> tags.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
