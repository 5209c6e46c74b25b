// Package b64img decodes the base64 image payloads handed to a
// renderer's CreateImageData. Payloads may carry a data: URI header.
//
// PNG, JPEG and GIF decode via the standard library; TIFF, BMP and WebP
// via golang.org/x/image.
package b64img

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeBytes returns the raw image bytes of a base64 payload,
// tolerating a data:...;base64, prefix and embedded whitespace.
func DecodeBytes(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		i := strings.IndexByte(payload, ',')
		if i < 0 {
			return nil, fmt.Errorf("b64img: malformed data URI")
		}
		payload = payload[i+1:]
	}
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, payload)
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("b64img: invalid base64 payload: %w", err)
	}
	return raw, nil
}

// DecodeConfig returns the dimensions and format name of the encoded
// image without decoding pixel data.
func DecodeConfig(payload string) (image.Config, string, error) {
	raw, err := DecodeBytes(payload)
	if err != nil {
		return image.Config{}, "", err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("b64img: undecodable image payload: %w", err)
	}
	return cfg, format, nil
}

// Decode fully decodes the encoded image and reports its format name.
func Decode(payload string) (image.Image, string, error) {
	raw, err := DecodeBytes(payload)
	if err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("b64img: undecodable image payload: %w", err)
	}
	return img, format, nil
}
