// Package qr renders QR codes as inline PNG data URLs.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultSize   = 256
	dataURLPrefix = "data:image/png;base64,"
)

// Encoder produces QR images at a fixed size and recovery level.
type Encoder struct {
	Size  int
	Level qrcode.RecoveryLevel
}

func NewEncoder() Encoder {
	return Encoder{Size: DefaultSize, Level: qrcode.Medium}
}

// Encode returns content as a base64 PNG data URL.
func (e Encoder) Encode(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("qr: empty content")
	}
	size := e.Size
	if size == 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(content, e.Level, size)
	if err != nil {
		return "", fmt.Errorf("qr: encode failed: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// EncodeJSON marshals v and encodes the resulting JSON text.
func (e Encoder) EncodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("qr: marshal payload: %w", err)
	}
	return e.Encode(string(data))
}
