// Package signature produces and checks the raster signature images stored
// with a transaction. Images travel as base64-encoded PNG or JPEG.
package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // accepted for uploaded signatures
	"image/png"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

const (
	// MaxEncodedLen bounds the base64 text of an accepted image.
	MaxEncodedLen = 512 * 1024
	// MaxDimension bounds either side of an accepted image, in pixels.
	MaxDimension = 2000
	// MaxNameLen bounds the typed name, in runes.
	MaxNameLen = 60

	padding = 6
	scale   = 4.0
	slant   = 0.25
)

var (
	ErrEmptyName     = errors.New("signature name is empty")
	ErrNameTooLong   = fmt.Errorf("signature name exceeds %d characters", MaxNameLen)
	ErrInvalidImage  = errors.New("signature is not a base64 encoded png or jpeg image")
	ErrImageTooLarge = errors.New("signature image is too large")
)

// Ink is the colour typed signatures are drawn in.
var Ink = color.RGBA{R: 0x1a, G: 0x23, B: 0x7e, A: 0xff}

// RenderTyped draws name as a slanted, scaled-up signature on a transparent
// background and returns it as base64 PNG.
func RenderTyped(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", ErrNameTooLong
	}

	face := basicfont.Face7x13
	metrics := face.Metrics()
	w := font.MeasureString(face, name).Ceil() + 2*padding
	h := (metrics.Ascent + metrics.Descent).Ceil() + 2*padding

	text := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  text,
		Src:  image.NewUniform(Ink),
		Face: face,
		Dot:  fixed.P(padding, padding+metrics.Ascent.Ceil()),
	}
	d.DrawString(name)

	// Shear right and scale up: x' = s*x - s*k*y + s*k*h, y' = s*y.
	shift := scale * slant * float64(h)
	out := image.NewRGBA(image.Rect(0, 0, int(scale*float64(w)+shift+0.5), int(scale*float64(h))))
	m := f64.Aff3{
		scale, -scale * slant, shift,
		0, scale, 0,
	}
	draw.BiLinear.Transform(out, m, text, text.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return "", fmt.Errorf("encode signature: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Normalize validates data and returns it without any data-URI prefix.
func Normalize(data string) (string, error) {
	payload := stripDataURI(strings.TrimSpace(data))
	if payload == "" {
		return "", ErrInvalidImage
	}
	if len(payload) > MaxEncodedLen {
		return "", ErrImageTooLarge
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", ErrInvalidImage
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return "", ErrInvalidImage
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return "", ErrImageTooLarge
	}
	return payload, nil
}

// Validate reports whether data is an acceptable signature image.
func Validate(data string) error {
	_, err := Normalize(data)
	return err
}

func stripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ";base64,"); i >= 0 {
		mime := s[len("data:"):i]
		if mime == "image/png" || mime == "image/jpeg" {
			return s[i+len(";base64,"):]
		}
	}
	return ""
}
