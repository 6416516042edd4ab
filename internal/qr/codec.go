package qr

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"

	"streetpaws/internal/platform/logger"
)

const (
	DefaultSize = 200
	// margen en módulos alrededor del símbolo
	quietZone = 1
)

const (
	ContentTypePNG = "image/png"
	ContentTypeSVG = "image/svg+xml"
)

// Image es el resultado de Encode. Fallback indica que Data es el placeholder.
type Image struct {
	Data        []byte
	ContentType string
	Fallback    bool
}

// Codec genera códigos QR con corrección de errores media, 1 módulo de margen,
// negro sobre blanco.
type Codec struct {
	size int
	log  logger.Logger
}

func NewCodec(size int, log logger.Logger) *Codec {
	if size <= 0 {
		size = DefaultSize
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Codec{size: size, log: log.With(map[string]any{"module": "qr"})}
}

// Encode nunca falla: si el payload no se puede codificar devuelve el placeholder.
func (c *Codec) Encode(payload string) Image {
	data, err := c.EncodePNG(payload)
	if err != nil {
		c.log.Warn("qr encode failed, using placeholder", map[string]any{"err": err, "payload_len": len(payload)})
		return Placeholder()
	}
	return Image{Data: data, ContentType: ContentTypePNG}
}

// EncodePNG es la versión estricta de Encode.
func (c *Codec) EncodePNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, errors.New("qr: empty payload")
	}

	q, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	bits := q.Bitmap()

	modules := len(bits) + 2*quietZone
	scale := c.size / modules
	if scale < 1 {
		scale = 1
	}
	side := modules * scale

	palette := color.Palette{color.White, color.Black}
	img := image.NewPaletted(image.Rect(0, 0, side, side), palette)
	// índice 0 = blanco, así que el fondo ya está pintado
	for y, row := range bits {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := (x + quietZone) * scale
			y0 := (y + quietZone) * scale
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetColorIndex(x0+dx, y0+dy, 1)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const placeholderSVG = `<svg width="200" height="200" xmlns="http://www.w3.org/2000/svg">` +
	`<rect width="200" height="200" fill="#f3f4f6"/>` +
	`<text x="100" y="100" text-anchor="middle" dy=".3em" fill="#6b7280" font-family="sans-serif">QR Code Error</text>` +
	`</svg>`

func Placeholder() Image {
	return Image{Data: []byte(placeholderSVG), ContentType: ContentTypeSVG, Fallback: true}
}
