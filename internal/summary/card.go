package summary

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chai2010/webp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	FormatPNG  = "png"
	FormatWebP = "webp"

	canvasWidth  = 360
	canvasHeight = 240
	marginX      = 24
	lineHeight   = 18
	fontSize     = 13

	// joined service lists longer than this go one per line
	servicesInline = 30
)

// Card is the booking summary handed to the customer.
type Card struct {
	ID       string
	Name     string
	Date     time.Time
	Time     string
	Barber   string
	Services []string
}

// Lines is the text body of the card below the customer name.
func (c Card) Lines() []string {
	lines := []string{
		"Data: " + c.Date.Format("02/01/2006"),
		"Horário: " + c.Time,
		"Barbeiro: " + c.Barber,
	}

	joined := strings.Join(c.Services, ", ")
	if utf8.RuneCountInString(joined) > servicesInline {
		lines = append(lines, "Serviços:")
		lines = append(lines, c.Services...)
	} else {
		lines = append(lines, "Serviços: "+joined)
	}
	return lines
}

type Renderer struct {
	format string
	face   font.Face
}

func NewRenderer(format string) (*Renderer, error) {
	switch format {
	case "", FormatPNG:
		format = FormatPNG
	case FormatWebP:
	default:
		return nil, fmt.Errorf("unknown summary format %q", format)
	}

	// Go Regular covers Latin-1, so names and labels keep their accents.
	ttf, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse summary font: %w", err)
	}
	face, err := opentype.NewFace(ttf, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("load summary font: %w", err)
	}
	return &Renderer{format: format, face: face}, nil
}

func (r *Renderer) ContentType() string {
	return "image/" + r.format
}

func (r *Renderer) Extension() string {
	return "." + r.format
}

func (r *Renderer) Render(c Card) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	// header band
	band := image.Rect(0, 0, canvasWidth, 36)
	draw.Draw(img, band, image.NewUniform(color.RGBA{R: 24, G: 24, B: 24, A: 255}), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Face: r.face}

	d.Src = image.NewUniform(color.White)
	d.Dot = fixed.P(marginX, 24)
	d.DrawString("Agendamento Confirmado")

	d.Src = image.NewUniform(color.Black)
	d.Dot = fixed.P(marginX, 64)
	d.DrawString(r.fit(c.Name, canvasWidth-2*marginX))

	y := 64 + 2*lineHeight
	for _, line := range c.Lines() {
		if y > canvasHeight-lineHeight {
			break
		}
		d.Dot = fixed.P(marginX, y)
		d.DrawString(r.fit(line, canvasWidth-2*marginX))
		y += lineHeight
	}

	if c.ID != "" {
		d.Src = image.NewUniform(color.Gray{Y: 120})
		d.Dot = fixed.P(marginX, canvasHeight-10)
		d.DrawString(r.fit("ID: "+c.ID, canvasWidth-2*marginX))
	}

	var buf bytes.Buffer
	var err error
	if r.format == FormatWebP {
		err = webp.Encode(&buf, img, &webp.Options{Lossless: true})
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("encode summary %s: %w", r.format, err)
	}
	return buf.Bytes(), nil
}

// fit cuts s so it spans at most width pixels.
func (r *Renderer) fit(s string, width int) string {
	limit := fixed.I(width)
	if font.MeasureString(r.face, s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && font.MeasureString(r.face, string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
