package summary

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCard() Card {
	return Card{
		ID:       "7d1f",
		Name:     "Ana",
		Date:     time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC),
		Time:     "10:00",
		Barber:   "Lucas Borges",
		Services: []string{"Tradicional", "Barba"},
	}
}

func TestCardLines(t *testing.T) {
	c := sampleCard()
	assert.Equal(t, []string{
		"Data: 15/07/2025",
		"Horário: 10:00",
		"Barbeiro: Lucas Borges",
		"Serviços: Tradicional, Barba",
	}, c.Lines())

	c.Services = []string{"Consultoria de visagismo", "Barba"}
	lines := c.Lines()
	assert.Equal(t, "Serviços:", lines[3])
	assert.Equal(t, []string{"Consultoria de visagismo", "Barba"}, lines[4:])
}

func TestRenderPNG(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)
	assert.Equal(t, "image/png", r.ContentType())

	data, err := r.Render(sampleCard())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, canvasWidth, img.Bounds().Dx())
	assert.Equal(t, canvasHeight, img.Bounds().Dy())
}

func TestRenderWebP(t *testing.T) {
	r, err := NewRenderer(FormatWebP)
	require.NoError(t, err)
	assert.Equal(t, ".webp", r.Extension())

	data, err := r.Render(sampleCard())
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, canvasWidth, img.Bounds().Dx())
}

func TestRendererFitsLongText(t *testing.T) {
	r, err := NewRenderer(FormatPNG)
	require.NoError(t, err)

	long := "Maria Aparecida dos Santos Oliveira de Souza Pereira da Silva"
	fitted := r.fit(long, 100)
	assert.Less(t, len(fitted), len(long))
	assert.Contains(t, fitted, "...")
	assert.Equal(t, "Ana", r.fit("Ana", 100))
}

func TestRendererDrawsAccents(t *testing.T) {
	r, err := NewRenderer(FormatPNG)
	require.NoError(t, err)

	for _, ch := range "áçêãõÁÉ" {
		adv, ok := r.face.GlyphAdvance(ch)
		assert.True(t, ok, string(ch))
		assert.Positive(t, int(adv), string(ch))
	}

	// accented text renders through the same path as plain text
	c := sampleCard()
	c.Name = "João Conceição"
	c.Services = []string{"Degradê"}
	_, err = r.Render(c)
	assert.NoError(t, err)
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewRenderer("gif")
	assert.Error(t, err)
}

func TestS3PublisherURL(t *testing.T) {
	p := NewS3Publisher(S3Config{Bucket: "cards", Region: "sa-east-1"})
	assert.Equal(t, "https://cards.s3.sa-east-1.amazonaws.com/a.png", p.URL("a.png"))

	p = NewS3Publisher(S3Config{Bucket: "cards", Region: "us-east-1", Endpoint: "http://minio:9000/", AccessKeyID: "k", SecretAccessKey: "s"})
	assert.Equal(t, "http://minio:9000/cards/a.png", p.URL("a.png"))
}
