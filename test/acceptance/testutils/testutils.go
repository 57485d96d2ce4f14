package testutils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/gomega"
)

func GenerateRandomUUID() uuid.UUID {
	id, err := uuid.NewRandom()
	Expect(err).NotTo(HaveOccurred())
	return id
}

func connectionString(config pgconn.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(config.User, config.Password),
		Host:   net.JoinHostPort(config.Host, strconv.Itoa(int(config.Port))),
		Path:   "/" + config.Database,
	}
	if config.TLSConfig == nil {
		u.RawQuery = url.Values{"sslmode": {"disable"}}.Encode()
	}
	return u.String()
}

// MakePNG encodes a small solid image; shade varies the pixel data so two
// images can be told apart.
func MakePNG(shade uint8) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: shade, G: 0x80, B: 0x40, A: 0xff})
		}
	}
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

func MakeArticle(title string) map[string]any {
	return map[string]any{
		"title":   title,
		"content": "content of " + title,
	}
}

func MakeProduct(name string, price int64, tags ...string) map[string]any {
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"name":        name,
		"description": "a " + name,
		"price":       price,
		"tags":        tags,
	}
}
