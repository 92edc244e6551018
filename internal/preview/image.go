package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const upperHalfBlock = "▀"

func renderImage(path string, width, height int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	return Blocks(img, width, height), nil
}

// FitSize scales (w, h) down to fit inside (maxW, maxH) keeping the aspect
// ratio. Images are never scaled up.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
}

// Blocks draws img with upper half blocks: each cell shows two pixel rows,
// the top one as foreground and the bottom one as background.
func Blocks(img image.Image, width, height int) string {
	if width <= 0 {
		width = 40
	}
	if height <= 0 {
		height = 20
	}

	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), width, height*2)
	if w == 0 || h == 0 {
		return ""
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(dst.RGBAAt(x, y)))
			if y+1 < h {
				style = style.Background(hexColor(dst.RGBAAt(x, y+1)))
			}
			sb.WriteString(style.Render(upperHalfBlock))
		}
		if y+2 < h {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
