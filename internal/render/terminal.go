package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/nfnt/resize"
)

// ErrNoGraphics is returned when the terminal cannot display images
var ErrNoGraphics = errors.New("terminal does not support the kitty graphics protocol")

// cellWidthPx approximates the pixel width of one terminal cell
const cellWidthPx = 8

// SupportsKitty checks if the terminal supports the Kitty graphics protocol
func SupportsKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if strings.Contains(os.Getenv("TERM"), "kitty") || os.Getenv("TERM_PROGRAM") == "kitty" {
		return true
	}
	return termimg.DetectProtocol() == termimg.Kitty
}

// Thumbnail scales img to widthCells terminal cells wide, keeping its aspect ratio
func Thumbnail(img image.Image, widthCells int) image.Image {
	bounds := img.Bounds()
	pixelWidth := uint(max(widthCells*cellWidthPx, cellWidthPx))
	aspect := float64(bounds.Dx()) / float64(bounds.Dy())
	pixelHeight := uint(max(float64(pixelWidth)/aspect, cellWidthPx))
	return resize.Resize(pixelWidth, pixelHeight, img, resize.Lanczos3)
}

// Terminal returns the escape sequence that draws img in a widthCells by
// heightCells box. imageNum identifies the placement so a redraw can replace it.
func Terminal(img image.Image, widthCells, heightCells, imageNum int) (string, error) {
	if !SupportsKitty() {
		return "", ErrNoGraphics
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Thumbnail(img, widthCells)); err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}

	ti, err := termimg.From(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", fmt.Errorf("failed to load preview: %w", err)
	}

	ti.Protocol(termimg.Kitty).
		Width(widthCells).
		Height(heightCells).
		Scale(termimg.ScaleFit).
		ImageNum(imageNum)

	return ti.Render()
}

// ClearImages is the escape sequence that deletes every kitty placement
const ClearImages = "\033_Ga=d\033\\"
