package graphic

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

var encoder = png.Encoder{CompressionLevel: png.BestCompression}

// EncodePNG writes img to w as a losslessly compressed PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return encoder.Encode(w, img)
}

// PNGBytes encodes img into memory.
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile atomically writes data to path, creating parent directories.
// Readers never observe a partially written file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".eventcards-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// WritePNG encodes img and writes it atomically to path.
func WritePNG(path string, img image.Image) error {
	data, err := PNGBytes(img)
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return WriteFile(path, data)
}

// RenderToFile renders req and writes the result to path. Nothing is written
// when the render fails.
func (r *Renderer) RenderToFile(ctx context.Context, req Request, path string) (*Rendered, error) {
	out, err := r.Render(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := WritePNG(path, out.Image); err != nil {
		return nil, err
	}
	r.logger().Debug("wrote graphic", "format", out.Format, "path", path, "size", fmt.Sprintf("%dx%d", out.Width, out.Height))
	return out, nil
}
