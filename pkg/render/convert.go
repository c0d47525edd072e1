package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

const rsvgConvert = "rsvg-convert"

// convertSVG turns SVG bytes into PNG or PDF by piping them through
// rsvg-convert. scale only applies to PNG output.
func convertSVG(ctx context.Context, svg []byte, f Format, scale float64) ([]byte, error) {
	args := []string{"-f", string(f)}
	switch f {
	case FormatPNG:
		args = append(args, "-z", strconv.FormatFloat(scale, 'f', 2, 64))
	case FormatPDF:
	default:
		return nil, fmt.Errorf("cannot convert svg to %s", f)
	}

	if _, err := exec.LookPath(rsvgConvert); err != nil {
		return nil, fmt.Errorf("%s output needs %s (librsvg2-bin on Debian, librsvg on Homebrew)", f, rsvgConvert)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, rsvgConvert, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", rsvgConvert, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}
