package diagram

import (
	"bytes"
	"context"
	"strconv"

	"github.com/goccy/go-graphviz"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
)

// Format is a supported figure output format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatDOT Format = "dot"
)

// Render renders a figure's DOT source to the given format. FormatDOT
// returns the source unchanged, which needs no Graphviz engine.
func Render(ctx context.Context, f Figure, format Format) ([]byte, error) {
	if format == FormatDOT {
		return []byte(f.DOT), nil
	}

	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, apperrors.New(apperrors.ErrCodeUnsupported, "unsupported figure format %q", format)
	}

	gv := graphviz.New()
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(f.DOT))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to parse figure %s", f.Name)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(g, gvFormat, &buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to render figure %s", f.Name)
	}
	return buf.Bytes(), nil
}

func figureFileName(i int, f Figure, format Format) string {
	return strconv.Itoa(i+1) + "_" + f.Name + "." + string(format)
}
