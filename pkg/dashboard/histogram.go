package dashboard

import (
	"bytes"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/openflights"
)

// histogramBins splits the flight-count distribution for the static chart.
const histogramBins = 30

// Histogram renders the per-route flight-count distribution as a PNG.
func Histogram(routes []openflights.Route) ([]byte, error) {
	if len(routes) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeMissingInput, "no routes to chart")
	}

	values := make(plotter.Values, len(routes))
	for i, r := range routes {
		values[i] = float64(r.Flights)
	}

	p := plot.New()
	p.Title.Text = "Flights per Route"
	p.X.Label.Text = "Flights"
	p.Y.Label.Text = "Routes"

	hist, err := plotter.NewHist(values, histogramBins)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to build histogram")
	}
	p.Add(hist)

	w, err := p.WriterTo(8*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to encode histogram")
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to write histogram")
	}
	return buf.Bytes(), nil
}
