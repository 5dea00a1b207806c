package diagram

import (
	"bytes"
	"context"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
)

// pageWidth is the usable image width on an A4 landscape page in mm.
const pageWidth = 267.0

// Report renders every figure to PNG and assembles them into a single PDF
// at one figure per page, written to path.
func (r *Renderer) Report(ctx context.Context, path string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Viral Spread Prediction System Figures", false)

	for i, f := range Figures() {
		png, err := r.Render(ctx, f, FormatPNG)
		if err != nil {
			return err
		}

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, "Figure "+strconv.Itoa(i+1)+": "+f.Title, "", 1, "C", false, 0, "")

		name := f.Name + ".png"
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions(name, 15, 25, pageWidth, 0, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to write figure report")
	}
	return nil
}
