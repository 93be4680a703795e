package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hydrosolve/swe2d/grid"
)

/*
	Writer persists one block's interior state at a simulation time
	instant. A block writes once at t=0 and once per reached checkpoint.
	Each block owns its spatially disjoint output target, so concurrent
	writes within one checkpoint need no cross-block ordering.
*/
type Writer interface {
	WriteTimeStep(simTime float64, h, hu, hv grid.Float2D) error
}

// CSVWriter emits one file per checkpoint, one row per interior cell
// with physical cell-center coordinates.
type CSVWriter struct {
	Prefix           string
	Dx, Dy           float64
	OriginX, OriginY float64
	step             int
}

func NewCSVWriter(prefix string, dx, dy, originX, originY float64) *CSVWriter {
	return &CSVWriter{Prefix: prefix, Dx: dx, Dy: dy, OriginX: originX, OriginY: originY}
}

func (w *CSVWriter) WriteTimeStep(simTime float64, h, hu, hv grid.Float2D) error {
	name := fmt.Sprintf("%s_%04d.csv", w.Prefix, w.step)
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating checkpoint file %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err = cw.Write([]string{"x", "y", "h", "hu", "hv"}); err != nil {
		return err
	}
	nx, ny := h.Dims()
	for x := 1; x <= nx; x++ {
		px := w.OriginX + (float64(x)-0.5)*w.Dx
		for y := 1; y <= ny; y++ {
			py := w.OriginY + (float64(y)-0.5)*w.Dy
			rec := []string{
				strconv.FormatFloat(px, 'g', -1, 64),
				strconv.FormatFloat(py, 'g', -1, 64),
				strconv.FormatFloat(h.At(x, y), 'g', -1, 64),
				strconv.FormatFloat(hu.At(x, y), 'g', -1, 64),
				strconv.FormatFloat(hv.At(x, y), 'g', -1, 64),
			}
			if err = cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return fmt.Errorf("writing checkpoint file %s: %w", name, err)
	}

	hData := h.InteriorData()
	logrus.Infof("checkpoint %s: t=%.4f h[min %.4f max %.4f mean %.4f]",
		name, simTime, floats.Min(hData), floats.Max(hData), stat.Mean(hData, nil))
	w.step++
	return nil
}
