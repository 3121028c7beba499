package zonelib

import (
	"fmt"

	"github.com/wgdzlh/zonelib/log"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// 绘制散点图并写入spec.Outfile。缺失值与越界的点被过滤，未设置的边界不限制
func (d *PlotDataset) Scatterplot(spec PlotSpec) (err error) {
	var invalid []string
	for _, f := range []string{spec.XField, spec.YField} {
		if !d.HasField(f) {
			invalid = append(invalid, f)
		}
	}
	if len(invalid) > 0 {
		err = &FieldError{Fields: invalid}
		return
	}
	xs, _ := d.Column(spec.XField)
	ys, _ := d.Column(spec.YField)
	pts := make(plotter.XYs, 0, d.Len())
	for i := range xs {
		x, y := xs[i], ys[i]
		if !x.Valid || !y.Valid {
			continue
		}
		if !inBound(x.Float64, spec.XMin, spec.XMax) || !inBound(y.Float64, spec.YMin, spec.YMax) {
			continue
		}
		pts = append(pts, plotter.XY{X: x.Float64, Y: y.Float64})
	}

	p := plot.New()
	title := spec.Title
	if title == "" {
		title = fmt.Sprintf("%s vs %s", spec.YField, spec.XField)
	}
	p.Title.Text = title
	p.X.Label.Text = spec.XField
	p.Y.Label.Text = spec.YField
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return
	}
	p.Add(scatter)
	if err = p.Save(8*vg.Inch, 6*vg.Inch, spec.Outfile); err != nil {
		log.Error("save scatterplot failed", zap.String("outfile", spec.Outfile), zap.Error(err))
		return
	}
	log.Info("scatterplot saved", zap.String("outfile", spec.Outfile), zap.Int("points", len(pts)))
	return
}

// 按CSV控制文件绘图
func (d *PlotDataset) PlotFromFile(path string) (err error) {
	spec, err := ParsePlotParams(path)
	if err != nil {
		return
	}
	return d.Scatterplot(spec)
}

func inBound(v float64, min, max NullFloat) bool {
	if min.Valid && v < min.Float64 {
		return false
	}
	if max.Valid && v > max.Float64 {
		return false
	}
	return true
}
