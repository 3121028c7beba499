package zonelib

import (
	"fmt"
	"math"

	"github.com/wgdzlh/zonelib/log"
	"github.com/wgdzlh/zonelib/utils"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

const ndviNodata = -9999

// 栅格的边界、尺寸等元数据
type RasterMetadata struct {
	Bounds    [2][2]float64 // [[minX,maxY],[maxX,minY]]
	XDim      int
	YDim      int
	Bands     int
	PixelType string
}

// 组合封装的栅格句柄，只暴露本库需要的能力（边界、尺寸、波段读取）
type SmartRaster struct {
	path   string
	ds     gdal.Dataset
	Meta   RasterMetadata
	logTag string
}

// 打开栅格并抽取元数据
func (g *ZonalToolbox) OpenRaster(tif string) (r *SmartRaster, err error) {
	ds, err := gdal.Open(tif, gdal.ReadOnly)
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	var (
		x  = ds.RasterXSize()
		y  = ds.RasterYSize()
		n  = ds.RasterCount()
		gt = ds.GeoTransform()
	)
	if n < 1 {
		ds.Close()
		err = ErrWrongTif
		return
	}
	r = &SmartRaster{
		path: tif,
		ds:   ds,
		Meta: RasterMetadata{
			Bounds: [2][2]float64{
				{gt[0], gt[3]},
				{gt[0] + gt[1]*float64(x), gt[3] + gt[5]*float64(y)},
			},
			XDim:      x,
			YDim:      y,
			Bands:     n,
			PixelType: ds.RasterBand(1).RasterDataType().Name(),
		},
		logTag: g.logTag,
	}
	log.Info(g.logTag+"raster opened", zap.String("tif", tif), zap.Int("x", x), zap.Int("y", y), zap.Int("bands", n))
	return
}

func (r *SmartRaster) Path() string {
	return r.path
}

func (r *SmartRaster) Close() {
	r.ds.Close()
}

// 读取单个波段为float64（idx从1开始）
func (r *SmartRaster) ReadBand(idx int) (buf []float64, err error) {
	if idx < 1 || idx > r.Meta.Bands {
		err = fmt.Errorf("%w: %d of %d", ErrWrongBandIndex, idx, r.Meta.Bands)
		return
	}
	buf = make([]float64, r.Meta.XDim*r.Meta.YDim)
	err = r.ds.RasterBand(idx).IO(gdal.Read, 0, 0, r.Meta.XDim, r.Meta.YDim, buf, r.Meta.XDim, r.Meta.YDim, 0, 0)
	if err != nil {
		log.Error(r.logTag+"read tif band failed", zap.Int("band", idx), zap.Error(err))
		err = ErrTifReadFailed
		buf = nil
	}
	return
}

// 按近红外与红光波段计算NDVI = (NIR - Red) / (NIR + Red)。
// 波段取数失败与计算是两个独立的失败阶段，分母为零的像元记为NaN
func (r *SmartRaster) CalculateNDVI(nirBand, redBand int) (ndvi []float64, err error) {
	nir, err := r.ReadBand(nirBand)
	if err != nil {
		return
	}
	red, err := r.ReadBand(redBand)
	if err != nil {
		return
	}
	ndvi = computeNDVI(nir, red)
	log.Info(r.logTag+"ndvi calculated", zap.String("tif", r.path), zap.Int("nir", nirBand), zap.Int("red", redBand))
	return
}

func computeNDVI(nir, red []float64) (ndvi []float64) {
	ndvi = make([]float64, len(nir))
	for i := range nir {
		den := nir[i] + red[i]
		if den == 0 {
			ndvi[i] = math.NaN()
			continue
		}
		ndvi[i] = (nir[i] - red[i]) / den
	}
	return
}

// 把NDVI结果写为单波段float32 GTiff，网格与源栅格一致。拒绝覆盖已有文件
func (r *SmartRaster) SaveNDVI(out string, ndvi []float64) (err error) {
	if utils.FileExists(out) {
		err = ErrOutfileExists
		return
	}
	if len(ndvi) != r.Meta.XDim*r.Meta.YDim {
		err = ErrTifWriteFailed
		return
	}
	drv, err := gdal.GetDriverByName("GTiff")
	if err != nil {
		err = ErrGdalDriverCreate
		return
	}
	ods := drv.Create(out, r.Meta.XDim, r.Meta.YDim, 1, gdal.Float32, []string{"COMPRESS=LZW"})
	defer ods.Close()
	if err = ods.SetGeoTransform(r.ds.GeoTransform()); err != nil {
		return
	}
	if err = ods.SetProjection(r.ds.Projection()); err != nil {
		return
	}
	band := ods.RasterBand(1)
	if err = band.SetNoDataValue(ndviNodata); err != nil {
		return
	}
	buf := make([]float32, len(ndvi))
	for i, v := range ndvi {
		if math.IsNaN(v) {
			buf[i] = ndviNodata
		} else {
			buf[i] = float32(v)
		}
	}
	if err = band.IO(gdal.Write, 0, 0, r.Meta.XDim, r.Meta.YDim, buf, r.Meta.XDim, r.Meta.YDim, 0, 0); err != nil {
		log.Error(r.logTag+"write ndvi tif failed", zap.Error(err))
		err = ErrTifWriteFailed
		return
	}
	log.Info(r.logTag+"ndvi tif saved", zap.String("out", out))
	return
}
