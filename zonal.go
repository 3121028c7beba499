package zonelib

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wgdzlh/zonelib/log"
	"github.com/wgdzlh/zonelib/utils"

	"github.com/google/uuid"
	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 区域统计种类
type StatKind string

const (
	StatMean   StatKind = "MEAN"
	StatSum    StatKind = "SUM"
	StatMin    StatKind = "MIN"
	StatMax    StatKind = "MAX"
	StatStd    StatKind = "STD"
	StatCount  StatKind = "COUNT"
	StatMedian StatKind = "MEDIAN"
)

func ParseStatKind(s string) (StatKind, error) {
	k := StatKind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case StatMean, StatSum, StatMin, StatMax, StatStd, StatCount, StatMedian:
		return k, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownStatKind, s)
}

// 去除键列的去重后缀并核对区域键字段，生成RowId到统计值的映射
func (r *ZoneStatTable) Rekey(zoningKeyField string) (lookup map[int64]float64, err error) {
	if r.released {
		err = ErrTableReleased
		return
	}
	if strings.TrimSuffix(r.KeyColumn, KEY_SUFFIX) != zoningKeyField {
		err = ErrKeyMismatch
		return
	}
	lookup = make(map[int64]float64, len(r.Rows))
	for _, row := range r.Rows {
		lookup[row.Key] = row.Value
	}
	return
}

// 释放结果表资源。创建之后的任何分支都必须走到这里，重复调用无副作用
func (r *ZoneStatTable) Release() {
	if r.released {
		return
	}
	r.released = true
	for _, f := range r.tmpFiles {
		os.Remove(f)
	}
	r.Rows = nil
}

// 单个区域的统计累加器
type zoneAcc struct {
	count  int
	sum    float64
	sumSq  float64
	min    float64
	max    float64
	values []float64 // 仅MEDIAN保留原值
}

func (a *zoneAcc) add(v float64, keepValues bool) {
	if a.count == 0 {
		a.min, a.max = v, v
	} else {
		if v < a.min {
			a.min = v
		}
		if v > a.max {
			a.max = v
		}
	}
	a.count++
	a.sum += v
	a.sumSq += v * v
	if keepValues {
		a.values = append(a.values, v)
	}
}

func (a *zoneAcc) result(stat StatKind) float64 {
	switch stat {
	case StatMean:
		return a.sum / float64(a.count)
	case StatSum:
		return a.sum
	case StatMin:
		return a.min
	case StatMax:
		return a.max
	case StatStd:
		mean := a.sum / float64(a.count)
		return math.Sqrt(a.sumSq/float64(a.count) - mean*mean)
	case StatCount:
		return float64(a.count)
	case StatMedian:
		sort.Float64s(a.values)
		n := len(a.values)
		if n%2 == 1 {
			return a.values[n/2]
		}
		return (a.values[n/2-1] + a.values[n/2]) / 2
	}
	return math.NaN()
}

// GDAL支撑的区域统计后端：把区域图层按键字段烧录到与栅格对齐的网格上，再逐格累加。
// 没有覆盖任何像元中心的区域不会出现在结果里（后端策略，属已知限制）
type RasterZonalAggregator struct {
	tmpDir string
	logTag string
}

func (g *ZonalToolbox) NewRasterAggregator() *RasterZonalAggregator {
	return &RasterZonalAggregator{
		tmpDir: g.tmpDir,
		logTag: g.logTag,
	}
}

func (a *RasterZonalAggregator) Aggregate(raster string, zones AttributeStore, keyField string, stat StatKind) (ret *ZoneStatTable, err error) {
	if _, err = ParseStatKind(string(stat)); err != nil {
		return
	}
	sds, err := gdal.Open(raster, gdal.ReadOnly)
	if err != nil {
		log.Error(a.logTag+"open raster failed", zap.String("raster", raster), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer sds.Close()
	if sds.RasterCount() < 1 {
		err = ErrWrongTif
		return
	}
	var (
		x  = sds.RasterXSize()
		y  = sds.RasterYSize()
		gt = sds.GeoTransform()
	)
	band := sds.RasterBand(1)
	buf := make([]float64, x*y)
	if err = band.IO(gdal.Read, 0, 0, x, y, buf, x, y, 0, 0); err != nil {
		log.Error(a.logTag+"read raster band failed", zap.Error(err))
		err = ErrTifReadFailed
		return
	}
	nodata, hasNodata := band.NoDataValue()

	zoneGrid, tmpTif, err := a.rasterizeZones(zones, keyField, x, y, gt)
	if err != nil {
		return
	}
	defer func() {
		if err != nil && tmpTif != "" {
			os.Remove(tmpTif)
		}
	}()

	keepValues := stat == StatMedian
	accs := map[int64]*zoneAcc{}
	for i, zid := range zoneGrid {
		if zid < 0 {
			continue
		}
		v := buf[i]
		if hasNodata && v == nodata || math.IsNaN(v) {
			continue
		}
		acc := accs[int64(zid)]
		if acc == nil {
			acc = &zoneAcc{}
			accs[int64(zid)] = acc
		}
		acc.add(v, keepValues)
	}

	keys := make([]int64, 0, len(accs))
	for k := range accs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	rows := make([]ZoneStatRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, ZoneStatRow{Key: k, Value: accs[k].result(stat)})
	}
	// 结果表有自己独立的标识序列，键列带去重后缀
	ret = &ZoneStatTable{
		KeyColumn:  keyField + KEY_SUFFIX,
		StatColumn: string(stat),
		Rows:       rows,
		tmpFiles:   []string{tmpTif},
	}
	log.Info(a.logTag+"zonal stats aggregated", zap.String("raster", raster), zap.String("stat", string(stat)), zap.Int("zones", len(rows)))
	return
}

// 把区域键字段烧录为与值栅格同网格的Int32区域栅格，-1为无区域
func (a *RasterZonalAggregator) rasterizeZones(zones AttributeStore, keyField string, x, y int, gt [6]float64) (grid []int32, tmpTif string, err error) {
	vds, err := gdal.OpenEx(zones.Name(), gdal.OFVector, nil, nil, nil)
	if err != nil {
		log.Error(a.logTag+"open zone table failed", zap.String("zones", zones.Name()), zap.Error(err))
		err = ErrGdalDriverOpen
		return
	}
	defer vds.Close()
	var (
		minX = gt[0]
		maxY = gt[3]
		maxX = gt[0] + gt[1]*float64(x)
		minY = gt[3] + gt[5]*float64(y)
	)
	opts := []string{
		"-a", keyField,
		"-ot", "Int32",
		"-init", "-1",
		"-te", fmt.Sprintf("%f", minX), fmt.Sprintf("%f", minY), fmt.Sprintf("%f", maxX), fmt.Sprintf("%f", maxY),
		"-ts", fmt.Sprintf("%d", x), fmt.Sprintf("%d", y),
	}
	if keyField == FID_COLUMN {
		// FID不是属性列，通过OGR SQL暴露出来
		layerName := utils.GetFilenameWithoutExt(zones.Name())
		opts = append(opts, "-sql", fmt.Sprintf("SELECT %s, * FROM %q", FID_COLUMN, layerName))
	}
	tmpTif = filepath.Join(a.tmpDir, fmt.Sprintf(TMP_ZONE_TIF, uuid.NewString()))
	ods, err := gdal.Rasterize(tmpTif, vds, opts)
	if err != nil {
		log.Error(a.logTag+"rasterize zones failed", zap.Error(err))
		tmpTif = ""
		return
	}
	grid = make([]int32, x*y)
	err = ods.RasterBand(1).IO(gdal.Read, 0, 0, x, y, grid, x, y, 0, 0)
	ods.Close()
	if err != nil {
		log.Error(a.logTag+"read zone grid failed", zap.Error(err))
		err = ErrTifReadFailed
	}
	return
}
