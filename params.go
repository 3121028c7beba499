package zonelib

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/wgdzlh/zonelib/log"

	"go.uber.org/zap"
)

// 解析绘图控制文件：两列CSV（Param,Value）。x_field、y_field、outfile必填，
// 缺失时一次性列出；x_min/x_max/y_min/y_max可选，留空、缺失或无法解析的值
// 一律退化为不限制，不会中断解析
func ParsePlotParams(path string) (spec PlotSpec, err error) {
	f, err := os.Open(path)
	if err != nil {
		err = &ParamFileError{Path: path, Cause: err}
		return
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		err = &ParamFileError{Path: path, Cause: err}
		return
	}
	params := map[string]string{}
	for i, rec := range records {
		key := strings.TrimSpace(rec[0])
		if i == 0 && key == PARAM_COL_KEY {
			continue // 表头行
		}
		params[key] = strings.TrimSpace(rec[1])
	}

	var missing []string
	for _, k := range requiredPlotParams {
		if params[k] == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		err = &ParamFileError{Path: path, Missing: missing}
		return
	}
	spec.XField = params["x_field"]
	spec.YField = params["y_field"]
	spec.Outfile = params["outfile"]
	spec.Title = params["title"]

	bounds := make([]NullFloat, len(optionalPlotParams))
	for i, k := range optionalPlotParams {
		v, ok := params[k]
		if !ok || v == "" || v == "None" {
			continue
		}
		f64, e := strconv.ParseFloat(v, 64)
		if e != nil {
			log.Warn("unparseable plot bound ignored", zap.String("param", k), zap.String("value", v))
			continue
		}
		bounds[i] = NullFloat{Float64: f64, Valid: true}
	}
	spec.XMin, spec.XMax, spec.YMin, spec.YMax = bounds[0], bounds[1], bounds[2], bounds[3]
	log.Info("plot params parsed", zap.String("path", path), zap.String("x", spec.XField), zap.String("y", spec.YField), zap.String("outfile", spec.Outfile))
	return
}
