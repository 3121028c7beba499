package zonelib

import (
	"math"

	"github.com/wgdzlh/zonelib/log"
	"github.com/wgdzlh/zonelib/utils"

	"go.uber.org/zap"
)

// 属性表的独立数值快照，按行标识寻址。对它的修改不会写回源表
type PlotDataset struct {
	Fields []string
	Ids    []int64
	cols   map[string][]NullFloat
}

func (d *PlotDataset) Len() int {
	return len(d.Ids)
}

func (d *PlotDataset) Column(field string) ([]NullFloat, bool) {
	col, ok := d.cols[field]
	return col, ok
}

func (d *PlotDataset) HasField(field string) bool {
	_, ok := d.cols[field]
	return ok
}

// 字段均值，跳过缺失值
func (d *PlotDataset) MeanField(field string) (mean float64, err error) {
	col, ok := d.cols[field]
	if !ok {
		err = &FieldError{Fields: []string{field}}
		return
	}
	var (
		sum float64
		n   int
	)
	for _, v := range col {
		if v.Valid {
			sum += v.Float64
			n++
		}
	}
	if n == 0 {
		err = ErrNoValidValues
		return
	}
	mean = sum / float64(n)
	return
}

// 按行谓词生成新的快照子集
func (d *PlotDataset) Filter(keep func(i int) bool) *PlotDataset {
	out := &PlotDataset{
		Fields: d.Fields,
		cols:   make(map[string][]NullFloat, len(d.cols)),
	}
	var idxs []int
	for i := range d.Ids {
		if keep(i) {
			idxs = append(idxs, i)
			out.Ids = append(out.Ids, d.Ids[i])
		}
	}
	for f, col := range d.cols {
		sub := make([]NullFloat, len(idxs))
		for j, i := range idxs {
			sub[j] = col[i]
		}
		out.cols[f] = sub
	}
	return out
}

// 把属性表导出为数值快照。fields为空时取全部非几何、非标识字段；任一无效字段
// 使导出整体失败并列出全部无效项。每个字段独立做数值转换，转换失败的格子记为
// 缺失值而不是丢掉整行
func (g *ZonalToolbox) ExportTable(table AttributeStore, fields []string) (ds *PlotDataset, err error) {
	all, err := table.ListFields()
	if err != nil {
		return
	}
	allowed := make([]string, 0, len(all))
	for _, f := range all {
		if f.Kind == KindGeometry || f.Kind == KindId {
			continue
		}
		allowed = append(allowed, f.Name)
	}
	if len(fields) == 0 {
		fields = allowed
	} else if !utils.ContainsAll(allowed, fields) {
		set := make(map[string]struct{}, len(allowed))
		for _, f := range allowed {
			set[f] = struct{}{}
		}
		var invalid []string
		for _, f := range fields {
			if _, ok := set[f]; !ok {
				invalid = append(invalid, f)
			}
		}
		err = &FieldError{Fields: invalid}
		return
	}
	rows, err := table.ReadRows(fields)
	if err != nil {
		return
	}
	ds = &PlotDataset{
		Fields: fields,
		Ids:    make([]int64, len(rows)),
		cols:   make(map[string][]NullFloat, len(fields)),
	}
	for _, f := range fields {
		ds.cols[f] = make([]NullFloat, len(rows))
	}
	for i, row := range rows {
		ds.Ids[i] = row.Id
		for j, f := range fields {
			v, ok := utils.CoerceFloat(row.Values[j])
			if ok && !math.IsNaN(v) {
				ds.cols[f][i] = NullFloat{Float64: v, Valid: true}
			}
		}
	}
	log.Info(g.logTag+"table exported", zap.String("table", table.Name()), zap.Int("rows", len(rows)), zap.Int("fields", len(fields)))
	return
}
