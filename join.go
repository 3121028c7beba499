package zonelib

import (
	"errors"

	"github.com/wgdzlh/zonelib/log"

	"go.uber.org/zap"
)

// 把栅格的区域统计值汇入属性表的新字段。zoningKeyField可选，默认用行标识FID。
// 输出字段已存在时直接失败，绝不覆盖。后端统计失败时，已创建的空字段会留在表中，
// 不做回滚（沿袭既有行为，见DESIGN.md）。没有覆盖像元的行保持空值，空值表示
// “无覆盖”而非出错
func (g *ZonalToolbox) AttachZonalStatistic(table AttributeStore, agg ZonalAggregator, raster string, stat StatKind, outputField string, zoningKeyField ...string) (report JoinReport, err error) {
	keyField := FID_COLUMN
	if len(zoningKeyField) > 0 && zoningKeyField[0] != "" {
		keyField = zoningKeyField[0]
	}
	report.OutputField = outputField
	log.Info(g.logTag+"start zonal join", zap.String("table", table.Name()), zap.String("raster", raster),
		zap.String("stat", string(stat)), zap.String("outputField", outputField), zap.String("keyField", keyField))

	if table.FieldExists(outputField) {
		err = &FieldCollisionError{Field: outputField}
		return
	}
	if err = table.AddField(outputField, KindNumeric); err != nil {
		return
	}

	res, aggErr := agg.Aggregate(raster, table, keyField, stat)
	if aggErr != nil {
		// 字段已建而统计失败：空字段留在表中，由调用方决定取舍
		err = &AggregationError{Raster: raster, Stat: stat, Cause: aggErr}
		return
	}
	defer res.Release()

	lookup, rkErr := res.Rekey(keyField)
	if rkErr != nil {
		err = &AggregationError{Raster: raster, Stat: stat, Cause: rkErr}
		return
	}
	report.Zones = len(lookup)
	log.Info(g.logTag+"zonal stats read", zap.Int("zones", report.Zones), zap.String("keyColumn", res.KeyColumn))

	rows, err := table.ReadRows(nil)
	if err != nil {
		return
	}
	var nf *RowNotFoundError
	for _, row := range rows {
		v, ok := lookup[row.Id]
		if !ok {
			// 区域无覆盖，输出字段保持空值
			continue
		}
		if e := table.UpdateField(row.Id, outputField, v); e != nil {
			if errors.As(e, &nf) {
				// 外部工具在读写间隙删了该行，跳过
				report.Stale++
				log.Warn(g.logTag+"row vanished during write-back", zap.Int64("fid", row.Id))
				continue
			}
			err = e
			return
		}
		report.Updated++
	}
	log.Info(g.logTag+"zonal join done", zap.String("outputField", outputField),
		zap.Int("zones", report.Zones), zap.Int("updated", report.Updated), zap.Int("stale", report.Stale))
	return
}
