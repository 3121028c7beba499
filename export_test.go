package zonelib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportFixture() *memTable {
	t := newMemTable("parcels.shp",
		FieldInfo{Name: "Shape", Kind: KindGeometry},
		FieldInfo{Name: "OBJECTID", Kind: KindId},
		FieldInfo{Name: "AREA", Kind: KindNumeric},
		FieldInfo{Name: "YEAR_BUILT", Kind: KindText},
	)
	t.addRow(1, map[string]any{"AREA": 120.5, "YEAR_BUILT": "12"})
	t.addRow(2, map[string]any{"AREA": 80.0, "YEAR_BUILT": "abc"})
	t.addRow(3, map[string]any{"AREA": 95.2, "YEAR_BUILT": "7.5"})
	return t
}

func TestExportAllFieldsSkipsGeometryAndId(t *testing.T) {
	g := NewZonalToolbox()
	ds, err := g.ExportTable(exportFixture(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"AREA", "YEAR_BUILT"}, ds.Fields)
	assert.Equal(t, []int64{1, 2, 3}, ds.Ids)
}

func TestExportInvalidFieldsListedAtOnce(t *testing.T) {
	g := NewZonalToolbox()
	_, err := g.ExportTable(exportFixture(), []string{"bogus_field"})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"bogus_field"}, fe.Fields)

	// 几何与标识列不可选，且所有无效项一次性列出
	_, err = g.ExportTable(exportFixture(), []string{"Shape", "AREA", "nope"})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"Shape", "nope"}, fe.Fields)
}

func TestExportNumericCoercion(t *testing.T) {
	g := NewZonalToolbox()
	ds, err := g.ExportTable(exportFixture(), []string{"YEAR_BUILT"})
	require.NoError(t, err)
	col, ok := ds.Column("YEAR_BUILT")
	require.True(t, ok)
	require.Len(t, col, 3)
	// 不能转换的格子是缺失值，不是整体失败
	assert.Equal(t, NullFloat{Float64: 12, Valid: true}, col[0])
	assert.Equal(t, NullFloat{}, col[1])
	assert.Equal(t, NullFloat{Float64: 7.5, Valid: true}, col[2])
}

func TestPlotDatasetMeanField(t *testing.T) {
	g := NewZonalToolbox()
	ds, err := g.ExportTable(exportFixture(), nil)
	require.NoError(t, err)

	mean, err := ds.MeanField("YEAR_BUILT")
	require.NoError(t, err)
	assert.InDelta(t, (12+7.5)/2, mean, 1e-9)

	_, err = ds.MeanField("missing")
	var fe *FieldError
	assert.ErrorAs(t, err, &fe)
}

func TestPlotDatasetFilterIsSnapshot(t *testing.T) {
	g := NewZonalToolbox()
	table := exportFixture()
	ds, err := g.ExportTable(table, nil)
	require.NoError(t, err)

	area, _ := ds.Column("AREA")
	sub := ds.Filter(func(i int) bool { return area[i].Valid && area[i].Float64 > 90 })
	assert.Equal(t, []int64{1, 3}, sub.Ids)
	assert.Equal(t, 3, ds.Len()) // 原快照不受影响

	// 快照独立于源表
	require.NoError(t, table.UpdateField(1, "AREA", 1))
	again, _ := ds.Column("AREA")
	assert.Equal(t, 120.5, again[0].Float64)
}
