package zonelib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plotFixture(t *testing.T) *PlotDataset {
	t.Helper()
	g := NewZonalToolbox()
	table := newMemTable("parcels.shp",
		FieldInfo{Name: "YEAR_BUILT", Kind: KindNumeric},
		FieldInfo{Name: "NDVI_mean", Kind: KindNumeric},
	)
	table.addRow(1, map[string]any{"YEAR_BUILT": 1950.0, "NDVI_mean": 0.31})
	table.addRow(2, map[string]any{"YEAR_BUILT": 1985.0, "NDVI_mean": 0.22})
	table.addRow(3, map[string]any{"YEAR_BUILT": nil, "NDVI_mean": 0.4}) // 缺失值被跳过
	table.addRow(4, map[string]any{"YEAR_BUILT": 2005.0, "NDVI_mean": 0.18})
	ds, err := g.ExportTable(table, nil)
	require.NoError(t, err)
	return ds
}

func TestScatterplotWritesPng(t *testing.T) {
	ds := plotFixture(t)
	out := filepath.Join(t.TempDir(), "scatter.png")
	err := ds.Scatterplot(PlotSpec{
		XField:  "YEAR_BUILT",
		YField:  "NDVI_mean",
		Outfile: out,
		XMin:    NullFloat{Float64: 1901, Valid: true},
		XMax:    NullFloat{Float64: 2030, Valid: true},
	})
	require.NoError(t, err)
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestScatterplotUnknownFields(t *testing.T) {
	ds := plotFixture(t)
	err := ds.Scatterplot(PlotSpec{XField: "nope", YField: "also_nope", Outfile: "x.png"})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"nope", "also_nope"}, fe.Fields)
}

func TestPlotFromFile(t *testing.T) {
	ds := plotFixture(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "from_file.png")
	params := "Param,Value\nx_field,YEAR_BUILT\ny_field,NDVI_mean\noutfile," + out + "\n"
	paramPath := filepath.Join(dir, "params.csv")
	require.NoError(t, os.WriteFile(paramPath, []byte(params), 0o644))

	require.NoError(t, ds.PlotFromFile(paramPath))
	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestInBound(t *testing.T) {
	assert.True(t, inBound(5, NullFloat{}, NullFloat{}))
	assert.True(t, inBound(5, NullFloat{Float64: 5, Valid: true}, NullFloat{Float64: 5, Valid: true}))
	assert.False(t, inBound(4, NullFloat{Float64: 5, Valid: true}, NullFloat{}))
	assert.False(t, inBound(6, NullFloat{}, NullFloat{Float64: 5, Valid: true}))
}
