package zonelib

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatKind(t *testing.T) {
	for _, s := range []string{"MEAN", "sum", " Median "} {
		k, err := ParseStatKind(s)
		require.NoError(t, err, s)
		assert.NotEmpty(t, k)
	}
	_, err := ParseStatKind("MODE")
	assert.ErrorIs(t, err, ErrUnknownStatKind)
}

func TestZoneAccResults(t *testing.T) {
	vals := []float64{4, 1, 3, 2}
	cases := []struct {
		stat StatKind
		want float64
	}{
		{StatMean, 2.5},
		{StatSum, 10},
		{StatMin, 1},
		{StatMax, 4},
		{StatCount, 4},
		{StatMedian, 2.5},
	}
	for _, c := range cases {
		acc := &zoneAcc{}
		for _, v := range vals {
			acc.add(v, c.stat == StatMedian)
		}
		assert.InDelta(t, c.want, acc.result(c.stat), 1e-9, string(c.stat))
	}

	acc := &zoneAcc{}
	for _, v := range vals {
		acc.add(v, false)
	}
	assert.InDelta(t, math.Sqrt(1.25), acc.result(StatStd), 1e-9)

	odd := &zoneAcc{}
	for _, v := range []float64{9, 1, 5} {
		odd.add(v, true)
	}
	assert.Equal(t, 5.0, odd.result(StatMedian))
}

func TestZoneStatTableRekey(t *testing.T) {
	tbl := &ZoneStatTable{
		KeyColumn:  FID_COLUMN + KEY_SUFFIX,
		StatColumn: "MEAN",
		Rows:       []ZoneStatRow{{Key: 3, Value: 0.3}, {Key: 7, Value: 0.7}},
	}
	lookup, err := tbl.Rekey(FID_COLUMN)
	require.NoError(t, err)
	assert.Equal(t, map[int64]float64{3: 0.3, 7: 0.7}, lookup)

	// 后端没改名的键列同样通过
	plain := &ZoneStatTable{KeyColumn: FID_COLUMN, Rows: tbl.Rows}
	_, err = plain.Rekey(FID_COLUMN)
	assert.NoError(t, err)

	// 键列与区域键字段对不上
	wrong := &ZoneStatTable{KeyColumn: "OBJECTID" + KEY_SUFFIX}
	_, err = wrong.Rekey(FID_COLUMN)
	assert.ErrorIs(t, err, ErrKeyMismatch)
}

func TestZoneStatTableRelease(t *testing.T) {
	tbl := &ZoneStatTable{
		KeyColumn: FID_COLUMN + KEY_SUFFIX,
		Rows:      []ZoneStatRow{{Key: 1, Value: 1}},
	}
	tbl.Release()
	tbl.Release() // 幂等
	assert.True(t, tbl.released)
	assert.Nil(t, tbl.Rows)

	_, err := tbl.Rekey(FID_COLUMN)
	assert.ErrorIs(t, err, ErrTableReleased)
}
