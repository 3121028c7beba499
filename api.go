package zonelib

// 字段类别
type FieldKind int

const (
	KindNumeric FieldKind = iota
	KindText
	KindGeometry
	KindId
)

func (k FieldKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindGeometry:
		return "geometry"
	case KindId:
		return "id"
	}
	return "unknown"
}

// 属性表字段描述
type FieldInfo struct {
	Name string
	Kind FieldKind
}

// 属性表单行数据，Id为该行的稳定标识，Values与请求字段一一对应
type Row struct {
	Id     int64
	Values []any
}

// 可空浮点值，Valid为false表示缺失
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// 属性表读写接口。底层存储可能被外部工具并发修改，写回时行可能已不存在
type AttributeStore interface {
	Name() string
	ListFields() ([]FieldInfo, error)
	FieldExists(name string) bool
	AddField(name string, kind FieldKind) error
	ReadRows(fields []string) ([]Row, error)
	UpdateField(rowId int64, field string, value float64) error
	Release()
}

// 区域统计接口（外部协作方契约）：对每个有覆盖的区域产出一个统计值
type ZonalAggregator interface {
	Aggregate(raster string, zones AttributeStore, keyField string, stat StatKind) (*ZoneStatTable, error)
}

// 区域统计结果行
type ZoneStatRow struct {
	Key   int64
	Value float64
}

// 区域统计临时结果表。KeyColumn可能带有后端加的去重后缀，用完必须Release
type ZoneStatTable struct {
	KeyColumn  string
	StatColumn string
	Rows       []ZoneStatRow

	tmpFiles []string
	released bool
}

// 汇入管道的执行报告
type JoinReport struct {
	OutputField string
	Zones       int // 结果表中处理的区域数
	Updated     int // 成功写回的行数
	Stale       int // 写回时已被外部删除的行数
}

// 散点图绘制参数，零值边界表示不限制
type PlotSpec struct {
	XField  string
	YField  string
	Outfile string
	Title   string
	XMin    NullFloat
	XMax    NullFloat
	YMin    NullFloat
	YMax    NullFloat
}
