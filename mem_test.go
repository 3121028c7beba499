package zonelib

import (
	"sort"
)

// 内存属性表，仅测试用。deleted模拟外部工具在读写间隙删行
type memTable struct {
	name    string
	fields  []FieldInfo
	rows    []*memRow
	deleted map[int64]bool
	onRead  func() // 在ReadRows返回前触发，模拟并发修改
}

type memRow struct {
	id   int64
	vals map[string]any
}

func newMemTable(name string, fields ...FieldInfo) *memTable {
	return &memTable{
		name:    name,
		fields:  fields,
		deleted: map[int64]bool{},
	}
}

func (t *memTable) addRow(id int64, vals map[string]any) {
	if vals == nil {
		vals = map[string]any{}
	}
	t.rows = append(t.rows, &memRow{id: id, vals: vals})
}

func (t *memTable) Name() string {
	return t.name
}

func (t *memTable) ListFields() ([]FieldInfo, error) {
	out := make([]FieldInfo, len(t.fields))
	copy(out, t.fields)
	return out, nil
}

func (t *memTable) FieldExists(name string) bool {
	for _, f := range t.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (t *memTable) AddField(name string, kind FieldKind) error {
	if t.FieldExists(name) {
		return &SchemaError{Field: name, Msg: "field already exists"}
	}
	t.fields = append(t.fields, FieldInfo{Name: name, Kind: kind})
	return nil
}

func (t *memTable) ReadRows(fields []string) ([]Row, error) {
	var missing []string
	for _, f := range fields {
		if !t.FieldExists(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &FieldError{Fields: missing}
	}
	rows := make([]Row, 0, len(t.rows))
	for _, r := range t.rows {
		if t.deleted[r.id] {
			continue
		}
		row := Row{Id: r.id, Values: make([]any, len(fields))}
		for i, f := range fields {
			row.Values[i] = r.vals[f]
		}
		rows = append(rows, row)
	}
	if t.onRead != nil {
		t.onRead()
	}
	return rows, nil
}

func (t *memTable) UpdateField(rowId int64, field string, value float64) error {
	if !t.FieldExists(field) {
		return &FieldError{Fields: []string{field}}
	}
	if t.deleted[rowId] {
		return &RowNotFoundError{Id: rowId}
	}
	for _, r := range t.rows {
		if r.id == rowId {
			r.vals[field] = value
			return nil
		}
	}
	return &RowNotFoundError{Id: rowId}
}

func (t *memTable) Release() {}

// 预设结果的区域统计后端，仅测试用
type memAggregator struct {
	stats     map[int64]float64
	keyColumn string // 为空时用keyField+KEY_SUFFIX
	err       error
	last      *ZoneStatTable
}

func (a *memAggregator) Aggregate(_ string, _ AttributeStore, keyField string, stat StatKind) (*ZoneStatTable, error) {
	if a.err != nil {
		return nil, a.err
	}
	keys := make([]int64, 0, len(a.stats))
	for k := range a.stats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	rows := make([]ZoneStatRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, ZoneStatRow{Key: k, Value: a.stats[k]})
	}
	kc := a.keyColumn
	if kc == "" {
		kc = keyField + KEY_SUFFIX
	}
	a.last = &ZoneStatTable{
		KeyColumn:  kc,
		StatColumn: string(stat),
		Rows:       rows,
	}
	return a.last, nil
}
