package zonelib

import (
	"fmt"
	"math"
	"strings"

	"github.com/wgdzlh/zonelib/log"
	"github.com/wgdzlh/zonelib/utils"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// OGR属性表适配，实现AttributeStore。行标识为OGR FID
type ShapefileTable struct {
	path   string
	ds     gdal.DataSource
	layer  gdal.Layer
	utf8   bool
	logTag string
}

// 打开shp属性表，update决定是否可写。文本编码按cpg判断，非UTF-8的当作GBK处理。
// 传入zip时先解压到临时目录再打开其中的shp
func (g *ZonalToolbox) OpenShapefile(shp string, update bool) (t *ShapefileTable, err error) {
	if strings.HasSuffix(shp, FILE_EXT_ZIP) {
		var dir string
		if dir, err = utils.GetUniqSubDir(g.tmpDir); err != nil {
			return
		}
		if shp, _, err = utils.GetShpInZip(shp, dir); err != nil {
			log.Error(g.logTag+"extract zipped shp failed", zap.Error(err))
			return
		}
	}
	mode := 0
	if update {
		mode = 1
	}
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, mode)
	if !ok {
		log.Error(g.logTag+"open shp failed", zap.String("shp", shp))
		err = ErrGdalDriverOpen
		return
	}
	t = &ShapefileTable{
		path:   shp,
		ds:     ds,
		layer:  ds.LayerByIndex(0),
		utf8:   utils.IsShpUtf8(shp),
		logTag: g.logTag,
	}
	log.Info(g.logTag+"shp table opened", zap.String("shp", shp), zap.Bool("update", update), zap.Bool("utf8", t.utf8))
	return
}

func (t *ShapefileTable) Name() string {
	return t.path
}

// 当前属性字段清单，包含刚创建的字段。OGR的FID与几何列不在其中
func (t *ShapefileTable) ListFields() (fields []FieldInfo, err error) {
	def := t.layer.Definition()
	n := def.FieldCount()
	fields = make([]FieldInfo, 0, n)
	for i := 0; i < n; i++ {
		fd := def.FieldDefinition(i)
		fields = append(fields, FieldInfo{
			Name: fd.Name(),
			Kind: ogrTypeToKind(fd.Type()),
		})
	}
	return
}

func (t *ShapefileTable) FieldExists(name string) bool {
	return t.layer.Definition().FieldIndex(name) >= 0
}

// 创建字段。重名直接报错，调用方应先用FieldExists检查
func (t *ShapefileTable) AddField(name string, kind FieldKind) (err error) {
	if t.FieldExists(name) {
		return &SchemaError{Field: name, Msg: "field already exists"}
	}
	var ft gdal.FieldType
	switch kind {
	case KindNumeric:
		ft = gdal.FT_Real
	case KindText:
		ft = gdal.FT_String
	default:
		return &SchemaError{Field: name, Msg: "kind " + kind.String() + " cannot be created"}
	}
	fd := gdal.CreateFieldDefinition(name, ft)
	if kind == KindText {
		fd.SetWidth(FIELD_NAME_WIDTH)
	}
	if err = t.layer.CreateField(fd, false); err != nil {
		log.Error(t.logTag+"create field failed", zap.String("field", name), zap.Error(err))
		err = &SchemaError{Field: name, Msg: err.Error()}
		return
	}
	log.Info(t.logTag+"field created", zap.String("shp", t.path), zap.String("field", name), zap.String("kind", kind.String()))
	return
}

// 读取指定字段的所有行，FID作为Row.Id单独返回。任一字段缺失则整体失败并列出全部缺失项
func (t *ShapefileTable) ReadRows(fields []string) (rows []Row, err error) {
	def := t.layer.Definition()
	var (
		idxs    = make([]int, len(fields))
		missing []string
	)
	for i, f := range fields {
		if idxs[i] = def.FieldIndex(f); idxs[i] < 0 {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		err = &FieldError{Fields: missing}
		return
	}
	n := 64
	if nf, ok := t.layer.FeatureCount(false); ok && nf > 0 {
		n = nf
	}
	rows = make([]Row, 0, n)
	var (
		feature *gdal.Feature
		gc      []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	t.layer.ResetReading()
	for {
		if feature = t.layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		row := Row{
			Id:     feature.FID(),
			Values: make([]any, len(fields)),
		}
		for i, idx := range idxs {
			row.Values[i] = t.fieldValue(feature, def, idx)
		}
		rows = append(rows, row)
	}
	log.Info(t.logTag+"rows read", zap.String("shp", t.path), zap.Int("rows", len(rows)), zap.Int("fields", len(fields)))
	return
}

func (t *ShapefileTable) fieldValue(feature *gdal.Feature, def gdal.FeatureDefinition, idx int) any {
	if !feature.IsFieldSet(idx) {
		return nil
	}
	switch def.FieldDefinition(idx).Type() {
	case gdal.FT_Integer, gdal.FT_Real:
		return feature.FieldAsFloat64(idx)
	default:
		s := feature.FieldAsString(idx)
		if !t.utf8 {
			if u, e := utils.GbkStrToUtf8(s); e == nil {
				s = u
			}
		}
		return s
	}
}

// 单格写入。目标行可能已被外部工具删除，此时返回RowNotFoundError，属正常竞争结果
func (t *ShapefileTable) UpdateField(rowId int64, field string, value float64) (err error) {
	def := t.layer.Definition()
	idx := def.FieldIndex(field)
	if idx < 0 {
		return &FieldError{Fields: []string{field}}
	}
	var (
		feature *gdal.Feature
		gc      []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	t.layer.ResetReading()
	for {
		if feature = t.layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		if feature.FID() != rowId {
			continue
		}
		feature.SetFieldFloat64(idx, value)
		if err = t.layer.SetFeature(*feature); err != nil {
			log.Error(t.logTag+"err in set feature of layer", zap.Int64("fid", rowId), zap.Error(err))
		}
		return
	}
	return &RowNotFoundError{Id: rowId}
}

// 将当前属性表另存为新的shp
func (t *ShapefileTable) SaveAs(out string) (err error) {
	if !strings.HasSuffix(out, FILE_EXT_SHP) {
		out += FILE_EXT_SHP
	}
	sds, err := gdal.OpenEx(t.path, gdal.OFVector, nil, nil, nil)
	if err != nil {
		log.Error(t.logTag+"open shp error", zap.Error(err))
		return
	}
	defer sds.Close()
	dds, err := gdal.VectorTranslate(out, []gdal.Dataset{sds}, []string{"-lco", ENCODING_OPTION})
	if err != nil {
		log.Error(t.logTag + "VectorTranslate failed")
		return
	}
	dds.Close() // 生成另存的shp文件
	log.Info(t.logTag+"table saved", zap.String("src", t.path), zap.String("out", out))
	return
}

func (t *ShapefileTable) Release() {
	t.ds.Destroy()
}

func ogrTypeToKind(ft gdal.FieldType) FieldKind {
	switch ft {
	case gdal.FT_Integer, gdal.FT_Real:
		return KindNumeric
	default:
		return KindText
	}
}

// 计算数值字段的均值，忽略空值与NaN。字段缺失返回FieldError
func (g *ZonalToolbox) SummarizeField(table AttributeStore, field string) (mean float64, n int, err error) {
	rows, err := table.ReadRows([]string{field})
	if err != nil {
		return
	}
	var sum float64
	for _, row := range rows {
		v, ok := utils.CoerceFloat(row.Values[0])
		if !ok || math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		err = fmt.Errorf("%w: %s", ErrNoValidValues, field)
		return
	}
	mean = sum / float64(n)
	log.Info(g.logTag+"field summarized", zap.String("field", field), zap.Float64("mean", mean), zap.Int("n", n))
	return
}
