package zonelib

const (
	FILE_EXT_SHP = ".shp"
	FILE_EXT_CPG = ".cpg"
	FILE_EXT_TIF = ".tif"
	FILE_EXT_PNG = ".png"
	FILE_EXT_CSV = ".csv"
	FILE_EXT_ZIP = ".zip"

	SHAPE_ENCODING  = "UTF-8"
	UTF8_ENC        = "UTF8"
	ZH_ENC          = "GBK"
	SHP_DRIVER_NAME = "ESRI Shapefile"
	ENCODING_OPTION = "ENCODING=" + SHAPE_ENCODING
	OO_ENCODING     = "ENCODING=" + ZH_ENC

	// 区域标识列名。OGR中FID不在属性字段之列，读取时单独取出
	FID_COLUMN = "FID"

	// 结果表键列的去重后缀（结果表有自己独立的标识序列）
	KEY_SUFFIX = "_1"

	ErrColumnMissingTemplate = `字段【%s】在属性表中不存在`
	ErrColumnExistsTemplate  = `字段【%s】在属性表中已存在`

	FIELD_NAME_WIDTH = 64

	TMP_ZONE_TIF = "zone_%s.tif"

	PARAM_COL_KEY   = "Param"
	PARAM_COL_VALUE = "Value"
)

// 控制文件必填、可选参数键
var (
	requiredPlotParams = []string{"x_field", "y_field", "outfile"}
	optionalPlotParams = []string{"x_min", "x_max", "y_min", "y_max"}
)
