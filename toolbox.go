package zonelib

// 区域统计工具箱，tmpDir为可选的临时目录路径（未提供的话为当前目录）
type ZonalToolbox struct {
	tmpDir string
	logTag string
}

func NewZonalToolbox(tmpDir ...string) *ZonalToolbox {
	g := &ZonalToolbox{
		logTag: "ZonalToolbox:",
	}
	if len(tmpDir) > 0 && tmpDir[0] != "" {
		g.tmpDir = tmpDir[0]
	}
	return g
}

// 由GDAL库C语言创建的内存对象，需要手动调用Destroy回收
type destroyable interface {
	Destroy()
}
