package utils

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	FILE_EXT_SHP = ".shp"
	FILE_EXT_CPG = ".cpg"
	FILE_EXT_ZIP = ".zip"

	UTF8  = "UTF8"
	UTF_8 = "UTF-8"
)

var (
	ErrNoShpInZip = errors.New("no shp in zip")
)

func GetUniqSubDir(parentPath string) (path string, err error) {
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// 按同名cpg文件判断shp的属性文本编码，缺失或非UTF-8的按GBK处理
func IsShpUtf8(shp string) bool {
	cpg := strings.TrimSuffix(shp, FILE_EXT_SHP) + FILE_EXT_CPG
	enc, err := os.ReadFile(cpg)
	if err != nil || len(enc) == 0 {
		return false
	}
	encStr := strings.ToUpper(strings.TrimSpace(string(enc)))
	return encStr == UTF_8 || encStr == UTF8
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// 解压zip到目标目录，目录层级展平
func Unzip(zipFile, dstDir string) (files []string, err error) {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return
	}
	defer r.Close()
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		out := filepath.Join(dstDir, filepath.Base(f.Name))
		if err = extractZipEntry(f, out); err != nil {
			return
		}
		files = append(files, out)
	}
	return
}

func extractZipEntry(f *zip.File, out string) (err error) {
	src, err := f.Open()
	if err != nil {
		return
	}
	defer src.Close()
	dst, err := os.Create(out)
	if err != nil {
		return
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return
}

// 从zip中解出shp，同名cpg一并解出用于编码判断
func GetShpInZip(zipFile, dstDir string) (path string, utf8 bool, err error) {
	files, err := Unzip(zipFile, dstDir)
	if err != nil {
		return
	}
	for _, file := range files {
		if strings.HasSuffix(file, FILE_EXT_SHP) {
			path = file
			continue
		}
		if strings.HasSuffix(file, FILE_EXT_CPG) {
			enc, e := os.ReadFile(file)
			if e == nil && len(enc) > 0 {
				encStr := strings.ToUpper(strings.TrimSpace(string(enc)))
				utf8 = encStr == UTF_8 || encStr == UTF8
			}
		}
	}
	if path == "" {
		err = ErrNoShpInZip
	}
	return
}
