package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/John-Robertt/revlist/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func parseCSV(b []byte, comma rune) ([]domain.Name, error) {
	b = bytes.TrimPrefix(b, utf8BOM)

	r := csv.NewReader(bytes.NewReader(b))
	r.Comma = comma
	r.FieldsPerRecord = -1
	// 手工编辑过的导出常带裸引号（O"Brien）；按字面保留，不让整份输入失败。
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		// 空文件：没有表头，等同于缺列。
		return locateErr(nil)
	}
	if err != nil {
		return nil, err
	}
	cols, err := locate(header)
	if err != nil {
		return nil, err
	}

	names := make([]domain.Name, 0, 256)
	for row := 1; ; row++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		names = append(names, cols.name(rec, row))
	}
	return names, nil
}

func locateErr(header []string) ([]domain.Name, error) {
	_, err := locate(header)
	return nil, err
}

// sniffComma 只看表头行：含 ';' 且不含 ',' 时按分号分隔（常见于欧洲地区的表格导出）。
func sniffComma(b []byte) rune {
	line := bytes.TrimPrefix(b, utf8BOM)
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	switch {
	case bytes.IndexByte(line, ',') >= 0:
		return ','
	case bytes.IndexByte(line, ';') >= 0:
		return ';'
	case bytes.IndexByte(line, '\t') >= 0:
		return '\t'
	default:
		return ','
	}
}
