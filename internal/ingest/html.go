package ingest

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/revlist/internal/domain"
)

// parseHTML 读取网页形式的表格导出（例如会议系统“另存为网页”）。
// 只看第一个 <table>：首个 <tr> 是表头（th 或 td），其后每个含 td 的 <tr> 是一行数据。
func parseHTML(b []byte) ([]domain.Name, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("页面中没有 <table>")
	}

	rows := table.Find("tr")
	if rows.Length() == 0 {
		return locateErr(nil)
	}

	cols, err := locate(cellTexts(rows.First().Find("th, td")))
	if err != nil {
		return nil, err
	}

	names := make([]domain.Name, 0, rows.Length())
	row := 0
	rows.Slice(1, goquery.ToEnd).Each(func(_ int, s *goquery.Selection) {
		cells := cellTexts(s.Find("td"))
		if len(cells) == 0 {
			// 重复表头等纯 th 行不算数据。
			return
		}
		row++
		names = append(names, cols.name(cells, row))
	})
	return names, nil
}

func cellTexts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		// HTML 中的换行/缩进不属于名字本身。
		out = append(out, strings.Join(strings.Fields(s.Text()), " "))
	})
	return out
}
