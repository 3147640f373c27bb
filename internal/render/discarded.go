package render

import (
	"bytes"
	"encoding/csv"

	"github.com/John-Robertt/revlist/internal/domain"
)

// DiscardedCSV 渲染被丢弃的重复记录：表头 given_name,family_name，每条一行，保持遇到顺序，值保持读入时的原样。
func DiscardedCSV(dups []domain.Duplicate) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write([]string{"given_name", "family_name"}); err != nil {
		return nil, err
	}
	for _, d := range dups {
		if err := w.Write([]string{d.Removed.Given, d.Removed.Family}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
