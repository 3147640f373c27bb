package app

import (
	"sort"

	"github.com/John-Robertt/revlist/internal/domain"
	"github.com/John-Robertt/revlist/internal/name"
)

// SortUnique 返回按 name.SortKey 排好序的展示形态名单（不修改入参）。
//
// 排序键从原始记录计算；单个词的 family 在展示时首字母大写，不影响排序。
// 键完全相同的条目保持输入中的相对顺序，因此同一输入多次运行结果一致。
func SortUnique(unique []domain.Name) []domain.Name {
	type entry struct {
		key     name.SortKey
		display domain.Name
	}

	entries := make([]entry, 0, len(unique))
	for _, n := range unique {
		entries = append(entries, entry{
			key:     name.SortKeyOf(n.Given, n.Family),
			display: name.Display(n),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key.Less(entries[j].key)
	})

	out := make([]domain.Name, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.display)
	}
	return out
}
