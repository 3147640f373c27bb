package app

import (
	"github.com/John-Robertt/revlist/internal/domain"
	"github.com/John-Robertt/revlist/internal/name"
)

// Dedupe 按输入顺序把记录分为 unique 与 duplicates。
//
// - 某个规范化键第一次出现的记录进入 unique（保持首次出现顺序）
// - 之后出现的同键记录进入 duplicates（保持遇到顺序），并带上被保留的那一条
// - len(unique) + len(duplicates) == len(in)
func Dedupe(in []domain.Name) (unique []domain.Name, duplicates []domain.Duplicate) {
	index := make(map[name.Key]int, len(in))
	unique = make([]domain.Name, 0, len(in))
	duplicates = make([]domain.Duplicate, 0, 16)

	for _, n := range in {
		k := name.KeyOf(n.Given, n.Family)
		if idx, ok := index[k]; ok {
			duplicates = append(duplicates, domain.Duplicate{
				Kept:    unique[idx],
				Removed: n,
			})
			continue
		}
		index[k] = len(unique)
		unique = append(unique, n)
	}
	return unique, duplicates
}
