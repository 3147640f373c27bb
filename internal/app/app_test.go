package app

import (
	"testing"

	"github.com/John-Robertt/revlist/internal/domain"
)

func rows(pairs ...string) []domain.Name {
	out := make([]domain.Name, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.Name{Given: pairs[i], Family: pairs[i+1], Row: len(out) + 1})
	}
	return out
}

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	in := rows("Ana", "Pérez", "ana", "perez", "Bob", "Smith")

	unique, dups := Dedupe(in)

	if len(unique) != 2 || len(dups) != 1 {
		t.Fatalf("期望 2 unique / 1 discarded，实际 %d / %d", len(unique), len(dups))
	}
	if unique[0] != in[0] || unique[1] != in[2] {
		t.Fatalf("unique 应保留首次出现的原始形态：%+v", unique)
	}
	if dups[0].Removed != in[1] || dups[0].Kept != in[0] {
		t.Fatalf("duplicate 记录不正确：%+v", dups[0])
	}
}

func TestDedupe_FirstOccurrenceEvenWithoutAccents(t *testing.T) {
	in := rows("jose", "garcia", "José", "García")

	unique, dups := Dedupe(in)

	if len(unique) != 1 || unique[0].Given != "jose" {
		t.Fatalf("应保留先出现的记录：%+v", unique)
	}
	if len(dups) != 1 || dups[0].Removed.Given != "José" {
		t.Fatalf("后出现的记录应被丢弃：%+v", dups)
	}
}

func TestDedupe_CountsAddUp(t *testing.T) {
	cases := [][]domain.Name{
		nil,
		rows("A", "B"),
		rows("A", "B", "a", "b", "Á", "B", "A", "C"),
		rows("", "", "", "", "X", ""),
	}
	for i, in := range cases {
		unique, dups := Dedupe(in)
		if len(unique)+len(dups) != len(in) {
			t.Fatalf("case %d：unique(%d)+discarded(%d) != total(%d)", i, len(unique), len(dups), len(in))
		}
	}
}

func TestDedupe_DiscardOrderPreserved(t *testing.T) {
	in := rows("Bob", "Smith", "Ana", "Pérez", "BOB", "SMITH", "ana", "perez", "bob", "smith")

	_, dups := Dedupe(in)

	wantRows := []int{3, 4, 5}
	if len(dups) != len(wantRows) {
		t.Fatalf("期望 %d 条 discarded，实际 %d", len(wantRows), len(dups))
	}
	for i, r := range wantRows {
		if dups[i].Removed.Row != r {
			t.Fatalf("第 %d 条 discarded 行号：期望 %d，实际 %d", i, r, dups[i].Removed.Row)
		}
	}
}

func TestSortUnique_Scenario(t *testing.T) {
	unique, _ := Dedupe(rows("Bob", "Smith", "Ana", "Pérez", "ana", "perez"))

	got := SortUnique(unique)

	if len(got) != 2 {
		t.Fatalf("期望 2 条，实际 %d", len(got))
	}
	if got[0].Family != "Pérez" || got[1].Family != "Smith" {
		t.Fatalf("Pérez 应排在 Smith 前：%+v", got)
	}
}

func TestSortUnique_ParticlesAndCapitalization(t *testing.T) {
	in := rows(
		"Zoe", "zimmer",
		"Jan", "Van Der Berg",
		"Ronald", "de Wolf",
		"Élodie", "ávila",
		"Chris", "  Adams ",
	)

	got := SortUnique(in)

	want := []string{"Adams", "Ávila", "Van Der Berg", "de Wolf", "Zimmer"}
	for i, w := range want {
		if got[i].Family != w {
			t.Fatalf("第 %d 位：期望 %q，实际 %q（全部：%+v）", i, w, got[i].Family, got)
		}
	}
	if in[0].Family != "zimmer" {
		t.Fatalf("SortUnique 不应修改入参")
	}
}

func TestSortUnique_DeterministicUnderDuplicateReorder(t *testing.T) {
	a := rows("Ana", "Pérez", "Bob", "Smith", "ana", "perez", "BOB", "smith")
	b := rows("Ana", "Pérez", "Bob", "Smith", "BOB", "smith", "ana", "perez")

	ua, _ := Dedupe(a)
	ub, _ := Dedupe(b)
	sa := SortUnique(ua)
	sb := SortUnique(ub)

	if len(sa) != len(sb) {
		t.Fatalf("长度不一致：%d vs %d", len(sa), len(sb))
	}
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("第 %d 位不一致：%+v vs %+v", i, sa[i], sb[i])
		}
	}
}

func TestSortUnique_StableOnEqualKeys(t *testing.T) {
	// SortUnique 本身不去重：排序键完全相同的条目保持输入顺序。
	in := []domain.Name{
		{Given: "Li", Family: "Wei", Row: 1},
		{Given: "Li", Family: "WEI", Row: 2},
	}
	got := SortUnique(in)
	if got[0].Row != 1 || got[1].Row != 2 {
		t.Fatalf("键相同时应保持输入顺序：%+v", got)
	}
}
