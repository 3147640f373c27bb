package name

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/John-Robertt/revlist/internal/domain"
)

// Key 是名字的规范化比较键（去重音、小写、空白折叠）。只用于判等，不用于展示。
type Key string

// keySep 分隔 given 与 family 两段，保证 ("Ana Maria","Lopez") 与 ("Ana","Maria Lopez") 不相等。
const keySep = "\x1f"

// StripAccents 去掉所有组合附加符号（NFKD 分解后删除 Mn 类字符，再 NFC 组合）。
//
// 只依赖 Unicode 分解表，与 locale 无关。
func StripAccents(s string) string {
	// transform.Chain 带内部状态，不能跨 goroutine 共享；每次调用新建。
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CollapseSpace 去掉首尾空白，并把连续空白折叠为一个空格。
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeText 是单个字段的规范化：去重音 + 小写 + 空白折叠。
//
// 先分解再小写：𝐀、ᴬ、ℌ 这类没有小写形态的字符经 NFKD 才变成普通大写字母。
// 对已规范化的结果再次调用不会改变它。
func NormalizeText(s string) string {
	return CollapseSpace(strings.ToLower(StripAccents(s)))
}

// KeyOf 计算一条记录的规范化键。
func KeyOf(given, family string) Key {
	return Key(NormalizeText(given) + keySep + NormalizeText(family))
}

// LastToken 返回 family 最后一个空白分隔的词；family 为空时返回空串。
func LastToken(family string) string {
	words := strings.Fields(family)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

// SortKey 决定名单中的位置：
// - Last：family 最后一个词（"Van Der Berg" 按 "berg" 排）
// - Family / Given：依次作为平手时的比较项
// 三项都已规范化；三项都相同时由调用方的稳定排序保持首次出现顺序。
type SortKey struct {
	Last   string
	Family string
	Given  string
}

// SortKeyOf 计算 (given, family) 的排序键。
func SortKeyOf(given, family string) SortKey {
	return SortKey{
		Last:   NormalizeText(LastToken(family)),
		Family: NormalizeText(family),
		Given:  NormalizeText(given),
	}
}

// Less 按 Last -> Family -> Given 做码点字典序比较。
func (k SortKey) Less(o SortKey) bool {
	if k.Last != o.Last {
		return k.Last < o.Last
	}
	if k.Family != o.Family {
		return k.Family < o.Family
	}
	return k.Given < o.Given
}

// DisplayFamily 返回 family 的展示形态：
// - 单个词：首字母大写，其余小写（"smith" -> "Smith"，"PÉREZ" -> "Pérez"）
// - 多个词：原样保留，只做空白折叠（"van den Berg" 不变）
func DisplayFamily(family string) string {
	words := strings.Fields(family)
	switch len(words) {
	case 0:
		return ""
	case 1:
		return capitalize(words[0])
	default:
		return strings.Join(words, " ")
	}
}

// Display 把一条原始记录转成展示形态（given 只做空白折叠）。
func Display(n domain.Name) domain.Name {
	return domain.Name{
		Given:  CollapseSpace(n.Given),
		Family: DisplayFamily(n.Family),
		Row:    n.Row,
	}
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError && size <= 1 {
		return strings.ToLower(w)
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}
