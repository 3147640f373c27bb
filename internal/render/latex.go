package render

import (
	"bytes"
	"strings"

	"github.com/John-Robertt/revlist/internal/domain"
)

const latexPreamble = `\documentclass[10pt,a4paper]{article}
\usepackage[utf8]{inputenc}
\usepackage{multicol}
\usepackage[left=2cm,right=2cm,top=2cm,bottom=2cm]{geometry}
\pagestyle{empty}
\begin{document}
\begin{center}
\section*{List of Names}
\end{center}
`

const latexEnd = `\end{document}
`

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeLaTeX 转义 LaTeX 特殊字符（单遍替换，已替换出的 `\textbackslash{}` 不会被二次转义）。
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}

// LaTeX 把排好序的名单渲染为可直接编译的 LaTeX 文档：两栏（multicol）+ itemize，每条 "Given Family"。
//
// 名单为空时省略 itemize 环境（空 itemize 无法编译），文档仍然完整。
func LaTeX(names []domain.Name) []byte {
	var b bytes.Buffer
	b.WriteString(latexPreamble)
	if len(names) > 0 {
		b.WriteString("\\begin{multicols}{2}\n\\begin{itemize}\n")
		for _, n := range names {
			b.WriteString("  \\item ")
			b.WriteString(EscapeLaTeX(n.String()))
			b.WriteByte('\n')
		}
		b.WriteString("\\end{itemize}\n\\end{multicols}\n")
	}
	b.WriteString(latexEnd)
	return b.Bytes()
}
