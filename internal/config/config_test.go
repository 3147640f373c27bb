package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/John-Robertt/revlist/internal/domain"
)

func TestLoadEffective_Defaults(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Input != filepath.Join(cwd, "data", "reviewers.csv") {
		t.Fatalf("input 默认值不正确：%q", eff.Input)
	}
	if eff.Tex != filepath.Join(cwd, "data", "reviewers-names.tex") {
		t.Fatalf("tex 默认值不正确：%q", eff.Tex)
	}
	if eff.Discarded != filepath.Join(cwd, "data", "reviewers-discarded.csv") {
		t.Fatalf("discarded 默认值不正确：%q", eff.Discarded)
	}
	if eff.ConfigFile != "" {
		t.Fatalf("没有配置文件时 ConfigFile 应为空：%q", eff.ConfigFile)
	}
}

func TestLoadEffective_MergeOrder_JSON(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "revlist.json"), []byte(`{"input":"in/users.csv","tex":"out/names.tex"}`))

	// 配置文件覆盖默认值。
	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Input != filepath.Join(cwd, "in", "users.csv") || eff.Tex != filepath.Join(cwd, "out", "names.tex") {
		t.Fatalf("配置文件未生效：%+v", eff)
	}
	if eff.Discarded != filepath.Join(cwd, "data", "reviewers-discarded.csv") {
		t.Fatalf("未配置的字段应回退默认值：%q", eff.Discarded)
	}
	if eff.ConfigFile != filepath.Join(cwd, "revlist.json") {
		t.Fatalf("ConfigFile 不正确：%q", eff.ConfigFile)
	}

	// CLI 覆盖配置文件；绝对路径保持不变。
	abs := filepath.Join(t.TempDir(), "x.csv")
	eff2, err := LoadEffective(cwd, CLIArgs{Input: abs})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff2.Input != abs {
		t.Fatalf("期望 input=%q，实际=%q", abs, eff2.Input)
	}
}

func TestLoadEffective_YAML(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "revlist.yaml"), []byte("input: tqc/users.csv\ndiscarded: tqc/dups.csv\n"))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Input != filepath.Join(cwd, "tqc", "users.csv") || eff.Discarded != filepath.Join(cwd, "tqc", "dups.csv") {
		t.Fatalf("YAML 配置未生效：%+v", eff)
	}
}

func TestLoadEffective_EmptyConfigFile(t *testing.T) {
	for _, name := range []string{"revlist.json", "revlist.yml"} {
		t.Run(name, func(t *testing.T) {
			cwd := t.TempDir()
			writeFile(t, filepath.Join(cwd, name), nil)

			eff, err := LoadEffective(cwd, CLIArgs{})
			if err != nil {
				t.Fatalf("空配置文件不应报错：%v", err)
			}
			if eff.Input != filepath.Join(cwd, "data", "reviewers.csv") {
				t.Fatalf("空配置应使用默认值：%q", eff.Input)
			}
		})
	}
}

func TestLoadEffective_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]string
		cli   CLIArgs
	}{
		{"broken json", map[string]string{"revlist.json": `{`}, CLIArgs{}},
		{"unknown json field", map[string]string{"revlist.json": `{"provider":"x"}`}, CLIArgs{}},
		{"unknown yaml field", map[string]string{"revlist.yaml": "apply: true\n"}, CLIArgs{}},
		{"two config files", map[string]string{"revlist.json": `{}`, "revlist.yaml": ""}, CLIArgs{}},
		{"tex equals input", nil, CLIArgs{Input: "a.csv", Tex: "a.csv"}},
		{"discarded equals input", nil, CLIArgs{Input: "a.csv", Discarded: "./a.csv"}},
		{"tex equals discarded", map[string]string{"revlist.json": `{"tex":"out/x"}`}, CLIArgs{Discarded: "out/x"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cwd := t.TempDir()
			for n, body := range c.files {
				writeFile(t, filepath.Join(cwd, n), []byte(body))
			}

			_, err := LoadEffective(cwd, c.cli)
			if Code(err) != ErrCodeInvalid {
				t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
			}
			if domain.ErrorCode(err) != domain.ErrCodeConfigInvalid {
				t.Fatalf("domain.ErrorCode 应识别配置错误：%v", err)
			}
		})
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败 %q：%v", path, err)
	}
}
