package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/revlist/internal/domain"
)

// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
const ErrCodeInvalid = domain.ErrCodeConfigInvalid

const (
	DefaultInput     = "data/reviewers.csv"
	DefaultTex       = "data/reviewers-names.tex"
	DefaultDiscarded = "data/reviewers-discarded.csv"
)

// 配置文件只在 cwd 下按固定文件名查找，且可选。
var fileNames = []string{"revlist.json", "revlist.yaml", "revlist.yml"}

// CLIArgs 只包含 CLI 暴露的三个路径；空串表示未指定。
type CLIArgs struct {
	Input     string
	Tex       string
	Discarded string
}

// FileConfig 对应 revlist.json / revlist.yaml 的解析结构。未知字段视为错误。
type FileConfig struct {
	Input     string `json:"input" yaml:"input"`
	Tex       string `json:"tex" yaml:"tex"`
	Discarded string `json:"discarded" yaml:"discarded"`
}

// EffectiveConfig 是合并并做规范化后的最终配置（路径均为 clean + absolute）。
type EffectiveConfig struct {
	Input     string
	Tex       string
	Discarded string

	// ConfigFile 是实际读取的配置文件；未使用配置文件时为空。
	ConfigFile string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) ErrorCode() string { return e.Code }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 覆盖优先级（固定）：CLI > 配置文件 > 默认值（data/ 目录下的约定文件名）。
// 相对路径一律以 cwd 为基准。三个路径必须互不相同。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath, err := discover(cwdAbs)
	if err != nil {
		return EffectiveConfig{}, err
	}

	var fc FileConfig
	if cfgPath != "" {
		fc, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
	}

	eff := EffectiveConfig{
		Input:      absCleanFrom(cwdAbs, pick(cli.Input, fc.Input, DefaultInput)),
		Tex:        absCleanFrom(cwdAbs, pick(cli.Tex, fc.Tex, DefaultTex)),
		Discarded:  absCleanFrom(cwdAbs, pick(cli.Discarded, fc.Discarded, DefaultDiscarded)),
		ConfigFile: cfgPath,
	}
	if err := validate(eff); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	return eff, nil
}

// discover 返回 cwd 下唯一存在的配置文件；同时存在多个时报错（避免静默选错）。
func discover(cwdAbs string) (string, error) {
	found := ""
	for _, n := range fileNames {
		p := filepath.Join(cwdAbs, n)
		fi, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", &Error{Code: ErrCodeInvalid, Path: p, Err: err}
		}
		if fi.IsDir() {
			return "", &Error{Code: ErrCodeInvalid, Path: p, Err: errors.New("是目录而不是文件")}
		}
		if found != "" {
			return "", &Error{Code: ErrCodeInvalid, Path: p, Err: fmt.Errorf("与 %q 同时存在，只能保留一个", found)}
		}
		found = p
	}
	return found, nil
}

func pick(cli, file, def string) string {
	if v := strings.TrimSpace(cli); v != "" {
		return v
	}
	if v := strings.TrimSpace(file); v != "" {
		return v
	}
	return def
}

func validate(eff EffectiveConfig) error {
	switch {
	case eff.Tex == eff.Input:
		return fmt.Errorf("tex 输出路径不能与输入相同：%q", eff.Input)
	case eff.Discarded == eff.Input:
		return fmt.Errorf("discarded 输出路径不能与输入相同：%q", eff.Input)
	case eff.Tex == eff.Discarded:
		return fmt.Errorf("tex 与 discarded 不能是同一个文件：%q", eff.Tex)
	}
	return nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 按扩展名解析 JSON 或 YAML 配置；空文件等同于空配置。
func readFileConfig(path string) (FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, err
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
			return FileConfig{}, err
		}
	default:
		if len(bytes.TrimSpace(b)) == 0 {
			return FileConfig{}, nil
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fc); err != nil {
			return FileConfig{}, err
		}
	}
	return fc, nil
}
