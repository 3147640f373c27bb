package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// 通过可替换的函数指针，让测试能稳定模拟 EXDEV / 中途 rename 失败等错误。
var renameFunc = os.Rename

// PathTypeConflictError 表示目标路径类型冲突（例如期望文件但实际是目录）。
type PathTypeConflictError struct {
	Path string
	Want string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("目标路径类型冲突：%q（期望 %s，实际 %s）", e.Path, e.Want, e.Got)
}

func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// CrossDeviceError 表示跨盘（EXDEV）导致的 rename 失败。
// 临时文件总是与目标同目录，正常情况下不会出现；出现时直接失败，不做 copy+delete。
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("跨盘移动失败（EXDEV）：%q -> %q：%v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice 判断 err 是否为跨盘（EXDEV）错误。
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename 封装 os.Rename，并把 EXDEV 显式标记为 CrossDeviceError。
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// File 是一次提交中的一个目标文件。
type File struct {
	Path string
	Data []byte
}

// CommitError 表示 WriteFilesAtomic 失败；Path 是出错的目标文件。
// 返回该错误时，所有目标文件都已恢复到提交前的状态（best-effort 回滚）。
type CommitError struct {
	Path string
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("写入 %q 失败：%v", e.Path, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// WriteFilesAtomic 把多个文件作为一个整体写入：要么全部替换成功，要么全部保持原状。
//
// 流程：
// 1) stage：每个目标在同目录写临时文件（前缀带 '.'）并 fsync；任一失败 => 删除全部临时文件
// 2) commit：依次把已存在的目标改名为备份，再把临时文件改名到目标
// 3) 任一 rename 失败 => 倒序回滚已提交的目标（删除新文件 / 备份改回原名）
// 4) 全部成功后删除备份，目录 fsync 采用 best-effort
func WriteFilesAtomic(files []File) error {
	staged := make([]*stagedFile, 0, len(files))
	defer func() {
		// 无论成功失败，残留的临时文件都要清理；commit 成功的条目 tmp 已置空。
		for _, s := range staged {
			if s.tmp != "" {
				_ = os.Remove(s.tmp)
			}
		}
	}()

	for _, f := range files {
		s, err := stage(f.Path, f.Data, 0o644)
		if err != nil {
			return &CommitError{Path: f.Path, Err: err}
		}
		staged = append(staged, s)
	}

	done := make([]*stagedFile, 0, len(staged))
	for _, s := range staged {
		if err := s.commit(); err != nil {
			rollback(done)
			return &CommitError{Path: s.dst, Err: err}
		}
		done = append(done, s)
	}

	for _, s := range done {
		if s.backup != "" {
			_ = os.Remove(s.backup)
		}
		_ = syncDirBestEffort(filepath.Dir(s.dst))
	}
	return nil
}

type stagedFile struct {
	dst    string
	tmp    string
	backup string
}

func stage(dst string, data []byte, perm os.FileMode) (*stagedFile, error) {
	dst = filepath.Clean(dst)
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	if fi, err := os.Lstat(dst); err == nil {
		if fi.IsDir() {
			return nil, &PathTypeConflictError{Path: dst, Want: "file", Got: "dir"}
		}
		if !fi.Mode().IsRegular() {
			return nil, &PathTypeConflictError{Path: dst, Want: "regular file", Got: fi.Mode().Type().String()}
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return nil, err
	}
	s := &stagedFile{dst: dst, tmp: tmp.Name()}

	if err := writeAll(tmp, data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(s.tmp)
		return nil, err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(s.tmp)
		return nil, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(s.tmp)
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(s.tmp)
		return nil, err
	}
	return s, nil
}

func (s *stagedFile) commit() error {
	if _, err := os.Lstat(s.dst); err == nil {
		backup := s.tmp + ".bak"
		if err := Rename(s.dst, backup); err != nil {
			return err
		}
		s.backup = backup
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := Rename(s.tmp, s.dst); err != nil {
		if s.backup != "" {
			if rerr := Rename(s.backup, s.dst); rerr == nil {
				s.backup = ""
			}
		}
		return err
	}
	// tmp 已变成最终文件，不能再被清理。
	s.tmp = ""
	return nil
}

func rollback(done []*stagedFile) {
	// 回滚顺序：倒序（更符合栈语义）。
	for i := len(done) - 1; i >= 0; i-- {
		s := done[i]
		if s.backup != "" {
			if err := Rename(s.backup, s.dst); err == nil {
				s.backup = ""
			}
			continue
		}
		_ = os.Remove(s.dst)
	}
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func syncDirBestEffort(dir string) error {
	// Windows 上目录 Sync 的语义与支持情况不稳定，这里直接跳过。
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
