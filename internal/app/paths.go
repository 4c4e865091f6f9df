package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/submerge-go/internal/model"
)

// DeriveOutputPath resolves the merge destination: the explicit path when
// given, otherwise "_merged" is spliced in before the config's extension
// (defaulting to .yaml when the config path carries none).
func DeriveOutputPath(configPath, explicit string) string {
	if explicit != "" {
		return explicit
	}
	ext := filepath.Ext(configPath)
	base := strings.TrimSuffix(configPath, ext)
	if ext == "" {
		ext = ".yaml"
	}
	return base + "_merged" + ext
}

// splitFilePath builds the per-proxy file name from the node name, reduced
// to a filesystem-safe subset. Index is used for the fallback name when
// nothing safe remains.
func splitFilePath(dir, name string, index int) string {
	safe := sanitizeFileName(name)
	if safe == "" {
		safe = fmt.Sprintf("proxy_%d", index+1)
	}
	return filepath.Join(dir, safe+".yaml")
}

func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}

// uniquePath appends _1, _2, … before the extension until the path does not
// collide with an existing file.
func uniquePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// writeFileAtomic writes data to a temp file in the destination directory
// and renames it into place, so a failing write never leaves a partial
// output file behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".submerge-*")
	if err != nil {
		return writeError(path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return writeError(path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return writeError(path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return writeError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return writeError(path, err)
	}
	return nil
}

func writeError(path string, cause error) error {
	return &RunError{
		AppError: model.AppError{
			Code:    "IO_ERROR",
			Message: "写入输出文件失败",
			Stage:   "write_output",
			Source:  path,
		},
		Cause: cause,
	}
}
