package filesystem

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// validatePath 验证路径是否安全
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}

	// 1. 检查路径长度
	if len(path) > 2000 {
		return fmt.Errorf("path too long: %d characters", len(path))
	}

	// 2. 检查是否包含路径遍历
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal detected: %s", path)
		}
	}

	return nil
}

// normalizePath 转换为绝对路径并清理
func normalizePath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	cleanPath := filepath.Clean(absPath)

	// Windows 文件系统不区分大小写
	if runtime.GOOS == "windows" {
		cleanPath = strings.ToLower(cleanPath)
	}

	return cleanPath
}
