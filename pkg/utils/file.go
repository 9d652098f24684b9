package utils

import (
	"os"
	"os/exec"
)

// CheckFileExists 检查文件是否存在
func CheckFileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureDirExists 确保目录存在，如果不存在则创建
func EnsureDirExists(dirPath string) error {
	if dirPath == "" {
		return nil // 空路径视为可选
	}

	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, 0755)
	}

	return nil
}

// CheckFFmpeg 检查ffmpeg是否可用
func CheckFFmpeg() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// CheckYtDlp 检查yt-dlp是否可用
func CheckYtDlp() bool {
	_, err := exec.LookPath("yt-dlp")
	return err == nil
}
