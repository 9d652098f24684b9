package download

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ccp-p/video-translate-server/pkg/utils"
)

// YtDlpDownloader 通过yt-dlp命令行工具下载视频音轨
// 每次下载使用uuid生成唯一文件名，并发请求共用临时目录也不会冲突
type YtDlpDownloader struct {
	TempDir string
}

// NewYtDlpDownloader 创建一个新的下载器
func NewYtDlpDownloader(tempDir string) *YtDlpDownloader {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &YtDlpDownloader{TempDir: tempDir}
}

// DownloadAudio 下载视频的音轨为mp3文件，返回本地文件路径
// start/end 为可选的裁剪区间（秒），通过ffmpeg后处理参数实现
func (d *YtDlpDownloader) DownloadAudio(ctx context.Context, url string, start, end *float64) (string, error) {
	if err := utils.EnsureDirExists(d.TempDir); err != nil {
		return "", utils.NewRetrievalError("创建临时目录失败", err)
	}

	fileID := uuid.New().String()
	outputTemplate := filepath.Join(d.TempDir, fileID+".%(ext)s")
	audioPath := filepath.Join(d.TempDir, fileID+".mp3")

	args := buildArgs(url, outputTemplate, start, end)

	utils.Info("开始下载音频: %s", url)
	utils.Debug("yt-dlp参数: %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", utils.NewRetrievalError(
			fmt.Sprintf("下载音频失败, yt-dlp输出: %s", strings.TrimSpace(string(output))), err)
	}

	if !utils.CheckFileExists(audioPath) {
		return "", utils.NewRetrievalError(fmt.Sprintf("下载完成但未找到音频文件: %s", audioPath), nil)
	}

	utils.Info("音频下载完成: %s", audioPath)
	return audioPath, nil
}

// Cleanup 删除临时音频文件，删除失败只记录日志不向上传播
func (d *YtDlpDownloader) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		utils.Warn("清理临时文件失败 %s: %v", path, err)
	}
}

// buildArgs 构造yt-dlp命令行参数
func buildArgs(url, outputTemplate string, start, end *float64) []string {
	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"-o", outputTemplate,
		"--quiet",
		"--no-warnings",
	}

	// 裁剪区间通过ffmpeg后处理参数实现，结束时间转换为时长
	if start != nil || end != nil {
		var ppArgs []string
		if start != nil {
			ppArgs = append(ppArgs, "-ss", fmt.Sprintf("%g", *start))
		}
		if end != nil {
			offset := 0.0
			if start != nil {
				offset = *start
			}
			ppArgs = append(ppArgs, "-t", fmt.Sprintf("%g", *end-offset))
		}
		args = append(args, "--postprocessor-args", "ffmpeg:"+strings.Join(ppArgs, " "))
	}

	args = append(args, url)
	return args
}
