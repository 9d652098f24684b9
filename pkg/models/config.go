package models

import (
	"fmt"
	"os"
	"strconv"
)

// Config 表示服务的运行配置，进程启动时从环境变量读取一次
type Config struct {
	Port             int    `json:"port"`              // HTTP监听端口
	OpenAIAPIKey     string `json:"-"`                 // 服务端默认API密钥（可选，请求内密钥优先）
	TranslateWorkers int    `json:"translate_workers"` // 并行翻译批次的工作协程数
	TempDir          string `json:"temp_dir"`          // 音频临时文件目录
	LogLevel         string `json:"log_level"`         // 日志级别
	LogFile          string `json:"log_file"`          // 日志文件路径
}

// ConfigValidationError 表示配置验证错误
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("配置验证错误: %s - %s", e.Field, e.Message)
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		Port:             8080,
		TranslateWorkers: 4,
		TempDir:          os.TempDir(),
		LogLevel:         "INFO",
		LogFile:          "",
	}
}

// LoadFromEnv 从环境变量加载配置，未设置的字段保持默认值
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigValidationError{"PORT", "必须是整数: " + v}
		}
		c.Port = port
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIAPIKey = v
	}

	if v := os.Getenv("TRANSLATE_WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigValidationError{"TRANSLATE_WORKERS", "必须是整数: " + v}
		}
		c.TranslateWorkers = workers
	}

	if v := os.Getenv("TEMP_DIR"); v != "" {
		c.TempDir = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv("LOG_FILE"); v != "" {
		c.LogFile = v
	}

	return c.Validate()
}

// Validate 验证配置是否有效
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return &ConfigValidationError{"Port", "必须在1-65535之间"}
	}

	if c.TranslateWorkers < 1 || c.TranslateWorkers > 16 {
		return &ConfigValidationError{"TranslateWorkers", "必须在1-16之间"}
	}

	if c.TempDir == "" {
		return &ConfigValidationError{"TempDir", "不能为空"}
	}

	return nil
}
