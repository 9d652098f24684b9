package main

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/ccp-p/video-translate-server/internal/controller"
	"github.com/ccp-p/video-translate-server/pkg/models"
	"github.com/ccp-p/video-translate-server/pkg/utils"
)

var (
	port     = flag.Int("port", 0, "HTTP监听端口（覆盖PORT环境变量）")
	logLevel = flag.String("log-level", "", "日志级别 (debug, info, warn, error)")
	logFile  = flag.String("log-file", "", "日志文件路径")
	envFile  = flag.String("env", ".env", "环境变量文件路径")
)

func main() {
	// 解析命令行参数
	flag.Parse()

	// 加载.env文件，不存在时忽略
	_ = godotenv.Load(*envFile)

	// 加载配置
	config := models.NewDefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		return
	}

	// 命令行参数覆盖环境变量
	if *port != 0 {
		config.Port = *port
	}
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}
	if *logFile != "" {
		config.LogFile = *logFile
	}

	// 初始化日志
	if err := utils.InitLogger(config.LogLevel, config.LogFile); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		return
	}

	// 打印欢迎信息
	printWelcome()

	// 检查外部依赖是否可用
	if !checkDependencies() {
		utils.Fatal("缺少必要的依赖项，无法继续")
	}

	if config.OpenAIAPIKey == "" {
		utils.Warn("未设置OPENAI_API_KEY，所有请求必须自带api_key")
	}

	// 创建视频处理控制器
	videoProcessor = controller.NewVideoProcessor(config)

	// 注册路由
	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/api/", apiHandler)

	addr := fmt.Sprintf(":%d", config.Port)
	utils.Info("服务器启动，监听端口 %s", addr)

	// 启动服务器
	if err := http.ListenAndServe(addr, nil); err != nil {
		utils.Fatal("服务器启动失败: %v", err)
	}
}

// printWelcome 打印欢迎信息
func printWelcome() {
	color.Cyan("==================================")
	color.Cyan("    视频翻译服务 Video Translate")
	color.Cyan("==================================")
	fmt.Println()
}

// checkDependencies 检查yt-dlp和ffmpeg是否可用
func checkDependencies() bool {
	ok := true

	if !utils.CheckYtDlp() {
		utils.Error("未找到yt-dlp，请先安装: https://github.com/yt-dlp/yt-dlp")
		ok = false
	}

	if !utils.CheckFFmpeg() {
		utils.Error("未找到ffmpeg，音频提取需要ffmpeg支持")
		ok = false
	}

	return ok
}
