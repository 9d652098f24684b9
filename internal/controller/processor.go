package controller

import (
	"context"

	"github.com/ccp-p/video-translate-server/pkg/download"
	"github.com/ccp-p/video-translate-server/pkg/llm"
	"github.com/ccp-p/video-translate-server/pkg/models"
	"github.com/ccp-p/video-translate-server/pkg/transcribe"
	"github.com/ccp-p/video-translate-server/pkg/translate"
	"github.com/ccp-p/video-translate-server/pkg/utils"
)

// AudioDownloader 是音频获取组件的接口
type AudioDownloader interface {
	DownloadAudio(ctx context.Context, url string, start, end *float64) (string, error)
	Cleanup(path string)
}

// Transcriber 是语音转写组件的接口
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*models.Transcript, error)
}

// Translator 是分批翻译组件的接口
type Translator interface {
	Translate(ctx context.Context, segments []models.Segment, targetLang string) ([]models.Segment, error)
}

// ProcessRequest 表示一次视频处理请求
type ProcessRequest struct {
	VideoURL        string
	TargetLanguages []string
	StartTime       *float64
	EndTime         *float64
	APIKey          string // 请求级密钥，优先于服务端默认密钥
}

// ProcessResult 表示处理结果：原始段落和按语言代码分组的译文段落
type ProcessResult struct {
	Original     []models.Segment
	Translations map[string][]models.Segment
}

// VideoProcessor 视频处理控制器，协调下载、转写、翻译和清理
// 转写和翻译组件按请求创建，以便使用请求级的API密钥
type VideoProcessor struct {
	Config         *models.Config
	Downloader     AudioDownloader
	NewTranscriber func(apiKey string) Transcriber
	NewTranslator  func(apiKey string) Translator
}

// NewVideoProcessor 创建视频处理控制器并装配默认组件
func NewVideoProcessor(config *models.Config) *VideoProcessor {
	return &VideoProcessor{
		Config:     config,
		Downloader: download.NewYtDlpDownloader(config.TempDir),
		NewTranscriber: func(apiKey string) Transcriber {
			return transcribe.NewWhisperClient(apiKey)
		},
		NewTranslator: func(apiKey string) Translator {
			return translate.NewTranslator(llm.NewOpenAIClient(apiKey), config.TranslateWorkers)
		},
	}
}

// ResolveAPIKey 解析本次请求使用的API密钥
// 请求内密钥优先，其次是服务端默认密钥，两者都没有属于客户端错误
func (p *VideoProcessor) ResolveAPIKey(requestKey string) (string, error) {
	if requestKey != "" {
		return requestKey, nil
	}
	if p.Config.OpenAIAPIKey != "" {
		return p.Config.OpenAIAPIKey, nil
	}
	return "", utils.NewCredentialError("未配置OpenAI API密钥，请在请求中提供api_key或设置OPENAI_API_KEY")
}

// Process 执行完整的处理流水线：下载 → 转写 → 时间偏移 → 逐语言翻译
// 临时音频文件在处理结束后尽力清理
func (p *VideoProcessor) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	apiKey, err := p.ResolveAPIKey(req.APIKey)
	if err != nil {
		return nil, err
	}

	utils.Info("开始提取音频: %s", req.VideoURL)
	audioPath, err := p.Downloader.DownloadAudio(ctx, req.VideoURL, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	defer p.Downloader.Cleanup(audioPath)

	utils.Info("开始转写音频...")
	transcript, err := p.NewTranscriber(apiKey).Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	// 指定了裁剪起始时间时，把段落时间戳对齐回原始视频的时间轴
	if req.StartTime != nil {
		models.ApplyOffset(transcript.Segments, *req.StartTime)
	}

	translator := p.NewTranslator(apiKey)
	translations := make(map[string][]models.Segment, len(req.TargetLanguages))
	for _, lang := range req.TargetLanguages {
		utils.Info("翻译到 %s...", lang)
		translated, err := translator.Translate(ctx, transcript.Segments, lang)
		if err != nil {
			return nil, err
		}
		translations[lang] = translated
	}

	return &ProcessResult{
		Original:     transcript.Segments,
		Translations: translations,
	}, nil
}
