package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ccp-p/video-translate-server/pkg/models"
	"github.com/ccp-p/video-translate-server/pkg/utils"
)

// WhisperClient 封装对OpenAI语音转写API的访问
type WhisperClient struct {
	APIKey     string
	BaseURL    string
	Model      string
	HttpClient *http.Client
}

// whisperResponse 表示verbose_json格式的转写响应
type whisperResponse struct {
	Task     string  `json:"task"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// NewWhisperClient 创建一个新的转写客户端
func NewWhisperClient(apiKey string) *WhisperClient {
	return &WhisperClient{
		APIKey:  apiKey,
		BaseURL: "https://api.openai.com",
		Model:   "whisper-1",
		HttpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
}

// Transcribe 转写音频文件并返回带段落时间戳的结果
// 后端只返回纯文本时退化为单个{0,0,全文}段落，下游翻译仍可继续
func (c *WhisperClient) Transcribe(ctx context.Context, audioPath string) (*models.Transcript, error) {
	resp, err := c.request(ctx, audioPath)
	if err != nil {
		return nil, utils.NewTranscriptionError("转写音频失败", err)
	}

	transcript := &models.Transcript{
		Text:     resp.Text,
		Segments: make([]models.Segment, 0, len(resp.Segments)),
	}

	if len(resp.Segments) > 0 {
		for _, seg := range resp.Segments {
			transcript.Segments = append(transcript.Segments, models.NewSegment(seg.Start, seg.End, seg.Text))
		}
	} else {
		// 没有段落级时间戳时的降级处理
		transcript.Segments = append(transcript.Segments, models.Segment{
			Start: 0,
			End:   0,
			Text:  resp.Text,
		})
	}

	return transcript, nil
}

// request 构造multipart请求并解析verbose_json响应
func (c *WhisperClient) request(ctx context.Context, audioPath string) (*whisperResponse, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("打开音频文件失败: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("model", c.Model); err != nil {
		return nil, fmt.Errorf("写入表单字段失败: %w", err)
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("写入表单字段失败: %w", err)
	}
	if err := writer.WriteField("timestamp_granularities[]", "segment"); err != nil {
		return nil, fmt.Errorf("写入表单字段失败: %w", err)
	}

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("创建文件表单失败: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("读取音频内容失败: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("关闭表单失败: %w", err)
	}

	url := c.BaseURL + "/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	utils.Debug("发送转写请求到 %s", url)
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API返回错误状态码: %d, 响应: %s", resp.StatusCode, string(respBody))
	}

	var result whisperResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("解析JSON响应失败: %w", err)
	}

	return &result, nil
}
