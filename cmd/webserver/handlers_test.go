package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ccp-p/video-translate-server/internal/controller"
	"github.com/ccp-p/video-translate-server/pkg/models"
	"github.com/ccp-p/video-translate-server/pkg/utils"
)

// --- 模拟流水线组件 ---

type stubDownloader struct {
	err error
}

func (s *stubDownloader) DownloadAudio(ctx context.Context, url string, start, end *float64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "/tmp/stub.mp3", nil
}

func (s *stubDownloader) Cleanup(path string) {}

type stubTranscriber struct{}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioPath string) (*models.Transcript, error) {
	return &models.Transcript{
		Text: "uno dos tres",
		Segments: []models.Segment{
			{Start: 0, End: 1, Text: "uno"},
			{Start: 1, End: 2, Text: "dos"},
			{Start: 2, End: 3, Text: "tres"},
		},
	}, nil
}

type stubTranslator struct{}

func (s *stubTranslator) Translate(ctx context.Context, segments []models.Segment, targetLang string) ([]models.Segment, error) {
	result := make([]models.Segment, len(segments))
	for i, seg := range segments {
		result[i] = models.Segment{Start: seg.Start, End: seg.End, Text: "[" + targetLang + "]" + seg.Text}
	}
	return result, nil
}

// setupProcessor 用模拟组件装配全局处理器
func setupProcessor(t *testing.T, serverKey string, downloadErr error) {
	t.Helper()

	config := models.NewDefaultConfig()
	config.OpenAIAPIKey = serverKey

	videoProcessor = &controller.VideoProcessor{
		Config:     config,
		Downloader: &stubDownloader{err: downloadErr},
		NewTranscriber: func(apiKey string) controller.Transcriber {
			return &stubTranscriber{}
		},
		NewTranslator: func(apiKey string) controller.Translator {
			return &stubTranslator{}
		},
	}
}

func postProcessVideo(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/process-video", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	apiHandler(rec, req)
	return rec
}

// TestHandleHealth 测试健康检查端点
func TestHandleHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

// TestHandleLanguages 测试语言列表端点的内容和顺序
func TestHandleLanguages(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	rec := httptest.NewRecorder()

	apiHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var languages []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	err := json.Unmarshal(rec.Body.Bytes(), &languages)
	assert.NoError(t, err)
	assert.Equal(t, 6, len(languages))
	assert.Equal(t, "es", languages[0].Code)
	assert.Equal(t, "Spanish", languages[0].Name)
	assert.Equal(t, "en", languages[5].Code)
}

// TestProcessVideoEndToEnd 测试完整的处理请求：两种目标语言
func TestProcessVideoEndToEnd(t *testing.T) {
	setupProcessor(t, "sk-server", nil)

	rec := postProcessVideo(`{"video_url": "https://example/x", "target_languages": ["es", "fr"]}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ProcessVideoResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "https://example/x", resp.VideoURL)
	assert.Equal(t, []string{"es", "fr"}, resp.TargetLanguages)
	assert.Equal(t, 3, len(resp.Original))

	assert.Equal(t, 2, len(resp.Translations))
	for _, lang := range []string{"es", "fr"} {
		translated, ok := resp.Translations[lang]
		assert.True(t, ok, "应包含语言 "+lang)
		assert.Equal(t, len(resp.Original), len(translated))
	}
	assert.Equal(t, "[es]uno", resp.Translations["es"][0].Text)
}

// TestProcessVideoScalarLanguage 测试target_languages为单个字符串的兼容形式
func TestProcessVideoScalarLanguage(t *testing.T) {
	setupProcessor(t, "sk-server", nil)

	rec := postProcessVideo(`{"video_url": "https://example/x", "target_languages": "fr"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ProcessVideoResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, []string{"fr"}, resp.TargetLanguages)
	assert.Contains(t, resp.Translations, "fr")
}

// TestProcessVideoDefaultLanguage 测试未指定目标语言时默认西班牙语
func TestProcessVideoDefaultLanguage(t *testing.T) {
	setupProcessor(t, "sk-server", nil)

	rec := postProcessVideo(`{"video_url": "https://example/x"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ProcessVideoResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, []string{"es"}, resp.TargetLanguages)
	assert.Contains(t, resp.Translations, "es")
}

// TestProcessVideoMissingURL 测试缺少video_url返回400
func TestProcessVideoMissingURL(t *testing.T) {
	setupProcessor(t, "sk-server", nil)

	rec := postProcessVideo(`{"target_languages": ["es"]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "video_url")
}

// TestProcessVideoInvalidStartTime 测试非数值的start_time返回400
func TestProcessVideoInvalidStartTime(t *testing.T) {
	setupProcessor(t, "sk-server", nil)

	rec := postProcessVideo(`{"video_url": "https://example/x", "start_time": "abc"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestProcessVideoNoCredentials 测试无可用密钥返回400
func TestProcessVideoNoCredentials(t *testing.T) {
	setupProcessor(t, "", nil)

	rec := postProcessVideo(`{"video_url": "https://example/x"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Error)
}

// TestProcessVideoPipelineError 测试流水线失败返回500和错误信息
func TestProcessVideoPipelineError(t *testing.T) {
	setupProcessor(t, "sk-server",
		utils.NewRetrievalError("下载音频失败", errors.New("video unavailable")))

	rec := postProcessVideo(`{"video_url": "https://example/x"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Contains(t, resp.Error, "下载音频失败")
}

// TestProcessVideoMethodNotAllowed 测试GET访问处理端点被拒绝
func TestProcessVideoMethodNotAllowed(t *testing.T) {
	setupProcessor(t, "sk-server", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/process-video", nil)
	rec := httptest.NewRecorder()
	apiHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// TestAPIUnknownPath 测试未知API路径返回404
func TestAPIUnknownPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()
	apiHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestLanguageListUnmarshal 测试LanguageList两种JSON形式的解析
func TestLanguageListUnmarshal(t *testing.T) {
	var fromString LanguageList
	err := json.Unmarshal([]byte(`"de"`), &fromString)
	assert.NoError(t, err)
	assert.Equal(t, LanguageList{"de"}, fromString)

	var fromList LanguageList
	err = json.Unmarshal([]byte(`["de", "ja"]`), &fromList)
	assert.NoError(t, err)
	assert.Equal(t, LanguageList{"de", "ja"}, fromList)

	var invalid LanguageList
	err = json.Unmarshal([]byte(`123`), &invalid)
	assert.Error(t, err)
}
