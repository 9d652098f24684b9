package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ccp-p/video-translate-server/internal/controller"
	"github.com/ccp-p/video-translate-server/pkg/translate"
	"github.com/ccp-p/video-translate-server/pkg/utils"
)

// videoProcessor 全局处理器实例，main中初始化
var videoProcessor *controller.VideoProcessor

// --- Helper Functions ---

// respondWithError 发送错误 JSON 响应
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON 发送 JSON 响应
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		utils.Error("JSON 序列化错误: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "内部服务器错误：无法序列化响应"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	// 浏览器扩展等跨域客户端直接访问
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(code)
	w.Write(response)
}

// apiHandler 根据路径分发到不同的处理器
func apiHandler(w http.ResponseWriter, r *http.Request) {
	utils.Debug("接收到 API 请求: %s %s", r.Method, r.URL.Path)

	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// 移除 /api/ 前缀，方便匹配
	trimmedPath := strings.TrimPrefix(r.URL.Path, "/api/")

	switch trimmedPath {
	case "process-video":
		handleProcessVideo(w, r)
	case "languages":
		handleLanguages(w, r)
	default:
		http.NotFound(w, r)
		utils.Warn("未找到 API 处理器: %s", r.URL.Path)
	}
}

// --- API Handlers ---

// handleHealth 健康检查
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "只允许 GET 方法")
		return
	}
	respondWithJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// handleLanguages 返回固定的支持语言列表
func handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "只允许 GET 方法")
		return
	}
	respondWithJSON(w, http.StatusOK, translate.SupportedLanguages)
}

// handleProcessVideo 处理视频翻译请求
func handleProcessVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "只允许 POST 方法")
		return
	}

	var req ProcessVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的请求体: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.VideoURL == "" {
		respondWithError(w, http.StatusBadRequest, "缺少必要的字段 video_url")
		return
	}

	// 未指定目标语言时默认西班牙语
	targetLanguages := []string(req.TargetLanguages)
	if len(targetLanguages) == 0 {
		targetLanguages = []string{"es"}
	}

	result, err := videoProcessor.Process(r.Context(), controller.ProcessRequest{
		VideoURL:        req.VideoURL,
		TargetLanguages: targetLanguages,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		APIKey:          req.APIKey,
	})
	if err != nil {
		utils.Error("处理视频失败: %v", err)
		if utils.IsClientError(err) {
			respondWithError(w, http.StatusBadRequest, err.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondWithJSON(w, http.StatusOK, ProcessVideoResponse{
		Success:         true,
		Original:        result.Original,
		Translations:    result.Translations,
		VideoURL:        req.VideoURL,
		TargetLanguages: targetLanguages,
	})
}
