package main

import (
	"encoding/json"
	"fmt"

	"github.com/ccp-p/video-translate-server/pkg/models"
)

// --- 请求结构体 ---

// LanguageList 目标语言列表，兼容字符串和字符串数组两种JSON形式
type LanguageList []string

// UnmarshalJSON 实现json.Unmarshaler接口
func (l *LanguageList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = LanguageList{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("target_languages 必须是字符串或字符串数组")
	}
	*l = LanguageList(list)
	return nil
}

type ProcessVideoRequest struct {
	VideoURL        string       `json:"video_url"`
	TargetLanguages LanguageList `json:"target_languages"`
	StartTime       *float64     `json:"start_time"` // 使用指针以区分未提供和 0
	EndTime         *float64     `json:"end_time"`
	APIKey          string       `json:"api_key"`
}

// --- 响应结构体 ---

type ProcessVideoResponse struct {
	Success         bool                        `json:"success"`
	Original        []models.Segment            `json:"original"`
	Translations    map[string][]models.Segment `json:"translations"`
	VideoURL        string                      `json:"video_url"`
	TargetLanguages []string                    `json:"target_languages"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
