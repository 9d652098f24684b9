package models

import "strings"

// Segment 表示转写结果中一个带时间戳的文本段落
type Segment struct {
	Start float64 `json:"start"` // 开始时间（秒）
	End   float64 `json:"end"`   // 结束时间（秒）
	Text  string  `json:"text"`  // 文本内容
}

// Transcript 表示一次完整的转写结果
type Transcript struct {
	Text     string    `json:"text"`     // 完整文本
	Segments []Segment `json:"segments"` // 按时间顺序排列的段落
}

// NewSegment 创建一个新的Segment，文本自动去除首尾空白
func NewSegment(start, end float64, text string) Segment {
	return Segment{
		Start: start,
		End:   end,
		Text:  strings.TrimSpace(text),
	}
}

// ApplyOffset 给每个段落的开始和结束时间加上固定偏移量
// 当请求指定了裁剪起始时间时，转写服务处理的是裁剪后的音频，
// 需要加回偏移量才能对齐原始视频的时间轴
func ApplyOffset(segments []Segment, offset float64) {
	for i := range segments {
		segments[i].Start += offset
		segments[i].End += offset
	}
}
