package translate

import (
	"fmt"
	"strings"
)

// ResponseDecoder 将模型返回的自由文本解析为按批内位置对齐的译文列表
// 解析不出的位置返回空字符串，由调用方决定回退策略
// 抽象成接口是为了将来可以替换为更严格的结构化输出协议，
// 而不用改动分批和排序逻辑
type ResponseDecoder interface {
	Decode(response string, count int) []string
}

// NumberedLineDecoder 解析 "<序号>. <译文>" 格式的按行编号响应
type NumberedLineDecoder struct{}

// Decode 实现ResponseDecoder接口
// 对每个批内位置idx，优先查找以 "idx." 开头的行，取第一个 "." 之后的内容；
// 找不到时退而使用第idx行的原始内容（尽力而为的按位置回退）
// 已知局限：段落文本本身含换行或以 "<数字>." 开头时会干扰解析
func (d *NumberedLineDecoder) Decode(response string, count int) []string {
	lines := strings.Split(strings.TrimSpace(response), "\n")
	result := make([]string, count)

	for idx := 0; idx < count; idx++ {
		prefix := fmt.Sprintf("%d.", idx)
		translated := ""

		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, prefix) {
				parts := strings.SplitN(trimmed, ".", 2)
				if len(parts) == 2 {
					translated = strings.TrimSpace(parts[1])
				}
				break
			}
		}

		if translated == "" && idx < len(lines) {
			translated = strings.TrimSpace(lines[idx])
		}

		result[idx] = translated
	}

	return result
}
