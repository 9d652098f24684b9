package translate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ccp-p/video-translate-server/pkg/models"
	"github.com/ccp-p/video-translate-server/pkg/utils"
)

const (
	// BatchSize 单个翻译批次的最大段落数
	BatchSize = 10

	// DefaultWorkers 默认的并行批次工作协程数
	DefaultWorkers = 4

	// temperature 较低的随机性，保证翻译结果可复现
	temperature = 0.3
)

// ChatBackend 定义了翻译器依赖的文本生成后端接口
type ChatBackend interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

// Translator 分批翻译器，将带时间戳的段落翻译到目标语言
// 输出与输入长度和顺序完全一致，时间戳原样保留
type Translator struct {
	Backend ChatBackend
	Decoder ResponseDecoder
	Workers int
}

// NewTranslator 创建一个新的分批翻译器
func NewTranslator(backend ChatBackend, workers int) *Translator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Translator{
		Backend: backend,
		Decoder: &NumberedLineDecoder{},
		Workers: workers,
	}
}

// Translate 将段落列表翻译到目标语言
// 返回的段落列表与输入等长、同序，时间戳逐项保留；
// 单条译文解析失败时退回该段原文，绝不丢段
func (t *Translator) Translate(ctx context.Context, segments []models.Segment, targetLang string) ([]models.Segment, error) {
	if len(segments) == 0 {
		return []models.Segment{}, nil
	}

	langName := LanguageName(targetLang)
	batches := splitBatches(segments, BatchSize)

	workers := t.Workers
	if workers > len(batches) {
		workers = len(batches)
	}

	var batchResults [][]models.Segment
	var err error

	if workers <= 1 || len(batches) == 1 {
		batchResults, err = t.translateSequential(ctx, batches, langName)
	} else {
		batchResults, err = t.translateParallel(ctx, batches, langName, workers)
	}

	if err != nil {
		return nil, err
	}

	// 按批次索引顺序拼接，保证全局顺序与输入一致
	result := make([]models.Segment, 0, len(segments))
	for _, batch := range batchResults {
		result = append(result, batch...)
	}

	return result, nil
}

// translateSequential 按顺序逐批翻译
func (t *Translator) translateSequential(ctx context.Context, batches [][]models.Segment, langName string) ([][]models.Segment, error) {
	results := make([][]models.Segment, len(batches))

	for i, batch := range batches {
		translated, err := t.translateBatch(ctx, batch, langName)
		if err != nil {
			return nil, err
		}
		results[i] = translated
	}

	return results, nil
}

// translateParallel 并行翻译多个批次，结果按批次索引写入固定位置
// 无论哪个协程先完成，最终拼接顺序只取决于批次索引
func (t *Translator) translateParallel(ctx context.Context, batches [][]models.Segment, langName string, workers int) ([][]models.Segment, error) {
	results := make([][]models.Segment, len(batches))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	sem := make(chan struct{}, workers) // 信号量限制并发

	for i, batch := range batches {
		wg.Add(1)
		sem <- struct{}{} // 获取信号量

		go func(index int, segs []models.Segment) {
			defer wg.Done()
			defer func() { <-sem }() // 释放信号量

			translated, err := t.translateBatch(ctx, segs, langName)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[index] = translated
		}(i, batch)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return results, nil
}

// translateBatch 翻译单个批次
func (t *Translator) translateBatch(ctx context.Context, batch []models.Segment, langName string) ([]models.Segment, error) {
	system := fmt.Sprintf("You are a professional translator. Translate the following numbered lines to %s. "+
		"Maintain the same numbering and format. Only output the translated text with numbers, nothing else.", langName)
	prompt := buildPrompt(batch)

	response, err := t.Backend.Complete(ctx, system, prompt, temperature)
	if err != nil {
		return nil, utils.NewTranslationError("翻译后端调用失败", err)
	}

	texts := t.Decoder.Decode(response, len(batch))

	result := make([]models.Segment, len(batch))
	for idx, seg := range batch {
		text := strings.TrimSpace(texts[idx])
		if text == "" {
			// 解析失败时保留原文
			text = seg.Text
		}
		result[idx] = models.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		}
	}

	return result, nil
}

// buildPrompt 将批次内的段落渲染为 "<批内序号>. <文本>" 的编号行
// 序号是批内0起始的局部位置，响应据此与批次对齐，
// 不依赖模型原样回显文本
func buildPrompt(batch []models.Segment) string {
	lines := make([]string, len(batch))
	for idx, seg := range batch {
		lines[idx] = fmt.Sprintf("%d. %s", idx, seg.Text)
	}
	return strings.Join(lines, "\n")
}

// splitBatches 将段落切分为若干个连续批次，每批最多batchSize条
func splitBatches(segments []models.Segment, batchSize int) [][]models.Segment {
	var batches [][]models.Segment
	for i := 0; i < len(segments); i += batchSize {
		end := i + batchSize
		if end > len(segments) {
			end = len(segments)
		}
		batches = append(batches, segments[i:end])
	}
	return batches
}
