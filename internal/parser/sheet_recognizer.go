package parser

// SheetRecognizer 在工作簿中识别工时日志 sheet
type SheetRecognizer struct {
	mapper *FieldMapper
}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{mapper: NewFieldMapper()}
}

// Recognize 根据表头识别：置信度 = 已映射的必需列 / 必需列总数
func (r *SheetRecognizer) Recognize(sheetName string, header []string) SheetRecognitionResult {
	mappings := r.mapper.Map(header)
	return SheetRecognitionResult{
		SheetName:  sheetName,
		Confidence: float64(len(mappings)) / float64(len(RequiredFields)),
		Mappings:   mappings,
		Missing:    Missing(mappings),
	}
}

// Best 从多个识别结果中挑选置信度最高者（同分取靠前的 sheet）
func Best(results []SheetRecognitionResult) (SheetRecognitionResult, bool) {
	best := -1
	for i, r := range results {
		if best < 0 || r.Confidence > results[best].Confidence {
			best = i
		}
	}
	if best < 0 {
		return SheetRecognitionResult{}, false
	}
	return results[best], true
}
