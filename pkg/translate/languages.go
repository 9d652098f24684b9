package translate

// Language 表示一种支持的目标语言
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SupportedLanguages 固定的支持语言列表，顺序即API返回顺序
var SupportedLanguages = []Language{
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "zh", Name: "Chinese (Simplified)"},
	{Code: "ja", Name: "Japanese"},
	{Code: "en", Name: "English"},
}

// LanguageName 根据语言代码解析人类可读的语言名称
// 未知代码原样返回，直接作为提示词中的语言名使用
func LanguageName(code string) string {
	for _, lang := range SupportedLanguages {
		if lang.Code == code {
			return lang.Name
		}
	}
	return code
}
