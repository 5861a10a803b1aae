package locale

import (
	"golang.org/x/text/language"
)

// Strings holds the user-facing text of one locale
type Strings struct {
	Tag language.Tag

	HeaderEnglish string
	HeaderChinese string

	NoImages        string
	AlreadyRunning  string
	NothingToExport string
	NoWords         string
	FormatError     string
	GenericError    string
}

var english = Strings{
	Tag:             language.English,
	HeaderEnglish:   "English Word",
	HeaderChinese:   "Chinese Translation",
	NoImages:        "Please select at least one image.",
	AlreadyRunning:  "An analysis is already running.",
	NothingToExport: "There are no words to export.",
	NoWords:         "No prominent English words were recognized in any image.",
	FormatError:     "The recognition result was not in the expected format. Please try another image or try again later.",
	GenericError:    "Word recognition failed. Please try again later.",
}

var traditionalChinese = Strings{
	Tag:             language.TraditionalChinese,
	HeaderEnglish:   "英文單字",
	HeaderChinese:   "中文翻譯",
	NoImages:        "請先選擇至少一張圖片！",
	AlreadyRunning:  "圖片分析進行中。",
	NothingToExport: "沒有可匯出的單字。",
	NoWords:         "未從任何圖片中辨識到主要的英文單字。",
	FormatError:     "文字辨識結果格式不正確，請嘗試其他圖片或稍後再試。",
	GenericError:    "文字辨識失敗，請稍後再試。",
}

var supported = []Strings{english, traditionalChinese}

var matcher = language.NewMatcher([]language.Tag{english.Tag, traditionalChinese.Tag})

// For returns the strings best matching the given BCP 47 tags or
// Accept-Language values. English is the fallback.
func For(tags ...string) Strings {
	var want []language.Tag
	for _, t := range tags {
		if t == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(t)
		if err != nil {
			continue
		}
		want = append(want, parsed...)
	}
	if len(want) == 0 {
		return english
	}
	_, idx, conf := matcher.Match(want...)
	if conf == language.No {
		return english
	}
	return supported[idx]
}

// Supported reports whether tag parses and matches one of the bundled locales.
func Supported(tag string) bool {
	t, err := language.Parse(tag)
	if err != nil {
		return false
	}
	_, _, conf := matcher.Match(t)
	return conf != language.No
}
