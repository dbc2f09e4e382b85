package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "parse_error":
			return "解析エラー"
		case "truncated":
			return "入力が途中で終わっています"
		case "invalid_type":
			return "型が不正です"
		case "invalid_literal":
			return "リテラルを変換できません"
		case "invalid_enum":
			return "列挙値が不正です"
		case "invalid_format":
			return "形式が不正です"
		case "overflow":
			return "値が範囲外です"
		case "unknown_key":
			return "未知のキーです"
		case "missing_field":
			return "必須フィールドが不足しています"
		case "invalid_index":
			return "要素インデックスが不正です"
		case "discriminator_missing":
			return "型識別子がありません"
		case "discriminator_unknown":
			return "未知の型識別子です"
		case "not_registered":
			return "シリアライザが登録されていません"
		}
	default: // "en"
		switch code {
		case "parse_error":
			return "parse error"
		case "truncated":
			return "unexpected end of input"
		case "invalid_type":
			return "invalid type"
		case "invalid_literal":
			return "invalid literal"
		case "invalid_enum":
			return "invalid enum value"
		case "invalid_format":
			return "invalid format"
		case "overflow":
			return "value out of range"
		case "unknown_key":
			return "unknown key"
		case "missing_field":
			return "required field missing"
		case "invalid_index":
			return "invalid element index"
		case "discriminator_missing":
			return "type discriminator missing"
		case "discriminator_unknown":
			return "unknown type discriminator"
		case "not_registered":
			return "serializer not registered"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
