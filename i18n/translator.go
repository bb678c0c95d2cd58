package i18n

import "sync/atomic"

// Translator retrieves localized labels for Issue codes.
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
		case "type_mismatch":
			return "型が一致しません"
		case "range_or_precision":
			return "数値の範囲または精度を超えています"
		case "unsupported":
			return "サポートされていない型です"
		case "unknown_property":
			return "未知のプロパティです"
		case "document_id_conflict":
			return "ドキュメントIDが競合しています"
		case "recursion_limit":
			return "最大深度を超えました"
		case "mapper_build":
			return "マッパーを構築できません"
		case "invalid_target":
			return "出力先が不正です"
		case "internal":
			return "内部エラー"
		case "parse_error":
			return "解析エラー"
		case "duplicate_key":
			return "キーが重複しています"
		}
	default: // "en"
		switch code {
		case "type_mismatch":
			return "type mismatch"
		case "range_or_precision":
			return "numeric range or precision loss"
		case "unsupported":
			return "unsupported construct"
		case "unknown_property":
			return "unknown property"
		case "document_id_conflict":
			return "document id conflict"
		case "recursion_limit":
			return "recursion limit exceeded"
		case "mapper_build":
			return "mapper build failed"
		case "invalid_target":
			return "invalid target"
		case "internal":
			return "internal error"
		case "parse_error":
			return "parse error"
		case "duplicate_key":
			return "duplicate key"
		}
	}
	return code
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return current.Load().tr.Message(code, data)
}
