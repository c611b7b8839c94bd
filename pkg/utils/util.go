package utils

// DereferenceSeed は、int64のポインタを安全にデリファレンスします。
// ポインタがnilの場合は0を返します。
func DereferenceSeed(seed *int64) int64 {
	if seed == nil {
		return 0
	}
	return *seed
}

// SeedToPtrInt32 は *int64 のシード値を Gemini SDK が期待する *int32 に変換します。
// int32 の範囲を超える値は下位ビットに切り詰められますが、
// シードの再現性においては期待どおりの挙動です。
func SeedToPtrInt32(seed *int64) *int32 {
	if seed == nil {
		return nil
	}
	v := int32(*seed)
	return &v
}

// TruncateRunes は文字列をルーン単位で最大 max 文字に切り詰めます。
// 切り詰めが発生した場合は末尾に省略記号を付与します。
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
