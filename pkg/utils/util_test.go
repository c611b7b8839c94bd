package utils

import (
	"testing"
)

func TestSeedUtils(t *testing.T) {
	t.Run("dereferenceSeed: nil の場合は 0 を返すのだ", func(t *testing.T) {
		if got := DereferenceSeed(nil); got != 0 {
			t.Errorf("expected 0, got %v", got)
		}
	})

	t.Run("dereferenceSeed: 値がある場合はその値を返すのだ", func(t *testing.T) {
		var val int64 = 999
		if got := DereferenceSeed(&val); got != 999 {
			t.Errorf("expected 999, got %v", got)
		}
	})

	t.Run("seedToPtrInt32: nil はそのまま nil を返すのだ", func(t *testing.T) {
		if got := SeedToPtrInt32(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("seedToPtrInt32: 値は int32 に変換されるのだ", func(t *testing.T) {
		var val int64 = 42
		got := SeedToPtrInt32(&val)
		if got == nil || *got != 42 {
			t.Errorf("expected 42, got %v", got)
		}
	})
}

func TestTruncateRunes(t *testing.T) {
	t.Run("短い文字列はそのまま返る", func(t *testing.T) {
		if got := TruncateRunes("hello", 10); got != "hello" {
			t.Errorf("expected hello, got %q", got)
		}
	})

	t.Run("長い文字列は省略記号付きで切り詰められる", func(t *testing.T) {
		if got := TruncateRunes("abcdefgh", 5); got != "abcd…" {
			t.Errorf("expected abcd…, got %q", got)
		}
	})

	t.Run("マルチバイト文字列もルーン単位で切り詰められる", func(t *testing.T) {
		if got := TruncateRunes("こんにちは世界", 4); got != "こんに…" {
			t.Errorf("expected こんに…, got %q", got)
		}
	})
}
