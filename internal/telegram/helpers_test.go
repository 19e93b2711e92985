package telegram

import (
	"strings"
	"testing"

	"tracker_bot/internal/locales"
)

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/add_sources @one @two", "@one @two"},
		{"/del_keyword продажа", "продажа"},
		{"/sources", ""},
		{"/add_keywords\nслово1, слово2", "слово1, слово2"},
		{"/track   ", ""},
	}

	for _, tt := range tests {
		if got := commandArgs(tt.text); got != tt.want {
			t.Errorf("commandArgs(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestLocalizeFormatsArguments(t *testing.T) {
	got := localize(locales.LangEN, "sources_added", 3)
	if !strings.Contains(got, "3") {
		t.Errorf("expected formatted count in %q", got)
	}
}

func TestLocalizeWithoutArgumentsReturnsRawText(t *testing.T) {
	got := localize(locales.LangRU, "welcome")
	if !strings.Contains(got, "%d") {
		t.Errorf("expected raw template without args, got %q", got)
	}
}

func TestLocalizeFallsBackToRussianForUnknownLanguage(t *testing.T) {
	ru := localize(locales.LangRU, "tracking_stopped")
	got := localize("de", "tracking_stopped")
	if got != ru {
		t.Errorf("expected fallback to russian, got %q", got)
	}
}
