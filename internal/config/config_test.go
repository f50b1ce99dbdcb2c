package config

import (
	"testing"
	"time"
)

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_IDS", "")

	if _, err := Load(); err == nil {
		t.Error("Expected an error when TELEGRAM_BOT_TOKEN is missing")
	}

	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	if _, err := Load(); err == nil {
		t.Error("Expected an error when TELEGRAM_CHAT_IDS is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_IDS", "111, 222")
	t.Setenv("VHS_SEARCHES", "")
	t.Setenv("STATE_DIR", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("SFTP_HOST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(cfg.TelegramChatIDs) != 2 || cfg.TelegramChatIDs[0] != "111" || cfg.TelegramChatIDs[1] != "222" {
		t.Errorf("Expected trimmed chat ids, got %v", cfg.TelegramChatIDs)
	}
	if cfg.StateDir != "state" {
		t.Errorf("Expected default state dir 'state', got '%s'", cfg.StateDir)
	}
	if cfg.FetchTimeout != 60*time.Second {
		t.Errorf("Expected default timeout 60s, got %v", cfg.FetchTimeout)
	}

	if len(cfg.Searches) != 1 {
		t.Fatalf("Expected 1 default search, got %d", len(cfg.Searches))
	}
	s := cfg.Searches[0]
	if s.Name != "Goldschmieden|Schmuck" {
		t.Errorf("Expected default search name, got '%s'", s.Name)
	}
	if s.StateKey != "goldschmieden-schmuck" {
		t.Errorf("Expected default state key, got '%s'", s.StateKey)
	}
	if cfg.Mirror.Enabled() {
		t.Error("Expected mirror to be disabled without SFTP_HOST")
	}
}

func TestLoadCustomSearches(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_IDS", "111")
	t.Setenv("VHS_SEARCHES", "Goldschmieden=https://example.com/a; Töpfern & Keramik=https://example.com/b")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(cfg.Searches) != 2 {
		t.Fatalf("Expected 2 searches, got %d", len(cfg.Searches))
	}
	if cfg.Searches[0].URL != "https://example.com/a" {
		t.Errorf("Expected first url, got '%s'", cfg.Searches[0].URL)
	}
	if cfg.Searches[1].Name != "Töpfern & Keramik" {
		t.Errorf("Expected second name preserved, got '%s'", cfg.Searches[1].Name)
	}
	if cfg.Searches[1].StateKey != "töpfern-keramik" {
		t.Errorf("Expected derived state key, got '%s'", cfg.Searches[1].StateKey)
	}
}

func TestLoadInvalidSearches(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_IDS", "111")
	t.Setenv("VHS_SEARCHES", "no-url-here")

	if _, err := Load(); err == nil {
		t.Error("Expected an error for malformed VHS_SEARCHES")
	}
}

func TestStateKeyForName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Goldschmieden|Schmuck", "goldschmieden-schmuck"},
		{"Töpfern & Keramik", "töpfern-keramik"},
		{"  spaces  ", "spaces"},
		{"Already-Fine", "already-fine"},
	}
	for _, tt := range tests {
		if got := StateKeyForName(tt.in); got != tt.want {
			t.Errorf("StateKeyForName(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
