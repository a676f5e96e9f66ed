package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AI.Provider != "gemini" {
		t.Errorf("AI.Provider = %q, want gemini", cfg.AI.Provider)
	}
	if cfg.Chat.MaxMessageLength != 500 {
		t.Errorf("Chat.MaxMessageLength = %d, want 500", cfg.Chat.MaxMessageLength)
	}
	if cfg.ConversationLog.Key != "portfolio:conversations" {
		t.Errorf("ConversationLog.Key = %q", cfg.ConversationLog.Key)
	}
	if cfg.ConversationLog.MaxEntries != 500 {
		t.Errorf("ConversationLog.MaxEntries = %d, want 500", cfg.ConversationLog.MaxEntries)
	}
	if cfg.Quota.MaxMessages != 15 {
		t.Errorf("Quota.MaxMessages = %d, want 15", cfg.Quota.MaxMessages)
	}
	if cfg.Quota.Window != 24*time.Hour {
		t.Errorf("Quota.Window = %v, want 24h", cfg.Quota.Window)
	}
	if cfg.AI.TimeoutDuration() != 45*time.Second {
		t.Errorf("AI.TimeoutDuration() = %v", cfg.AI.TimeoutDuration())
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
ai:
  provider: openai
  openai:
    model: gpt-4.1-mini
chat:
  maxHistory: 10
conversationLog:
  backend: none
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AI.Provider != "openai" {
		t.Errorf("AI.Provider = %q, want openai", cfg.AI.Provider)
	}
	if got := cfg.AI.Active().Model; got != "gpt-4.1-mini" {
		t.Errorf("Active().Model = %q", got)
	}
	// 文件未覆盖的键保留默认值
	if got := cfg.AI.Active().BaseURL; got != "https://api.openai.com/v1" {
		t.Errorf("Active().BaseURL = %q", got)
	}
	if cfg.Chat.MaxHistory != 10 {
		t.Errorf("Chat.MaxHistory = %d, want 10", cfg.Chat.MaxHistory)
	}
	if cfg.ConversationLog.Backend != "none" {
		t.Errorf("ConversationLog.Backend = %q, want none", cfg.ConversationLog.Backend)
	}
}

func TestLoad_EnvAliases(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("CONVERSATIONS_SECRET", "s3cret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PORTFOLIO_CHAT_MAXHISTORY", "4")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AI.Gemini.APIKey != "gem-key" {
		t.Errorf("AI.Gemini.APIKey = %q", cfg.AI.Gemini.APIKey)
	}
	if cfg.Admin.ConversationsSecret != "s3cret" {
		t.Errorf("Admin.ConversationsSecret = %q", cfg.Admin.ConversationsSecret)
	}
	if !cfg.Redis.Configured() {
		t.Error("Redis.Configured() = false, want true")
	}
	if cfg.Chat.MaxHistory != 4 {
		t.Errorf("Chat.MaxHistory = %d, want 4", cfg.Chat.MaxHistory)
	}
}

func TestAIConfig_Active(t *testing.T) {
	cfg := AIConfig{
		Gemini:   ProviderConfig{Model: "g"},
		OpenAI:   ProviderConfig{Model: "o"},
		DeepSeek: ProviderConfig{Model: "d"},
	}

	tests := []struct {
		provider string
		want     string
	}{
		{"gemini", "g"},
		{"openai", "o"},
		{"deepseek", "d"},
		{"", "g"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg.Provider = tt.provider
			if got := cfg.Active().Model; got != tt.want {
				t.Errorf("Active().Model = %q, want %q", got, tt.want)
			}
		})
	}
}
