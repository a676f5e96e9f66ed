package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHistoryEntry_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRole Role
		wantText string
	}{
		{
			name:     "flat text",
			input:    `{"role":"user","text":"hello"}`,
			wantRole: RoleUser,
			wantText: "hello",
		},
		{
			name:     "nested parts",
			input:    `{"role":"model","parts":[{"text":"hi there"},{"text":"ignored"}]}`,
			wantRole: RoleModel,
			wantText: "hi there",
		},
		{
			name:     "text wins over parts",
			input:    `{"role":"user","text":"flat","parts":[{"text":"nested"}]}`,
			wantRole: RoleUser,
			wantText: "flat",
		},
		{
			name:     "assistant alias",
			input:    `{"role":"assistant","text":"answer"}`,
			wantRole: RoleModel,
			wantText: "answer",
		},
		{
			name:     "unknown role",
			input:    `{"role":"system","text":"x"}`,
			wantRole: "",
			wantText: "x",
		},
		{
			name:     "no text at all",
			input:    `{"role":"user","parts":[]}`,
			wantRole: RoleUser,
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h HistoryEntry
			if err := json.Unmarshal([]byte(tt.input), &h); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if h.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", h.Role, tt.wantRole)
			}
			if h.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", h.Text, tt.wantText)
			}
		})
	}
}

func TestChatRequest_MessageKeepsShape(t *testing.T) {
	var req ChatRequest
	if err := json.Unmarshal([]byte(`{"message":42,"history":[]}`), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := req.Message.(string); ok {
		t.Error("numeric message decoded as string")
	}
}

func TestParseSectionID(t *testing.T) {
	tests := []struct {
		in     string
		want   SectionID
		wantOK bool
	}{
		{"work", SectionWork, true},
		{" Skills ", SectionSkills, true},
		{"CONTACT", SectionContact, true},
		{"xyz", "xyz", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSectionID(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ParseSectionID(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSectionID_Label(t *testing.T) {
	if got := SectionEducation.Label(); got != "Education" {
		t.Errorf("Label() = %q", got)
	}
	if len(AllSections) != 8 {
		t.Errorf("len(AllSections) = %d, want 8", len(AllSections))
	}
}

func TestNewConversationLogEntry(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 30, 0, 5_000_000, time.FixedZone("MST", -7*3600))
	e := NewConversationLogEntry("q", "a", at)
	if e.Timestamp != "2025-03-01T19:30:00.005Z" {
		t.Errorf("Timestamp = %q", e.Timestamp)
	}
}
