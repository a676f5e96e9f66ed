package chat

import (
	"testing"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantReply string
		want      []model.SectionID
	}{
		{
			name:      "unknown token dropped",
			input:     "Hello there.\nSECTIONS: work, about, xyz",
			wantReply: "Hello there.",
			want:      []model.SectionID{model.SectionWork, model.SectionAbout},
		},
		{
			name:      "no directive",
			input:     "  I can only answer questions about Anannya.  ",
			wantReply: "I can only answer questions about Anannya.",
			want:      []model.SectionID{},
		},
		{
			name:      "case folded",
			input:     "She studied at Duke.\nsections: Education, SKILLS",
			wantReply: "She studied at Duke.",
			want:      []model.SectionID{model.SectionEducation, model.SectionSkills},
		},
		{
			name:      "markdown decoration",
			input:     "Answer.\n**SECTIONS: projects, research**",
			wantReply: "Answer.",
			want:      []model.SectionID{model.SectionProjects, model.SectionResearch},
		},
		{
			name:      "duplicates kept",
			input:     "Answer.\nSECTIONS: work, work",
			wantReply: "Answer.",
			want:      []model.SectionID{model.SectionWork, model.SectionWork},
		},
		{
			name:      "empty directive",
			input:     "Answer.\nSECTIONS:",
			wantReply: "Answer.",
			want:      []model.SectionID{},
		},
		{
			name:      "directive only",
			input:     "SECTIONS: contact",
			wantReply: "",
			want:      []model.SectionID{model.SectionContact},
		},
		{
			name:      "multiple directives",
			input:     "First.\nSECTIONS: work\nSecond.\nSECTIONS: skills",
			wantReply: "First.\n\nSecond.",
			want:      []model.SectionID{model.SectionWork, model.SectionSkills},
		},
		{
			name:      "crlf line ending",
			input:     "Answer.\r\nSECTIONS: about\r\n",
			wantReply: "Answer.",
			want:      []model.SectionID{model.SectionAbout},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, sections := ParseDirective(tt.input)
			if reply != tt.wantReply {
				t.Errorf("reply = %q, want %q", reply, tt.wantReply)
			}
			if sections == nil {
				t.Fatal("sections is nil, want empty slice")
			}
			if len(sections) != len(tt.want) {
				t.Fatalf("sections = %v, want %v", sections, tt.want)
			}
			for i := range tt.want {
				if sections[i] != tt.want[i] {
					t.Errorf("sections[%d] = %s, want %s", i, sections[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseDirective_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello there.\nSECTIONS: work, about, xyz",
		"Plain answer",
		"a\nSECTIONS: skills\nb",
	}
	for _, in := range inputs {
		once, _ := ParseDirective(in)
		twice, sections := ParseDirective(once)
		if twice != once {
			t.Errorf("ParseDirective(ParseDirective(%q)) = %q, want %q", in, twice, once)
		}
		if len(sections) != 0 {
			t.Errorf("second pass sections = %v, want empty", sections)
		}
	}
}
