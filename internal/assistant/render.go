package assistant

import (
	"fmt"
	"strings"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Renderer 终端渲染
type Renderer struct {
	width     int
	user      lipgloss.Style
	assistant lipgloss.Style
	chip      lipgloss.Style
	notice    lipgloss.Style
	muted     lipgloss.Style
}

// NewRenderer 创建渲染器，width 为气泡最大宽度
func NewRenderer(width int) *Renderer {
	if width <= 0 {
		width = 72
	}
	return &Renderer{
		width: width,
		user: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7C3AED")).
			Padding(0, 1),
		assistant: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A78BFA")).
			Padding(0, 1),
		chip: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#C4B5FD")).
			Padding(0, 1),
		notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B45309")).
			Italic(true),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")),
	}
}

// Turn 渲染一条消息，助手消息下方附带区域跳转标签
func (r *Renderer) Turn(t model.ChatTurn) string {
	if t.Role == model.RoleUser {
		return lipgloss.NewStyle().Width(r.width).Align(lipgloss.Right).
			Render(r.user.Render(t.Text))
	}

	bubble := r.assistant.Width(r.width).Render(t.Text)
	if len(t.Sections) == 0 {
		return bubble
	}
	return lipgloss.JoinVertical(lipgloss.Left, bubble, r.Chips(t.Sections))
}

// Chips 区域标签
func (r *Renderer) Chips(sections []model.SectionID) string {
	chips := make([]string, 0, len(sections))
	for _, s := range sections {
		chips = append(chips, r.chip.Render("→ "+s.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

// Starters 示例问题列表
func (r *Renderer) Starters(questions []string) string {
	var sb strings.Builder
	sb.WriteString(r.muted.Render("Try asking:"))
	for i, q := range questions {
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, q))
	}
	return sb.String()
}

// Notice 提示信息
func (r *Renderer) Notice(text string) string {
	return r.notice.Render(text)
}

// Remaining 剩余次数
func (r *Renderer) Remaining(n int) string {
	return r.muted.Render(fmt.Sprintf("%d of %d questions left", n, MaxMessages))
}
