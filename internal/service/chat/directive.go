package chat

import (
	"regexp"
	"strings"

	"github.com/Anannyachuli/Product-Portfolio/internal/model"
)

// directivePattern 匹配 SECTIONS: 指令到行尾，大小写不敏感，连同前面的 markdown 强调符号
var directivePattern = regexp.MustCompile("(?i)[*_`]*SECTIONS:[ \\t]*([^\\n]*)")

// ParseDirective 从模型回答中提取推荐区域
// 所有指令行都会从正文中移除；未知区域名被丢弃，顺序保持，不去重
// 没有指令时原样返回（去除首尾空白）且 sections 为空
func ParseDirective(text string) (string, []model.SectionID) {
	sections := make([]model.SectionID, 0)

	matches := directivePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(text), sections
	}

	var sb strings.Builder
	prev := 0
	for _, m := range matches {
		sb.WriteString(text[prev:m[0]])
		prev = m[1]

		for _, token := range strings.Split(text[m[2]:m[3]], ",") {
			if id, ok := model.ParseSectionID(strings.Trim(token, " \t\r*`.")); ok {
				sections = append(sections, id)
			}
		}
	}
	sb.WriteString(text[prev:])

	return strings.TrimSpace(sb.String()), sections
}
