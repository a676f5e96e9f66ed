package model

import "strings"

// SectionID 作品集页面的锚点区域
type SectionID string

const (
	SectionAbout      SectionID = "about"
	SectionWork       SectionID = "work"
	SectionResearch   SectionID = "research"
	SectionProjects   SectionID = "projects"
	SectionExperience SectionID = "experience"
	SectionSkills     SectionID = "skills"
	SectionEducation  SectionID = "education"
	SectionContact    SectionID = "contact"
)

// AllSections 页面顺序排列的全部区域
var AllSections = []SectionID{
	SectionAbout,
	SectionWork,
	SectionResearch,
	SectionProjects,
	SectionExperience,
	SectionSkills,
	SectionEducation,
	SectionContact,
}

var sectionLabels = map[SectionID]string{
	SectionAbout:      "About",
	SectionWork:       "Work",
	SectionResearch:   "Research",
	SectionProjects:   "Projects",
	SectionExperience: "Experience",
	SectionSkills:     "Skills",
	SectionEducation:  "Education",
	SectionContact:    "Contact",
}

// ParseSectionID 解析区域名，大小写和首尾空白不敏感
func ParseSectionID(s string) (SectionID, bool) {
	id := SectionID(strings.ToLower(strings.TrimSpace(s)))
	_, ok := sectionLabels[id]
	return id, ok
}

// Label 区域显示名
func (s SectionID) Label() string {
	if l, ok := sectionLabels[s]; ok {
		return l
	}
	return string(s)
}
