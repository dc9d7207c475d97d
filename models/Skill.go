package models

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SkillCategories is the fixed set of categories a skill may belong to.
var SkillCategories = []string{
	"Programming Languages",
	"Web Development",
	"Mobile Development",
	"Data Science",
	"Machine Learning",
	"DevOps",
	"Database",
	"Cloud Computing",
	"Cybersecurity",
	"UI/UX Design",
	"Digital Marketing",
	"Project Management",
	"Business Analysis",
	"Quality Assurance",
	"Networking",
	"System Administration",
	"Game Development",
	"Blockchain",
	"AI/Robotics",
	"Graphics Design",
	"Content Writing",
	"Photography",
	"Video Editing",
	"Music Production",
	"Teaching",
	"Language Skills",
	"Consulting",
	"Sales",
	"Finance",
	"Legal",
	"Healthcare",
	"Engineering",
	"Research",
	"Other",
}

// SkillLevels are the recognized proficiency levels. Empty is also allowed.
var SkillLevels = []string{"beginner", "intermediate", "advanced", "expert"}

type Skill struct {
	gorm.Model
	Name          string         `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Category      string         `json:"category" gorm:"size:64;index;not null"`
	Description   string         `json:"description" gorm:"size:500"`
	Aliases       datatypes.JSON `json:"aliases"`
	Tags          datatypes.JSON `json:"tags"`
	Level         string         `json:"level" gorm:"size:20"`
	IsVerified    bool           `json:"isVerified" gorm:"default:false;index"`
	IsActive      bool           `json:"isActive" gorm:"default:true;index"`
	UsageCount    int            `json:"usageCount" gorm:"default:0;check:usage_count >= 0"`
	SubmittedByID *uint          `json:"submittedBy" gorm:"index"`
	SubmittedBy   *User          `json:"-" gorm:"foreignKey:SubmittedByID"`
	VerifiedByID  *uint          `json:"verifiedBy"`
	VerifiedBy    *User          `json:"-" gorm:"foreignKey:VerifiedByID"`
	VerifiedAt    *time.Time     `json:"verifiedAt"`
	RelatedSkills datatypes.JSON `json:"relatedSkills"`
}

// Custom JSON marshaling so the JSON columns render as arrays, never as raw bytes
func (s *Skill) MarshalJSON() ([]byte, error) {
	type Alias Skill
	aux := &struct {
		Aliases       []string `json:"aliases"`
		Tags          []string `json:"tags"`
		RelatedSkills []uint   `json:"relatedSkills"`
		*Alias
	}{
		Aliases:       StringList(s.Aliases),
		Tags:          StringList(s.Tags),
		RelatedSkills: UintList(s.RelatedSkills),
		Alias:         (*Alias)(s),
	}
	return json.Marshal(aux)
}

func (s *Skill) AliasList() []string { return StringList(s.Aliases) }
func (s *Skill) TagList() []string   { return StringList(s.Tags) }

// MatchesName reports whether the given name equals the skill's canonical name
// or any of its aliases, ignoring case.
func (s *Skill) MatchesName(name string) bool {
	if strings.EqualFold(s.Name, name) {
		return true
	}
	for _, alias := range s.AliasList() {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// NormalizeSkillName rewrites a raw skill name to its canonical form: trimmed,
// each whitespace-delimited word capitalized with the rest lowercased.
func NormalizeSkillName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func ValidSkillCategory(category string) bool {
	return slices.Contains(SkillCategories, category)
}

func ValidSkillLevel(level string) bool {
	return level == "" || slices.Contains(SkillLevels, level)
}
