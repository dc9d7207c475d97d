package models

import "testing"

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"javascript", "Javascript"},
		{"  machine learning  ", "Machine Learning"},
		{"REACT NATIVE", "React Native"},
		{"c++", "C++"},
		{"data   science", "Data Science"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeSkillName(tt.in); got != tt.want {
			t.Errorf("NormalizeSkillName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSkillMatchesName(t *testing.T) {
	skill := Skill{
		Name:    "JavaScript",
		Aliases: ToStringList([]string{"JS", "ECMAScript"}),
	}

	for _, name := range []string{"JavaScript", "javascript", "JS", "js", "ecmascript"} {
		if !skill.MatchesName(name) {
			t.Errorf("MatchesName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"Java", "Script", ""} {
		if skill.MatchesName(name) {
			t.Errorf("MatchesName(%q) = true, want false", name)
		}
	}
}

func TestValidSkillCategory(t *testing.T) {
	if !ValidSkillCategory("Programming Languages") {
		t.Error("known category rejected")
	}
	if ValidSkillCategory("Snowboarding") {
		t.Error("unknown category accepted")
	}
	if ValidSkillCategory("") {
		t.Error("empty category accepted")
	}
}

func TestValidSkillLevel(t *testing.T) {
	for _, level := range []string{"", "beginner", "intermediate", "advanced", "expert"} {
		if !ValidSkillLevel(level) {
			t.Errorf("ValidSkillLevel(%q) = false, want true", level)
		}
	}
	if ValidSkillLevel("grandmaster") {
		t.Error("unknown level accepted")
	}
}
