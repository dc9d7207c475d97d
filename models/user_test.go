package models

import (
	"reflect"
	"testing"
)

func TestNormalizeSkillList(t *testing.T) {
	got := NormalizeSkillList([]string{" Go ", "Python", "Go", "", "  ", "Rust"})
	want := []string{"Go", "Python", "Rust"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeSkillList = %v, want %v", got, want)
	}

	if got := NormalizeSkillList(nil); len(got) != 0 {
		t.Errorf("NormalizeSkillList(nil) = %v, want empty", got)
	}
}

func TestValidAvailability(t *testing.T) {
	if !ValidAvailability([]string{"weekends", "evenings"}) {
		t.Error("known options rejected")
	}
	if !ValidAvailability(nil) {
		t.Error("empty availability rejected")
	}
	if ValidAvailability([]string{"weekends", "midnights"}) {
		t.Error("unknown option accepted")
	}
}

func TestUserPublic(t *testing.T) {
	var u User
	if !u.Public() {
		t.Error("nil isPublic must default to public")
	}

	yes, no := true, false
	u.IsPublic = &yes
	if !u.Public() {
		t.Error("explicit true treated as private")
	}
	u.IsPublic = &no
	if u.Public() {
		t.Error("explicit false treated as public")
	}
}

func TestUserOffersSkill(t *testing.T) {
	var u User
	u.SetSkillsOffered([]string{"Go", "Photography"})

	if !u.OffersSkill("Photography") {
		t.Error("listed skill not found")
	}
	if u.OffersSkill("Cooking") {
		t.Error("unlisted skill found")
	}
}

func TestStringListRoundTrip(t *testing.T) {
	if got := StringList(ToStringList(nil)); got == nil || len(got) != 0 {
		t.Errorf("nil round trip = %v, want empty non-nil slice", got)
	}
	got := StringList(ToStringList([]string{"a", "b"}))
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("round trip = %v", got)
	}
}
