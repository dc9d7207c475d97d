package models

import (
	"encoding/json"
	"strings"

	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxSkillsPerList caps how many skills a user may offer or want.
const MaxSkillsPerList = 20

// AvailabilityOptions are the only values accepted in User.Availability.
var AvailabilityOptions = []string{
	"weekdays",
	"weekends",
	"mornings",
	"afternoons",
	"evenings",
	"nights",
	"flexible",
}

type User struct {
	gorm.Model
	Name          string         `json:"name"`
	Email         string         `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string         `json:"-"`
	Location      string         `json:"location"`
	ProfilePhoto  string         `json:"profilePhoto"`
	SkillsOffered datatypes.JSON `json:"skillsOffered"`
	SkillsWanted  datatypes.JSON `json:"skillsWanted"`
	Availability  datatypes.JSON `json:"availability"`
	IsPublic      *bool          `json:"isPublic"`
	IsBanned      bool           `json:"isBanned" gorm:"default:false;index"`
	Role          string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin
}

// Custom JSON marshaling so the JSON columns render as arrays, never as raw bytes
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		SkillsOffered []string `json:"skillsOffered"`
		SkillsWanted  []string `json:"skillsWanted"`
		Availability  []string `json:"availability"`
		*Alias
	}{
		SkillsOffered: StringList(u.SkillsOffered),
		SkillsWanted:  StringList(u.SkillsWanted),
		Availability:  StringList(u.Availability),
		Alias:         (*Alias)(u),
	}
	return json.Marshal(aux)
}

func (u *User) SkillsOfferedList() []string { return StringList(u.SkillsOffered) }
func (u *User) SkillsWantedList() []string  { return StringList(u.SkillsWanted) }
func (u *User) AvailabilityList() []string  { return StringList(u.Availability) }

func (u *User) SetSkillsOffered(names []string) { u.SkillsOffered = ToStringList(names) }
func (u *User) SetSkillsWanted(names []string)  { u.SkillsWanted = ToStringList(names) }
func (u *User) SetAvailability(values []string) { u.Availability = ToStringList(values) }

// Public returns true unless the profile was explicitly made private.
func (u *User) Public() bool {
	return u.IsPublic == nil || *u.IsPublic
}

func (u *User) OffersSkill(name string) bool {
	return slices.Contains(u.SkillsOfferedList(), name)
}

// NormalizeSkillList trims entries, drops empties and removes duplicates while
// keeping first-seen order.
func NormalizeSkillList(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ValidAvailability reports whether every value is a known availability option.
func ValidAvailability(values []string) bool {
	for _, v := range values {
		if !slices.Contains(AvailabilityOptions, v) {
			return false
		}
	}
	return true
}
