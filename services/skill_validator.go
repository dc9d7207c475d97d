package services

import (
	"fmt"
	"log"
	"strings"

	"skillswap-server/models"

	"github.com/sahilm/fuzzy"
	"golang.org/x/exp/slices"
)

const maxSuggestionsPerName = 3

// SkillSource is the registry surface the validator needs. *SkillRegistry
// satisfies it; tests plug in an in-memory fake.
type SkillSource interface {
	VerifiedActiveSkills() ([]models.Skill, error)
	FindActiveByName(name string) (*models.Skill, error)
	Submit(in SubmitSkillInput, submittedBy *uint) (*models.Skill, error)
	AdjustUsage(names []string, delta int) error
}

// SkillValidator reconciles user-submitted skill name lists against the
// registry.
type SkillValidator struct {
	skills SkillSource
}

func NewSkillValidator(skills SkillSource) *SkillValidator {
	return &SkillValidator{skills: skills}
}

// ValidationResult reports which supplied names resolved to a verified skill.
// Validated lists carry canonical registry names, so aliases are normalized
// on write.
type ValidationResult struct {
	Valid                  bool     `json:"valid"`
	Message                string   `json:"message,omitempty"`
	ValidatedSkillsOffered []string `json:"validatedSkillsOffered"`
	ValidatedSkillsWanted  []string `json:"validatedSkillsWanted"`
	InvalidSkills          []string `json:"invalidSkills"`
	Suggestions            []string `json:"suggestions,omitempty"`

	// Canonical maps each supplied name to its registry form. Names with no
	// verified match are absent. Not part of the response body.
	Canonical map[string]string `json:"-"`
}

// ValidateUserSkills resolves both lists against verified, active skills by
// case-insensitive name or alias equality. Read-only. A registry lookup
// failure yields valid=false with empty lists; callers must treat that as
// "validation unavailable", not "all skills invalid".
func (v *SkillValidator) ValidateUserSkills(offered, wanted []string) ValidationResult {
	union := models.NormalizeSkillList(append(append([]string{}, offered...), wanted...))
	if len(union) == 0 {
		return ValidationResult{
			Valid:                  true,
			ValidatedSkillsOffered: []string{},
			ValidatedSkillsWanted:  []string{},
			InvalidSkills:          []string{},
		}
	}

	verified, err := v.skills.VerifiedActiveSkills()
	if err != nil {
		log.Printf("skill validation lookup failed: %v", err)
		return ValidationResult{
			Valid:                  false,
			Message:                "Error validating skills. Please try again.",
			ValidatedSkillsOffered: []string{},
			ValidatedSkillsWanted:  []string{},
			InvalidSkills:          []string{},
		}
	}

	// Map each supplied name to its canonical registry name.
	canonical := make(map[string]string, len(union))
	for _, supplied := range union {
		for i := range verified {
			if verified[i].MatchesName(supplied) {
				canonical[supplied] = verified[i].Name
				break
			}
		}
	}

	invalid := []string{}
	for _, supplied := range union {
		if _, ok := canonical[supplied]; !ok {
			invalid = append(invalid, supplied)
		}
	}

	result := ValidationResult{
		ValidatedSkillsOffered: resolveNames(offered, canonical),
		ValidatedSkillsWanted:  resolveNames(wanted, canonical),
		InvalidSkills:          invalid,
		Canonical:              canonical,
	}

	if len(invalid) > 0 {
		result.Valid = false
		result.Suggestions = suggestSkills(invalid, verified)
		result.Message = fmt.Sprintf(
			"The following skills are not verified: %s. Please choose from verified skills or submit them for verification.",
			strings.Join(invalid, ", "),
		)
		return result
	}

	result.Valid = true
	return result
}

func resolveNames(supplied []string, canonical map[string]string) []string {
	out := []string{}
	for _, name := range models.NormalizeSkillList(supplied) {
		if resolved, ok := canonical[name]; ok && !slices.Contains(out, resolved) {
			out = append(out, resolved)
		}
	}
	return out
}

// suggestSkills finds up to three similar verified skills per invalid name:
// case-insensitive substring over name, aliases and tags first, then fuzzy
// ranking over canonical names when nothing contains the input. Deduplicated
// across all invalid names.
func suggestSkills(invalid []string, verified []models.Skill) []string {
	names := make([]string, len(verified))
	for i := range verified {
		names[i] = verified[i].Name
	}

	suggestions := []string{}
	for _, input := range invalid {
		found := 0
		needle := strings.ToLower(input)
		for i := range verified {
			if found >= maxSuggestionsPerName {
				break
			}
			if skillContains(&verified[i], needle) {
				if !slices.Contains(suggestions, verified[i].Name) {
					suggestions = append(suggestions, verified[i].Name)
				}
				found++
			}
		}
		if found > 0 {
			continue
		}
		for _, match := range fuzzy.Find(input, names) {
			if found >= maxSuggestionsPerName {
				break
			}
			if !slices.Contains(suggestions, match.Str) {
				suggestions = append(suggestions, match.Str)
			}
			found++
		}
	}
	return suggestions
}

func skillContains(skill *models.Skill, needle string) bool {
	if strings.Contains(strings.ToLower(skill.Name), needle) {
		return true
	}
	for _, alias := range skill.AliasList() {
		if strings.Contains(strings.ToLower(alias), needle) {
			return true
		}
	}
	for _, tag := range skill.TagList() {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// SkillRef is a resolved skill reference: canonical name plus whether it
// points at a verified registry row. Unverified refs exist so a custom skill
// can appear in a profile before an admin approves it.
type SkillRef struct {
	Name     string
	Category string
	Verified bool
}

// RefNames flattens refs to the name strings stored on the user record.
func RefNames(refs []SkillRef) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if !slices.Contains(names, ref.Name) {
			names = append(names, ref.Name)
		}
	}
	return names
}

// CustomSkill is a user-submitted {name, category} pair for a skill the
// registry does not know yet.
type CustomSkill struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// CustomSkillResult reports what ProcessCustomSkills created and how the
// final canonical names split back into offered vs wanted.
type CustomSkillResult struct {
	Created     []models.Skill
	OfferedRefs []SkillRef
	WantedRefs  []SkillRef
}

// ProcessCustomSkills creates an unverified registry row for every custom
// skill whose name has no active match, reusing the canonical name of rows
// that already exist. Safe to call twice with the same input: the second call
// finds the row the first one created. A duplicate-key race between identical
// concurrent submissions resolves by re-reading the winning row.
func (v *SkillValidator) ProcessCustomSkills(offered, wanted []CustomSkill, userID uint) (CustomSkillResult, error) {
	result := CustomSkillResult{Created: []models.Skill{}}

	var submitter *uint
	if userID != 0 {
		submitter = &userID
	}

	resolve := func(custom CustomSkill) (SkillRef, error) {
		existing, err := v.skills.FindActiveByName(custom.Name)
		if err != nil {
			return SkillRef{}, err
		}
		if existing != nil {
			return SkillRef{Name: existing.Name, Category: existing.Category, Verified: existing.IsVerified}, nil
		}

		created, err := v.skills.Submit(SubmitSkillInput{
			Name:        custom.Name,
			Category:    custom.Category,
			Description: custom.Description,
		}, submitter)
		if err == ErrSkillExists {
			winner, findErr := v.skills.FindActiveByName(custom.Name)
			if findErr != nil {
				return SkillRef{}, findErr
			}
			if winner != nil {
				return SkillRef{Name: winner.Name, Category: winner.Category, Verified: winner.IsVerified}, nil
			}
			return SkillRef{}, err
		}
		if err != nil {
			return SkillRef{}, err
		}
		result.Created = append(result.Created, *created)
		return SkillRef{Name: created.Name, Category: created.Category, Verified: false}, nil
	}

	seen := map[string]SkillRef{}
	process := func(list []CustomSkill) ([]SkillRef, error) {
		refs := []SkillRef{}
		for _, custom := range list {
			if strings.TrimSpace(custom.Name) == "" || custom.Category == "" {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(custom.Name))
			ref, ok := seen[key]
			if !ok {
				var err error
				ref, err = resolve(custom)
				if err != nil {
					return nil, err
				}
				seen[key] = ref
			}
			refs = append(refs, ref)
		}
		return refs, nil
	}

	var err error
	if result.OfferedRefs, err = process(offered); err != nil {
		return CustomSkillResult{Created: []models.Skill{}}, err
	}
	if result.WantedRefs, err = process(wanted); err != nil {
		return CustomSkillResult{Created: []models.Skill{}}, err
	}
	return result, nil
}

// UpdateSkillUsageCounts adjusts usage counters after a user's skill set
// changed: -1 for names dropped, +1 for names added. Only verified, active
// skills are counted; decrements floor at zero. Best effort: failures are
// logged and never fail the parent operation.
func (v *SkillValidator) UpdateSkillUsageCounts(oldNames, newNames []string) {
	removed, added := diffSkillLists(oldNames, newNames)

	if len(removed) > 0 {
		if err := v.skills.AdjustUsage(removed, -1); err != nil {
			log.Printf("skill usage decrement failed: %v", err)
		}
	}
	if len(added) > 0 {
		if err := v.skills.AdjustUsage(added, 1); err != nil {
			log.Printf("skill usage increment failed: %v", err)
		}
	}
}

// diffSkillLists returns names only present in old (removed) and only present
// in new (added).
func diffSkillLists(oldNames, newNames []string) (removed, added []string) {
	removed = []string{}
	added = []string{}
	for _, name := range oldNames {
		if !slices.Contains(newNames, name) {
			removed = append(removed, name)
		}
	}
	for _, name := range newNames {
		if !slices.Contains(oldNames, name) {
			added = append(added, name)
		}
	}
	return removed, added
}
