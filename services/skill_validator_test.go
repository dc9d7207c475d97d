package services

import (
	"errors"
	"strings"
	"testing"

	"skillswap-server/models"
)

type adjustCall struct {
	names []string
	delta int
}

// fakeSkillSource is an in-memory registry for validator tests.
type fakeSkillSource struct {
	skills  []models.Skill
	listErr error
	adjusts []adjustCall
	submits int
}

func newFakeSource(skills ...models.Skill) *fakeSkillSource {
	return &fakeSkillSource{skills: skills}
}

func verifiedSkill(name, category string, aliases ...string) models.Skill {
	return models.Skill{
		Name:       name,
		Category:   category,
		Aliases:    models.ToStringList(aliases),
		IsVerified: true,
		IsActive:   true,
	}
}

func (f *fakeSkillSource) VerifiedActiveSkills() ([]models.Skill, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Skill{}
	for _, s := range f.skills {
		if s.IsVerified && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSkillSource) FindActiveByName(name string) (*models.Skill, error) {
	for i := range f.skills {
		if f.skills[i].IsActive && strings.EqualFold(f.skills[i].Name, strings.TrimSpace(name)) {
			s := f.skills[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeSkillSource) Submit(in SubmitSkillInput, submittedBy *uint) (*models.Skill, error) {
	if !models.ValidSkillCategory(in.Category) {
		return nil, ErrBadCategory
	}
	name := models.NormalizeSkillName(in.Name)
	for i := range f.skills {
		if strings.EqualFold(f.skills[i].Name, name) {
			return nil, ErrSkillExists
		}
	}
	f.submits++
	skill := models.Skill{
		Name:          name,
		Category:      in.Category,
		Description:   in.Description,
		IsVerified:    false,
		IsActive:      true,
		SubmittedByID: submittedBy,
	}
	f.skills = append(f.skills, skill)
	return &skill, nil
}

func (f *fakeSkillSource) AdjustUsage(names []string, delta int) error {
	f.adjusts = append(f.adjusts, adjustCall{names: names, delta: delta})
	for i := range f.skills {
		if !f.skills[i].IsVerified || !f.skills[i].IsActive {
			continue
		}
		for _, name := range names {
			if strings.EqualFold(f.skills[i].Name, name) {
				next := f.skills[i].UsageCount + delta
				if next >= 0 {
					f.skills[i].UsageCount = next
				}
			}
		}
	}
	return nil
}

func TestValidateUserSkillsResolvesAliases(t *testing.T) {
	source := newFakeSource(
		verifiedSkill("JavaScript", "Programming Languages", "JS", "ECMAScript"),
		verifiedSkill("Python", "Programming Languages", "Python3"),
	)
	v := NewSkillValidator(source)

	result := v.ValidateUserSkills([]string{"javascript"}, []string{"JS", "python3"})
	if !result.Valid {
		t.Fatalf("expected valid result, got %+v", result)
	}
	if len(result.ValidatedSkillsOffered) != 1 || result.ValidatedSkillsOffered[0] != "JavaScript" {
		t.Errorf("offered = %v, want [JavaScript]", result.ValidatedSkillsOffered)
	}
	// JS and python3 both resolve to canonical names.
	if len(result.ValidatedSkillsWanted) != 2 || result.ValidatedSkillsWanted[0] != "JavaScript" || result.ValidatedSkillsWanted[1] != "Python" {
		t.Errorf("wanted = %v, want [JavaScript Python]", result.ValidatedSkillsWanted)
	}
}

func TestValidateUserSkillsDedupesResolvedNames(t *testing.T) {
	source := newFakeSource(verifiedSkill("JavaScript", "Programming Languages", "JS"))
	v := NewSkillValidator(source)

	result := v.ValidateUserSkills([]string{"JS", "javascript", "JavaScript"}, nil)
	if !result.Valid {
		t.Fatalf("expected valid result, got %+v", result)
	}
	if len(result.ValidatedSkillsOffered) != 1 {
		t.Errorf("offered = %v, want single canonical entry", result.ValidatedSkillsOffered)
	}
}

func TestValidateUserSkillsUnknownName(t *testing.T) {
	source := newFakeSource(
		verifiedSkill("JavaScript", "Programming Languages"),
		verifiedSkill("Java", "Programming Languages"),
		verifiedSkill("Go", "Programming Languages"),
	)
	v := NewSkillValidator(source)

	result := v.ValidateUserSkills([]string{"JavaScript", "Underwater Basket Weaving"}, nil)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.InvalidSkills) != 1 || result.InvalidSkills[0] != "Underwater Basket Weaving" {
		t.Errorf("invalidSkills = %v", result.InvalidSkills)
	}
	if !strings.Contains(result.Message, "Underwater Basket Weaving") {
		t.Errorf("message %q does not name the invalid skill", result.Message)
	}
	// The known name still resolves even when the result is invalid.
	if len(result.ValidatedSkillsOffered) != 1 || result.ValidatedSkillsOffered[0] != "JavaScript" {
		t.Errorf("offered = %v, want [JavaScript]", result.ValidatedSkillsOffered)
	}
}

func TestValidateUserSkillsSubstringSuggestions(t *testing.T) {
	source := newFakeSource(
		verifiedSkill("JavaScript", "Programming Languages"),
		verifiedSkill("Java", "Programming Languages"),
		verifiedSkill("TypeScript", "Programming Languages"),
	)
	v := NewSkillValidator(source)

	result := v.ValidateUserSkills([]string{"jav"}, nil)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	for _, s := range result.Suggestions {
		if !strings.Contains(strings.ToLower(s), "jav") {
			t.Errorf("suggestion %q does not contain the input", s)
		}
	}
	if len(result.Suggestions) > 3 {
		t.Errorf("got %d suggestions, want at most 3 per invalid name", len(result.Suggestions))
	}
}

func TestValidateUserSkillsFuzzySuggestionFallback(t *testing.T) {
	source := newFakeSource(
		verifiedSkill("Python", "Programming Languages"),
		verifiedSkill("Go", "Programming Languages"),
	)
	v := NewSkillValidator(source)

	// No verified name contains "pyton"; fuzzy matching still finds Python.
	result := v.ValidateUserSkills([]string{"Pyton"}, nil)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	found := false
	for _, s := range result.Suggestions {
		if s == "Python" {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions = %v, want Python via fuzzy match", result.Suggestions)
	}
}

func TestValidateUserSkillsEmptyInput(t *testing.T) {
	v := NewSkillValidator(newFakeSource())

	result := v.ValidateUserSkills(nil, []string{"  ", ""})
	if !result.Valid {
		t.Fatalf("empty lists must validate, got %+v", result)
	}
	if result.ValidatedSkillsOffered == nil || result.ValidatedSkillsWanted == nil || result.InvalidSkills == nil {
		t.Error("result slices must be non-nil")
	}
}

func TestValidateUserSkillsSourceError(t *testing.T) {
	source := newFakeSource(verifiedSkill("Go", "Programming Languages"))
	source.listErr = errors.New("connection refused")
	v := NewSkillValidator(source)

	result := v.ValidateUserSkills([]string{"Go"}, nil)
	if result.Valid {
		t.Fatal("lookup failure must not validate")
	}
	if result.Message == "" {
		t.Error("expected a user-facing message")
	}
	if len(result.InvalidSkills) != 0 {
		t.Errorf("lookup failure must not mark skills invalid, got %v", result.InvalidSkills)
	}
}

func TestProcessCustomSkillsCreatesAndReuses(t *testing.T) {
	source := newFakeSource(verifiedSkill("Python", "Programming Languages"))
	v := NewSkillValidator(source)

	offered := []CustomSkill{
		{Name: "rust programming", Category: "Programming Languages"},
		{Name: "python", Category: "Programming Languages"},
	}
	result, err := v.ProcessCustomSkills(offered, nil, 7)
	if err != nil {
		t.Fatalf("ProcessCustomSkills: %v", err)
	}
	if len(result.Created) != 1 || result.Created[0].Name != "Rust Programming" {
		t.Fatalf("created = %+v, want one Rust Programming row", result.Created)
	}
	if len(result.OfferedRefs) != 2 {
		t.Fatalf("refs = %+v", result.OfferedRefs)
	}
	if result.OfferedRefs[0].Verified {
		t.Error("newly created skill must be unverified")
	}
	if !result.OfferedRefs[1].Verified || result.OfferedRefs[1].Name != "Python" {
		t.Errorf("existing skill ref = %+v, want verified Python", result.OfferedRefs[1])
	}
	if sub := result.Created[0].SubmittedByID; sub == nil || *sub != 7 {
		t.Errorf("submittedBy = %v, want 7", sub)
	}
}

func TestProcessCustomSkillsIdempotent(t *testing.T) {
	source := newFakeSource()
	v := NewSkillValidator(source)

	input := []CustomSkill{{Name: "Welding", Category: "Engineering"}}
	first, err := v.ProcessCustomSkills(input, nil, 1)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := v.ProcessCustomSkills(input, nil, 1)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if len(first.Created) != 1 || len(second.Created) != 0 {
		t.Errorf("created counts = %d, %d; want 1, 0", len(first.Created), len(second.Created))
	}
	if source.submits != 1 {
		t.Errorf("submits = %d, want 1", source.submits)
	}
	if len(second.OfferedRefs) != 1 || second.OfferedRefs[0].Name != "Welding" {
		t.Errorf("second refs = %+v", second.OfferedRefs)
	}
}

func TestProcessCustomSkillsSkipsIncompleteEntries(t *testing.T) {
	source := newFakeSource()
	v := NewSkillValidator(source)

	result, err := v.ProcessCustomSkills([]CustomSkill{
		{Name: "   ", Category: "Other"},
		{Name: "Carving", Category: ""},
	}, nil, 1)
	if err != nil {
		t.Fatalf("ProcessCustomSkills: %v", err)
	}
	if len(result.Created) != 0 || len(result.OfferedRefs) != 0 {
		t.Errorf("incomplete entries must be skipped, got %+v", result)
	}
}

func TestUpdateSkillUsageCounts(t *testing.T) {
	source := newFakeSource(
		verifiedSkill("Go", "Programming Languages"),
		verifiedSkill("Python", "Programming Languages"),
		verifiedSkill("Rust", "Programming Languages"),
	)
	source.skills[0].UsageCount = 2
	source.skills[1].UsageCount = 1
	v := NewSkillValidator(source)

	v.UpdateSkillUsageCounts([]string{"Go", "Python"}, []string{"Go", "Rust"})

	if len(source.adjusts) != 2 {
		t.Fatalf("adjust calls = %+v, want decrement then increment", source.adjusts)
	}
	dec, inc := source.adjusts[0], source.adjusts[1]
	if dec.delta != -1 || len(dec.names) != 1 || dec.names[0] != "Python" {
		t.Errorf("decrement call = %+v", dec)
	}
	if inc.delta != 1 || len(inc.names) != 1 || inc.names[0] != "Rust" {
		t.Errorf("increment call = %+v", inc)
	}
	if source.skills[0].UsageCount != 2 {
		t.Errorf("unchanged skill count = %d, want 2", source.skills[0].UsageCount)
	}
	if source.skills[1].UsageCount != 0 || source.skills[2].UsageCount != 1 {
		t.Errorf("counts after delta = %d, %d", source.skills[1].UsageCount, source.skills[2].UsageCount)
	}
}

func TestUpdateSkillUsageCountsNoChanges(t *testing.T) {
	source := newFakeSource(verifiedSkill("Go", "Programming Languages"))
	v := NewSkillValidator(source)

	v.UpdateSkillUsageCounts([]string{"Go"}, []string{"Go"})
	if len(source.adjusts) != 0 {
		t.Errorf("no-op change issued adjustments: %+v", source.adjusts)
	}
}

func TestDiffSkillLists(t *testing.T) {
	removed, added := diffSkillLists([]string{"A", "B", "C"}, []string{"B", "C", "D"})
	if len(removed) != 1 || removed[0] != "A" {
		t.Errorf("removed = %v, want [A]", removed)
	}
	if len(added) != 1 || added[0] != "D" {
		t.Errorf("added = %v, want [D]", added)
	}

	removed, added = diffSkillLists(nil, nil)
	if len(removed) != 0 || len(added) != 0 {
		t.Errorf("nil lists: removed=%v added=%v", removed, added)
	}
}
