package deck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileInvalid  = errors.New("profile invalid")
	ErrEmailImmutable  = errors.New("email cannot be changed")
)

type ProfileId string

// Served instead of empty or broken photo urls.
const PlaceholderPhotoUrl = "/static/placeholder.png"

// Profile is one directory entry. Json field names define the persisted
// layout, so renaming them breaks already stored collections.
type Profile struct {
	Id          ProfileId  `json:"id,omitempty"`
	Name        string     `json:"name" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       string     `json:"phone" validate:"required"`
	Location    string     `json:"location" validate:"required"`
	PhotoUrl    string     `json:"photoUrl,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description" validate:"required"`
	Interests   string     `json:"interests,omitempty"`
	Skills      []string   `json:"skills,omitempty"`
	Experience  Experience `json:"experience"`
}

var profileValidate = validator.New()

// Validate checks presence of the required fields and the email shape.
// No other format validation is enforced.
func (p Profile) Validate() error {
	err := profileValidate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fmt.Errorf("%w: field %s failed on %s",
			ErrProfileInvalid, strings.ToLower(fieldErrs[0].Field()), fieldErrs[0].Tag())
	}
	return fmt.Errorf("validate profile: %w", err)
}

// SameIdentity reports whether two records refer to the same directory
// entry. Records carrying ids match by id only. Legacy records stored
// without ids match by email, case-sensitive. Mixed id presence never
// matches.
func (p Profile) SameIdentity(other Profile) bool {
	switch {
	case p.Id != "" && other.Id != "":
		return p.Id == other.Id
	case p.Id == "" && other.Id == "":
		return p.Email == other.Email
	default:
		return false
	}
}

// InterestTags splits the raw comma-delimited interests string into
// trimmed display tags. The stored form stays the raw string.
func (p Profile) InterestTags() []string {
	tags := []string{}
	for _, part := range strings.Split(p.Interests, ",") {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (p Profile) PhotoOrPlaceholder() string {
	if p.PhotoUrl == "" {
		return PlaceholderPhotoUrl
	}
	return p.PhotoUrl
}

// SkillCatalog is the fixed set of skills selectable on the profile form.
var SkillCatalog = []string{
	"JavaScript", "Python", "Java", "C", "C++", "C#", "Ruby", "PHP", "Swift",
	"Go", "Rust", "TypeScript", "React", "Angular", "Vue", "Node.js", "Django",
	"Flask", "Spring", "ASP.NET", "SQL", "MongoDB", "Firebase", "AWS", "Azure",
	"Docker", "Kubernetes", "TensorFlow", "PyTorch", "Git",
}

// ToggleSkill removes the skill when present and appends it at the end
// when absent. Untouched elements keep their order, so toggling twice
// restores the original set.
func ToggleSkill(skills []string, skill string) []string {
	for i, s := range skills {
		if s == skill {
			toggled := make([]string, 0, len(skills)-1)
			toggled = append(toggled, skills[:i]...)
			return append(toggled, skills[i+1:]...)
		}
	}
	toggled := make([]string, 0, len(skills)+1)
	toggled = append(toggled, skills...)
	return append(toggled, skill)
}

type ProfileStore interface {
	// LoadAll returns the full persisted collection. A missing or
	// unparsable slot degrades to an empty collection, never an error.
	LoadAll(ctx context.Context) ([]Profile, error)

	// SaveAll overwrites the entire persisted collection. No merge,
	// no partial update.
	SaveAll(ctx context.Context, profiles []Profile) error
}
