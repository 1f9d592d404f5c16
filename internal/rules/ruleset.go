package rules

import (
	"github.com/shrimpsizemoose/festboard/internal/models"
)

const DefaultVersion = "2024.1"

// AutoCounted names an event whose points count towards individual titles without a star,
// for students of one category.
type AutoCounted struct {
	Name     string          `toml:"name"`
	Category models.Category `toml:"category"`
}

// RuleSet is the versioned registration policy. Zero values are replaced by defaults in Prepare.
type RuleSet struct {
	Version          string          `toml:"version"`
	RestrictedEvents []string        `toml:"restricted_events"`
	DefaultTeamLimit int             `toml:"default_team_limit"`
	StageCap         int             `toml:"stage_cap"`
	StarCapLowest    int             `toml:"star_cap_lowest"`
	StarCapDefault   int             `toml:"star_cap_default"`
	LowestCategory   models.Category `toml:"lowest_category"`
	AutoCounted      []AutoCounted   `toml:"auto_counted"`
	GroupEventNames  []string        `toml:"group_event_names"`

	restricted NameSet
	groupNames NameSet
	autoByName map[string]models.Category
}

func DefaultRuleSet() *RuleSet {
	r := &RuleSet{
		Version: DefaultVersion,
		RestrictedEvents: []string{
			"Elocution",
			"Essay Writing",
			"Poem Writing",
			"Story Writing",
			"Quiz",
		},
		AutoCounted: []AutoCounted{
			{Name: "Speech Translation", Category: models.CategoryGamma},
		},
		GroupEventNames: []string{"Group Song", "Dafmuttu", "Qawwali", "Debate", "Speech Translation"},
	}
	r.Prepare()
	return r
}

// Prepare fills defaults and builds the lookup sets. It must be called after decoding from config.
func (r *RuleSet) Prepare() {
	if r.Version == "" {
		r.Version = DefaultVersion
	}
	if r.DefaultTeamLimit <= 0 {
		r.DefaultTeamLimit = 3
	}
	if r.StageCap <= 0 {
		r.StageCap = 6
	}
	if r.StarCapLowest <= 0 {
		r.StarCapLowest = 6
	}
	if r.StarCapDefault <= 0 {
		r.StarCapDefault = 8
	}
	if r.LowestCategory == "" {
		r.LowestCategory = models.CategoryAlpha
	}
	r.restricted = NewNameSet(r.RestrictedEvents...)
	r.groupNames = NewNameSet(r.GroupEventNames...)
	r.autoByName = make(map[string]models.Category, len(r.AutoCounted))
	for _, a := range r.AutoCounted {
		if n := NormalizeName(a.Name); n != "" {
			r.autoByName[n] = a.Category
		}
	}
}

// IsGroupEvent also recognises group events by name, for events saved without the flag.
func (r *RuleSet) IsGroupEvent(e models.Event) bool {
	return e.GroupEvent || r.groupNames.Contains(e.Name)
}

func (r *RuleSet) IsRestricted(name string) bool {
	return r.restricted.Contains(name)
}

// IsAutoCounted reports whether the event counts for a student of the given category without a star.
func (r *RuleSet) IsAutoCounted(e models.Event, category models.Category) bool {
	cat, ok := r.autoByName[NormalizeName(e.Name)]
	if !ok {
		return false
	}
	return cat == "" || cat == category
}

func (r *RuleSet) StarCap(category models.Category) int {
	if category == r.LowestCategory {
		return r.StarCapLowest
	}
	return r.StarCapDefault
}
