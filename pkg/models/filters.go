package models

import "strings"

// NameFilter is bound from GET /search
type NameFilter struct {
	Search string `query:"search"`
}

func (f NameFilter) Empty() bool {
	return blank(f.Search)
}

// AttributeFilter is bound from GET /celebrities
type AttributeFilter struct {
	BirthYear  string `query:"birthYear"`
	BirthPlace string `query:"birthPlace"`
	Occupation string `query:"occupation"`
}

func (f AttributeFilter) Empty() bool {
	return blank(f.BirthYear, f.BirthPlace, f.Occupation)
}

// MatchFilter is bound from GET /matchmaking. AgeRange is "min-max" or
// "min+", Children is "N" or "N+".
type MatchFilter struct {
	Occupation string `query:"occupation"`
	BirthPlace string `query:"birth_place"`
	AgeRange   string `query:"age_range"`
	Children   string `query:"children"`
}

func (f MatchFilter) Empty() bool {
	return blank(f.Occupation, f.BirthPlace, f.AgeRange, f.Children)
}

// RelationshipFilter is bound from GET /relationships
type RelationshipFilter struct {
	CelebrityName string `query:"celebrity_name"`
}

func (f RelationshipFilter) Empty() bool {
	return blank(f.CelebrityName)
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
