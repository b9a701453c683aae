package models

// Celebrity is one row of the name lookup
type Celebrity struct {
	PersonID   string `db:"person_id"`
	Name       string `db:"name"`
	BirthName  string `db:"birth_name"`
	BirthDate  string `db:"birth_date"` // YYYY-MM-DD
	BirthPlace string `db:"birth_place"`
}

// CelebrityOccupation is one (person, occupation) pair of the attribute search.
// A person with several occupations yields several rows.
type CelebrityOccupation struct {
	Name       string `db:"name"`
	BirthDate  string `db:"birth_date"`
	BirthPlace string `db:"birth_place"`
	Occupation string `db:"occupation"`
}

// Relationship is one relationships row joined to its celebrity. Spouse and
// Partner are free text and may hold comma separated names.
type Relationship struct {
	Name    string `db:"name"`
	Spouse  string `db:"spouse"`
	Partner string `db:"partner"`
}

func (r Relationship) HasSpouse() bool {
	return r.Spouse != ""
}

func (r Relationship) HasPartner() bool {
	return r.Partner != ""
}
