package entity

// Name kinds stored in the person_names reference table.
const (
	NameKindFirst = "first"
	NameKindLast  = "last"
)
