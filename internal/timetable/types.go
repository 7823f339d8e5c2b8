package timetable

// TypeCategories maps a lesson type abbreviation to its semantic category.
// The "У" prefixed forms are the instructional/introductory variants.
type TypeCategories map[string]string

// DefaultTypeCategories returns the institution's known lesson types.
func DefaultTypeCategories() TypeCategories {
	return TypeCategories{
		"ЛК":           "lecture",
		"ПЗ":           "practice",
		"ЛР":           "lab",
		"Экзамен":      "exam",
		"Консультация": "consultation",
		"Организация":  "organization",
		"Зачет":        "test",
		"УЛк":          "instructional-lecture",
		"УПз":          "instructional-practice",
		"УЛР":          "instructional-lab",
	}
}

// CategoryOf returns the category for an abbreviation; an unrecognized
// abbreviation maps to the empty category.
func (c TypeCategories) CategoryOf(abbrev string) string {
	return c[abbrev]
}
