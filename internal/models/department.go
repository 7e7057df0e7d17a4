package models

import "strings"

// departmentLabels reconciles short department codes against the full
// labels, since records store either form inconsistently.
var departmentLabels = map[string]string{
	"CSE":   "Computer Science & Engineering",
	"IT":    "Information Technology",
	"ECE":   "Electronics & Communication Engineering",
	"EEE":   "Electrical & Electronics Engineering",
	"MECH":  "Mechanical Engineering",
	"CIVIL": "Civil Engineering",
	"MBA":   "Business Administration",
	"S&H":   "Science & Humanities",
}

// DepartmentCode normalizes a department string to its short code. Unknown
// values are returned trimmed and upper-cased so unknown-vs-unknown
// comparisons still behave sanely.
func DepartmentCode(value string) string {
	trimmed := strings.TrimSpace(value)
	upper := strings.ToUpper(trimmed)
	if _, ok := departmentLabels[upper]; ok {
		return upper
	}
	for code, label := range departmentLabels {
		if strings.EqualFold(label, trimmed) {
			return code
		}
	}
	return upper
}

// DepartmentLabel returns the full label for a code, or the input when the
// code is unknown.
func DepartmentLabel(code string) string {
	if label, ok := departmentLabels[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return label
	}
	return code
}

// SameDepartment reports whether two department strings, each possibly a
// code or a label, denote the same department.
func SameDepartment(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return DepartmentCode(a) == DepartmentCode(b)
}
