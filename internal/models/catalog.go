package models

import "strings"

// Activity is a named catalog entry carrying a fixed credit value.
type Activity struct {
	Name     string      `json:"name"`
	Category CPSCategory `json:"category"`
	Credits  int         `json:"credits"`
}

// activityCatalog is the fixed institutional catalog. Credits are copied
// onto entries at claim time, so editing this list never rewrites history.
var activityCatalog = []Activity{
	{Name: "Journal Publication", Category: CategoryResearch, Credits: 15},
	{Name: "Conference Paper", Category: CategoryResearch, Credits: 10},
	{Name: "Patent Filed", Category: CategoryResearch, Credits: 20},
	{Name: "Book Chapter", Category: CategoryResearch, Credits: 12},
	{Name: "Guest Lecture Delivered", Category: CategoryAcademic, Credits: 5},
	{Name: "New Course Developed", Category: CategoryAcademic, Credits: 10},
	{Name: "Student Project Guided", Category: CategoryAcademic, Credits: 6},
	{Name: "Workshop Attended", Category: CategoryProfessional, Credits: 5},
	{Name: "FDP Completed", Category: CategoryProfessional, Credits: 8},
	{Name: "MOOC Certification", Category: CategoryProfessional, Credits: 10},
	{Name: "Industry Collaboration", Category: CategoryProfessional, Credits: 15},
	{Name: "Seminar Organized", Category: CategoryInstitutional, Credits: 8},
	{Name: "Committee Service", Category: CategoryInstitutional, Credits: 4},
	{Name: "Accreditation Work", Category: CategoryInstitutional, Credits: 10},
}

// ActivityCatalog returns a copy of the catalog.
func ActivityCatalog() []Activity {
	return append([]Activity(nil), activityCatalog...)
}

// LookupActivity resolves a catalog entry by name, case-insensitively.
func LookupActivity(name string) (Activity, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, a := range activityCatalog {
		if strings.ToLower(a.Name) == needle {
			return a, true
		}
	}
	return Activity{}, false
}
