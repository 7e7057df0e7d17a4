package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameDepartmentCodeVsLabel(t *testing.T) {
	assert.True(t, SameDepartment("CSE", "Computer Science & Engineering"))
	assert.True(t, SameDepartment("Computer Science & Engineering", "cse"))
	assert.True(t, SameDepartment("CSE", "CSE"))
	assert.True(t, SameDepartment("Mechanical Engineering", "MECH"))
}

func TestSameDepartmentMismatch(t *testing.T) {
	assert.False(t, SameDepartment("CSE", "Information Technology"))
	assert.False(t, SameDepartment("ECE", "EEE"))
	assert.False(t, SameDepartment("", "CSE"))
	assert.False(t, SameDepartment("CSE", ""))
}

func TestSameDepartmentUnknownValues(t *testing.T) {
	// Unknown strings still match themselves case-insensitively.
	assert.True(t, SameDepartment("Aerospace", "AEROSPACE"))
	assert.False(t, SameDepartment("Aerospace", "Marine"))
}

func TestDepartmentCodeAndLabel(t *testing.T) {
	assert.Equal(t, "CSE", DepartmentCode("Computer Science & Engineering"))
	assert.Equal(t, "Computer Science & Engineering", DepartmentLabel("CSE"))
	assert.Equal(t, "Computer Science & Engineering", DepartmentLabel("cse"))
}
