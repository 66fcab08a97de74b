package project

import (
	"strings"
	"testing"

	"github.com/hitoshi/assignman/internal/validation"
)

func hasCode(violations []validation.Violation, code string) bool {
	for _, v := range violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

func TestValidateSave_AllValid(t *testing.T) {
	errors := ValidateSave("新基幹システム更改", "PJ2024", "2024年度の更改案件")
	if len(errors) != 0 {
		t.Errorf("errors = %v, want empty", errors)
	}
}

func TestValidateSave_Name(t *testing.T) {
	tests := []struct {
		testName string
		name     string
		wantCode string
	}{
		{"未入力は必須違反", "", validation.CodeRequiredProjectName},
		{"2文字は短すぎる", "ab", validation.CodeMinLength},
		{"65文字は長すぎる", strings.Repeat("a", 65), validation.CodeMaxLength},
	}

	for _, tt := range tests {
		t.Run(tt.testName, func(t *testing.T) {
			errors := ValidateSave(tt.name, "", "")
			if !hasCode(errors["name"], tt.wantCode) {
				t.Errorf("name errors = %v, want code %s", errors["name"], tt.wantCode)
			}
		})
	}
}

func TestValidateSave_ProjectCodeOptional(t *testing.T) {
	// projectCodeは任意項目。空なら長さ検証も通過する
	errors := ValidateSave("新基幹システム更改", "", "")
	if _, ok := errors["projectCode"]; ok {
		t.Errorf("projectCode errors = %v, want absent", errors["projectCode"])
	}

	errors = ValidateSave("新基幹システム更改", "abc", "")
	if !hasCode(errors["projectCode"], validation.CodeMinLength) {
		t.Errorf("projectCode errors = %v, want %s", errors["projectCode"], validation.CodeMinLength)
	}
}

func TestValidateSave_NoteMaxLength(t *testing.T) {
	errors := ValidateSave("新基幹システム更改", "", strings.Repeat("あ", 500))
	if _, ok := errors["note"]; ok {
		t.Errorf("note errors = %v, want absent at 500 runes", errors["note"])
	}

	errors = ValidateSave("新基幹システム更改", "", strings.Repeat("あ", 501))
	if !hasCode(errors["note"], validation.CodeMaxLength) {
		t.Errorf("note errors = %v, want %s", errors["note"], validation.CodeMaxLength)
	}
}
