// Package project はプロジェクト管理のドメインロジックを提供する。
package project

import "github.com/hitoshi/assignman/internal/validation"

// フィールド長の制限値
const (
	nameMin        = 3
	nameMax        = 64
	projectCodeMin = 4
	projectCodeMax = 10
	noteMax        = 500
)

// ValidateSave はプロジェクト保存前のフィールド検証を行う。
// 戻り値が空のマッピングなら検証通過。
func ValidateSave(name, projectCode, note string) validation.Errors {
	errors := validation.Errors{}

	/* name */ {
		s := validation.NewSession()
		s.Push(validation.Required(name, validation.CodeRequiredProjectName))
		s.Push(validation.MaxLength(name, nameMax))
		s.Push(validation.MinLength(name, nameMin))
		if s.HasError() {
			errors["name"] = s.Violations()
		}
	}
	/* projectCode */ {
		s := validation.NewSession()
		s.Push(validation.MaxLength(projectCode, projectCodeMax))
		s.Push(validation.MinLength(projectCode, projectCodeMin))
		if s.HasError() {
			errors["projectCode"] = s.Violations()
		}
	}
	/* note */ {
		s := validation.NewSession()
		s.Push(validation.MaxLength(note, noteMax))
		if s.HasError() {
			errors["note"] = s.Violations()
		}
	}

	return errors
}
