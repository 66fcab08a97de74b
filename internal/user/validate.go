// Package user はユーザー管理のドメインロジックを提供する。
package user

import "github.com/hitoshi/assignman/internal/validation"

// フィールド長の制限値
const (
	usernameMin     = 3
	usernameMax     = 50
	passwordMin     = 6
	passwordMax     = 16
	displayNameMin  = 3
	displayNameMax  = 16
	employeeCodeMin = 4
	employeeCodeMax = 10
)

// ValidateSave はユーザー保存前のフィールド検証を行う。
// receivePasswordがfalse（既存ユーザーの更新）のときパスワードは検証しない。
// 戻り値が空のマッピングなら検証通過。
func ValidateSave(username, password, displayName, employeeCode string, receivePassword bool) validation.Errors {
	errors := validation.Errors{}

	/* username */ {
		s := validation.NewSession()
		s.Push(validation.Required(username, validation.CodeRequiredUsername))
		s.Push(validation.MaxLength(username, usernameMax))
		s.Push(validation.MinLength(username, usernameMin))
		s.Push(validation.Alphanumeric(username))
		if s.HasError() {
			errors["username"] = s.Violations()
		}
	}
	/* password */ if receivePassword {
		s := validation.NewSession()
		s.Push(validation.Required(password, validation.CodeRequiredPassword))
		s.Push(validation.MaxLength(password, passwordMax))
		s.Push(validation.MinLength(password, passwordMin))
		s.Push(validation.SingleByte(password))
		if s.HasError() {
			errors["password"] = s.Violations()
		}
	}
	/* displayName */ {
		s := validation.NewSession()
		s.Push(validation.Required(displayName, validation.CodeRequiredDisplayName))
		s.Push(validation.MaxLength(displayName, displayNameMax))
		s.Push(validation.MinLength(displayName, displayNameMin))
		if s.HasError() {
			errors["displayName"] = s.Violations()
		}
	}
	/* employeeCode */ {
		s := validation.NewSession()
		s.Push(validation.MaxLength(employeeCode, employeeCodeMax))
		s.Push(validation.MinLength(employeeCode, employeeCodeMin))
		if s.HasError() {
			errors["employeeCode"] = s.Violations()
		}
	}

	return errors
}

// ValidateChangePassword はパスワード変更の検証を行う。
// newPassとnewPassConfirmの不一致は他フィールドの合否に関係なく
// newPassConfirmの違反として記録される。
func ValidateChangePassword(oldPass, newPass, newPassConfirm string) validation.Errors {
	errors := validation.Errors{}

	/* oldPass */ {
		s := validation.NewSession()
		s.Push(validation.Required(oldPass, validation.CodeRequiredPassword))
		s.Push(validation.MaxLength(oldPass, passwordMax))
		s.Push(validation.MinLength(oldPass, passwordMin))
		s.Push(validation.SingleByte(oldPass))
		if s.HasError() {
			errors["oldPass"] = s.Violations()
		}
	}
	/* newPass */ {
		s := validation.NewSession()
		s.Push(validation.Required(newPass, validation.CodeRequiredNewPassword))
		s.Push(validation.MaxLength(newPass, passwordMax))
		s.Push(validation.MinLength(newPass, passwordMin))
		s.Push(validation.SingleByte(newPass))
		if s.HasError() {
			errors["newPass"] = s.Violations()
		}
	}
	/* newPassConfirm */ {
		s := validation.NewSession()
		if newPass != newPassConfirm {
			s.Push(validation.Violation{Code: validation.CodeUnmatchPassword})
		}
		s.Push(validation.Required(newPassConfirm, validation.CodeRequiredNewPassConfirm))
		s.Push(validation.SingleByte(newPassConfirm))
		if s.HasError() {
			errors["newPassConfirm"] = s.Violations()
		}
	}

	return errors
}
