package user

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
	errors := ValidateSave("taro01", "password", "Taro", "E001x", true)
	if len(errors) != 0 {
		t.Errorf("errors = %v, want empty", errors)
	}
}

func TestValidateSave_Username(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantCode string
	}{
		{"未入力は必須違反", "", validation.CodeRequiredUsername},
		{"2文字は短すぎる", "ab", validation.CodeMinLength},
		{"51文字は長すぎる", strings.Repeat("a", 51), validation.CodeMaxLength},
		{"記号は英数字違反", "taro-01", validation.CodeAlphanumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateSave(tt.username, "password", "Taro", "", true)
			if !hasCode(errors["username"], tt.wantCode) {
				t.Errorf("username errors = %v, want code %s", errors["username"], tt.wantCode)
			}
		})
	}
}

func TestValidateSave_PasswordSkippedOnUpdate(t *testing.T) {
	// 既存ユーザーの更新（receivePassword = false）ではパスワードを検証しない
	errors := ValidateSave("taro01", "", "Taro", "", false)
	if _, ok := errors["password"]; ok {
		t.Errorf("password errors = %v, want absent", errors["password"])
	}

	// 新規作成では空パスワードは必須違反
	errors = ValidateSave("taro01", "", "Taro", "", true)
	if !hasCode(errors["password"], validation.CodeRequiredPassword) {
		t.Errorf("password errors = %v, want %s", errors["password"], validation.CodeRequiredPassword)
	}
}

func TestValidateSave_EmployeeCodeOptional(t *testing.T) {
	// employeeCodeは任意項目。空なら長さ検証も通過する
	errors := ValidateSave("taro01", "password", "Taro", "", true)
	if _, ok := errors["employeeCode"]; ok {
		t.Errorf("employeeCode errors = %v, want absent", errors["employeeCode"])
	}

	errors = ValidateSave("taro01", "password", "Taro", "abc", true)
	if !hasCode(errors["employeeCode"], validation.CodeMinLength) {
		t.Errorf("employeeCode errors = %v, want %s", errors["employeeCode"], validation.CodeMinLength)
	}
}

func TestValidateChangePassword_Mismatch(t *testing.T) {
	// 不一致コードは他フィールドの合否に関係なく必ず付く
	tests := []struct {
		name                      string
		oldPass, newPass, confirm string
	}{
		{"他が全部有効でも不一致", "oldpass1", "newpass1", "newpass2"},
		{"確認が未入力でも不一致", "oldpass1", "newpass1", ""},
		{"旧パスワードが無効でも不一致", "", "newpass1", "different"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateChangePassword(tt.oldPass, tt.newPass, tt.confirm)
			if !hasCode(errors["newPassConfirm"], validation.CodeUnmatchPassword) {
				t.Errorf("newPassConfirm errors = %v, want %s",
					errors["newPassConfirm"], validation.CodeUnmatchPassword)
			}
		})
	}
}

func TestValidateChangePassword_Match(t *testing.T) {
	errors := ValidateChangePassword("oldpass1", "newpass1", "newpass1")
	if len(errors) != 0 {
		t.Errorf("errors = %v, want empty", errors)
	}
}

func TestValidateChangePassword_NewPassRules(t *testing.T) {
	errors := ValidateChangePassword("oldpass1", "short", "short")
	if !hasCode(errors["newPass"], validation.CodeMinLength) {
		t.Errorf("newPass errors = %v, want %s", errors["newPass"], validation.CodeMinLength)
	}

	errors = ValidateChangePassword("oldpass1", "ぱすわーど1", "ぱすわーど1")
	if !hasCode(errors["newPass"], validation.CodeSingleByte) {
		t.Errorf("newPass errors = %v, want %s", errors["newPass"], validation.CodeSingleByte)
	}
}
