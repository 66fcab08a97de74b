// Package validation はフィールド検証のルール合成と違反の蓄積を提供する。
// 各ルールは純粋関数で、違反がなければゼロ値のViolationを返す。
package validation

import (
	"encoding/json"
	"regexp"
)

// メッセージコード。クライアント側でフィールドごとの表示文言に解決される。
const (
	CodeRequiredPassword       = "RQD0001"
	CodeRequiredNewPassword    = "RQD0002"
	CodeRequiredNewPassConfirm = "RQD0003"
	CodeRequiredProjectName    = "RQD0004"
	CodeRequiredUsername       = "RQD0005"
	CodeRequiredDisplayName    = "RQD0006"
	CodeUnmatchPassword        = "UMP0001"
	CodeMaxLength              = "MXL0001"
	CodeMinLength              = "MNL0001"
	CodeSingleByte             = "SBY0001"
	CodeAlphanumeric           = "SBY0002"
)

var (
	singleByteRe   = regexp.MustCompile(`^[!-~]+$`)
	alphanumericRe = regexp.MustCompile(`^[0-9a-zA-Z]+$`)
)

// Violation は1件のルール違反を表す。
// Limitは長さ系ルールのみが設定する。JSONでは"CODE"または["CODE", limit]に
// シリアライズされ、クライアントの文言組み立てに使われる。
type Violation struct {
	Code  string
	Limit int
}

// ok は違反なしを表すゼロ値。
var ok = Violation{}

// IsZero は違反がないことを報告する。
func (v Violation) IsZero() bool {
	return v.Code == ""
}

// MarshalJSON はLimitの有無に応じて"CODE"または["CODE", limit]を出力する。
func (v Violation) MarshalJSON() ([]byte, error) {
	if v.Limit > 0 {
		return json.Marshal([2]any{v.Code, v.Limit})
	}
	return json.Marshal(v.Code)
}

// Errors はフィールド名をキーとする違反のマッピング。
// 空のマッピングが「検証通過」を意味する。save/validate系の合否判定は
// すべてこの契約に依存する。
type Errors map[string][]Violation

// Required は値が空のときcodeの違反を返す。
func Required(val, code string) Violation {
	if val == "" {
		return Violation{Code: code}
	}
	return ok
}

// MaxLength は文字数がmaxを超えるとき違反を返す。空文字列は通過する。
func MaxLength(val string, max int) Violation {
	if val == "" {
		return ok
	}
	if len([]rune(val)) > max {
		return Violation{Code: CodeMaxLength, Limit: max}
	}
	return ok
}

// MinLength は文字数がmin未満のとき違反を返す。空文字列は通過する。
func MinLength(val string, min int) Violation {
	if val == "" {
		return ok
	}
	if len([]rune(val)) < min {
		return Violation{Code: CodeMinLength, Limit: min}
	}
	return ok
}

// SingleByte は印字可能ASCII（空白を除く）以外の文字を含むとき違反を返す。
// 空文字列は通過する。
func SingleByte(val string) Violation {
	if val == "" {
		return ok
	}
	if !singleByteRe.MatchString(val) {
		return Violation{Code: CodeSingleByte}
	}
	return ok
}

// Alphanumeric は英数字以外の文字を含むとき違反を返す。空文字列は通過する。
func Alphanumeric(val string) Violation {
	if val == "" {
		return ok
	}
	if !alphanumericRe.MatchString(val) {
		return Violation{Code: CodeAlphanumeric}
	}
	return ok
}

// Session は1フィールド分の違反を挿入順に蓄積するアキュムレータ。
type Session struct {
	violations []Violation
}

// NewSession は空のSessionを生成する。
func NewSession() *Session {
	return &Session{}
}

// Push はルールの結果を受け取り、違反のみを蓄積する。
func (s *Session) Push(v Violation) {
	if !v.IsZero() {
		s.violations = append(s.violations, v)
	}
}

// HasError は違反が1件以上あることを報告する。
func (s *Session) HasError() bool {
	return len(s.violations) != 0
}

// Violations は蓄積された違反を挿入順に返す。
func (s *Session) Violations() []Violation {
	return s.violations
}
