// Package model はドメインモデルを定義する。
package model

import "time"

// Project はプロジェクトを表す。Nameは全プロジェクトで一意。
type Project struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	ProjectCode string    `json:"projectCode"`
	Note        string    `json:"note"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}

// ProjectPersonnel はプロジェクトへの要員アサインを表す。
// PeriodFrom/PeriodToは"YYYYMM"形式の文字列で、範囲判定は辞書順比較で行う。
type ProjectPersonnel struct {
	ID         string    `json:"_id"`
	ProjectID  string    `json:"projectId"`
	UserID     string    `json:"userId"`
	PeriodFrom string    `json:"periodFrom"`
	PeriodTo   string    `json:"periodTo"`
	Created    time.Time `json:"created"`
	Modified   time.Time `json:"modified"`
}
