package domain

import (
	"time"
)

// Job は1回の絵本生成リクエストの進行状態を保持します。
// セッションストアに格納される単位であり、書き込みは常にレコード全体の
// 置き換えで行われます（フィールド単位のマージはしません）。
type Job struct {
	Token        string     `json:"session_id"`
	Progress     int        `json:"progress"`
	Status       string     `json:"status"`
	Error        string     `json:"error,omitempty"`
	Completed    bool       `json:"completed"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ArtifactPath string     `json:"-"`
	UploadPath   string     `json:"-"`
}

// NewJob は進捗0の初期状態のジョブを生成するのだ。
// CreatedAt はこの時点で固定され、以後の進捗書き込みでも引き継がれるのだ。
func NewJob(token, uploadPath string) Job {
	return Job{
		Token:      token,
		Progress:   0,
		Status:     "Starting...",
		CreatedAt:  time.Now(),
		UploadPath: uploadPath,
	}
}

// Advance は進捗率とステータス文言を更新します。
func (j *Job) Advance(progress int, status string) {
	j.Progress = progress
	j.Status = status
}

// Complete はジョブを成功状態で確定し、成果物のパスを記録します。
func (j *Job) Complete(artifactPath string) {
	now := time.Now()
	j.Progress = 100
	j.Status = "Complete!"
	j.Completed = true
	j.CompletedAt = &now
	j.ArtifactPath = artifactPath
}

// Fail はジョブを失敗状態で確定します。進捗は0に巻き戻り、
// エラーメッセージがステータスとエラー欄の両方に記録されます。
func (j *Job) Fail(err error) {
	j.Progress = 0
	j.Status = "Error: " + err.Error()
	j.Error = err.Error()
	j.Completed = false
}

// Terminal はジョブが終端状態（成功または失敗）かどうかを返します。
func (j Job) Terminal() bool {
	return j.Completed || j.Error != ""
}

// Age は作成時刻からの経過時間を返すのだ。リーパーの保持期間判定に使うのだ。
func (j Job) Age() time.Duration {
	return time.Since(j.CreatedAt)
}
