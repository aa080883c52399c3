// Package session は、実行中および完了済みジョブのプロセス内テーブルを提供します。
// レコードはトークン単位の全置換で書き込まれ、保持期間を過ぎたものは
// リーパーが成果物・アップロード画像ごと削除します。プロセスをまたぐ永続化は
// 意図的に行いません。
package session

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// DefaultRetention はジョブレコードとその成果物を保持する既定の期間です。
const DefaultRetention = 24 * time.Hour

// Store はトークンをキーとするジョブレコードのインメモリストアです。
// 期限は各ジョブの作成時刻を基準に計算されるため、途中経過の書き込みで
// 保持期間が延びることはありません。
type Store struct {
	cache     *cache.Cache
	retention time.Duration
	uploadDir string
}

// New はストアを初期化します。バックグラウンドの掃除ゴルーチンは持たず、
// 期限切れエントリの回収は Reap の明示呼び出しでのみ行われます。
func New(retention time.Duration, uploadDir string) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}

	s := &Store{
		cache:     cache.New(retention, 0),
		retention: retention,
		uploadDir: uploadDir,
	}
	s.cache.OnEvicted(s.removeFiles)
	return s
}

// Put はレコード全体を書き込みます。既存レコードはマージされずに置き換わります。
func (s *Store) Put(job domain.Job) {
	ttl := s.retention - time.Since(job.CreatedAt)
	if ttl <= 0 {
		// 既に保持期間を過ぎている場合も一度は格納し、次の Reap で回収させるのだ
		ttl = time.Nanosecond
	}
	s.cache.Set(job.Token, job, ttl)
}

// Get はトークンでレコードを引きます。未登録または期限切れなら ok=false です。
func (s *Store) Get(token string) (domain.Job, bool) {
	v, ok := s.cache.Get(token)
	if !ok {
		return domain.Job{}, false
	}
	job, ok := v.(domain.Job)
	return job, ok
}

// Len は現在保持しているレコード数を返すのだ。
// 期限切れだがまだ Reap されていないものも数に含まれるのだ。
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

// Reap は保持期間を過ぎたレコードを回収し、関連ファイルを削除します。
// スケジューラは持たないため、新規ジョブの提出を契機に呼び出される想定です。
func (s *Store) Reap() {
	s.cache.DeleteExpired()
}

// removeFiles は期限切れジョブの成果物とアップロード元画像を片付けるのだ。
func (s *Store) removeFiles(token string, v interface{}) {
	job, ok := v.(domain.Job)
	if !ok {
		return
	}

	if job.ArtifactPath != "" {
		if err := os.Remove(job.ArtifactPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("成果物の削除に失敗したのだ", "token", token, "path", job.ArtifactPath, "error", err)
		}
	}

	if s.uploadDir != "" {
		pattern := filepath.Join(s.uploadDir, token+"_*")
		matches, err := filepath.Glob(pattern)
		if err != nil {
			slog.Warn("アップロード画像の検索に失敗したのだ", "token", token, "pattern", pattern, "error", err)
			return
		}
		for _, path := range matches {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				slog.Warn("アップロード画像の削除に失敗したのだ", "token", token, "path", path, "error", err)
			}
		}
	}

	slog.Info("期限切れセッションを掃除したのだ", "token", token)
}
