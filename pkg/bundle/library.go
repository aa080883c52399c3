package bundle

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// expectedPages はバンドルが持つべきページ画像の枚数なのだ。
const expectedPages = domain.PageCount

// Library はテンプレートルート配下のバンドルを名前で引き当て、
// 読み込み結果をキャッシュします。同名バンドルへの同時読み込みは
// singleflight で1回に集約されます。
type Library struct {
	root string

	mu     sync.RWMutex
	loaded map[string]*Bundle
	group  singleflight.Group
}

// NewLibrary はテンプレートルートを指すライブラリを生成します。
// ルートやバンドルの実在チェックは読み込み時まで遅延されます。
func NewLibrary(root string) *Library {
	return &Library{
		root:   root,
		loaded: make(map[string]*Bundle),
	}
}

// Has は名前のバンドルディレクトリが存在するかだけを確認します。
// 中身の完全性（story.json や全ページ画像）は Load まで検証しません。
func (l *Library) Has(name string) bool {
	if name == "" || l.root == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(l.root, name))
	return err == nil && info.IsDir()
}

// Load は名前のバンドルを読み込みます。2回目以降はキャッシュを返し、
// 同時の初回読み込みは1つに集約されます。
func (l *Library) Load(ctx context.Context, name string) (*Bundle, error) {
	l.mu.RLock()
	b, ok := l.loaded[name]
	l.mu.RUnlock()
	if ok {
		return b, nil
	}

	v, err, _ := l.group.Do(name, func() (interface{}, error) {
		// singleflight 待機中に他のゴルーチンが読み込みを終えている可能性があるため、
		// コールバック内でもう一度キャッシュを確認するのだ
		l.mu.RLock()
		existing, ok := l.loaded[name]
		l.mu.RUnlock()
		if ok {
			return existing, nil
		}

		loaded, loadErr := l.loadBundle(ctx, name)
		if loadErr != nil {
			return nil, loadErr
		}

		l.mu.Lock()
		l.loaded[name] = loaded
		l.mu.Unlock()

		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	b, ok = v.(*Bundle)
	if !ok {
		return nil, fmt.Errorf("singleflightから予期しない型が返ったのだ: %T", v)
	}
	return b, nil
}

// loadBundle は story.json と表紙+12ページの画像を実際に読み込むのだ。
// 画像13枚は errgroup で並列に開くのだ。
func (l *Library) loadBundle(ctx context.Context, name string) (*Bundle, error) {
	dir := filepath.Join(l.root, name)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("story template not found: %s", name)
	}

	story, err := loadStory(dir)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		Name:  name,
		Story: story,
		pages: make([]image.Image, expectedPages),
	}

	eg, _ := errgroup.WithContext(ctx)

	eg.Go(func() error {
		cover, err := loadImage(dir, CoverFileName)
		if err != nil {
			return err
		}
		b.Cover = cover
		return nil
	})

	for i := 0; i < expectedPages; i++ {
		i := i
		eg.Go(func() error {
			img, err := loadImage(dir, PageFileName(i+1))
			if err != nil {
				return err
			}
			b.pages[i] = img
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.Info("テンプレートバンドルを読み込んだのだ", "name", name, "pages", expectedPages)
	return b, nil
}
