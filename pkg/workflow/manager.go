package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/session"
)

var _ ProgressStore = (*session.Store)(nil)

// Manager は、写真1枚から絵本PDFまでの生成工程を束ねます。
// 進捗レコードの書き込みは常にレコード全体の置き換えで行い、
// CreatedAt は初回登録時の値を引き継ぎます。
type Manager struct {
	cfg      Config
	store    ProgressStore
	profiler CharacterProfiler
	selector PipelineSelector
	composer DocumentComposer
}

// ManagerArgs は Manager の構築に必要な依存の束なのだ。
type ManagerArgs struct {
	Config   Config
	Store    ProgressStore
	Profiler CharacterProfiler
	Selector PipelineSelector
	Composer DocumentComposer
}

// New は依存を検証し、新しい Manager を初期化します。
func New(args ManagerArgs) (*Manager, error) {
	if args.Store == nil {
		return nil, fmt.Errorf("Store は必須です")
	}
	if args.Profiler == nil {
		return nil, fmt.Errorf("Profiler は必須です")
	}
	if args.Selector == nil {
		return nil, fmt.Errorf("Selector は必須です")
	}
	if args.Composer == nil {
		return nil, fmt.Errorf("Composer は必須です")
	}
	if args.Config.OutputDir == "" {
		return nil, fmt.Errorf("OutputDir は必須です")
	}

	return &Manager{
		cfg:      args.Config,
		store:    args.Store,
		profiler: args.Profiler,
		selector: args.Selector,
		composer: args.Composer,
	}, nil
}

// ClassifyStory は story_type が同梱題材かテンプレートバンドルに解決できるかを返します。
// 受付前の入力検証に使うのだ。
func (m *Manager) ClassifyStory(storyType string) StoryKind {
	return m.selector.Classify(storyType)
}

// Launch は生成をバックグラウンドで開始し、即座に制御を返します。
// ジョブレコードは呼び出し時点で同期的に作成されるため、直後の進捗照会でも
// 必ず見つかるのだ。あわせて期限切れセッションの掃除も仕掛けるのだ。
func (m *Manager) Launch(req Request) {
	m.store.Reap()
	job := m.register(req)

	go func() {
		ctx := context.Background()
		defer func() {
			if r := recover(); r != nil {
				m.fail(ctx, req.Token, fmt.Errorf("generation stopped unexpectedly: %v", r))
			}
		}()
		if _, err := m.produce(ctx, req, job); err != nil {
			m.fail(ctx, req.Token, err)
		}
	}()
}

// Run は同じ生成工程を同期で実行し、完成したPDFのパスを返します。
// CLIの一発実行用なのだ。
func (m *Manager) Run(ctx context.Context, req Request) (string, error) {
	job := m.register(req)
	path, err := m.produce(ctx, req, job)
	if err != nil {
		m.fail(ctx, req.Token, err)
		return "", err
	}
	return path, nil
}

// register は進捗0の初期レコードを保存するのだ。
func (m *Manager) register(req Request) domain.Job {
	job := domain.NewJob(req.Token, req.ImagePath)
	m.store.Put(job)
	return job
}

// produce は台本の起稿から挿絵、PDF出力までを進捗を刻みながら実行します。
// 挿絵の失敗はページ単位で代替画像に置き換わるため、ここへはエラーとして
// 届かない。届いたエラーは1冊分の生成を打ち切る致命傷として扱うのだ。
func (m *Manager) produce(ctx context.Context, req Request, job domain.Job) (string, error) {
	pipeline, err := m.selector.Select(req)
	if err != nil {
		return "", err
	}

	job.Advance(5, "Analyzing image...")
	m.store.Put(job)
	description := m.profiler.Describe(ctx, req.ImagePath)

	job.Advance(15, "Generating story outline...")
	m.store.Put(job)
	outline, illustrator, err := pipeline.Prepare(ctx, description)
	if err != nil {
		return "", fmt.Errorf("failed to prepare story: %w", err)
	}

	artifacts := make([]domain.PageArtifact, 0, len(outline.Pages)+1)
	if provider, ok := pipeline.(CoverProvider); ok {
		if cover, ok := provider.Cover(); ok {
			job.Advance(15, "Creating cover page...")
			m.store.Put(job)
			artifacts = append(artifacts, cover)
		}
	}

	total := len(outline.Pages)
	for i, page := range outline.Pages {
		job.Advance(15+(i+1)*75/total, fmt.Sprintf("Creating page %d of %d...", page.PageNumber, total))
		m.store.Put(job)
		img := illustrator.Illustrate(ctx, page)
		artifacts = append(artifacts, domain.PageArtifact{
			PageNumber: page.PageNumber,
			Image:      img,
			Caption:    page.Text,
		})
	}

	job.Advance(95, "Creating PDF...")
	m.store.Put(job)
	outputPath := filepath.Join(m.cfg.OutputDir, fmt.Sprintf("%s.pdf", req.Token))
	if err := m.composer.Compose(artifacts, outputPath); err != nil {
		return "", fmt.Errorf("failed to compose PDF: %w", err)
	}

	job.Complete(outputPath)
	m.store.Put(job)
	slog.InfoContext(ctx, "絵本の生成が完了したのだ",
		"token", req.Token, "pages", len(artifacts), "output", outputPath)
	return outputPath, nil
}

// fail は失敗を記録するのだ。進捗は0へ巻き戻り、完了フラグは立たないのだ。
func (m *Manager) fail(ctx context.Context, token string, err error) {
	slog.ErrorContext(ctx, "絵本の生成に失敗したのだ", "token", token, "error", err)
	job, ok := m.store.Get(token)
	if !ok {
		return
	}
	job.Fail(err)
	m.store.Put(job)
}
