package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"

	"github.com/z0rgoyok/go-appicon-kit/internal/builder"
	"github.com/z0rgoyok/go-appicon-kit/internal/config"
	"github.com/z0rgoyok/go-appicon-kit/internal/runner"
	"github.com/z0rgoyok/go-appicon-kit/pkg/domain"
	"github.com/z0rgoyok/go-appicon-kit/pkg/prompt"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// Execute は generate コマンドの本体なのだ。
// プロンプト構築 → 画像取得 → アイコンパッケージングを一直線に実行する。
// 並行処理やリトライは行わない単発のパイプラインなのだ。
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	opts := cfg.Options

	// --- Phase 1: Prompt（純粋な文字列構築） ---
	instruction := prompt.Build(opts.Theme, opts.Style)

	req := domain.IconRequest{
		Prompt:       instruction,
		AspectRatio:  "1:1",
		ReferenceURL: opts.ReferenceURL,
	}
	if opts.Seed > 0 {
		seed := opts.Seed
		req.Seed = &seed
	}

	acquireRunner, err := builder.BuildAcquireRunner(appCtx)
	if err != nil {
		return fmt.Errorf("AcquireRunnerの構築に失敗したのだ: %w", err)
	}
	packageRunner := builder.BuildPackageRunner(appCtx)

	if err := runPhases(ctx, acquireRunner, packageRunner, req, opts.OutputDir, opts.OutputName); err != nil {
		return err
	}

	slog.Info("アイコン生成パイプラインが完了したのだ！",
		"output_dir", opts.OutputDir, "output_name", opts.OutputName)
	return nil
}

// imagePackager は Phase 3 の実体なのだ。差し替えられるように最小の面で切っている。
type imagePackager interface {
	Run(ctx context.Context, data []byte, outDir, outputName string) error
}

// runPhases は、構築済みのランナー群で取得とパッケージングを順番に実行するのだ。
// 取得フェーズが (nil, nil) を返すソフト失敗の場合、パッケージングは実行せず
// ファイルを一切作らないまま正常終了する。
func runPhases(ctx context.Context, acquirer runner.AcquireRunner, packager imagePackager, req domain.IconRequest, outDir, outputName string) error {
	slog.Info("Phase 2: 画像取得を開始するのだ...")
	resp, err := acquirer.Run(ctx, req)
	if err != nil {
		return err
	}
	if resp == nil {
		// 画像なし応答のソフト失敗。診断はrunner側で出力済み。
		return nil
	}

	slog.Info("Phase 3: パッケージングを開始するのだ...")
	if err := packager.Run(ctx, resp.Data, outDir, outputName); err != nil {
		return fmt.Errorf("パッケージングに失敗したのだ: %w", err)
	}
	return nil
}

// ExecutePackOnly は、既存の画像ファイル（ローカル or gs://）を読み込んで
// パッケージングフェーズ（Phase 3）だけを実行するのだ。
// 生成サービスへの通信は行わないため、APIキーは不要なのだ。
func ExecutePackOnly(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupPackContext(ctx, cfg)
	if err != nil {
		return err
	}

	opts := cfg.Options

	rc, err := appCtx.Reader.Open(ctx, opts.SourceImage)
	if err != nil {
		return fmt.Errorf("画像ファイル '%s' の読み込みに失敗しました: %w", opts.SourceImage, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("画像ファイル '%s' の読み込みに失敗しました: %w", opts.SourceImage, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("画像 '%s' のデコードに失敗しました: %w", opts.SourceImage, err)
	}
	slog.Info("既存画像をパッケージングするのだ", "source", opts.SourceImage, "format", format)

	packageRunner := builder.BuildPackageRunner(appCtx)
	if err := packageRunner.Pack(ctx, img, opts.OutputDir, opts.OutputName); err != nil {
		return fmt.Errorf("パッケージングに失敗したのだ: %w", err)
	}
	return nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、
// アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	timeout := cfg.Options.HTTPTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	httpClient := httpkit.New(timeout)

	aiClient, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient, reader, writer)
	return &appCtx, nil
}

// setupPackContext は pack コマンド用の軽量コンテキストなのだ。
// AIクライアントを初期化しない点だけが setupAppContext と異なる。
func setupPackContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, nil, nil, reader, writer)
	return &appCtx, nil
}
