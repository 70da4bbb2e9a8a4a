package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/z0rgoyok/go-appicon-kit/internal/runner"
	"github.com/z0rgoyok/go-appicon-kit/pkg/adapters"
	"github.com/z0rgoyok/go-appicon-kit/pkg/iconset"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// InitializeIconGenerator はアイコン素材の生成アダプターを初期化します。
func InitializeIconGenerator(appCtx *AppContext) (adapters.IconGenerator, error) {
	imgCache := cache.New(30*time.Minute, 1*time.Hour)
	cacheTTL := 1 * time.Hour

	core := adapters.NewGeminiIconCore(appCtx.httpClient, imgCache, cacheTTL)

	iconGen, err := adapters.NewGeminiIconAdapter(core, appCtx.aiClient, appCtx.Config.GeminiImageModel)
	if err != nil {
		return nil, fmt.Errorf("GeminiIconAdapterの初期化に失敗したのだ: %w", err)
	}
	return iconGen, nil
}

// BuildAcquireRunner は画像取得フェーズを担当する Runner を構築します。
func BuildAcquireRunner(appCtx *AppContext) (runner.AcquireRunner, error) {
	iconGen, err := InitializeIconGenerator(appCtx)
	if err != nil {
		return nil, err
	}
	return runner.NewGeminiAcquireRunner(iconGen), nil
}

// BuildPackageRunner は iconset 構築と .icns コンパイルを担当する Runner を構築します。
func BuildPackageRunner(appCtx *AppContext) *runner.PackageRunner {
	return runner.NewPackageRunner(appCtx.Writer, iconset.IconutilCompiler{})
}
