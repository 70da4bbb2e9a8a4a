package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/z0rgoyok/go-appicon-kit/pkg/adapters"
	"github.com/z0rgoyok/go-appicon-kit/pkg/domain"
)

// AcquireRunner は、生成サービスからアイコン素材を1枚取得するためのインターフェース。
type AcquireRunner interface {
	// Run は画像生成を1回だけ実行する。応答に画像が含まれていなかった場合は
	// ソフト失敗として (nil, nil) を返し、呼び出し側はファイルを一切作らずに終了する。
	Run(ctx context.Context, req domain.IconRequest) (*domain.ImageResponse, error)
}

// GeminiAcquireRunner は Gemini を使った AcquireRunner の標準実装。
type GeminiAcquireRunner struct {
	generator adapters.IconGenerator
}

// NewGeminiAcquireRunner は、GeminiAcquireRunnerの新しいインスタンスを生成して返す。
func NewGeminiAcquireRunner(gen adapters.IconGenerator) *GeminiAcquireRunner {
	return &GeminiAcquireRunner{generator: gen}
}

// Run は生成リクエストを1回送信し、結果を返すのだ。リトライはしない。
// 通信エラーやAPIレベルの拒否はそのまま致命的エラーとして伝播させる。
func (ar *GeminiAcquireRunner) Run(ctx context.Context, req domain.IconRequest) (*domain.ImageResponse, error) {
	slog.Info("アイコン素材を生成中...", "aspect_ratio", req.AspectRatio, "reference", req.ReferenceURL != "")

	resp, err := ar.generator.GenerateIcon(ctx, req)
	if err != nil {
		if errors.Is(err, adapters.ErrNoImage) {
			// 応答は返ってきたが画像パーツがないケース。診断を出して静かに終わる。
			slog.Warn("画像が生成されませんでした。ファイルは作成しません", "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("画像生成に失敗したのだ: %w", err)
	}

	slog.Info("アイコン素材を取得したのだ", "bytes", len(resp.Data), "mime_type", resp.MimeType)
	return resp, nil
}
