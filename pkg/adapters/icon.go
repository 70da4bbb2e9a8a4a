package adapters

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/z0rgoyok/go-appicon-kit/pkg/domain"

	utils "github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// defaultAspectRatio はアプリアイコン素材の固定アスペクト比です。
const defaultAspectRatio = "1:1"

// IconGenerator はアイコン素材画像を生成するためのインターフェースです。
type IconGenerator interface {
	GenerateIcon(ctx context.Context, req domain.IconRequest) (*domain.ImageResponse, error)
}

// GeminiIconAdapter はアイコン素材の生成を管理するアダプター層です。
type GeminiIconAdapter struct {
	imgCore  IconGeneratorCore      // 共通ロジック保持（コンポジション）
	aiClient gemini.GenerativeModel // 通信クライアント
	model    string                 // 使用するモデル名
}

// NewGeminiIconAdapter は GeminiIconCore と依存関係を注入して初期化します。
func NewGeminiIconAdapter(core IconGeneratorCore, aiClient gemini.GenerativeModel, modelName string) (*GeminiIconAdapter, error) {
	if core == nil {
		return nil, fmt.Errorf("core is required")
	}
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	return &GeminiIconAdapter{
		imgCore:  core,
		aiClient: aiClient,
		model:    modelName,
	}, nil
}

// GenerateIcon はドメインのリクエストを Gemini API の形式に変換して実行します。
// リクエストは1回だけ送信し、リトライは行いません。
func (a *GeminiIconAdapter) GenerateIcon(ctx context.Context, req domain.IconRequest) (*domain.ImageResponse, error) {
	parts := []*genai.Part{
		{Text: req.Prompt},
	}

	// 参照画像があれば Core の機能を使って追加
	if req.ReferenceURL != "" {
		if imgPart := a.imgCore.PrepareImagePart(ctx, req.ReferenceURL); imgPart != nil {
			parts = append(parts, imgPart)
		} else {
			slog.WarnContext(ctx, "参照画像の読み込みに失敗しました。テキストのみで生成します", "url", req.ReferenceURL)
		}
	}

	aspect := req.AspectRatio
	if aspect == "" {
		aspect = defaultAspectRatio
	}

	opts := gemini.GenerateOptions{
		AspectRatio: aspect,
		Seed:        req.Seed,
	}

	resp, err := a.aiClient.GenerateWithParts(ctx, a.model, parts, opts)
	if err != nil {
		return nil, fmt.Errorf("Geminiアイコン生成エラー: %w", err)
	}

	out, err := a.imgCore.ParseToResponse(resp)
	if err != nil {
		return nil, err
	}

	// InlineData は生バイトの場合と base64 テキストの場合があるため正規化します。
	return &domain.ImageResponse{
		Data:     NormalizePayload(out.Data),
		MimeType: out.MimeType,
		UsedSeed: utils.DereferenceSeed(req.Seed),
	}, nil
}
