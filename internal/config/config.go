package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultImageModel  = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultOutputName  = "custom_icon"
	DefaultOutputDir   = "output"
	DefaultStyle       = "modern"
)

// Config はアプリケーション全体の環境設定（APIキーやモデル設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiImageModel string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// APIキーの妥当性はここでは検証せず、最初の通信時にサービス側のエラーとして表面化する。
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 生成指示関連
	Theme        string // 第1引数: アイコンのテーマ（必須）
	OutputName   string // 第2引数: 出力ファイル群のベース名
	Style        string // 第3引数: スタイルキー
	ReferenceURL string // --reference-url: 参考にする既存画像
	Seed         int64  // --seed: 0のときは未指定扱い

	// 出力関連
	OutputDir string // --output-dir

	// パッケージングのみ実行する場合の入力（pack コマンド）
	SourceImage string

	// AI挙動設定
	ImageModel string // --image-model: 画像生成用のGeminiモデル

	// 実行制御
	HTTPTimeout time.Duration // --http-timeout
}
