package cmd

import (
	"fmt"
	"os"

	"github.com/z0rgoyok/go-appicon-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は各コマンドで共有される実行時パラメータなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "生成物（生画像・iconset・icns）の保存先ディレクトリなのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "使用する Gemini 画像モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "参照画像取得のタイムアウトなのだ。")

	// --- 画像生成固有設定 ---
	generateCmd.Flags().StringVarP(&opts.ReferenceURL, "reference-url", "r", "", "構図の参考にする既存画像のURLなのだ。")
	generateCmd.Flags().Int64Var(&opts.Seed, "seed", 0, "生成の再現性を上げたいときのシード値なのだ（0で未指定）。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// pack と styles は通信しないので、APIキーのチェックは generate だけに適用するのだ。
	if cmd.Name() != "generate" {
		return nil
	}
	// キーの中身が正しいかはここでは分からない。それは最初の通信で判明するのだ。
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"go-appicon-kit",
		addAppFlags,
		preRunAppE,
		generateCmd,
		packCmd,
		stylesCmd,
	)
}
