package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/z0rgoyok/go-appicon-kit/internal/config"
	"github.com/z0rgoyok/go-appicon-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// packCmd は、既存の画像ファイルからパッケージングフェーズだけを実行するためのサブコマンドなのだ。
// 画像生成をスキップして、iconset構築と.icnsコンパイルのみを行うのだ。
var packCmd = &cobra.Command{
	Use:   "pack <image> [output-name]",
	Short: "既存の画像からiconsetと.icnsを作るのだ。",
	Long: `手元の正方形画像（ローカルパス or gs://...）を読み込み、
macOSアイコンのリサイズ・角丸マスク・パッケージングだけを実行するのだ。
AIの生成結果を作り直したくないときや、別の素材を使いたいときに便利なのだ。`,
	Args: cobra.RangeArgs(1, 2),
	RunE: packCommand,
}

// packCommand は、pack サブコマンドの実行ロジック本体なのだ。
func packCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts.SourceImage = strings.TrimSpace(args[0])
	if opts.SourceImage == "" {
		return fmt.Errorf("読み込む画像ファイルを指定してほしいのだ")
	}

	opts.OutputName = config.DefaultOutputName
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		opts.OutputName = strings.TrimSpace(args[1])
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("パッケージングモードを起動するのだ！",
		"source", opts.SourceImage,
		"output_name", opts.OutputName,
		"output_dir", opts.OutputDir)

	return pipeline.ExecutePackOnly(ctx, cfg)
}
