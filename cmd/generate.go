package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/z0rgoyok/go-appicon-kit/internal/config"
	"github.com/z0rgoyok/go-appicon-kit/internal/pipeline"
	"github.com/z0rgoyok/go-appicon-kit/pkg/prompt"

	"github.com/spf13/cobra"
)

// generateCmd は、Geminiにアイコン素材を描かせてmacOSアイコン一式を作るのだ。
var generateCmd = &cobra.Command{
	Use:   "generate [theme] [output-name] [style]",
	Short: "テーマからアプリアイコン一式を生成するのだ。",
	Long: `テーマ（例: 'Music Player'）からアイコン素材をAIに生成させて、
.iconset ディレクトリと .icns ファイルまで一気に作るのだ。
引数を省略すると対話モードで同じ3項目を質問するのだよ。`,
	Args: cobra.MaximumNArgs(3),
	RunE: generateCommand,
}

// generateCommand は、generate サブコマンドの実行ロジック本体なのだ。
func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	theme, outputName, style, err := resolveGenerateArgs(args)
	if err != nil {
		return err
	}

	opts.Theme = theme
	opts.OutputName = outputName
	opts.Style = style

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts
	cfg.GeminiImageModel = resolveImageModel(cfg.GeminiImageModel, opts.ImageModel, cmd.Flags().Changed("image-model"))

	slog.Info("アイコン生成パイプラインを起動するのだ！",
		"theme", theme,
		"style", style,
		"output_name", outputName,
		"image_model", cfg.GeminiImageModel)

	// 3. パイプライン実行
	return pipeline.Execute(ctx, cfg)
}

// resolveImageModel は、使用するGemini画像モデル名を決めるのだ。
// 優先順位は デフォルト値 < 環境変数 IMAGE_GEMINI_MODEL < --image-model フラグ。
// フラグにもデフォルト値が入っているので、ユーザーが明示的に指定した場合だけ勝たせるのだ。
func resolveImageModel(envModel, flagModel string, flagChanged bool) string {
	if flagChanged {
		return flagModel
	}
	return envModel
}

// resolveGenerateArgs は、位置引数と対話入力からテーマ・出力名・スタイルを決めるのだ。
// 引数が1つでもあれば対話モードには入らない。テーマが空なら即座にエラーなのだ。
func resolveGenerateArgs(args []string) (theme, outputName, style string, err error) {
	outputName = config.DefaultOutputName
	style = config.DefaultStyle

	if len(args) > 0 {
		theme = strings.TrimSpace(args[0])
		if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
			outputName = strings.TrimSpace(args[1])
		}
		if len(args) > 2 && strings.TrimSpace(args[2]) != "" {
			style = strings.TrimSpace(args[2])
		}
	} else {
		theme, outputName, style = promptInteractive()
	}

	if theme == "" {
		return "", "", "", fmt.Errorf("テーマは必須なのだ。例: 'Music Player', 'Weather App'")
	}
	return theme, outputName, style, nil
}

// promptInteractive は、引数なし起動時に標準入力から同じ3項目を質問するのだ。
func promptInteractive() (theme, outputName, style string) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Icon Generator")
	fmt.Println(strings.Repeat("-", 40))

	theme = ask(scanner, "Theme (e.g., 'Music Player', 'Weather App'): ")

	outputName = ask(scanner, fmt.Sprintf("Output name [%s]: ", config.DefaultOutputName))
	if outputName == "" {
		outputName = config.DefaultOutputName
	}

	fmt.Printf("\nAvailable styles: %s\n", strings.Join(prompt.Keys(), ", "))
	style = ask(scanner, fmt.Sprintf("Style [%s]: ", config.DefaultStyle))
	if style == "" {
		style = config.DefaultStyle
	}

	return theme, outputName, style
}

func ask(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
