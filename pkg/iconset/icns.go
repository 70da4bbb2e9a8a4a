package iconset

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Compiler は、iconset ディレクトリをプラットフォームのアイコンコンテナへ
// コンパイルする能力を表す最小のインターフェースです。
// リサイズ・マスク処理をディスクやサブプロセスから切り離してテストするために使います。
type Compiler interface {
	Compile(ctx context.Context, iconsetDir, outPath string) error
}

// IconutilCompiler は macOS の iconutil コマンドで .icns を生成する実装です。
type IconutilCompiler struct{}

// Compile は `iconutil -c icns <dir> -o <out>` を実行します。
// サブプロセスの出力は逐次ストリームせず、終了後にまとめて検査します。
// コマンドが見つからない場合のエラーは exec.ErrNotFound を包んでいるため、
// 呼び出し側は errors.Is で macOS 以外のホストを判別できます。
func (IconutilCompiler) Compile(ctx context.Context, iconsetDir, outPath string) error {
	cmd := exec.CommandContext(ctx, "iconutil", "-c", "icns", iconsetDir, "-o", outPath)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if msg := bytes.TrimSpace(output); len(msg) > 0 {
			return fmt.Errorf("iconutilの実行に失敗しました: %s: %w", msg, err)
		}
		return fmt.Errorf("iconutilの実行に失敗しました: %w", err)
	}
	return nil
}
