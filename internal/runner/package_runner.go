package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/z0rgoyok/go-appicon-kit/pkg/iconset"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// PackageRunner は、1枚の素材画像を macOS アイコン一式へ変換するフェーズの実体。
// 生画像の保存、.iconset ステージング、iconutil によるコンパイルまでを担当する。
// 出力先が gs:// の場合はローカルの作業ディレクトリで組み立ててから転送する。
type PackageRunner struct {
	writer   remoteio.OutputWriter
	compiler iconset.Compiler
}

// NewPackageRunner は、PackageRunnerの新しいインスタンスを生成して返す。
func NewPackageRunner(writer remoteio.OutputWriter, compiler iconset.Compiler) *PackageRunner {
	return &PackageRunner{
		writer:   writer,
		compiler: compiler,
	}
}

// Run は生成サービスから受け取った生バイト列を処理するのだ。
// まず無加工のまま <name>_generated.png として保存し、その後 Pack に委ねる。
func (pr *PackageRunner) Run(ctx context.Context, data []byte, outDir, outputName string) error {
	if !isRemotePath(outDir) {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
		}
	}

	rawPath, err := resolveOutputPath(outDir, outputName+"_generated.png")
	if err != nil {
		return err
	}
	if err := pr.writer.Write(ctx, rawPath, bytes.NewReader(data), "image/png"); err != nil {
		return fmt.Errorf("生画像の保存に失敗したのだ: %w", err)
	}
	slog.Info("生画像を保存したのだ", "path", rawPath)

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("生成画像のデコードに失敗しました: %w", err)
	}

	return pr.Pack(ctx, img, outDir, outputName)
}

// Pack はデコード済みの画像から .iconset を構築し、.icns へコンパイルするのだ。
// iconutil の失敗は致命的エラーにしない：PNG一式が残っていれば成果物として十分なので、
// 診断を出して正常終了へ進む（部分的成功のポリシー）。
// 出力先が gs:// の場合、iconutil はローカルパスしか扱えないため一時ディレクトリで
// 組み立てて、完成した成果物だけをリモートへ転送するのだ。
func (pr *PackageRunner) Pack(ctx context.Context, img image.Image, outDir, outputName string) error {
	workDir := outDir
	remote := isRemotePath(outDir)
	if remote {
		tmpDir, err := os.MkdirTemp("", "appicon-*")
		if err != nil {
			return fmt.Errorf("作業ディレクトリの作成に失敗しました: %w", err)
		}
		defer os.RemoveAll(tmpDir)
		workDir = tmpDir
	} else if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	iconsetDir := filepath.Join(workDir, outputName+".iconset")
	pngPaths, err := iconset.Stage(img, iconsetDir)
	if err != nil {
		return fmt.Errorf("iconsetの構築に失敗したのだ: %w", err)
	}

	icnsPath := filepath.Join(workDir, outputName+".icns")
	compiled := true
	if err := pr.compiler.Compile(ctx, iconsetDir, icnsPath); err != nil {
		compiled = false
		if errors.Is(err, exec.ErrNotFound) {
			slog.Warn("iconutilが見つかりません。macOS以外のホストのため.icns生成をスキップします", "error", err)
		} else {
			slog.Error("iconutilの実行に失敗しました。iconsetのPNGはそのまま利用できます", "error", err)
		}
	} else {
		slog.Info(".icnsを生成したのだ！", "path", icnsPath)
	}

	if remote {
		return pr.uploadArtifacts(ctx, outDir, outputName, pngPaths, icnsPath, compiled)
	}
	return nil
}

// uploadArtifacts は、ローカルで組み立てた成果物を gs:// の出力先へ転送するのだ。
// .icns はコンパイルに成功した場合だけ転送する。
func (pr *PackageRunner) uploadArtifacts(ctx context.Context, outDir, outputName string, pngPaths []string, icnsPath string, withICNS bool) error {
	for _, p := range pngPaths {
		dest, err := resolveOutputPath(outDir, outputName+".iconset/"+filepath.Base(p))
		if err != nil {
			return err
		}
		if err := pr.uploadFile(ctx, p, dest, "image/png"); err != nil {
			return err
		}
	}

	if withICNS {
		dest, err := resolveOutputPath(outDir, outputName+".icns")
		if err != nil {
			return err
		}
		if err := pr.uploadFile(ctx, icnsPath, dest, "application/octet-stream"); err != nil {
			return err
		}
	}

	slog.Info("成果物をリモートへ転送したのだ", "output_dir", outDir, "png_count", len(pngPaths), "icns", withICNS)
	return nil
}

func (pr *PackageRunner) uploadFile(ctx context.Context, localPath, destPath, mimeType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("成果物 '%s' のオープンに失敗しました: %w", localPath, err)
	}
	defer f.Close()

	if err := pr.writer.Write(ctx, destPath, f, mimeType); err != nil {
		return fmt.Errorf("成果物 '%s' の転送に失敗しました: %w", destPath, err)
	}
	return nil
}
