package iconset

import (
	"fmt"
	"image"
	stddraw "image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
)

// BaseSizes は macOS アイコンの基本エッジ長です。各サイズにつき
// 等倍 (@1x) と Retina (@2x) の2枚を生成するため、出力は常に10ファイルになります。
var BaseSizes = []int{16, 32, 128, 256, 512}

// densities は各基本サイズに適用する画素密度の倍率です。
var densities = []int{1, 2}

// FileCount はステージングディレクトリに書き出されるPNGの総数です。
const FileCount = 10

// FileName は (基本サイズ, 倍率) に対応するPNGファイル名を返します。
func FileName(size, scale int) string {
	if scale == 2 {
		return fmt.Sprintf("icon_%dx%d@2x.png", size, size)
	}
	return fmt.Sprintf("icon_%dx%d.png", size, size)
}

// Composite は source を edge×edge へ高品質リサンプリングし、
// 角丸マスクを通して透明キャンバスへ合成します。source は変更しません。
func Composite(src image.Image, edge int) *image.RGBA {
	rect := image.Rect(0, 0, edge, edge)

	resized := image.NewRGBA(rect)
	xdraw.CatmullRom.Scale(resized, rect, src, src.Bounds(), xdraw.Src, nil)

	mask := SquircleMask(edge)

	out := image.NewRGBA(rect)
	stddraw.DrawMask(out, rect, resized, image.Point{}, mask, image.Point{}, stddraw.Over)
	return out
}

// Stage は source 画像から .iconset ステージングディレクトリを構築します。
// 既存のディレクトリは無条件に削除してから作り直します（マージやバックアップはしません）。
// 書き出したファイルパスを書き出し順で返します。
func Stage(src image.Image, dir string) ([]string, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("既存のiconsetディレクトリの削除に失敗しました: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("iconsetディレクトリの作成に失敗しました: %w", err)
	}

	// アルファチャンネルを持たないソースにも完全不透明のアルファを付与する
	rgba := toRGBA(src)

	written := make([]string, 0, FileCount)
	for _, size := range BaseSizes {
		for _, scale := range densities {
			edge := size * scale
			path := filepath.Join(dir, FileName(size, scale))

			if err := savePNG(path, Composite(rgba, edge)); err != nil {
				return nil, err
			}
			written = append(written, path)
		}
	}

	slog.Info("iconsetを生成しました", "dir", dir, "files", len(written))
	return written, nil
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(rgba, rgba.Bounds(), src, b.Min, stddraw.Src)
	return rgba
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("PNGファイルの作成に失敗しました: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("PNGエンコードに失敗しました (%s): %w", path, err)
	}
	return nil
}
