package runner

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z0rgoyok/go-appicon-kit/pkg/adapters"
	"github.com/z0rgoyok/go-appicon-kit/pkg/domain"
	"github.com/z0rgoyok/go-appicon-kit/pkg/iconset"
)

// --- Mocks ---

type mockIconGenerator struct {
	resp    *domain.ImageResponse
	err     error
	lastReq domain.IconRequest
}

func (m *mockIconGenerator) GenerateIcon(ctx context.Context, req domain.IconRequest) (*domain.ImageResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}

// mockWriter は remoteio.OutputWriter の書き込みをメモリに記録します。
type mockWriter struct {
	files map[string][]byte
	err   error
}

func newMockWriter() *mockWriter {
	return &mockWriter{files: map[string][]byte{}}
}

func (m *mockWriter) Write(ctx context.Context, path string, r io.Reader, mimeType string) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.files[path] = data
	return nil
}

type mockCompiler struct {
	err     error
	output  []byte // 非nilなら outPath へ書き込んで、成果物を作る本物の挙動を模す
	calls   int
	lastDir string
	lastOut string
}

func (m *mockCompiler) Compile(ctx context.Context, iconsetDir, outPath string) error {
	m.calls++
	m.lastDir = iconsetDir
	m.lastOut = outPath
	if m.err != nil {
		return m.err
	}
	if m.output != nil {
		return os.WriteFile(outPath, m.output, 0o644)
	}
	return nil
}

func sourcePNG(t *testing.T, edge int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, edge, edge))
	for y := 0; y < edge; y++ {
		for x := 0; x < edge; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 120, G: 60, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// --- AcquireRunner ---

func TestGeminiAcquireRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("画像が取得できたらそのまま返す", func(t *testing.T) {
		want := &domain.ImageResponse{Data: []byte("img"), MimeType: "image/png"}
		gen := &mockIconGenerator{resp: want}
		runner := NewGeminiAcquireRunner(gen)

		got, err := runner.Run(ctx, domain.IconRequest{Prompt: "p", AspectRatio: "1:1"})
		require.NoError(t, err)
		assert.Same(t, want, got)
		assert.Equal(t, "1:1", gen.lastReq.AspectRatio)
	})

	t.Run("画像なし応答はソフト失敗としてnilを返す", func(t *testing.T) {
		gen := &mockIconGenerator{err: fmt.Errorf("parse: %w", adapters.ErrNoImage)}
		runner := NewGeminiAcquireRunner(gen)

		got, err := runner.Run(ctx, domain.IconRequest{Prompt: "p"})
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("通信エラーは致命的エラーとして伝播する", func(t *testing.T) {
		gen := &mockIconGenerator{err: assert.AnError}
		runner := NewGeminiAcquireRunner(gen)

		_, err := runner.Run(ctx, domain.IconRequest{Prompt: "p"})
		assert.ErrorIs(t, err, assert.AnError)
	})
}

// --- PackageRunner ---

func TestPackageRunner_Run(t *testing.T) {
	ctx := context.Background()
	raw := sourcePNG(t, 1024)

	t.Run("生画像保存からiconutil呼び出しまで一気通貫", func(t *testing.T) {
		outDir := t.TempDir()
		writer := newMockWriter()
		compiler := &mockCompiler{}
		pr := NewPackageRunner(writer, compiler)

		require.NoError(t, pr.Run(ctx, raw, outDir, "weather"))

		rawPath := filepath.Join(outDir, "weather_generated.png")
		assert.Equal(t, raw, writer.files[rawPath], "生バイト列が無加工で保存される")

		iconsetDir := filepath.Join(outDir, "weather.iconset")
		entries, err := os.ReadDir(iconsetDir)
		require.NoError(t, err)
		assert.Len(t, entries, iconset.FileCount)

		assert.Equal(t, 1, compiler.calls)
		assert.Equal(t, iconsetDir, compiler.lastDir)
		assert.Equal(t, filepath.Join(outDir, "weather.icns"), compiler.lastOut)
	})

	t.Run("デコード不能なデータはエラー", func(t *testing.T) {
		pr := NewPackageRunner(newMockWriter(), &mockCompiler{})
		err := pr.Run(ctx, []byte("not an image"), t.TempDir(), "bad")
		assert.Error(t, err)
	})

	t.Run("iconutilの失敗は致命的エラーにしない", func(t *testing.T) {
		outDir := t.TempDir()
		compiler := &mockCompiler{err: fmt.Errorf("iconutil: exit status 1")}
		pr := NewPackageRunner(newMockWriter(), compiler)

		assert.NoError(t, pr.Run(ctx, raw, outDir, "partial"))

		// PNG一式は成果物として残る
		entries, err := os.ReadDir(filepath.Join(outDir, "partial.iconset"))
		require.NoError(t, err)
		assert.Len(t, entries, iconset.FileCount)
	})

	t.Run("iconutil不在のホストでは警告のみでスキップ", func(t *testing.T) {
		compiler := &mockCompiler{err: fmt.Errorf("lookup: %w", exec.ErrNotFound)}
		pr := NewPackageRunner(newMockWriter(), compiler)

		assert.NoError(t, pr.Run(ctx, raw, t.TempDir(), "linuxhost"))
	})
}

func TestPackageRunner_RunRemoteOutput(t *testing.T) {
	ctx := context.Background()
	raw := sourcePNG(t, 256)

	t.Run("gs://出力先でも全成果物がWriter経由で転送される", func(t *testing.T) {
		// ローカルに "gs:" のようなゴミディレクトリを作らないことも検証する
		t.Chdir(t.TempDir())

		writer := newMockWriter()
		compiler := &mockCompiler{output: []byte("icns-blob")}
		pr := NewPackageRunner(writer, compiler)

		require.NoError(t, pr.Run(ctx, raw, "gs://bucket/icons", "weather"))

		assert.Equal(t, raw, writer.files["gs://bucket/icons/weather_generated.png"], "スキームが潰されずに生画像が転送される")
		for _, size := range iconset.BaseSizes {
			for _, scale := range []int{1, 2} {
				key := "gs://bucket/icons/weather.iconset/" + iconset.FileName(size, scale)
				assert.Contains(t, writer.files, key)
			}
		}
		assert.Equal(t, []byte("icns-blob"), writer.files["gs://bucket/icons/weather.icns"])

		entries, err := os.ReadDir(".")
		require.NoError(t, err)
		assert.Empty(t, entries, "カレントディレクトリにローカルの残骸を作らない")
	})

	t.Run("iconutil不在なら.icns以外を転送して正常終了", func(t *testing.T) {
		writer := newMockWriter()
		compiler := &mockCompiler{err: fmt.Errorf("lookup: %w", exec.ErrNotFound)}
		pr := NewPackageRunner(writer, compiler)

		require.NoError(t, pr.Run(ctx, raw, "gs://bucket/icons", "linuxhost"))

		assert.Contains(t, writer.files, "gs://bucket/icons/linuxhost_generated.png")
		assert.NotContains(t, writer.files, "gs://bucket/icons/linuxhost.icns")
		assert.Len(t, writer.files, 1+iconset.FileCount)
	})
}

func TestPackageRunner_Pack(t *testing.T) {
	ctx := context.Background()
	img, _, err := image.Decode(bytes.NewReader(sourcePNG(t, 256)))
	require.NoError(t, err)

	outDir := t.TempDir()
	compiler := &mockCompiler{}
	pr := NewPackageRunner(newMockWriter(), compiler)

	require.NoError(t, pr.Pack(ctx, img, outDir, "repack"))

	// Pack は生画像を書かず、iconset とコンパイルだけを行う
	_, statErr := os.Stat(filepath.Join(outDir, "repack_generated.png"))
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(filepath.Join(outDir, "repack.iconset"))
	require.NoError(t, err)
	assert.Len(t, entries, iconset.FileCount)
	assert.Equal(t, 1, compiler.calls)
}
