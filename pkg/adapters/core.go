package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shouni/gemini-image-kit/imgutil"
	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-http-kit/httpkit"
	"google.golang.org/genai"
)

const (
	// 参照画像は送信前にJPEGへ再圧縮してペイロードを抑えます。
	useImageCompression     = true
	imageCompressionQuality = 75
)

// ErrNoImage は、応答のどのパーツにも画像データが含まれていなかったことを示します。
// 通信自体は成功しているため、呼び出し側はソフト失敗として扱えます。
var ErrNoImage = errors.New("画像データが見つかりませんでした")

// IconGeneratorCore は画像生成のコアロジックを抽象化するインターフェースです。
type IconGeneratorCore interface {
	PrepareImagePart(ctx context.Context, url string) *genai.Part
	ToPart(data []byte) *genai.Part
	ParseToResponse(resp *gemini.Response) (*IconOutput, error)
}

// ImageCacher は画像データのキャッシュ操作を抽象化するインターフェースです。
type ImageCacher interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, d time.Duration)
}

// IconOutput は応答解析の結果で、ドメインに依存しない汎用的な構造体です。
type IconOutput struct {
	Data     []byte
	MimeType string
}

// GeminiIconCore は参照画像の取得と応答解析の共通ロジックを保持するコンポーネントです。
type GeminiIconCore struct {
	httpClient httpkit.ClientInterface
	imageCache ImageCacher
	cacheTTL   time.Duration
}

// NewGeminiIconCore は依存関係を注入して GeminiIconCore のインスタンスを生成します。
func NewGeminiIconCore(httpClient httpkit.ClientInterface, imageCache ImageCacher, cacheTTL time.Duration) *GeminiIconCore {
	return &GeminiIconCore{
		httpClient: httpClient,
		imageCache: imageCache,
		cacheTTL:   cacheTTL,
	}
}

// PrepareImagePart は URL から参照画像を取得して genai.Part に変換します。
// 取得や検証に失敗した場合は nil を返し、テキストのみでの生成続行に委ねます。
func (c *GeminiIconCore) PrepareImagePart(ctx context.Context, url string) *genai.Part {
	// キャッシュの確認
	if c.imageCache != nil {
		if cached, found := c.imageCache.Get(url); found {
			if data, ok := cached.([]byte); ok {
				return c.ToPart(data)
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "url", url, "type", fmt.Sprintf("%T", cached))
		}
	}

	// SSRF対策のバリデーション
	if safe, err := isSafeURL(url); !safe || err != nil {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました",
			"url", url, "error", err)
		return nil
	}

	imgBytes, err := c.httpClient.FetchBytes(ctx, url)
	if err != nil {
		slog.WarnContext(ctx, "参照画像のダウンロードに失敗しました。テキストのみで続行します", "url", url, "error", err)
		return nil
	}

	finalData := imgBytes
	if useImageCompression {
		if compressed, err := imgutil.CompressToJPEG(imgBytes, imageCompressionQuality); err == nil {
			finalData = compressed
		}
	}

	if c.imageCache != nil {
		c.imageCache.Set(url, finalData, c.cacheTTL)
	}
	return c.ToPart(finalData)
}

// ToPart はバイト列を genai.Part (InlineData) に変換します。
func (c *GeminiIconCore) ToPart(data []byte) *genai.Part {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		slog.Warn("MIMEタイプが画像ではないためPartに変換できませんでした", "detected_mime_type", mimeType)
		return nil
	}
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: mimeType,
			Data:     data,
		},
	}
}

// ParseToResponse は Gemini のレスポンスを解析して IconOutput に変換します。
// 最初の候補 (Candidate) のパーツを順に走査し、画像を含む最初のパーツだけを採用します。
// テキストなど他のパーツはすべて無視します。
func (c *GeminiIconCore) ParseToResponse(resp *gemini.Response) (*IconOutput, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, fmt.Errorf("Geminiからの有効な応答がありませんでした")
	}

	candidate := resp.RawResponse.Candidates[0]

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &IconOutput{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, fmt.Errorf("画像生成が異常終了しました (FinishReason: %s)", candidate.FinishReason)
	}

	return nil, ErrNoImage
}

// isSafeURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func isSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP

	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolvedIPs, err := net.LookupIP(host)
		if err != nil {
			return false, fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolvedIPs
	}

	if len(ips) == 0 {
		return false, fmt.Errorf("IPが見つかりません")
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
