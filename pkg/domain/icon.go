package domain

// IconRequest は1枚のアイコン素材の生成要求です。
// AspectRatio はアプリアイコン用途のため常に "1:1" を指定しますが、
// Gemini SDK との直結を優先してフィールドとして保持します。
type IconRequest struct {
	Prompt       string
	AspectRatio  string
	ReferenceURL string
	Seed         *int64
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
	UsedSeed int64
}
