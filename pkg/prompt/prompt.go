package prompt

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultStyle は、未知のスタイルキーが指定されたときのフォールバック先なのだ。
const DefaultStyle = "modern"

// styleHints はスタイルキーと画風指示文を紐づけるマップなのだ。
var styleHints = map[string]string{
	"modern":       "Clean, modern, professional vector-like graphic with subtle gradients.",
	"flat":         "Flat design, bold colors, no gradients or shadows.",
	"skeuomorphic": "Realistic 3D appearance with textures, shadows, and depth.",
	"minimal":      "Ultra-minimalist, single color on white, simple geometric shapes.",
	"playful":      "Bright colors, rounded shapes, friendly and approachable style.",
}

// Keys は、登録済みのスタイルキーをソートして返すのだ。
func Keys() []string {
	return slices.Sorted(maps.Keys(styleHints))
}

// Hint は、スタイルキーに対応する画風指示文を返します。
// 未知のキーはエラーにせず、黙って DefaultStyle の指示文にフォールバックします。
func Hint(style string) string {
	if hint, ok := styleHints[style]; ok {
		return hint
	}
	return styleHints[DefaultStyle]
}

// Build は、テーマとスタイルから画像生成サービスへの指示文を組み立てます。
// アイコン素材として使うため、角丸形状やドロップシャドウを描かせず、
// キャンバス全面を塗りつぶした正方形テクスチャを要求します。副作用はありません。
func Build(theme, style string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a raw app icon texture for: %q.\n\n", theme)
	b.WriteString("CRITICAL INSTRUCTION: Generate a FULL BLEED SQUARE image.\n")
	b.WriteString("- DO NOT render a rounded icon shape inside a background.\n")
	b.WriteString("- DO NOT add drop shadows or 3D borders around the edges.\n")
	b.WriteString("- The image must look like a flat square texture that fills the ENTIRE canvas 100%.\n\n")
	b.WriteString("Design requirements:\n")
	fmt.Fprintf(&b, "- A central symbol or illustration representing the theme %q.\n", theme)
	b.WriteString("- Use harmonious, professional color palette appropriate for the theme.\n")
	b.WriteString("- Background: Solid or subtle gradient that extends to all 4 corners.\n")
	fmt.Fprintf(&b, "- Style: %s\n", Hint(style))

	return b.String()
}
