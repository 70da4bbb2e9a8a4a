package iconset

import (
	"image"
	"image/color"
)

// RadiusRatio は角丸半径のエッジ長に対する比率です。
// macOS のアイコン形状は厳密にはスーパー楕円（squircle）ですが、
// 辺長の約22.3%を半径とする角丸矩形が実用上ほぼ同じ見た目になります。
const RadiusRatio = 0.223

// SquircleMask は edge×edge の角丸矩形マスクを生成します。
// 角丸の内側は不透明 (255)、外側は完全に透明 (0) の2値マスクです。
// 同じ edge に対して常に同一の結果を返します。
func SquircleMask(edge int) *image.Alpha {
	radius := int(float64(edge) * RadiusRatio)

	mask := image.NewAlpha(image.Rect(0, 0, edge, edge))
	for y := 0; y < edge; y++ {
		for x := 0; x < edge; x++ {
			if insideRoundedRect(x, y, edge, radius) {
				mask.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return mask
}

// insideRoundedRect は、ピクセル中心 (x+0.5, y+0.5) が角丸矩形の内側かを判定します。
// 四隅の radius×radius の領域だけ円弧判定になり、それ以外は常に内側です。
func insideRoundedRect(x, y, edge, radius int) bool {
	px := float64(x) + 0.5
	py := float64(y) + 0.5
	e := float64(edge)
	r := float64(radius)

	// 円弧の中心: 各隅から radius だけ内側の点
	var cx, cy float64
	switch {
	case px < r && py < r:
		cx, cy = r, r
	case px > e-r && py < r:
		cx, cy = e-r, r
	case px < r && py > e-r:
		cx, cy = r, e-r
	case px > e-r && py > e-r:
		cx, cy = e-r, e-r
	default:
		return true
	}

	dx := px - cx
	dy := py - cy
	return dx*dx+dy*dy <= r*r
}
