package adapters

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"strings"
)

// NormalizePayload は、InlineData のペイロードを生の画像バイト列へ正規化します。
// 上流サービスは画像を生バイトで返すことも base64 テキストで返すこともあるため、
// 次の明示的なルールで判定します。
//
//  1. ペイロードがすでに画像シグネチャを持つなら生バイトとみなしそのまま返す。
//  2. そうでなければ空白を除去したテキストとして厳密な base64 デコードを試み、
//     デコード結果が画像シグネチャを持つ場合のみ採用する。
//  3. どちらにも該当しなければ入力をそのまま返す。
func NormalizePayload(data []byte) []byte {
	if isImageBytes(data) {
		return data
	}

	text := strings.TrimSpace(string(data))
	decoded, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return data
	}
	if !isImageBytes(decoded) {
		return data
	}
	return decoded
}

func isImageBytes(data []byte) bool {
	if len(bytes.TrimSpace(data)) == 0 {
		return false
	}
	return strings.HasPrefix(http.DetectContentType(data), "image/")
}
