package runner

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// isRemotePath は、出力先が gs:// スキームのリモートURIかどうかを判定するのだ。
func isRemotePath(p string) bool {
	return strings.HasPrefix(strings.ToLower(p), "gs://")
}

// resolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成するのだ。
// filepath.Join は Clean の過程で "gs://" を "gs:/" に潰してしまうため、
// リモートURIでは url.JoinPath でパス部分だけを結合してスキームを守るのだ。
func resolveOutputPath(baseDir, fileName string) (string, error) {
	if isRemotePath(baseDir) {
		u, err := url.Parse(baseDir)
		if err != nil {
			return "", fmt.Errorf("無効なGCS URIです: %w", err)
		}

		u.Path, err = url.JoinPath(u.Path, fileName)
		if err != nil {
			return "", fmt.Errorf("GCSパスの結合に失敗しました: %w", err)
		}
		return u.String(), nil
	}
	return filepath.Join(baseDir, fileName), nil
}
