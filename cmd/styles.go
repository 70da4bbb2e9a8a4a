package cmd

import (
	"fmt"

	"github.com/z0rgoyok/go-appicon-kit/pkg/prompt"

	"github.com/spf13/cobra"
)

// stylesCmd は、generate の第3引数に使えるスタイルキーの一覧を表示するのだ。
var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "利用可能なスタイルキーの一覧を表示するのだ。",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available styles:")
		for _, key := range prompt.Keys() {
			marker := "  "
			if key == prompt.DefaultStyle {
				marker = "* " // デフォルト
			}
			fmt.Printf("%s%-13s %s\n", marker, key, prompt.Hint(key))
		}
	},
}
