package main

import (
	"github.com/CrypToolProject/CrypTool-2-sub021/cmd/dca/cmd"
)

func main() {
	cmd.Execute()
}
