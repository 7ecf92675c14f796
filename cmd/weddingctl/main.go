// Command weddingctl runs migrations and issues credentials against the
// weddingdesk database.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kiranshivaraju/weddingdesk/cmd/weddingctl/cli"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
