// Command library-admin serves the library administration dashboard.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/libraryadmin/internal/cmd/admin"
	"github.com/louisbranch/libraryadmin/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := admin.NewCommand().ExecuteContext(ctx); err != nil {
		stop()
		config.Exitf("library-admin: %v", err)
	}
}
