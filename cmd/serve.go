package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/go-storybook-kit/internal/builder"
	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "絵本生成のWebサーバを起動するのだ",
	Long: `アップロード受付・進捗照会・PDFダウンロードのHTTP APIを公開するのだ。
ポートは環境変数 PORT で変えられるのだ。`,
	RunE: runServe,
}

// runServe はHTTPサーバを起動し、SIGINT/SIGTERM で丁寧に停止するのだ。
func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.LoadConfig()

	app, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	handler := web.NewApp(app.Store, app.Manager, cfg.UploadDir)
	server := web.NewServer(cfg.Port, handler.Router())

	errCh := make(chan error, 1)
	go func() {
		slog.Info("絵本サーバを起動するのだ", "port", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("停止シグナルを受け取ったのだ", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("サーバを停止したのだ")
	return nil
}
