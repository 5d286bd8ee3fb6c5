// Package keepalive serves the liveness endpoints pinged by the hosting
// platform and by the IVR itself.
package keepalive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	aliveText = "הבוט חי!"
	// wakeupText is read out by the IVR as a text message.
	wakeupText = "id_list_message=t-השרת התעורר בהצלחה"
)

// Router returns the liveness routes.
func Router(logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
	}))

	r.Get("/", plain(aliveText))
	r.Head("/", plain(""))
	r.Get("/wakeup", func(w http.ResponseWriter, req *http.Request) {
		logger.Info("wakeup ping", "remote", req.RemoteAddr)
		plain(wakeupText)(w, req)
	})
	return r
}

func plain(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, body)
	}
}

// Run serves the routes on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func Run(ctx context.Context, addr string, shutdownTimeout time.Duration, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Router(logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("keepalive listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
