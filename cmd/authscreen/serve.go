package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Goofygiraffe06/authscreen/api"
	"github.com/Goofygiraffe06/authscreen/internal/authsvc"
	"github.com/Goofygiraffe06/authscreen/internal/config"
	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/mail"
	"github.com/Goofygiraffe06/authscreen/internal/manager"
	"github.com/Goofygiraffe06/authscreen/internal/notify"
	"github.com/Goofygiraffe06/authscreen/internal/session"
	"github.com/Goofygiraffe06/authscreen/internal/view"
	"github.com/Goofygiraffe06/authscreen/store"
	"github.com/Goofygiraffe06/authscreen/store/ephemeral"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	addr    string
	backend string
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the auth screen HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides PORT)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "auth backend: remote or local (overrides AUTH_BACKEND)")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	config.Load()

	f, err := logging.InitLogger(config.LogFile())
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer f.Close()
	defer logging.Sync()
	logging.InfoLog("Starting auth screen server")

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	wm := manager.NewWorkManager()
	defer wm.Close()

	backend := opts.backend
	if backend == "" {
		backend = config.AuthBackend()
	}

	var (
		svc      view.AuthService
		resetter authsvc.PasswordResetter
	)
	switch backend {
	case config.BackendRemote:
		remote := authsvc.NewRemote(authsvc.RemoteConfig{
			BaseURL: config.AuthAPIURL(),
			Timeout: config.AuthAPITimeout(),
		}, nil)
		svc, resetter = remote, remote
		logging.InfoLog("Auth backend: storefront API at %s", config.AuthAPIURL())

	case config.BackendLocal:
		local, closeLocal, err := buildLocal(wm)
		if err != nil {
			return err
		}
		defer closeLocal()
		svc, resetter = local, local
		logging.InfoLog("Auth backend: local sqlite at %s", config.DBPath())

	default:
		return fmt.Errorf("unknown auth backend %q", backend)
	}

	screens := ephemeral.NewScreenStore(config.ScreenTTL(), config.MaxScreens())
	defer screens.Close()
	registry := notify.NewRegistry()

	router := api.NewRouter(api.Deps{
		Screens: api.NewScreens(screens, registry, svc, wm.Mutations(), config.ScreenTTL(), config.SecureCookies()),
		Page: api.PageConfig{
			Sessions:      session.NewIssuer(config.JWTSecret(), config.JWTIssuer(), config.SessionTTL()),
			HomePath:      config.HomePath(),
			WaitTimeout:   config.WaitTimeout(),
			SecureCookies: config.SecureCookies(),
		},
		Resetter:       resetter,
		MaxBodyBytes:   config.MaxRequestBodyBytes(),
		RateLimit:      config.RateLimitRequests(),
		RateWindow:     config.RateLimitWindow(),
		AllowedOrigins: config.CORSAllowedOrigins(),
	})

	addr := opts.addr
	if addr == "" {
		addr = config.ListenAddr()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       config.ServerReadTimeout(),
		ReadHeaderTimeout: config.ServerReadHeaderTimeout(),
		WriteTimeout:      config.ServerWriteTimeout(),
		IdleTimeout:       config.ServerIdleTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logging.InfoLog("Auth screen listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.InfoLog("Shutting down auth screen server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLog("Graceful shutdown failed: %v", err)
		return err
	}
	return nil
}

// buildLocal wires the sqlite account store, reset tokens and the reset mailer.
func buildLocal(wm *manager.WorkManager) (*authsvc.Local, func(), error) {
	dbFile := config.DBPath()
	users, err := store.NewSQLiteStore(dbFile)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to DB: %w", err)
	}
	if err := os.Chmod(dbFile, 0600); err != nil {
		logging.WarnLog("Failed to set restrictive permissions on %s: %v", dbFile, err)
	}

	var signer *mail.DKIMSigner
	if domain, keyPath := config.DKIMDomain(), config.DKIMKeyPath(); domain != "" && keyPath != "" {
		key, err := mail.LoadDKIMKey(keyPath)
		if err != nil {
			users.Close()
			return nil, nil, fmt.Errorf("load DKIM key: %w", err)
		}
		signer = mail.NewDKIMSigner(domain, config.DKIMSelector(), key)
		logging.InfoLog("DKIM signing enabled for %s (selector %s)", domain, config.DKIMSelector())
	}
	sender := mail.NewSender(mail.Config{
		Addr:     config.SMTPAddr(),
		From:     config.SMTPFrom(),
		Username: config.SMTPUsername(),
		Password: config.SMTPPassword(),
	}, signer)

	tokens := ephemeral.NewTokenStore(config.MaxScreens())
	local, err := authsvc.NewLocal(users, tokens, sender, wm, authsvc.LocalConfig{
		ResetURL:      config.ResetURL(),
		ResetTokenTTL: config.ResetTokenTTL(),
	})
	if err != nil {
		tokens.Close()
		users.Close()
		return nil, nil, err
	}
	return local, func() {
		tokens.Close()
		users.Close()
	}, nil
}
