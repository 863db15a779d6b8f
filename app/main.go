package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/fcon/app/server"
	"github.com/umputun/fcon/app/server/audit"
	"github.com/umputun/fcon/app/server/auth"
	"github.com/umputun/fcon/lib/fcrepo"
)

// Options with all cli commands and flags
type Options struct {
	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`

	ServerCmd serverCmd `command:"server" description:"run the repository console"`
	SchemaCmd schemaCmd `command:"schema" description:"print JSON schema of the auth config file"`
}

type serverCmd struct {
	Repo struct {
		URL      string        `long:"url" env:"URL" default:"http://localhost:8080/rest" description:"repository base URL"`
		User     string        `long:"user" env:"USER" description:"repository basic auth user"`
		Password string        `long:"password" env:"PASSWORD" description:"repository basic auth password"`
		Token    string        `long:"token" env:"TOKEN" description:"repository bearer token"`
		Timeout  time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"repository request timeout"`
	} `group:"repo" namespace:"repo" env-namespace:"REPO"`

	Server struct {
		Address          string        `long:"address" env:"ADDRESS" default:":8484" description:"server listen address"`
		BaseURL          string        `long:"base-url" env:"BASE_URL" description:"base URL path for reverse proxy, e.g. /fcon"`
		ReadTimeout      time.Duration `long:"read-timeout" env:"READ_TIMEOUT" default:"5s" description:"read header timeout"`
		WriteTimeout     time.Duration `long:"write-timeout" env:"WRITE_TIMEOUT" default:"60s" description:"write timeout"`
		IdleTimeout      time.Duration `long:"idle-timeout" env:"IDLE_TIMEOUT" default:"30s" description:"idle timeout"`
		ShutdownTimeout  time.Duration `long:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" default:"10s" description:"graceful shutdown timeout"`
		BodySizeLimit    int64         `long:"body-limit" env:"BODY_LIMIT" default:"67108864" description:"max request body size in bytes"`
		RequestsPerSec   float64       `long:"rps" env:"RPS" default:"100" description:"max requests per second"`
		MaxConcurrent    int64         `long:"max-concurrent" env:"MAX_CONCURRENT" default:"1000" description:"max concurrent requests"`
		LoginConcurrency int64         `long:"login-concurrency" env:"LOGIN_CONCURRENCY" default:"5" description:"max concurrent login attempts"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Auth struct {
		File      string        `long:"file" env:"FILE" description:"auth config file (YAML), empty disables auth"`
		LoginTTL  time.Duration `long:"login-ttl" env:"LOGIN_TTL" default:"24h" description:"login session TTL"`
		HotReload bool          `long:"hot-reload" env:"HOT_RELOAD" description:"reload auth config on file change"`
	} `group:"auth" namespace:"auth" env-namespace:"AUTH"`

	Audit struct {
		Enabled bool   `long:"enabled" env:"ENABLED" description:"record submitted actions"`
		File    string `long:"file" env:"FILE" description:"audit file (JSON lines), empty writes to the log"`
	} `group:"audit" namespace:"audit" env-namespace:"AUDIT"`
}

type schemaCmd struct{}

var revision = "unknown"

func main() {
	fmt.Printf("fcon %s\n", revision)

	var opts Options
	p := flags.NewParser(&opts, flags.Default)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	setupLog(opts.Dbg, opts.ServerCmd.Repo.Password, opts.ServerCmd.Repo.Token)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch p.Active.Name {
	case "server":
		err = runServer(ctx, opts.ServerCmd)
	case "schema":
		err = printSchema(os.Stdout)
	}
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// runServer wires the repository client, auth and audit into the console server and runs it.
func runServer(ctx context.Context, cmd serverCmd) error {
	repoOpts := []fcrepo.Option{fcrepo.WithTimeout(cmd.Repo.Timeout), fcrepo.WithUserAgent("fcon/" + revision)}
	if cmd.Repo.Token != "" {
		repoOpts = append(repoOpts, fcrepo.WithToken(cmd.Repo.Token))
	}
	if cmd.Repo.User != "" {
		repoOpts = append(repoOpts, fcrepo.WithBasicAuth(cmd.Repo.User, cmd.Repo.Password))
	}
	client, err := fcrepo.New(cmd.Repo.URL, repoOpts...)
	if err != nil {
		return fmt.Errorf("failed to create repository client: %w", err)
	}
	log.Printf("[INFO] repository %s", client.BaseURL())

	authSvc, closeAuth, err := makeAuth(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeAuth()

	auditLogger, closeAudit, err := makeAudit(cmd, authSvc)
	if err != nil {
		return err
	}
	defer closeAudit()

	baseURL := strings.TrimSuffix(cmd.Server.BaseURL, "/")
	if baseURL != "" && !strings.HasPrefix(baseURL, "/") {
		return fmt.Errorf("base URL must start with /, got %q", cmd.Server.BaseURL)
	}

	srv, err := server.New(server.Deps{Repo: client, Auth: authSvc, Audit: auditLogger}, server.Config{
		Address:          cmd.Server.Address,
		ReadTimeout:      cmd.Server.ReadTimeout,
		WriteTimeout:     cmd.Server.WriteTimeout,
		IdleTimeout:      cmd.Server.IdleTimeout,
		ShutdownTimeout:  cmd.Server.ShutdownTimeout,
		Version:          revision,
		BaseURL:          baseURL,
		BodySizeLimit:    cmd.Server.BodySizeLimit,
		RequestsPerSec:   cmd.Server.RequestsPerSec,
		MaxConcurrent:    cmd.Server.MaxConcurrent,
		LoginConcurrency: cmd.Server.LoginConcurrency,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// makeAuth loads the auth config, nil service when no file is set.
// The returned func stops the session store cleanup.
func makeAuth(ctx context.Context, cmd serverCmd) (*auth.Service, func(), error) {
	noop := func() {}
	if cmd.Auth.File == "" {
		log.Printf("[WARN] auth disabled, console and API are open to everyone who can reach %s", cmd.Server.Address)
		return nil, noop, nil
	}
	sessions, err := auth.NewMemorySessions(cmd.Auth.LoginTTL)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create session store: %w", err)
	}
	closeSessions := func() {
		if err := sessions.Close(); err != nil {
			log.Printf("[WARN] failed to close session store: %v", err)
		}
	}
	vldt, err := auth.NewSchemaValidator()
	if err != nil {
		closeSessions()
		return nil, noop, fmt.Errorf("failed to create auth config validator: %w", err)
	}
	svc, err := auth.New(cmd.Auth.File, cmd.Auth.LoginTTL, cmd.Auth.HotReload, sessions, vldt)
	if err != nil {
		closeSessions()
		return nil, noop, fmt.Errorf("failed to initialize auth: %w", err)
	}
	if err := svc.Activate(ctx); err != nil {
		closeSessions()
		return nil, noop, fmt.Errorf("failed to activate auth: %w", err)
	}
	log.Printf("[INFO] auth enabled from %s, hot reload %v", cmd.Auth.File, cmd.Auth.HotReload)
	return svc, closeSessions, nil
}

// makeAudit creates the audit logger and the func closing its file.
func makeAudit(cmd serverCmd, authSvc *auth.Service) (*audit.Logger, func(), error) {
	noop := func() {}
	if !cmd.Audit.Enabled {
		return nil, noop, nil
	}
	var actor audit.Actor
	if authSvc != nil {
		actor = authSvc
	}
	if cmd.Audit.File == "" {
		return audit.New(nil, actor), noop, nil
	}
	f, err := os.OpenFile(cmd.Audit.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open audit file: %w", err)
	}
	log.Printf("[INFO] audit records written to %s", cmd.Audit.File)
	return audit.New(f, actor), func() {
		if err := f.Close(); err != nil {
			log.Printf("[WARN] failed to close audit file: %v", err)
		}
	}, nil
}

func printSchema(w io.Writer) error {
	schema, err := auth.Schema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(schema)); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	return nil
}

func setupLog(dbg bool, secrets ...string) {
	logOpts := []log.Option{log.Msec, log.LevelBraces}
	if dbg {
		logOpts = []log.Option{log.Debug, log.CallerFile, log.CallerFunc, log.Msec, log.LevelBraces}
	}
	var nonEmpty []string
	for _, s := range secrets {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, log.Secret(nonEmpty...))
	}
	log.Setup(logOpts...)
}
