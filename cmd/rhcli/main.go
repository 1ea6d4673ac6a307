package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"robinhood/internal/broker"
	"robinhood/internal/config"
	"robinhood/internal/session"
	"robinhood/internal/transport"
)

const usage = `usage: rhcli [flags] <command> [args]

commands:
  login                      log in with --username/--password (and --mfa-code)
  logout                     revoke the stored token
  fundamentals TICKER...     fetch fundamentals, one request per ticker
  ratings INSTRUMENT_ID...   fetch analyst ratings
  instrument SYMBOL          look up an instrument
  quote SYMBOL...            fetch quotes
  accounts                   list accounts
  positions                  list positions (--nonzero to skip closed ones)
  user                       show the logged in user

--token and RH_TOKEN authenticate a single run; they are not written to
the session file.`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.SlogLevel(),
		TimeFormat: time.TimeOnly,
		NoColor:    cfg.NoColor,
	})))

	if cfg.Command == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		slog.Error("command failed", "command", cfg.Command, "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	store := session.NewStore()
	if err := store.Load(cfg.SessionPath); err == nil {
		slog.Debug("loaded session", "path", cfg.SessionPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("ignoring unreadable session file", "path", cfg.SessionPath, "error", err)
	}
	// A token given by flag or env lives for this run only and is never saved.
	if cfg.Token != "" {
		store.SetToken(cfg.Token, "", 0)
	} else {
		defer func() {
			if err := store.Save(cfg.SessionPath); err != nil {
				slog.Warn("failed to save session", "path", cfg.SessionPath, "error", err)
			}
		}()
	}

	opts := broker.Options{
		BaseURL:    cfg.BaseURL,
		Session:    store,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.CallLogPath != "" {
		calls, err := transport.NewCallLog(cfg.CallLogPath, generateRunID())
		if err != nil {
			return fmt.Errorf("open call log: %w", err)
		}
		defer func() {
			if err := calls.Close(); err != nil {
				slog.Warn("failed to close call log", "error", err)
			}
		}()
		slog.Debug("recording calls", "path", cfg.CallLogPath, "run_id", calls.RunID())
		opts.CallLog = calls
	}
	client := broker.New(opts)

	result, err := dispatch(ctx, client, cfg)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func dispatch(ctx context.Context, client *broker.Client, cfg config.Config) (any, error) {
	args := cfg.Args
	switch cfg.Command {
	case "login":
		if cfg.Username == "" || cfg.Password == "" {
			return nil, errors.New("login needs --username and --password (or RH_USERNAME and RH_PASSWORD)")
		}
		token, err := client.Login(ctx, cfg.Username, cfg.Password, cfg.MFACode)
		if errors.Is(err, broker.ErrMFARequired) {
			return nil, fmt.Errorf("%w: rerun with --mfa-code (delivered by %s)", err, token.MFAType)
		}
		if err != nil {
			return nil, err
		}
		snapshot := client.Session().Snapshot()
		return map[string]any{
			"token_type": token.TokenType,
			"scope":      token.Scope,
			"expires_at": snapshot.ExpiresAt,
			"device":     snapshot.DeviceToken,
		}, nil
	case "logout":
		return nil, client.Logout(ctx)
	case "fundamentals":
		if err := needArgs(cfg.Command, args, 1); err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return client.TickerFundamental(ctx, args[0])
		}
		return client.FundamentalsEach(ctx, args, cfg.Parallel)
	case "ratings":
		if err := needArgs(cfg.Command, args, 1); err != nil {
			return nil, err
		}
		return client.Ratings(ctx, args...)
	case "instrument":
		if err := needArgs(cfg.Command, args, 1); err != nil {
			return nil, err
		}
		return client.InstrumentBySymbol(ctx, args[0])
	case "quote":
		if err := needArgs(cfg.Command, args, 1); err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return client.Quote(ctx, args[0])
		}
		return client.Quotes(ctx, args...)
	case "accounts":
		return client.Accounts(ctx)
	case "positions":
		return client.Positions(ctx, cfg.Nonzero)
	case "user":
		return client.User(ctx)
	}
	return nil, fmt.Errorf("unknown command %q\n\n%s", cfg.Command, usage)
}

func needArgs(command string, args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("%s needs at least %d argument(s)", command, n)
	}
	return nil
}

func generateRunID() string {
	timestamp := time.Now().UTC().Format("20060102T150405")
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return timestamp
	}
	return timestamp + "-" + hex.EncodeToString(randomBytes)
}
