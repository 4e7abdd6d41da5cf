// Command onedrivefs runs filesystem verbs against OneDrive accounts
// addressed by onedrive:/ URLs.
//
// Usage:
//
//	onedrivefs [flags] <verb> <url> [args]
//
// Verbs:
//
//	ls <url>             list a directory
//	stat <url>           show one entry
//	cat <url>            write a file's content to stdout
//	put <url> [file]     store a local file (or stdin) at url
//	mkdir <url>          create a folder
//	rm <url>             remove an item (see -recurse)
//	mv <src> <dest>      rename or move within one account
//	cp <src> <dest>      copy within one account
//	df <url>             show the account's storage quota
//	mime <url>           print an item's mime type
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onedrivefs/onedrivefs/internal/logger"
	"github.com/onedrivefs/onedrivefs/pkg/config"
	"github.com/onedrivefs/onedrivefs/pkg/drive"
	"github.com/onedrivefs/onedrivefs/pkg/fs"
	"github.com/onedrivefs/onedrivefs/pkg/metrics"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <verb> <url> [args]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Verbs: ls, stat, cat, put, mkdir, rm, mv, cp, df, mime\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	logLevel := flag.String("log-level", "", "Override the configured log level (DEBUG, INFO, WARN, ERROR)")
	recurse := flag.Bool("recurse", false, "Allow rm to delete non-empty folders")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall operation timeout")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "onedrivefs: %v\n", err)
		os.Exit(1)
	}

	if *logLevel != "" {
		cfg.Logging.Level = strings.ToUpper(*logLevel)
	}
	if err := config.SetupLogging(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "onedrivefs: %v\n", err)
		os.Exit(1)
	}

	session, pathCache, err := config.NewSession(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "onedrivefs: %v\n", err)
		os.Exit(1)
	}
	defer pathCache.Close()

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Listen)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, session, flag.Args(), *recurse); err != nil {
		fmt.Fprintf(os.Stderr, "onedrivefs: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy onto distinct exit codes so scripts can
// tell "not there" from "not allowed" without parsing messages.
func exitCode(err error) int {
	switch drive.CodeOf(err) {
	case drive.ErrNotFound:
		return 3
	case drive.ErrAccessDenied, drive.ErrAuthFailed:
		return 4
	case drive.ErrUnsupported:
		return 5
	default:
		return 1
	}
}

func run(ctx context.Context, session *fs.Session, args []string, recurse bool) error {
	verb, rest := args[0], args[1:]

	switch verb {
	case "ls":
		return runList(ctx, session, rest[0])

	case "stat":
		entry, err := session.Stat(ctx, rest[0])
		if err != nil {
			return err
		}
		printEntryDetail(entry)
		return nil

	case "cat":
		_, _, err := session.Get(ctx, rest[0], os.Stdout)
		return err

	case "put":
		src := io.Reader(os.Stdin)
		if len(rest) > 1 {
			f, err := os.Open(rest[1])
			if err != nil {
				return err
			}
			defer f.Close()
			src = f
		}
		return session.Put(ctx, rest[0], src)

	case "mkdir":
		return session.Mkdir(ctx, rest[0])

	case "rm":
		return session.Delete(ctx, rest[0], recurse)

	case "mv":
		if len(rest) < 2 {
			return fmt.Errorf("mv needs a source and a destination")
		}
		return session.Rename(ctx, rest[0], rest[1])

	case "cp":
		if len(rest) < 2 {
			return fmt.Errorf("cp needs a source and a destination")
		}
		return session.Copy(ctx, rest[0], rest[1])

	case "df":
		quota, err := session.FreeSpace(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("total      %d\n", quota.Total)
		fmt.Printf("remaining  %d\n", quota.Remaining)
		return nil

	case "mime":
		mimeType, err := session.MimeType(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Println(mimeType)
		return nil

	default:
		return fmt.Errorf("unknown verb %q", verb)
	}
}

// runList lists a directory, following a single account-creation redirect.
func runList(ctx context.Context, session *fs.Session, url string) error {
	entries, err := session.List(ctx, url)
	if redirect, ok := err.(*fs.Redirect); ok {
		logger.Info("following redirect to %s", redirect.Target)
		entries, err = session.List(ctx, redirect.Target)
	}
	if err != nil {
		return err
	}

	for _, e := range entries {
		kind := "-"
		if e.Folder {
			kind = "d"
		}
		fmt.Printf("%s %12d  %-28s %s\n", kind, e.Size, e.MimeType, e.Name)
	}
	return nil
}

func printEntryDetail(e *fs.Entry) {
	fmt.Printf("name      %s\n", e.Name)
	fmt.Printf("type      %s\n", e.MimeType)
	fmt.Printf("size      %d\n", e.Size)
	if !e.Modified.IsZero() {
		fmt.Printf("modified  %s\n", e.Modified.Format(time.RFC3339))
	}
	if e.RemoteID != "" {
		fmt.Printf("id        %s\n", e.RemoteID)
	}
	if e.WebURL != "" {
		fmt.Printf("url       %s\n", e.WebURL)
	}
}

// serveMetrics exposes the Prometheus registry. Failures are logged, not
// fatal; the verb still runs.
func serveMetrics(listen string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(listen, mux); err != nil {
		logger.Warn("metrics endpoint failed: %v", err)
	}
}
