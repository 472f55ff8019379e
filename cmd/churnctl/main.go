// Command churnctl is the command line client of the churn service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/churn-service/internal/client"
	"github.com/bibbank/churn-service/pkg/tlsutil"
)

const (
	transportHTTP = "http"
	transportGRPC = "grpc"

	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// Global flag names.
const (
	debugFlag     = "debug"
	addrFlag      = "addr"
	grpcAddrFlag  = "grpc-addr"
	transportFlag = "transport"
	caFileFlag    = "ca-file"
	timeoutFlag   = "timeout"
)

var (
	version = "v0.0.1-default"
	commit  = ""
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	initLogging(false)

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "churnctl",
		Version: fmt.Sprintf("%s - (commit: %s)", version, commit),
		Usage:   "CLI for the churn prediction service",
		Writer:  w,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  debugFlag,
				Usage: "Prints verbose logs",
			},
			&cli.StringFlag{
				Name:    addrFlag,
				Usage:   "Base URL of the REST API",
				Value:   "http://localhost:5000",
				Sources: cli.EnvVars("CHURN_ADDR"),
			},
			&cli.StringFlag{
				Name:    grpcAddrFlag,
				Usage:   "Address of the gRPC API",
				Value:   "localhost:8090",
				Sources: cli.EnvVars("CHURN_GRPC_ADDR"),
			},
			&cli.StringFlag{
				Name:  transportFlag,
				Usage: "Transport used to reach the service [http, grpc]",
				Value: transportHTTP,
			},
			&cli.StringFlag{
				Name:    caFileFlag,
				Usage:   "CA certificate for gRPC TLS (plaintext when empty)",
				Sources: cli.EnvVars("CHURN_CA_FILE"),
			},
			&cli.DurationFlag{
				Name:  timeoutFlag,
				Usage: "Request timeout",
				Value: 10 * time.Second,
			},
		},
		Commands: []*cli.Command{
			predictCmd(),
			schemaCmd(),
			healthCmd(),
			modelCmd(),
			certsCmd(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool(debugFlag) {
				initLogging(true)
			}
			return ctx, nil
		},
	}
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

// newClient opens a client for the transport selected on the command line.
func newClient(cmd *cli.Command) (client.Client, error) {
	switch t := cmd.String(transportFlag); t {
	case transportHTTP:
		slog.Debug("using http transport", "addr", cmd.String(addrFlag))
		return client.NewHTTPClient(cmd.String(addrFlag), nil), nil
	case transportGRPC:
		slog.Debug("using grpc transport", "addr", cmd.String(grpcAddrFlag))
		if ca := cmd.String(caFileFlag); ca != "" {
			creds, err := tlsutil.ClientTLSConfig(ca, false)
			if err != nil {
				return nil, err
			}
			return client.DialGRPC(cmd.String(grpcAddrFlag), creds)
		}
		return client.DialGRPC(cmd.String(grpcAddrFlag), nil)
	default:
		return nil, fmt.Errorf("unsupported transport %q, expected %s or %s", t, transportHTTP, transportGRPC)
	}
}

func withTimeout(ctx context.Context, cmd *cli.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, cmd.Duration(timeoutFlag))
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML, "yml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	case formatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
