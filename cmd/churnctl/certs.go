package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/bibbank/churn-service/pkg/tlsutil"
)

const (
	certHostFlag     = "host"
	certOutFlag      = "out"
	certValidityFlag = "validity"
)

func certsCmd() *cli.Command {
	return &cli.Command{
		Name:  "certs",
		Usage: "Manage TLS material for the gRPC listener",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate a self-signed CA and server certificate",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  certHostFlag,
						Usage: "DNS name or IP the server certificate is valid for (can be specified multiple times)",
						Value: []string{"localhost", "127.0.0.1"},
					},
					&cli.StringFlag{
						Name:  certOutFlag,
						Usage: "Output directory",
						Value: "certs",
					},
					&cli.DurationFlag{
						Name:  certValidityFlag,
						Usage: "Certificate lifetime",
						Value: 365 * 24 * time.Hour,
					},
				},
				Action: cmdCertsGenerate,
			},
		},
	}
}

func cmdCertsGenerate(_ context.Context, cmd *cli.Command) error {
	paths, err := tlsutil.GenerateSelfSignedCert(
		cmd.StringSlice(certHostFlag),
		cmd.String(certOutFlag),
		cmd.Duration(certValidityFlag),
	)
	if err != nil {
		return fmt.Errorf("generating certificates: %w", err)
	}

	_, err = fmt.Fprintf(cmd.Root().Writer,
		"CA certificate:     %s\nServer certificate: %s\nServer key:         %s\n\nGRPC_TLS_CERT_FILE=%s GRPC_TLS_KEY_FILE=%s\n",
		paths.CACert, paths.ServerCert, paths.ServerKey, paths.ServerCert, paths.ServerKey)
	return err
}
