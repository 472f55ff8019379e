package tlsutil_test

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/churn-service/pkg/tlsutil"
)

func TestGenerateSelfSignedCert(t *testing.T) {
	dir := t.TempDir()

	paths, err := tlsutil.GenerateSelfSignedCert([]string{"localhost", "127.0.0.1"}, dir, 24*time.Hour)
	require.NoError(t, err)

	for _, p := range []string{paths.CACert, paths.CAKey, paths.ServerCert, paths.ServerKey} {
		assert.FileExists(t, p)
	}

	certPEM, err := os.ReadFile(paths.ServerCert)
	require.NoError(t, err)
	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost"}, cert.DNSNames)
	require.Len(t, cert.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", cert.IPAddresses[0].String())

	caPEM, err := os.ReadFile(paths.CACert)
	require.NoError(t, err)
	roots := x509.NewCertPool()
	require.True(t, roots.AppendCertsFromPEM(caPEM))
	_, err = cert.Verify(x509.VerifyOptions{
		DNSName:   "localhost",
		Roots:     roots,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	})
	require.NoError(t, err)
}

func TestGenerateSelfSignedCert_NoHosts(t *testing.T) {
	_, err := tlsutil.GenerateSelfSignedCert(nil, t.TempDir(), time.Hour)
	require.Error(t, err)
}

func TestLoadCredentials(t *testing.T) {
	paths, err := tlsutil.GenerateSelfSignedCert([]string{"localhost"}, t.TempDir(), time.Hour)
	require.NoError(t, err)

	serverCreds, err := tlsutil.ServerTLSConfig(paths.ServerCert, paths.ServerKey)
	require.NoError(t, err)
	assert.Equal(t, "tls", serverCreds.Info().SecurityProtocol)

	clientCreds, err := tlsutil.ClientTLSConfig(paths.CACert, false)
	require.NoError(t, err)
	assert.NotNil(t, clientCreds)

	_, err = tlsutil.ServerTLSConfig(filepath.Join(t.TempDir(), "missing.pem"), paths.ServerKey)
	require.Error(t, err)

	_, err = tlsutil.ClientTLSConfig(paths.CAKey, false)
	require.Error(t, err)
}
