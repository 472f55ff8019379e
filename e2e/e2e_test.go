//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/churn-service/internal/client"
	"github.com/bibbank/churn-service/pkg/testutil"
)

var (
	serviceURL  string
	grpcAddress string
)

func TestMain(m *testing.M) {
	serviceURL = os.Getenv("CHURN_ADDR")
	if serviceURL == "" {
		serviceURL = "http://localhost:5000"
	}
	grpcAddress = os.Getenv("CHURN_GRPC_ADDR")
	if grpcAddress == "" {
		grpcAddress = "localhost:8090"
	}

	// Wait for the service to be ready
	for i := 0; i < 30; i++ {
		resp, err := http.Get(serviceURL + "/readyz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		time.Sleep(2 * time.Second)
	}

	os.Exit(m.Run())
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRoot(t *testing.T) {
	resp, err := http.Get(serviceURL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Churn Prediction API is running.", body["message"])
}

func TestHealthCheck(t *testing.T) {
	status, err := client.NewHTTPClient(serviceURL, nil).Health(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, "healthy", status)
}

func TestPredictFlow(t *testing.T) {
	c := client.NewHTTPClient(serviceURL, nil)

	resp, err := c.Predict(testContext(t), testutil.ExampleCustomer())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.RiskProbability, 0.0)
	assert.LessOrEqual(t, resp.RiskProbability, 1.0)
	assert.Contains(t, []string{"No Churn", "Likely to Churn", "Churn"}, resp.Prediction)
}

func TestPredictFlow_GRPCMatchesHTTP(t *testing.T) {
	grpcClient, err := client.DialGRPC(grpcAddress, nil)
	require.NoError(t, err)
	defer grpcClient.Close()

	fromGRPC, err := grpcClient.Predict(testContext(t), testutil.ExampleCustomer())
	require.NoError(t, err)

	fromHTTP, err := client.NewHTTPClient(serviceURL, nil).Predict(testContext(t), testutil.ExampleCustomer())
	require.NoError(t, err)

	assert.Equal(t, fromHTTP, fromGRPC)
}

func TestPredictFlow_MissingField(t *testing.T) {
	fields := testutil.ExampleCustomer()
	delete(fields, "Contract")

	_, err := client.NewHTTPClient(serviceURL, nil).Predict(testContext(t), fields)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "missing_field", apiErr.Kind)
	assert.Equal(t, "Contract", apiErr.Field)
}

func TestPredictFlow_MalformedBody(t *testing.T) {
	resp, err := http.Post(serviceURL+"/predict", "application/json", bytes.NewBufferString(`[1,2,3]`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsExposed(t *testing.T) {
	_, _ = client.NewHTTPClient(serviceURL, nil).Predict(testContext(t), testutil.ExampleCustomer())

	resp, err := http.Get(serviceURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "churn_predictions_total")
}
