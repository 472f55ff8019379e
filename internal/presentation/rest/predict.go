package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/bibbank/churn-service/internal/application/dto"
	"github.com/bibbank/churn-service/internal/application/usecase"
	"github.com/bibbank/churn-service/internal/domain/model"
)

// maxBodyBytes bounds a prediction request body.
const maxBodyBytes = 64 << 10

// PredictionHandler exposes the prediction and schema use cases over HTTP.
type PredictionHandler struct {
	predict *usecase.PredictChurn
	schema  *usecase.DescribeSchema
	logger  *slog.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predict *usecase.PredictChurn, schema *usecase.DescribeSchema, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{
		predict: predict,
		schema:  schema,
		logger:  logger,
	}
}

// RegisterRoutes registers prediction endpoints on the provided ServeMux.
func (h *PredictionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", h.Predict)
	mux.HandleFunc("GET /schema", h.Schema)
}

// Predict scores one customer.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(w, r)
	if err != nil {
		writeError(w, h.predict.Reject(r.Context(), err))
		return
	}

	resp, err := h.predict.Execute(r.Context(), dto.PredictChurnRequest{Fields: fields})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Schema returns the ordered list of expected fields.
func (h *PredictionHandler) Schema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.schema.Execute())
}

// decodeFields reads a JSON object body. Numbers are kept as json.Number so
// integer codes are not silently turned into floats.
func decodeFields(w http.ResponseWriter, r *http.Request) (model.RawRequest, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return nil, model.NewMalformedInputError("request body is empty")
		case errors.As(err, &tooLarge):
			return nil, model.NewMalformedInputError("request body is too large")
		default:
			return nil, model.NewMalformedInputError("request body is not valid JSON")
		}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, model.NewMalformedInputError("request body must contain a single JSON object")
	}

	fields, ok := body.(map[string]any)
	if !ok {
		return nil, model.NewMalformedInputError("request body must be a JSON object")
	}
	return fields, nil
}

// StatusFor maps a failure kind to its HTTP status code.
func StatusFor(kind model.FailureKind) int {
	switch kind {
	case model.FailureMalformedInput, model.FailureMissingField, model.FailureInvalidValue:
		return http.StatusBadRequest
	case model.FailureModelUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	body := dto.FromError(err)
	writeJSON(w, StatusFor(model.AsPredictionError(err).Kind), body)
}
