package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const maxRequestBodySize = 1048576

var validate = validator.New()

type errorResponse struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func writeJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Error("Unable to encode payload!")
	}
}

func decodeJSON(body io.ReadCloser, data interface{}) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(data); err != nil {
		return errors.New("Request body includes malformed json")
	}

	if err := validate.Struct(data); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, e := range validationErrors {
				logger.Log.Debug(e)
			}
		}
		return errors.New("Request body is missing required fields")
	} else if dec.More() {
		return errors.New("Request body must only contain one json object")
	}

	return nil
}

func writeInvalidInputResponse(log *logrus.Entry, w http.ResponseWriter, err error) {
	errMsg := "Unable to process json input"
	log.WithFields(logrus.Fields{"error": err}).Debug(errMsg)
	errorResponse := errorResponse{Title: errMsg,
		Status: http.StatusBadRequest,
		Detail: err.Error()}
	writeJSONResponse(w, errorResponse.Status, errorResponse)
}

// writeErrorResponse maps a controller error onto its http status
func writeErrorResponse(log *logrus.Entry, w http.ResponseWriter, err error) {
	var status int

	switch {
	case errors.Is(err, controller.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, controller.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, controller.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, controller.ErrUnauthenticated):
		status = http.StatusUnauthorized
	default:
		status = http.StatusInternalServerError
		logger.LogWithError(log, "Request failed", err)
	}

	errorResponse := errorResponse{Title: http.StatusText(status),
		Status: status,
		Detail: err.Error()}

	if status == http.StatusInternalServerError {
		errorResponse.Detail = "Internal error"
	}

	writeJSONResponse(w, errorResponse.Status, errorResponse)
}
