// Package http writes the JSON envelope every endpoint answers with and adapts
// return style handlers onto net/http.
package http

import (
	"encoding/json"
	"net/http"

	perr "ksefconnect/internal/platform/errors"
	"ksefconnect/internal/platform/logger"
	pnet "ksefconnect/internal/platform/net"
	"ksefconnect/internal/platform/net/http/bind"
)

// Envelope is the body of every JSON response. Data is set on success, Code and Error on failure.
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// WriteJSON encodes v with the given status
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Named("http").Debug().Err(err).Msg("response encode failed")
	}
}

// WriteError maps err to its status and writes the error envelope
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := perr.HTTPStatus(err)
	wire := perr.WireFrom(err)
	if status >= http.StatusInternalServerError {
		logger.C(r.Context()).Error().Err(err).Int("status", status).Msg("request failed")
	}
	WriteJSON(w, status, Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       wire.Code,
		Error:      wire.Message,
		Field:      wire.Field,
		RequestID:  pnet.RequestID(r.Context()),
	})
}

// Response is what return style handlers produce
type Response struct {
	Status int
	Data   any
	Err    error
}

func OK(data any) Response { return Response{Status: http.StatusOK, Data: data} }

func Error(err error) Response { return Response{Err: err} }

// Handle writes the Response fn returns
func Handle(fn func(*http.Request) Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := fn(r)
		switch {
		case resp.Err != nil:
			WriteError(w, r, resp.Err)
		case resp.Status == http.StatusNoContent:
			w.WriteHeader(http.StatusNoContent)
		default:
			status := resp.Status
			if status == 0 {
				status = http.StatusOK
			}
			WriteJSON(w, status, Envelope{
				StatusCode: status,
				Status:     http.StatusText(status),
				RequestID:  pnet.RequestID(r.Context()),
				Data:       resp.Data,
			})
		}
	}
}

// Call adapts a handler without a request body. A returned Response is written as is.
func Call(fn func(*http.Request) (any, error)) http.HandlerFunc {
	return Handle(func(r *http.Request) Response { return result(fn(r)) })
}

// Bind decodes and validates a T from the body before calling fn
func Bind[T any](fn func(*http.Request, T) (any, error)) http.HandlerFunc {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}
