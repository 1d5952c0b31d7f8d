package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// User-facing messages for each outcome category.
const (
	MsgEmpty         = "No data available for this search! Reset Your Search"
	MsgBadRequest    = "The request was unacceptable, often due to invalid parameters."
	MsgNotFound      = "The requested resource doesn't exist."
	MsgServerError   = "Internal Server Error"
	MsgUnknownError  = "Something went wrong. Please try again later"
	maxResponseBytes = 32 << 20
)

type Kind int

const (
	KindSuccess Kind = iota
	KindEmpty
	KindClientError
	KindServerError
	KindUnknownError
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindEmpty:
		return "empty"
	case KindClientError:
		return "client_error"
	case KindServerError:
		return "server_error"
	case KindUnknownError:
		return "unknown_error"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "invalid"
	}
}

// Outcome is the classified result of one search exchange. The set of
// implementations is closed: Success, Empty, ClientError, ServerError,
// UnknownError and TransportFailure.
type Outcome interface {
	Kind() Kind
	// Message is the text shown to the user; empty for Success.
	Message() string
	outcome()
}

type Success struct {
	Items     []Record
	TotalHits int
}

type Empty struct{}

type ClientError struct {
	Status int
}

type ServerError struct {
	Status int
}

type UnknownError struct {
	Status int
	Cause  error
}

// TransportFailure means no HTTP exchange completed. It is shown to the
// user with the UnknownError message.
type TransportFailure struct {
	Err error
}

func (Success) Kind() Kind          { return KindSuccess }
func (Empty) Kind() Kind            { return KindEmpty }
func (ClientError) Kind() Kind      { return KindClientError }
func (ServerError) Kind() Kind      { return KindServerError }
func (UnknownError) Kind() Kind     { return KindUnknownError }
func (TransportFailure) Kind() Kind { return KindTransportFailure }

func (Success) Message() string          { return "" }
func (Empty) Message() string            { return MsgEmpty }
func (ServerError) Message() string      { return MsgServerError }
func (UnknownError) Message() string     { return MsgUnknownError }
func (TransportFailure) Message() string { return MsgUnknownError }

func (e ClientError) Message() string {
	if e.Status == http.StatusNotFound {
		return MsgNotFound
	}
	return MsgBadRequest
}

func (Success) outcome()          {}
func (Empty) outcome()            {}
func (ClientError) outcome()      {}
func (ServerError) outcome()      {}
func (UnknownError) outcome()     {}
func (TransportFailure) outcome() {}

func (e Empty) Error() string       { return e.Message() }
func (e ClientError) Error() string { return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message()) }
func (e ServerError) Error() string { return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message()) }

func (e UnknownError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("HTTP %d: %v", e.Status, e.Cause)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message())
}

func (e UnknownError) Unwrap() error { return e.Cause }

func (e TransportFailure) Error() string {
	if e.Err == nil {
		return "transport failure"
	}
	return "transport failure: " + e.Err.Error()
}

func (e TransportFailure) Unwrap() error { return e.Err }

// Classify maps a completed exchange to exactly one Outcome. body is only
// read for status 200 and may be nil otherwise.
func Classify(status int, body io.Reader) Outcome {
	switch status {
	case http.StatusOK:
		return classifyPayload(body)
	case http.StatusBadRequest, http.StatusNotFound:
		return ClientError{Status: status}
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ServerError{Status: status}
	default:
		return UnknownError{Status: status}
	}
}

func classifyPayload(body io.Reader) Outcome {
	if body == nil {
		return UnknownError{Status: http.StatusOK, Cause: errors.New("missing response body")}
	}

	var resp searchResponse
	if err := json.NewDecoder(io.LimitReader(body, maxResponseBytes)).Decode(&resp); err != nil {
		return UnknownError{Status: http.StatusOK, Cause: fmt.Errorf("decoding response: %w", err)}
	}

	items := resp.Collection.Items
	if len(items) == 0 {
		return Empty{}
	}
	return Success{Items: items, TotalHits: resp.Collection.Metadata.TotalHits}
}

// IsFailure reports whether o should be surfaced to the user as an error.
func IsFailure(o Outcome) bool {
	if o == nil {
		return false
	}
	return o.Kind() != KindSuccess
}
