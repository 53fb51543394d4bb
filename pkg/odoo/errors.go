package odoo

import (
	"errors"
	"fmt"
	"strings"
)

// RPCError is the `error` member of a JSON-RPC response.
type RPCError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Data    RPCErrorData `json:"data"`
}

// RPCErrorData carries the server-side exception details Odoo attaches to faults.
type RPCErrorData struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	if e.Data.Message != "" {
		return fmt.Sprintf("odoo: rpc error code=%d: %s", e.Code, e.Data.Message)
	}
	return fmt.Sprintf("odoo: rpc error code=%d: %s", e.Code, e.Message)
}

// HTTPError reports a non-2xx transport status.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("odoo: http status=%d", e.StatusCode)
}

// IsRPCError reports whether err carries a server-side fault.
func IsRPCError(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr)
}

// IsMissingRecord reports whether err is the fault raised when reading an id that no longer exists.
func IsMissingRecord(err error) bool {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	return strings.HasSuffix(rpcErr.Data.Name, "MissingError")
}
