package graphql

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGraphQL is matched by every error reported inside a GraphQL response.
var ErrGraphQL = errors.New("graphql error")

// ResponseError carries the messages of the "errors" array of a response.
type ResponseError struct {
	Messages []string
}

func (e *ResponseError) Error() string {
	if len(e.Messages) == 0 {
		return ErrGraphQL.Error()
	}
	return strings.Join(e.Messages, "; ")
}

func (e *ResponseError) Is(target error) bool { return target == ErrGraphQL }

// RejectedError is returned when a mutation answers success=false. Its text
// is the backend message, unmodified.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

func (e *RejectedError) Is(target error) bool { return target == ErrGraphQL }

// StatusError reports a non-2xx HTTP answer.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("graphql endpoint returned %d", e.Code)
	}
	return fmt.Sprintf("graphql endpoint returned %d: %s", e.Code, e.Body)
}

func (e *StatusError) retryable() bool { return e.Code >= 500 || e.Code == 429 }
