package application

import (
	"context"
	"fmt"

	"github.com/lambda-feedback/appshim/event"
)

// Application is the wrapped web application. Serve returns the
// application's response, or an error if no response could be
// produced.
type Application interface {
	Serve(context.Context, event.Request) (event.Response, error)
}

// Func adapts a function to the Application interface.
type Func func(context.Context, event.Request) (event.Response, error)

func (f Func) Serve(ctx context.Context, req event.Request) (event.Response, error) {
	return f(ctx, req)
}

// PanicError is returned if the application panicked while
// handling a request.
type PanicError struct {
	// Value is the value passed to panic
	Value any

	// Stack is the stack trace captured at recovery
	Stack []byte
}

func NewPanicError(value any, stack []byte) *PanicError {
	return &PanicError{Value: value, Stack: stack}
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}

	return fmt.Sprint(e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}
