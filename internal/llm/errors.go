package llm

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/nulzo/llm-provider-kit/internal/httpclient"
	"github.com/nulzo/llm-provider-kit/pkg/api"
)

// ErrUnsupported marks operations a provider does not offer, such as
// embeddings on a text-only API.
var ErrUnsupported = errors.New("unsupported operation")

// Unsupported returns an ErrUnsupported for op on provider.
func Unsupported(provider, op string) error {
	return fmt.Errorf("%w: %s API does not support %s", ErrUnsupported, provider, op)
}

// ErrEmptyCompletion is returned when a 2xx reply carries no usable output.
var ErrEmptyCompletion = errors.New("no completion returned")

// ErrorDetailFrom converts any failure into the error side of a Response.
func ErrorDetailFrom(err error) *api.ErrorDetail {
	if err == nil {
		return nil
	}

	detail := &api.ErrorDetail{
		Message: err.Error(),
		Type:    KindOf(err),
		Details: err.Error(),
	}

	var upstream *httpclient.UpstreamError
	var inBody *api.ErrorResponse
	switch {
	case errors.As(err, &upstream):
		if msg := upstream.VendorMessage(); msg != "" {
			detail.Message = msg
		}
		detail.Code = upstream.VendorCode()
	case errors.As(err, &inBody):
		if inBody.Code != nil {
			detail.Code = inBody.Code
		}
	}

	return detail
}

// KindOf names the most specific error type in err's chain, skipping the
// generic wrappers produced by fmt.Errorf, errors.New and errors.Join.
func KindOf(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		name := typeName(e)
		switch name {
		case "fmt.wrapError", "fmt.wrapErrors", "errors.errorString", "errors.joinError", "":
			continue
		}
		return name
	}
	return "Error"
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.String()
}

// Execute runs call and folds its outcome, including a panic, into a Response.
func Execute(call func() (api.Completion, error)) (resp *api.Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = api.Failure(&api.ErrorDetail{
				Message: fmt.Sprintf("panic: %v", r),
				Type:    "panic",
				Details: fmt.Sprintf("%v", r),
			})
		}
	}()

	completion, err := call()
	if err != nil {
		return api.Failure(ErrorDetailFrom(err))
	}
	return api.Success(completion)
}
