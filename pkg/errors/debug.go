package errors

import "errors"

// Dumped flattens an error chain for structured logging.
type Dumped struct {
	TopMessage string
	Code       string
	Chain      []string
}

// Dump walks the wrapped chain so log lines carry every layer's message.
func Dump(err error) Dumped {
	out := Dumped{}
	if err == nil {
		return out
	}
	out.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		out.Code = string(typed.Code())
	}
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		out.Chain = append(out.Chain, cur.Error())
	}
	return out
}
