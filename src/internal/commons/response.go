package commons

// Response is the envelope of every ledger HTTP answer. A declined business
// operation is a failure that still carries data.
type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// DeclinedResponse reports a decline together with the state it left behind,
// such as the unchanged debit balance of a refused transfer.
func DeclinedResponse[T any](message string, data T, errors ...string) Response[T] {
	resp := ErrorResponse[T](message, errors...)
	resp.Data = &data
	return resp
}
