package model

type ErrorCode string

const (
	ErrCodeOrderNotFound    ErrorCode = "ORDER_NOT_FOUND"   // 404
	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT" // 400
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrOrderNotFound = &AppError{
		Code:       ErrCodeOrderNotFound,
		Message:    "Order does not exist",
		HTTPStatus: 404,
	}
)
