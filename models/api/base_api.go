package apimodels

type Response struct {
	Status  string      `json:"status"`            // fail/success
	Code    string      `json:"code,omitempty"`    // stable machine-readable error code
	Message string      `json:"message,omitempty"` // human-readable error text
	Data    interface{} `json:"data,omitempty"`    // response payload
}

func NewError(message string) Response {
	return Response{
		Status:  "fail",
		Message: message,
	}
}

func NewErrorWithCode(code, message string) Response {
	return Response{
		Status:  "fail",
		Code:    code,
		Message: message,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}
