package dto

// Response — единый конверт всех JSON-ответов API
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK оборачивает данные успешного ответа
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// OKWithMessage — успешный ответ с сообщением
func OKWithMessage(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail — ответ об ошибке с человекочитаемым сообщением
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}
