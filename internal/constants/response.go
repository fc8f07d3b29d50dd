package constants

// Standard Response Field Keys
const (
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldCode    = "code"
)

func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

// BuildCodedErrorResponse adds the domain error code to the error body
func BuildCodedErrorResponse(code, message string) map[string]any {
	return map[string]any{
		ResponseFieldCode:    code,
		ResponseFieldMessage: message,
	}
}
