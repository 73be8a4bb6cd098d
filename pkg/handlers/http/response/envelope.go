package response

// Envelope wraps every JSON body served by the API.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

func Message(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

func Error(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

func ErrorWithDetails(msg string, details interface{}) Envelope {
	return Envelope{Success: false, Error: msg, Details: details}
}
