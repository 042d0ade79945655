package transcription

// MediaError is the user-facing explanation for a browser media failure.
type MediaError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

var mediaMessages = map[string]string{
	"NotAllowedError":      "Microphone access was denied. Allow microphone access in your browser settings and try again.",
	"NotFoundError":        "No microphone was found. Connect a microphone and try again.",
	"NotReadableError":     "Your microphone is being used by another application. Close it and try again.",
	"OverconstrainedError": "Your microphone does not support the requested settings.",
	"SecurityError":        "Microphone access is blocked on insecure pages. Use HTTPS.",
	"AbortError":           "Recording was interrupted. Please try again.",
}

const unknownMediaMessage = "Could not access the microphone. Please check your device and try again."

// DescribeMediaError maps a DOMException name to a message. Unknown names get
// a generic message and ok=false.
func DescribeMediaError(name string) (MediaError, bool) {
	msg, ok := mediaMessages[name]
	if !ok {
		msg = unknownMediaMessage
	}
	return MediaError{Name: name, Message: msg}, ok
}
