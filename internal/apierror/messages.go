package apierror

var userMessages = map[Kind]string{
	KindNetwork:    "We couldn't reach the resume service. Please check your connection and try again.",
	KindValidation: "Some of the resume information looks incomplete or incorrect. Please review it and try again.",
	KindServer:     "The resume service is having trouble right now. Please try again in a few minutes.",
	KindUnknown:    "Something went wrong while processing your request. Please try again.",
}

// UserMessage returns the fixed, human-readable sentence shown for a kind.
// Technical details never appear in it.
func UserMessage(kind Kind) string {
	if msg, ok := userMessages[kind]; ok {
		return msg
	}
	return userMessages[KindUnknown]
}

// UserMessageFor returns the user-facing sentence for any failure.
func UserMessageFor(err error) string {
	if err == nil {
		return ""
	}
	return UserMessage(Classify(err).Kind)
}
