package utils

// MaskToken masks an access token for safe logging, keeping the first and
// last four characters. Short tokens are fully masked.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
