package utils

// MaskPhone redacts a phone number to its prefix and last four digits:
// "01012345678" becomes "010-****-5678". Inputs shorter than ten
// characters are returned unchanged rather than guessed at.
func MaskPhone(phone string) string {
	if len(phone) < 10 {
		return phone
	}
	return phone[:3] + "-****-" + phone[len(phone)-4:]
}
