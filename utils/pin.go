package utils

// ValidatePIN checks that an admin PIN is 4 to 8 digits. A dashboard admin
// logs in from a TV remote or phone keypad, so only digits are accepted.
func ValidatePIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 8 {
		return false
	}
	for _, char := range pin {
		if char < '0' || char > '9' {
			return false
		}
	}
	return true
}
