package validation

// ValidatePassword validates password length.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return Error("password must be at least 8 characters")
	}

	// bcrypt silently truncates passwords longer than 72 bytes
	if len(password) > 72 {
		return Error("password must not exceed 72 characters")
	}

	return nil
}
