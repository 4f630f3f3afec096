package service

import "fmt"

func verificationEmailTemplate(name, verifyURL, appName string) (string, string) {
	subject := "Verify your email address"
	body := fmt.Sprintf(`Hi %s,

Thank you for signing up! Please verify your email address to complete your registration:
%s

This link will expire in 24 hours.

If you didn't create an account, you can safely ignore this email.

Best,
The %s Team`, name, verifyURL, appName)

	return subject, body
}
