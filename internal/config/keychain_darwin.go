//go:build darwin

package config

import "os/exec"

func secretHint() string {
	return " or store the secret in macOS Keychain (service: persona, account: reddit_client_secret)"
}

func keychainExec(service, account string) ([]byte, error) {
	return exec.Command(
		"security", "find-generic-password",
		"-s", service,
		"-a", account,
		"-w",
	).Output()
}
