// Package cli реализует команды консольного клиента блога
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/iudanet/blogapi/internal/client/api"
	"github.com/iudanet/blogapi/internal/client/auth"
	"github.com/iudanet/blogapi/internal/client/iocli"
)

// PasswordEnv переменная окружения с паролем пользователя
const PasswordEnv = "BLOG_PASSWORD"

// Passwords источники пароля, кроме переменной окружения и интерактивного ввода
type Passwords struct {
	FromFile string
	FromArgs string
}

// Cli выполняет команды клиента
type Cli struct {
	io          iocli.IO
	apiClient   *api.Client
	authService *auth.Service
}

// New создает Cli
func New(io iocli.IO, apiClient *api.Client, authService *auth.Service) *Cli {
	return &Cli{
		io:          io,
		apiClient:   apiClient,
		authService: authService,
	}
}

// getPassword retrieves the password from various sources with priority:
// 1. Environment variable BLOG_PASSWORD
// 2. File specified in passwords.FromFile
// 3. Command-line parameter passwords.FromArgs
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(passwords Passwords, prompt string) (string, bool, error) {
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, false, nil
	}

	if passwords.FromFile != "" {
		content, err := os.ReadFile(passwords.FromFile)
		if err != nil {
			return "", false, fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline
		password := strings.TrimRight(string(content), "\r\n")
		if password == "" {
			return "", false, fmt.Errorf("password file is empty")
		}
		return password, false, nil
	}

	if passwords.FromArgs != "" {
		return passwords.FromArgs, false, nil
	}

	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", true, fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", true, fmt.Errorf("password cannot be empty")
	}
	return password, true, nil
}

// username возвращает given или запрашивает его
func (c *Cli) username(given string) (string, error) {
	if given != "" {
		return given, nil
	}
	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	return username, nil
}
