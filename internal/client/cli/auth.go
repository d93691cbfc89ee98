package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/blogapi/internal/client/auth"
)

// RunRegister регистрирует пользователя
func (c *Cli) RunRegister(ctx context.Context, username string, passwords Passwords) error {
	c.io.Println("=== Registration ===")

	username, err := c.username(username)
	if err != nil {
		return err
	}

	password, prompted, err := c.getPassword(passwords, "Password: ")
	if err != nil {
		return err
	}
	if prompted {
		confirm, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if confirm != password {
			return errors.New("passwords do not match")
		}
	}

	user, err := c.authService.Register(ctx, username, password)
	if err != nil {
		return err
	}

	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %d\n", user.ID)
	c.io.Printf("Username: %s\n", user.Username)
	c.io.Println("Please run 'login' to start using the service.")
	return nil
}

// RunLogin выполняет вход и сохраняет сессию
func (c *Cli) RunLogin(ctx context.Context, username string, passwords Passwords) error {
	c.io.Println("=== Login ===")

	username, err := c.username(username)
	if err != nil {
		return err
	}

	password, _, err := c.getPassword(passwords, "Password: ")
	if err != nil {
		return err
	}

	session, err := c.authService.Login(ctx, username, password)
	if err != nil {
		return err
	}

	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("User ID: %d\n", session.UserID)
	return nil
}

// RunLogout удаляет локальную сессию
func (c *Cli) RunLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")
	return nil
}

// RunStatus показывает, кто вошел
func (c *Cli) RunStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")

	session, err := c.authService.Session(ctx)
	if errors.Is(err, auth.ErrNotAuthenticated) {
		c.io.Println("Status: Not authenticated")
		c.io.Println("Run 'login' to authenticate.")
		return nil
	}
	if err != nil {
		return err
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("User ID: %d\n", session.UserID)
	return nil
}
