package ux

import (
	"fmt"
	"net/mail"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Interactive reports whether stdin and stdout are terminals.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Credentials collected by the sign-in and sign-up forms.
type Credentials struct {
	Name     string
	Email    string
	Password string
}

// validateEmail accepts a bare address such as ana@example.com.
func validateEmail(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return fmt.Errorf("introduce un email válido")
	}
	return nil
}

func validatePassword(s string) error {
	if s == "" {
		return fmt.Errorf("la contraseña es obligatoria")
	}
	return nil
}

func validateName(s string) error {
	if s == "" {
		return fmt.Errorf("el nombre es obligatorio")
	}
	return nil
}

// PromptLogin asks for the fields of c that are still empty.
func PromptLogin(c *Credentials) error {
	return runForm(c, false)
}

// PromptRegister asks for the fields of c that are still empty, including
// the display name.
func PromptRegister(c *Credentials) error {
	return runForm(c, true)
}

func runForm(c *Credentials, withName bool) error {
	var fields []huh.Field
	if withName && c.Name == "" {
		fields = append(fields, huh.NewInput().Title("Nombre").Value(&c.Name).Validate(validateName))
	}
	if c.Email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&c.Email).Validate(validateEmail))
	}
	if c.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Contraseña").
			EchoMode(huh.EchoModePassword).
			Value(&c.Password).
			Validate(validatePassword))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).
		WithAccessible(!Interactive()).
		Run()
}

// Confirm prompts the user for yes/no confirmation. Without a terminal it
// returns defaultYes.
func Confirm(message string, defaultYes bool) (bool, error) {
	if !Interactive() {
		return defaultYes, nil
	}
	answer := defaultYes
	confirm := huh.NewConfirm().
		Title(message).
		Affirmative("Sí").
		Negative("No").
		Value(&answer)
	err := huh.NewForm(huh.NewGroup(confirm)).Run()
	return answer, err
}

// ValidateCredentials checks flag-provided credentials before any request.
func ValidateCredentials(c Credentials, withName bool) error {
	if withName {
		if err := validateName(c.Name); err != nil {
			return err
		}
	}
	if err := validateEmail(c.Email); err != nil {
		return err
	}
	return validatePassword(c.Password)
}
