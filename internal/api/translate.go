package api

import (
	"fmt"
	"net/http"
	"strings"
)

// Endpoint names a backend operation. Error translation depends on it.
type Endpoint string

// Backend operations.
const (
	EndpointRegister       Endpoint = "register"
	EndpointLogin          Endpoint = "login"
	EndpointMe             Endpoint = "me"
	EndpointListFavorites  Endpoint = "favorites.list"
	EndpointAddFavorite    Endpoint = "favorites.add"
	EndpointRemoveFavorite Endpoint = "favorites.remove"
	EndpointListProducts   Endpoint = "products.list"
	EndpointGetProduct     Endpoint = "products.get"
)

// IsAuth reports whether e is one of the /auth endpoints, whose backend
// messages are pattern-matched into friendlier text.
func (e Endpoint) IsAuth() bool {
	return e == EndpointRegister || e == EndpointLogin || e == EndpointMe
}

// Supported locales.
const (
	LocaleES = "es"
	LocaleEN = "en"
)

type catalog struct {
	network    string
	timeout    string
	unexpected string
	decode     string

	invalidCredentials string
	userNotFound       string
	emailTaken         string
	weakPassword       string
	invalidEmail       string

	badRequestRegister string
	badRequestLogin    string
	badRequest         string
	sessionExpired     string
	forbidden          string
	notFound           string
	resourceNotFound   string
	conflict           string
	unprocessable      string
	serverError        string
	unavailable        string
	unexpectedStatus   string // takes the status code
}

var catalogs = map[string]catalog{
	LocaleES: {
		network:    "No se pudo conectar con el servidor. Verifica tu conexión a internet.",
		timeout:    "El servidor tardó demasiado en responder. Intenta nuevamente.",
		unexpected: "Ocurrió un error inesperado. Por favor, intenta nuevamente.",
		decode:     "La respuesta del servidor no es válida. Por favor, intenta más tarde.",

		invalidCredentials: "Credenciales incorrectas. Verifica tu email y contraseña.",
		userNotFound:       "No existe una cuenta con este email.",
		emailTaken:         "Este email ya está registrado. Intenta iniciar sesión.",
		weakPassword:       "La contraseña es muy débil. Debe tener al menos 8 caracteres.",
		invalidEmail:       "El formato del email no es válido.",

		badRequestRegister: "Datos inválidos. Por favor, verifica la información ingresada.",
		badRequestLogin:    "Email o contraseña incorrectos. Intenta nuevamente.",
		badRequest:         "Solicitud incorrecta. Por favor, verifica los datos.",
		sessionExpired:     "Tu sesión ha expirado. Por favor, inicia sesión nuevamente.",
		forbidden:          "No tienes permisos para realizar esta acción.",
		notFound:           "El servicio no está disponible en este momento.",
		resourceNotFound:   "El recurso solicitado no existe.",
		conflict:           "El recurso ya existe.",
		unprocessable:      "Los datos ingresados no son válidos. Por favor, verifica la información.",
		serverError:        "Error del servidor. Por favor, intenta más tarde.",
		unavailable:        "El servicio no está disponible temporalmente. Intenta más tarde.",
		unexpectedStatus:   "Error inesperado (%d). Por favor, intenta nuevamente.",
	},
	LocaleEN: {
		network:    "Could not reach the server. Check your internet connection.",
		timeout:    "The server took too long to respond. Please try again.",
		unexpected: "An unexpected error occurred. Please try again.",
		decode:     "The server sent an invalid response. Please try again later.",

		invalidCredentials: "Incorrect credentials. Check your email and password.",
		userNotFound:       "There is no account with this email.",
		emailTaken:         "This email is already registered. Try signing in.",
		weakPassword:       "The password is too weak. It must be at least 8 characters long.",
		invalidEmail:       "The email format is not valid.",

		badRequestRegister: "Invalid data. Please check the information you entered.",
		badRequestLogin:    "Incorrect email or password. Please try again.",
		badRequest:         "Bad request. Please check your data.",
		sessionExpired:     "Your session has expired. Please sign in again.",
		forbidden:          "You do not have permission to perform this action.",
		notFound:           "The service is not available right now.",
		resourceNotFound:   "The requested resource does not exist.",
		conflict:           "The resource already exists.",
		unprocessable:      "The data you entered is not valid. Please check it.",
		serverError:        "Server error. Please try again later.",
		unavailable:        "The service is temporarily unavailable. Try again later.",
		unexpectedStatus:   "Unexpected error (%d). Please try again.",
	},
}

// Translator turns transport failures and non-2xx responses into
// user-facing messages. It is total: every input yields non-empty text.
type Translator struct {
	locale string
	c      catalog
}

// NewTranslator returns a translator for locale, falling back to Spanish
// for unknown locales.
func NewTranslator(locale string) *Translator {
	c, ok := catalogs[locale]
	if !ok {
		locale = LocaleES
		c = catalogs[LocaleES]
	}
	return &Translator{locale: locale, c: c}
}

// Locale returns the effective locale.
func (t *Translator) Locale() string { return t.locale }

// Network is the message for a request that never got a response.
func (t *Translator) Network() string { return t.c.network }

// Timeout is the message for a request that exceeded its deadline.
func (t *Translator) Timeout() string { return t.c.timeout }

// Unexpected is the catch-all message.
func (t *Translator) Unexpected() string { return t.c.unexpected }

// Decode is the message for a 2xx response whose body could not be used.
func (t *Translator) Decode() string { return t.c.decode }

// HTTPError translates a non-2xx response. backendMessage is the message
// extracted from the error body, possibly empty.
func (t *Translator) HTTPError(endpoint Endpoint, status int, backendMessage string) string {
	if msg := strings.TrimSpace(backendMessage); msg != "" {
		if endpoint.IsAuth() {
			if known := t.matchAuthMessage(msg); known != "" {
				return known
			}
		}
		return msg
	}
	return t.statusMessage(endpoint, status)
}

func (t *Translator) matchAuthMessage(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "unauthorized"), strings.Contains(lower, "invalid credentials"):
		return t.c.invalidCredentials
	case strings.Contains(lower, "user not found"), strings.Contains(lower, "usuario no encontrado"):
		return t.c.userNotFound
	case strings.Contains(lower, "email already exists"), strings.Contains(lower, "email ya existe"):
		return t.c.emailTaken
	case strings.Contains(lower, "password") && strings.Contains(lower, "weak"):
		return t.c.weakPassword
	case strings.Contains(lower, "invalid email"):
		return t.c.invalidEmail
	}
	return ""
}

func (t *Translator) statusMessage(endpoint Endpoint, status int) string {
	switch status {
	case http.StatusBadRequest:
		switch endpoint {
		case EndpointRegister:
			return t.c.badRequestRegister
		case EndpointLogin:
			return t.c.badRequestLogin
		}
		return t.c.badRequest
	case http.StatusUnauthorized:
		if endpoint == EndpointMe || !endpoint.IsAuth() {
			return t.c.sessionExpired
		}
		return t.c.invalidCredentials
	case http.StatusForbidden:
		return t.c.forbidden
	case http.StatusNotFound:
		if endpoint.IsAuth() {
			return t.c.notFound
		}
		return t.c.resourceNotFound
	case http.StatusConflict:
		if endpoint.IsAuth() {
			return t.c.emailTaken
		}
		return t.c.conflict
	case http.StatusUnprocessableEntity:
		return t.c.unprocessable
	case http.StatusInternalServerError:
		return t.c.serverError
	case http.StatusServiceUnavailable:
		return t.c.unavailable
	}
	if status >= 500 && status <= 599 {
		return t.c.serverError
	}
	return fmt.Sprintf(t.c.unexpectedStatus, status)
}
