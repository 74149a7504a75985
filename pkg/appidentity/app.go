package appidentity

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// SecretProvider supplies a secret on demand. Providers let callers defer
// retrieval of sensitive material until a padlock is actually computed;
// the returned value is used for the duration of that computation only.
type SecretProvider func() string

// AppInput is the loosely-typed form of an app credential, as it arrives
// from configuration files, suite documents, or credential stores.
//
//   - ID: string or integer (integers are stringified)
//   - Secret: string, []byte, or a zero-argument provider function
//   - Version: integer, or a string that parses to one
//   - Config: nil or a map; the recognized key is "fuzz" (seconds)
type AppInput struct {
	ID      any
	Secret  any
	Version any
	Config  any
}

// App is a validated, normalized app credential. Treat a constructed App
// as immutable: the same logical app must hash identically whenever it is
// re-verified.
type App struct {
	ID      string
	Version Version
	Config  map[string]any

	// Verified is false on construction and true only on the App returned
	// by a successful verification.
	Verified bool

	secret func() (string, *Error)
}

// AppSource is anything the verifier can obtain an App from: an *App, or
// a raw AppInput that will be constructed (and validated) on demand.
type AppSource interface {
	identityApp() (*App, error)
}

func (a *App) identityApp() (*App, error) { return a, nil }

func (in AppInput) identityApp() (*App, error) { return NewApp(in) }

// NewApp validates and normalizes input into an App. Validation of a
// secret provider is deferred until the secret is first resolved.
func NewApp(input AppInput) (*App, error) {
	id, err := normalizeID(input.ID)
	if err != nil {
		return nil, err
	}

	version, err := normalizeVersion(input.Version)
	if err != nil {
		return nil, err
	}

	config, err := normalizeConfig(input.Config)
	if err != nil {
		return nil, err
	}

	secret, err := normalizeSecret(input.Secret)
	if err != nil {
		return nil, err
	}

	return &App{
		ID:      id,
		Version: version,
		Config:  config,
		secret:  secret,
	}, nil
}

// Secret resolves the app's secret, invoking a provider if one was
// supplied. Provider results are validated on every resolution; the first
// failure surfaces as a secret_* error.
func (a *App) Secret() (string, error) {
	s, err := a.secret()
	if err != nil {
		return "", err
	}
	return s, nil
}

// Fuzz returns the timestamp comparison window for this app: the config
// "fuzz" value in seconds when present and positive, DefaultFuzz
// otherwise.
func (a *App) Fuzz() time.Duration {
	if a.Config == nil {
		return DefaultFuzz
	}
	if n, ok := positiveInt(a.Config["fuzz"]); ok {
		return time.Duration(n) * time.Second
	}
	return DefaultFuzz
}

// verifiedCopy returns a copy of the app marked as verified.
func (a *App) verifiedCopy() *App {
	dup := *a
	dup.Verified = true
	return &dup
}

func normalizeID(v any) (string, *Error) {
	var id string
	switch val := v.(type) {
	case nil:
		return "", NewError(ErrIDNil, "id must not be nil", nil)
	case string:
		id = val
	case int:
		id = strconv.Itoa(val)
	case int32:
		id = strconv.FormatInt(int64(val), 10)
	case int64:
		id = strconv.FormatInt(val, 10)
	case uint:
		id = strconv.FormatUint(uint64(val), 10)
	case uint64:
		id = strconv.FormatUint(val, 10)
	case float64:
		// JSON numbers decode as float64; only integral values are ids.
		if val != math.Trunc(val) {
			return "", NewError(ErrIDNil, "id must be a string or integer", nil)
		}
		id = strconv.FormatInt(int64(val), 10)
	default:
		return "", NewError(ErrIDNil, "id must be a string or integer", nil)
	}

	if id == "" {
		return "", NewError(ErrIDEmpty, "id must not be an empty string", nil)
	}
	if strings.Contains(id, ":") {
		return "", NewError(ErrIDHasColon, "id must not contain colon characters", nil)
	}
	return id, nil
}

func normalizeVersion(v any) (Version, *Error) {
	var n int
	switch val := v.(type) {
	case nil:
		return 0, NewError(ErrVersionNil, "version must not be nil", nil)
	case Version:
		n = int(val)
	case int:
		n = val
	case int32:
		n = int(val)
	case int64:
		n = int(val)
	case float64:
		if val != math.Trunc(val) {
			return 0, NewError(ErrVersionNotInteger, "version cannot be converted to an integer", nil)
		}
		n = int(val)
	case string:
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return 0, NewError(ErrVersionNotInteger, "version cannot be converted to an integer", err)
		}
		n = parsed
	default:
		return 0, NewError(ErrVersionNotInteger, "version cannot be converted to an integer", nil)
	}

	if n <= 0 {
		return 0, NewError(ErrVersionNotPositive, "version must be a positive integer", nil)
	}
	version := Version(n)
	if !version.Supported() {
		return 0, NewError(ErrVersionInvalid, "unsupported version "+version.String(), nil)
	}
	return version, nil
}

func normalizeConfig(v any) (map[string]any, *Error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		dup := make(map[string]any, len(val))
		for k, item := range val {
			dup[k] = item
		}
		return dup, nil
	default:
		return nil, NewError(ErrConfigNotMap, "config must be nil or a map", nil)
	}
}

func normalizeSecret(v any) (func() (string, *Error), *Error) {
	switch val := v.(type) {
	case nil:
		return nil, NewError(ErrSecretNil, "secret must not be nil", nil)
	case string:
		if err := checkSecretValue(val); err != nil {
			return nil, err
		}
		return func() (string, *Error) { return val, nil }, nil
	case []byte:
		s := string(val)
		if err := checkSecretValue(s); err != nil {
			return nil, err
		}
		return func() (string, *Error) { return s, nil }, nil
	case SecretProvider:
		return deferredSecret(val), nil
	case func() string:
		return deferredSecret(val), nil
	default:
		return nil, NewError(ErrSecretNotBinary, "secret must be a binary string value", nil)
	}
}

// deferredSecret wraps a provider so that validation happens at each
// resolution, never at construction.
func deferredSecret(provider func() string) func() (string, *Error) {
	return func() (string, *Error) {
		s := provider()
		if err := checkSecretValue(s); err != nil {
			return "", err
		}
		return s, nil
	}
}

func checkSecretValue(s string) *Error {
	if s == "" {
		return NewError(ErrSecretEmpty, "secret must not be an empty string", nil)
	}
	if strings.Contains(s, ":") {
		return NewError(ErrSecretHasColon, "secret must not contain colon characters", nil)
	}
	return nil
}

func positiveInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		if val > 0 {
			return val, true
		}
	case int64:
		if val > 0 {
			return int(val), true
		}
	case float64:
		if val > 0 && val == math.Trunc(val) {
			return int(val), true
		}
	}
	return 0, false
}
