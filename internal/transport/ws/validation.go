package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"shadowsignal/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		_, err := domain.NormalizeUsername(fl.Field().String())
		return err == nil
	})
	return v
}

// bindPayload decodes and validates a client payload
func bindPayload(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return errors.New("payload is required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.New("invalid payload")
	}
	if err := validate.Struct(dst); err != nil {
		return describeValidation(err)
	}
	return nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.New("invalid payload")
	}

	verr := verrs[0]
	switch verr.Tag() {
	case "required":
		return fmt.Errorf("%s is required", verr.Field())
	case "username":
		return fmt.Errorf("%s must be 1-%d characters", verr.Field(), domain.MaxUsernameLength)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", verr.Field(), verr.Param())
	default:
		return fmt.Errorf("%s is invalid", verr.Field())
	}
}

// errorFor maps a controller error to a wire error code and message
func errorFor(err error) (string, string) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return ErrCodeRoomNotFound, "Room not found"
	case errors.Is(err, domain.ErrGameInProgress):
		return ErrCodeGameInProgress, "Game already in progress"
	case errors.Is(err, domain.ErrRoomFull):
		return ErrCodeRoomFull, "Room is full"
	case errors.Is(err, domain.ErrAlreadyInRoom):
		return ErrCodeAlreadyInRoom, "You are already in a room"
	case errors.Is(err, domain.ErrInvalidUsername):
		return ErrCodeInvalidUsername, fmt.Sprintf("Username must be 1-%d characters", domain.MaxUsernameLength)
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		return ErrCodeNotEnoughPlayers, sentence(err.Error())
	default:
		return ErrCodeInternalError, "Something went wrong"
	}
}

// sentence keeps the detail after the sentinel prefix and capitalizes it
func sentence(msg string) string {
	if _, detail, ok := strings.Cut(msg, ": "); ok {
		msg = detail
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
