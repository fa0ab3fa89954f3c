package model

import (
	"errors"

	"github.com/samber/lo"
)

var ErrorMessageRequired = errors.New("Message is required")
var ErrorMessageEmpty = errors.New("Message cannot be empty")
var ErrorMessageTooLong = errors.New("Message must be 280 characters or less")

var ErrorStorage = errors.New("message store failure")
var ErrorNotifier = errors.New("notifier failure")

// ValidationErrors lists the errors whose text is shown to the client.
var ValidationErrors = []error{
	ErrorMessageRequired,
	ErrorMessageEmpty,
	ErrorMessageTooLong,
}

// ValidationMessage returns the client-facing text of the validation error
// wrapped in err, if there is one.
func ValidationMessage(err error) (string, bool) {
	sentinel, ok := lo.Find(ValidationErrors, func(target error) bool {
		return errors.Is(err, target)
	})
	if !ok {
		return "", false
	}
	return sentinel.Error(), true
}
