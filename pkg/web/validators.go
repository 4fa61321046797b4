package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// gte returns a ParamValidator that checks if the argument is greater than or equal to the value captured in the closure.
func gte(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue >= closedValue
	})
}

// ParseOptionalIntGte reads an optional integer query parameter that must be >= lowest.
// A missing parameter yields def. On failure a 400 response is written and false returned.
func ParseOptionalIntGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, lowest, def int64) (int, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return int(def), true
	}
	return parseValidate(w, logger, key, value, gte(lowest))
}

// ParseFormIntGte reads an integer form field that must be >= lowest.
// On failure a 400 response is written and false returned.
func ParseFormIntGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, lowest int64) (int, bool) {
	value := r.FormValue(key)
	if value == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("%s form field is required", key))
		return 0, false
	}
	return parseValidate(w, logger, key, value, gte(lowest))
}

func parseValidate(w http.ResponseWriter, logger *slog.Logger, key, value string, pValidator ParamValidator) (int, bool) {
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return 0, false
	}
	return int(intValue), true
}
