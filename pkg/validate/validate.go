// Package validate checks request DTOs against `validate` struct tags and
// plain-function checks for rules that span fields (see check.go).
//
// Rules, comma-separated:
//
//	required     present and not blank
//	nullable     skip the remaining rules when empty
//	email        address shape
//	date         parseable by ParseDate
//	min=N max=N  length for strings, value for numbers
//	gte=N lte=N  numeric bounds
//	decimals=N   decimal.Decimal with at most N fractional digits
//	confirmed    equal to the sibling <field>_confirmation
//	in=a,b,c     one of the listed values; must be the last rule
//
// Pointer fields are dereferenced first, so a nil pointer is absent:
// `nullable` skips it and `required` rejects it. Messages are keyed by the
// field's JSON name and only the first failing rule per field is reported.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

var (
	emailRE     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

// Struct validates the exported, tagged fields of v.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		name := jsonName(field)
		if msg := checkField(name, splitRules(tag), rv.Field(i), rv); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// HasErrors reports whether errs holds any message.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func checkField(name string, rules []string, value, parent reflect.Value) string {
	// A set pointer satisfies required even when it points at zero; a
	// string must still be non-blank.
	present := false
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			if hasRule(rules, "required") {
				return requiredMsg(name)
			}
			return ""
		}
		value = value.Elem()
		present = value.Kind() != reflect.String
	}
	if hasRule(rules, "nullable") && !present && isEmpty(value) {
		return ""
	}

	for _, rule := range rules {
		if rule == "nullable" || (rule == "required" && present) {
			continue
		}
		if msg := applyRule(rule, name, value, parent); msg != "" {
			return msg
		}
	}
	return ""
}

func requiredMsg(field string) string {
	return fmt.Sprintf("The %s field is required.", field)
}

func applyRule(rule, field string, v, parent reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return requiredMsg(field)
		}
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "date":
		if _, err := ParseDate(raw); err != nil {
			return fmt.Sprintf("The %s is not a valid date.", field)
		}
	case "min":
		n := number(param)
		if isNumeric(v) && toFloat(v) < n {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
		if !isNumeric(v) && float64(len([]rune(raw))) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n := number(param)
		if isNumeric(v) && toFloat(v) > n {
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		}
		if !isNumeric(v) && float64(len([]rune(raw))) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gte":
		if below(v, param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lte":
		if !below(v, param) && !equal(v, param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "decimals":
		d, ok := asDecimal(v)
		if !ok || d.Exponent() < -int32(number(param)) {
			return fmt.Sprintf("The %s must have at most %s decimal places.", field, param)
		}
	case "confirmed":
		other, ok := sibling(parent, strings.TrimSuffix(field, "_confirmation"), field)
		if !ok || fmt.Sprintf("%v", other.Interface()) != raw {
			return fmt.Sprintf("The %s confirmation does not match.", field)
		}
	case "in":
		for _, allowed := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(allowed) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}
	return ""
}

// ParseDate parses s in any layout dateparse recognises, in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("cannot parse empty string as date")
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as date: %w", s, err)
	}
	return t, nil
}

// below compares exactly for decimals and through float64 otherwise.
func below(v reflect.Value, param string) bool {
	if d, ok := asDecimal(v); ok {
		bound, err := decimal.NewFromString(strings.TrimSpace(param))
		return err == nil && d.LessThan(bound)
	}
	return toFloat(v) < number(param)
}

func equal(v reflect.Value, param string) bool {
	if d, ok := asDecimal(v); ok {
		bound, err := decimal.NewFromString(strings.TrimSpace(param))
		return err == nil && d.Equal(bound)
	}
	return toFloat(v) == number(param)
}

func asDecimal(v reflect.Value) (decimal.Decimal, bool) {
	if !v.IsValid() || v.Type() != decimalType {
		return decimal.Decimal{}, false
	}
	return v.Interface().(decimal.Decimal), true
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		if v.Type() == timeType {
			return v.Interface().(time.Time).IsZero()
		}
	case reflect.Invalid:
		return true
	}
	// bools and decimal zero are values
	return false
}

func isNumeric(v reflect.Value) bool {
	if _, ok := asDecimal(v); ok {
		return true
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	if d, ok := asDecimal(v); ok {
		return d.InexactFloat64()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return number(fmt.Sprintf("%v", v.Interface()))
}

func number(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

// splitRules splits a tag on commas; everything after "in=" is its list.
func splitRules(tag string) []string {
	var rules []string
	for tag != "" {
		if strings.HasPrefix(tag, "in=") {
			return append(rules, tag)
		}
		rule, rest, _ := strings.Cut(tag, ",")
		rules = append(rules, strings.TrimSpace(rule))
		tag = rest
	}
	return rules
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}

// sibling finds the field of parent whose JSON name is name, skipping self.
func sibling(parent reflect.Value, name, self string) (reflect.Value, bool) {
	if name == self {
		name = self + "_confirmation"
	}
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if jsonName(rt.Field(i)) == name {
			return parent.Field(i), true
		}
	}
	return reflect.Value{}, false
}
