package logger

import (
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// Field represents a structured log field.
type Field interface {
	Key() string
	Value() any
	// ZapField returns the underlying zap.Field for efficient conversion
	ZapField() zap.Field
}

// ZapField wraps a zap.Field and implements the Field interface.
type ZapField struct {
	zapField zap.Field
}

// Key returns the field's key.
func (f ZapField) Key() string {
	return f.zapField.Key
}

// Value returns the field's value.
func (f ZapField) Value() any {
	if f.zapField.Interface != nil {
		return f.zapField.Interface
	}
	if f.zapField.String != "" {
		return f.zapField.String
	}

	return f.zapField.Integer
}

// ZapField returns the underlying zap.Field.
func (f ZapField) ZapField() zap.Field {
	return f.zapField
}

// Field constructors that return wrapped fields.
var (
	String = func(key, val string) Field {
		return ZapField{zap.String(key, val)}
	}

	Int = func(key string, val int) Field {
		return ZapField{zap.Int(key, val)}
	}

	Int64 = func(key string, val int64) Field {
		return ZapField{zap.Int64(key, val)}
	}

	Bool = func(key string, val bool) Field {
		return ZapField{zap.Bool(key, val)}
	}

	Duration = func(key string, val time.Duration) Field {
		return ZapField{zap.Duration(key, val)}
	}

	Error = func(err error) Field {
		return ZapField{zap.Error(err)}
	}

	Strings = func(key string, val []string) Field {
		return ZapField{zap.Strings(key, val)}
	}

	Stringer = func(key string, val fmt.Stringer) Field {
		return ZapField{zap.Stringer(key, val)}
	}

	Any = func(key string, val any) Field {
		return ZapField{zap.Any(key, val)}
	}
)

// Component names the component a log line is about.
func Component(name string) Field {
	return String("component", name)
}

// Type renders a reflect.Type, tolerating nil.
func Type(key string, t reflect.Type) Field {
	if t == nil {
		return String(key, "<nil>")
	}

	return String(key, t.String())
}

// FieldsToZap converts Field interfaces to zap.Field.
func FieldsToZap(fields []Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if field == nil {
			continue
		}
		zapFields = append(zapFields, field.ZapField())
	}

	return zapFields
}
