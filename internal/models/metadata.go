package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidMetadata — значение метаданных вне поддерживаемого набора типов.
var ErrInvalidMetadata = errors.New("invalid metadata")

// Metadata — открытый набор клиентских данных без схемы.
//
// Значения ограничены JSON-совместимыми типами:
// string, bool, nil, числа (float64/float32/int*/uint*/json.Number),
// вложенные map[string]any и []any из тех же типов.
// Ядро значения не интерпретирует.
type Metadata map[string]any

// Clone делает глубокую копию. Для nil возвращает пустую карту, поэтому
// сохранённая сущность никогда не разделяет память с входом вызывающего кода.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}

	return out
}

// Validate проверяет, что все значения (рекурсивно) имеют поддерживаемый тип.
func (m Metadata) Validate() error {
	for k, v := range m {
		if err := validateValue(k, v); err != nil {
			return err
		}
	}

	return nil
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = cloneValue(vv)
		}
		return out
	case Metadata:
		return map[string]any(x.Clone())
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = cloneValue(vv)
		}
		return out
	default:
		return v
	}
}

func validateValue(path string, v any) error {
	switch x := v.(type) {
	case nil, string, bool, json.Number,
		float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return nil
	case map[string]any:
		for k, vv := range x {
			if err := validateValue(path+"."+k, vv); err != nil {
				return err
			}
		}
		return nil
	case Metadata:
		return validateValue(path, map[string]any(x))
	case []any:
		for i, vv := range x {
			if err := validateValue(fmt.Sprintf("%s[%d]", path, i), vv); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidMetadata, path, v)
	}
}
