package models

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"strings"
	"sync"
)

// Extra hält alle JSON-Felder eines Datensatzes, die kein bekanntes Attribut sind.
// Die Werte werden unverändert durchgereicht.
type Extra map[string]json.RawMessage

var knownFieldsCache sync.Map // reflect.Type -> map[string]struct{}

// knownFields liest die JSON-Feldnamen eines Struct-Typs aus seinen Tags.
func knownFields(t reflect.Type) map[string]struct{} {
	if cached, ok := knownFieldsCache.Load(t); ok {
		return cached.(map[string]struct{})
	}
	fields := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = struct{}{}
	}
	knownFieldsCache.Store(t, fields)
	return fields
}

// nullFields merkt sich bekannte Felder, die die Quelle ausdrücklich als null geliefert hat.
type nullFields map[string]struct{}

func (n nullFields) has(field string) bool {
	_, ok := n[field]
	return ok
}

// decodeWithExtra dekodiert data in v (Zeiger auf ein Struct ohne eigene UnmarshalJSON-Methode)
// und gibt alle Felder zurück, die v nicht kennt, sowie die bekannten Felder mit Wert null.
func decodeWithExtra(data []byte, v any) (Extra, nullFields, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	known := knownFields(reflect.TypeOf(v).Elem())
	var extra Extra
	var nulls nullFields
	for k, val := range raw {
		if _, ok := known[k]; ok {
			if bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
				if nulls == nil {
					nulls = make(nullFields)
				}
				nulls[k] = struct{}{}
			}
			continue
		}
		if extra == nil {
			extra = make(Extra)
		}
		extra[k] = val
	}
	return extra, nulls, nil
}

// encodeWithExtra serialisiert v und ergänzt die Zusatzfelder. Bekannte Felder haben Vorrang.
func encodeWithExtra(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	known := knownFields(reflect.TypeOf(v).Elem())
	for k, val := range extra {
		if _, ok := known[k]; ok {
			continue
		}
		merged[k] = val
	}
	return json.Marshal(merged)
}

// overlayExtra legt die eingehenden Zusatzfelder schlüsselweise über die bestehenden.
// Verschachtelte Werte werden als Ganzes ersetzt.
func overlayExtra(current, incoming Extra) Extra {
	if len(current) == 0 && len(incoming) == 0 {
		return nil
	}
	out := make(Extra, len(current)+len(incoming))
	maps.Copy(out, current)
	maps.Copy(out, incoming)
	return out
}
