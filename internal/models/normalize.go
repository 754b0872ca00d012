package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NormalizeProduct converts a raw stored record into a Product. Missing or
// malformed fields become their zero value so legacy data never fails a read.
// The "_id" key is used when "id" is absent.
func NormalizeProduct(raw map[string]interface{}) Product {
	id := asString(raw["id"])
	if id == "" {
		id = asString(raw["_id"])
	}
	return Product{
		ID:          id,
		Name:        asString(raw["name"]),
		Price:       asFloat(raw["price"]),
		Categories:  asStrings(raw["categories"]),
		Stock:       asInt(raw["stock"]),
		ImageURL:    asString(raw["imageUrl"]),
		Description: asString(raw["description"]),
		CareTips:    asString(raw["careTips"]),
		CreatedAt:   asTime(raw["createdAt"]),
		Featured:    asBool(raw["featured"]),
	}
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return ""
	}
}

func asFloat(v interface{}) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func asInt(v interface{}) int {
	switch t := v.(type) {
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err == nil {
			return n
		}
	}
	return int(asFloat(v))
}

func asStrings(v interface{}) []string {
	out := []string{}
	items, ok := v.([]interface{})
	if !ok {
		if s, isSlice := v.([]string); isSlice {
			return append(out, s...)
		}
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err == nil {
			return parsed
		}
	case int64:
		return time.UnixMilli(t)
	}
	return time.Time{}
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}
