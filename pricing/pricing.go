package pricing

import (
	"math"
	"strconv"
	"strings"

	"sameshi/models"
)

// Summary is the price breakdown shown under a draw result.
type Summary struct {
	EntryFee  int `json:"entry_fee"`
	FoodTotal int `json:"food_total"`
	Total     int `json:"total"`
	ItemCount int `json:"item_count"`
}

var amountReplacer = strings.NewReplacer(",", "", "，", "", "¥", "", "￥", "", "円", "", " ", "")

// ParseAmount coerces a yen amount to a non-negative int. It accepts ints,
// floats and numeric strings such as "1,200" or "￥800". Anything else,
// including nil and negative values, yields 0.
func ParseAmount(v any) int {
	var n int
	switch x := v.(type) {
	case nil:
		return 0
	case int:
		n = x
	case int32:
		n = int(x)
	case int64:
		n = int(x)
	case float32:
		n = floatAmount(float64(x))
	case float64:
		n = floatAmount(x)
	case string:
		n = stringAmount(x)
	case *string:
		if x == nil {
			return 0
		}
		n = stringAmount(*x)
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

func floatAmount(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

func stringAmount(s string) int {
	s = amountReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return floatAmount(f)
	}
	return 0
}

// Total combines the facility entry fee with the prices of the selected items.
func Total(entryFeeRaw any, items []models.MenuItem) Summary {
	s := Summary{
		EntryFee:  ParseAmount(entryFeeRaw),
		ItemCount: len(items),
	}
	for _, item := range items {
		s.FoodTotal += ParseAmount(item.Price)
	}
	s.Total = s.EntryFee + s.FoodTotal
	return s
}
