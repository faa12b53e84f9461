package promotion

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/freshcart-admin/internal/constants"

	"github.com/shopspring/decimal"
)

// excel 日期序列号起点
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate 解析日期：ISO 格式或 Excel 序列号
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial <= 0 {
		return time.Time{}, fmt.Errorf("unsupported date %q", raw)
	}
	days := math.Floor(serial)
	seconds := math.Round((serial - days) * 86400)
	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(seconds) * time.Second), nil
}

// ParseInt 解析整数（允许 "3.0" 与千分位）
func ParseInt(raw string) (int, error) {
	value, err := ParseDecimal(raw)
	if err != nil {
		return 0, err
	}
	if !value.Equal(value.Truncate(0)) {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return int(value.IntPart()), nil
}

// ParseDecimal 解析金额
func ParseDecimal(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}
	return decimal.NewFromString(cleaned)
}

// SetField 修改草稿字段，成功后清除该字段的错误
func (w *Wizard) SetField(key string, value interface{}) error {
	if err := w.ensureEditable(); err != nil {
		return err
	}
	if err := applyField(&w.Draft, key, value); err != nil {
		return err
	}
	delete(w.Errors, key)
	return nil
}

func applyField(d *Draft, key string, value interface{}) error {
	switch key {
	case FieldType:
		text, ok := value.(string)
		if !ok || !constants.IsPromotionType(text) {
			return ErrInvalidFieldValue
		}
		d.Type = text
	case FieldPromotionListID:
		id, err := toUint(value)
		if err != nil {
			return err
		}
		d.PromotionListID = id
	case FieldValue:
		return assignDecimal(&d.Value, value)
	case FieldMinPurchaseAmount:
		return assignDecimal(&d.MinPurchaseAmount, value)
	case FieldMinQty:
		return assignInt(&d.MinQty, value)
	case FieldMaxQty:
		return assignInt(&d.MaxQty, value)
	case FieldRequiredQty:
		return assignInt(&d.RequiredQty, value)
	case FieldFreeQty:
		return assignInt(&d.FreeQty, value)
	case FieldRequiredItemCount:
		return assignInt(&d.RequiredItemCount, value)
	case FieldStartDate:
		return assignTime(&d.StartDate, value)
	case FieldEndDate:
		return assignTime(&d.EndDate, value)
	case FieldIsActive:
		flag, ok := value.(bool)
		if !ok {
			return ErrInvalidFieldValue
		}
		d.IsActive = flag
	case FieldSelectionMode:
		text, ok := value.(string)
		if !ok || !constants.IsSelectionMode(text) {
			return ErrInvalidFieldValue
		}
		d.SelectionMode = text
		if text == constants.SelectionModeAll {
			d.SelectedProducts = []uint{}
			d.SelectedCategories = []uint{}
		}
	default:
		return ErrUnknownField
	}
	return nil
}

func assignDecimal(target **decimal.Decimal, value interface{}) error {
	if isBlank(value) {
		*target = nil
		return nil
	}
	var parsed decimal.Decimal
	var err error
	switch v := value.(type) {
	case float64:
		parsed = decimal.NewFromFloat(v)
	case int:
		parsed = decimal.NewFromInt(int64(v))
	case json.Number:
		parsed, err = decimal.NewFromString(v.String())
	case string:
		parsed, err = ParseDecimal(v)
	case decimal.Decimal:
		parsed = v
	default:
		return ErrInvalidFieldValue
	}
	if err != nil {
		return ErrInvalidFieldValue
	}
	*target = &parsed
	return nil
}

func assignInt(target **int, value interface{}) error {
	if isBlank(value) {
		*target = nil
		return nil
	}
	var parsed int
	switch v := value.(type) {
	case int:
		parsed = v
	case float64:
		if v != math.Trunc(v) {
			return ErrInvalidFieldValue
		}
		parsed = int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return ErrInvalidFieldValue
		}
		parsed = int(n)
	case string:
		n, err := ParseInt(v)
		if err != nil {
			return ErrInvalidFieldValue
		}
		parsed = n
	default:
		return ErrInvalidFieldValue
	}
	*target = &parsed
	return nil
}

func assignTime(target **time.Time, value interface{}) error {
	if isBlank(value) {
		*target = nil
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*target = &v
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return ErrInvalidFieldValue
		}
		*target = &parsed
	default:
		return ErrInvalidFieldValue
	}
	return nil
}

func toUint(value interface{}) (uint, error) {
	if isBlank(value) {
		return 0, nil
	}
	switch v := value.(type) {
	case uint:
		return v, nil
	case int:
		if v < 0 {
			return 0, ErrInvalidFieldValue
		}
		return uint(v), nil
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return 0, ErrInvalidFieldValue
		}
		return uint(v), nil
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return 0, ErrInvalidFieldValue
		}
		return uint(n), nil
	case string:
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, ErrInvalidFieldValue
		}
		return uint(n), nil
	default:
		return 0, ErrInvalidFieldValue
	}
}

func isBlank(value interface{}) bool {
	if value == nil {
		return true
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text) == ""
	}
	return false
}
