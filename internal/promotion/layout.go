package promotion

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/freshcart-admin/internal/constants"
	"github.com/freshcart-admin/internal/i18n"
	"github.com/freshcart-admin/internal/models"

	"github.com/shopspring/decimal"
)

// 导入/导出列 key
const (
	ColumnPromotionListID   = "promotion_list_id"
	ColumnProductName       = "product_name"
	ColumnUnitName          = "unit_name"
	ColumnMinQty            = "min_qty"
	ColumnMaxQty            = "max_qty"
	ColumnStartDate         = "start_date"
	ColumnEndDate           = "end_date"
	ColumnFixedPrice        = "fixed_price"
	ColumnRequiredQty       = "required_qty"
	ColumnFreeQty           = "free_qty"
	ColumnMinPurchaseAmount = "min_purchase_amount"
	ColumnRequiredItemCount = "required_item_count"
	ColumnTotalPrice        = "total_price"
)

// Column 表格列
type Column struct {
	Key    string `json:"key"`
	Header string `json:"header"`
}

var baseColumns = []Column{
	{Key: ColumnPromotionListID, Header: "PromotionListId"},
	{Key: ColumnProductName, Header: "ProductName"},
	{Key: ColumnUnitName, Header: "UnitName"},
	{Key: ColumnMinQty, Header: "MinQty"},
	{Key: ColumnMaxQty, Header: "MaxQty"},
	{Key: ColumnStartDate, Header: "StartDate"},
	{Key: ColumnEndDate, Header: "EndDate"},
}

var typeColumns = map[string][]Column{
	constants.PromotionTypeFixedPrice: {
		{Key: ColumnFixedPrice, Header: "FixedPrice"},
	},
	constants.PromotionTypeBulkPurchase: {
		{Key: ColumnRequiredQty, Header: "RequiredQty"},
		{Key: ColumnFreeQty, Header: "FreeQty"},
		{Key: ColumnMinPurchaseAmount, Header: "MinPurchaseAmount"},
	},
	constants.PromotionTypeAssortedItems: {
		{Key: ColumnRequiredItemCount, Header: "RequiredItemCount"},
		{Key: ColumnTotalPrice, Header: "TotalPrice"},
	},
}

// Columns 返回活动类型对应的列布局
func Columns(promotionType string) []Column {
	columns := make([]Column, 0, len(baseColumns)+3)
	columns = append(columns, baseColumns...)
	return append(columns, typeColumns[promotionType]...)
}

// Headers 返回表头
func Headers(promotionType string) []string {
	columns := Columns(promotionType)
	headers := make([]string, len(columns))
	for i, column := range columns {
		headers[i] = column.Header
	}
	return headers
}

// SheetRow 按列布局解析后的原始行
type SheetRow struct {
	RowNumber         int              `json:"row_number"`
	PromotionListID   string           `json:"promotion_list_id"`
	ProductName       string           `json:"product_name"`
	UnitName          string           `json:"unit_name"`
	MinQty            *int             `json:"min_qty,omitempty"`
	MaxQty            *int             `json:"max_qty,omitempty"`
	StartDate         *time.Time       `json:"start_date,omitempty"`
	EndDate           *time.Time       `json:"end_date,omitempty"`
	FixedPrice        *decimal.Decimal `json:"fixed_price,omitempty"`
	RequiredQty       *int             `json:"required_qty,omitempty"`
	FreeQty           *int             `json:"free_qty,omitempty"`
	MinPurchaseAmount *decimal.Decimal `json:"min_purchase_amount,omitempty"`
	RequiredItemCount *int             `json:"required_item_count,omitempty"`
	TotalPrice        *decimal.Decimal `json:"total_price,omitempty"`
}

// IsBlank 判断整行是否为空
func IsBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ParseSheetRow 按活动类型的列布局解析一行；返回首个单元格错误
func ParseSheetRow(promotionType string, rowNumber int, cells []string) (SheetRow, *i18n.Message) {
	row := SheetRow{RowNumber: rowNumber}
	for idx, column := range Columns(promotionType) {
		raw := ""
		if idx < len(cells) {
			raw = strings.TrimSpace(cells[idx])
		}
		if msg := row.assign(column, raw); msg != nil {
			return row, msg
		}
	}
	return row, nil
}

func (r *SheetRow) assign(column Column, raw string) *i18n.Message {
	switch column.Key {
	case ColumnPromotionListID:
		r.PromotionListID = raw
	case ColumnProductName:
		r.ProductName = raw
	case ColumnUnitName:
		r.UnitName = raw
	case ColumnMinQty:
		return parseIntCell(column, raw, &r.MinQty)
	case ColumnMaxQty:
		return parseIntCell(column, raw, &r.MaxQty)
	case ColumnRequiredQty:
		return parseIntCell(column, raw, &r.RequiredQty)
	case ColumnFreeQty:
		return parseIntCell(column, raw, &r.FreeQty)
	case ColumnRequiredItemCount:
		return parseIntCell(column, raw, &r.RequiredItemCount)
	case ColumnFixedPrice:
		return parseDecimalCell(column, raw, &r.FixedPrice)
	case ColumnMinPurchaseAmount:
		return parseDecimalCell(column, raw, &r.MinPurchaseAmount)
	case ColumnTotalPrice:
		return parseDecimalCell(column, raw, &r.TotalPrice)
	case ColumnStartDate:
		return parseDateCell(column, raw, &r.StartDate)
	case ColumnEndDate:
		return parseDateCell(column, raw, &r.EndDate)
	}
	return nil
}

func parseIntCell(column Column, raw string, target **int) *i18n.Message {
	if raw == "" {
		return nil
	}
	value, err := ParseInt(raw)
	if err != nil {
		msg := i18n.NewMessage("import.number_invalid", column.Header, raw)
		return &msg
	}
	*target = &value
	return nil
}

func parseDecimalCell(column Column, raw string, target **decimal.Decimal) *i18n.Message {
	if raw == "" {
		return nil
	}
	value, err := ParseDecimal(raw)
	if err != nil {
		msg := i18n.NewMessage("import.number_invalid", column.Header, raw)
		return &msg
	}
	*target = &value
	return nil
}

func parseDateCell(column Column, raw string, target **time.Time) *i18n.Message {
	if raw == "" {
		return nil
	}
	value, err := ParseDate(raw)
	if err != nil {
		msg := i18n.NewMessage("import.date_invalid", column.Header, raw)
		return &msg
	}
	*target = &value
	return nil
}

// Payload 由已解析行与匹配结果生成载荷（任选活动按组合并见 GroupKey）
func (r SheetRow) Payload(promotionType string, listID uint, ref ProductUnitRef) Payload {
	p := Payload{
		Type:            promotionType,
		PromotionListID: listID,
		MinQty:          r.MinQty,
		MaxQty:          r.MaxQty,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IsActive:        true,
	}
	switch promotionType {
	case constants.PromotionTypeFixedPrice:
		if r.FixedPrice != nil {
			p.Value = *r.FixedPrice
		}
		p.ProductUnit = &ref
	case constants.PromotionTypeBulkPurchase:
		p.RequiredQty = r.RequiredQty
		p.FreeQty = r.FreeQty
		p.MinPurchaseAmount = r.MinPurchaseAmount
		p.SelectionMode = constants.SelectionModeProducts
		p.ProductUnits = []ProductUnitRef{ref}
	case constants.PromotionTypeAssortedItems:
		if r.TotalPrice != nil {
			p.Value = *r.TotalPrice
		}
		p.RequiredItemCount = r.RequiredItemCount
		p.ProductUnits = []ProductUnitRef{ref}
	}
	return p
}

// GroupKey 任选活动的分组 key：同列表、同件数、同总价、同日期与数量区间的行合并为一个活动
func (r SheetRow) GroupKey(listID uint) string {
	parts := []string{
		decimal.NewFromInt(int64(listID)).String(),
		intKey(r.RequiredItemCount),
		decimalKey(r.TotalPrice),
		intKey(r.MinQty),
		intKey(r.MaxQty),
		timeKey(r.StartDate),
		timeKey(r.EndDate),
	}
	return strings.Join(parts, "|")
}

// Row 按列布局输出一行（导出用）
func (r SheetRow) Row(promotionType string) []interface{} {
	columns := Columns(promotionType)
	out := make([]interface{}, len(columns))
	for i, column := range columns {
		out[i] = r.cell(column.Key)
	}
	return out
}

// ExportRows 已持久化活动展开为导出行，每个商品单位一行；无商品时输出一行空商品
func ExportRows(m *models.Promotion, locale string) []SheetRow {
	base := SheetRow{
		PromotionListID: strconv.FormatUint(uint64(m.PromotionListID), 10),
		MinQty:          m.MinQty,
		MaxQty:          m.MaxQty,
		StartDate:       m.StartsAt,
		EndDate:         m.EndsAt,
	}
	value := m.Value.Decimal
	switch m.Type {
	case constants.PromotionTypeFixedPrice:
		base.FixedPrice = &value
	case constants.PromotionTypeBulkPurchase:
		base.RequiredQty = m.RequiredQty
		base.FreeQty = m.FreeQty
		base.MinPurchaseAmount = m.MinPurchaseAmount.DecimalPtr()
	case constants.PromotionTypeAssortedItems:
		base.RequiredItemCount = m.RequiredItemCount
		base.TotalPrice = &value
	}
	if len(m.Items) == 0 {
		return []SheetRow{base}
	}
	items := append([]models.PromotionItem{}, m.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
	rows := make([]SheetRow, 0, len(items))
	for _, item := range items {
		row := base
		if item.Product != nil {
			row.ProductName = item.Product.DisplayName(locale, i18n.DefaultFallbackChain...)
		}
		if item.ProductUnit != nil {
			row.UnitName = item.ProductUnit.UnitName
		}
		rows = append(rows, row)
	}
	return rows
}

func (r SheetRow) cell(key string) interface{} {
	switch key {
	case ColumnPromotionListID:
		return r.PromotionListID
	case ColumnProductName:
		return r.ProductName
	case ColumnUnitName:
		return r.UnitName
	case ColumnMinQty:
		return intCell(r.MinQty)
	case ColumnMaxQty:
		return intCell(r.MaxQty)
	case ColumnStartDate:
		return dateCell(r.StartDate)
	case ColumnEndDate:
		return dateCell(r.EndDate)
	case ColumnFixedPrice:
		return decimalCell(r.FixedPrice)
	case ColumnRequiredQty:
		return intCell(r.RequiredQty)
	case ColumnFreeQty:
		return intCell(r.FreeQty)
	case ColumnMinPurchaseAmount:
		return decimalCell(r.MinPurchaseAmount)
	case ColumnRequiredItemCount:
		return intCell(r.RequiredItemCount)
	case ColumnTotalPrice:
		return decimalCell(r.TotalPrice)
	}
	return ""
}

func intKey(v *int) string {
	if v == nil {
		return ""
	}
	return decimal.NewFromInt(int64(*v)).String()
}

func decimalKey(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func timeKey(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func intCell(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func decimalCell(v *decimal.Decimal) interface{} {
	if v == nil {
		return ""
	}
	return v.StringFixed(2)
}

func dateCell(v *time.Time) interface{} {
	if v == nil {
		return ""
	}
	if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 {
		return v.Format("2006-01-02")
	}
	return v.Format("2006-01-02 15:04")
}
