package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/freshcart-admin/internal/cache"
	"github.com/freshcart-admin/internal/constants"
	"github.com/freshcart-admin/internal/i18n"
	"github.com/freshcart-admin/internal/logger"
	"github.com/freshcart-admin/internal/matching"
	"github.com/freshcart-admin/internal/metrics"
	"github.com/freshcart-admin/internal/models"
	"github.com/freshcart-admin/internal/promotion"
	"github.com/freshcart-admin/internal/repository"
	"github.com/freshcart-admin/internal/spreadsheet"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// 导入行状态
const (
	ImportRowValid   = "valid"
	ImportRowInvalid = "invalid"
)

const (
	defaultImportPreviewTTL  = time.Hour
	defaultImportMaxRows     = 2000
	defaultImportConcurrency = 8
	defaultImportLockTTL     = 10 * time.Minute
	exportPageSize           = 200
)

// ImportOptions 导入参数
type ImportOptions struct {
	PreviewTTL  time.Duration
	LockTTL     time.Duration
	MaxRows     int
	Concurrency int
	Locale      string
}

func (o ImportOptions) normalized() ImportOptions {
	if o.PreviewTTL <= 0 {
		o.PreviewTTL = defaultImportPreviewTTL
	}
	if o.LockTTL <= 0 {
		o.LockTTL = defaultImportLockTTL
	}
	if o.MaxRows <= 0 {
		o.MaxRows = defaultImportMaxRows
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultImportConcurrency
	}
	if i18n.NormalizeLocale(o.Locale) == "" {
		o.Locale = i18n.DefaultLocale
	}
	return o
}

// ImportPreviewRow 预览行
type ImportPreviewRow struct {
	RowNumber             int                `json:"row_number"`
	PromotionListID       uint               `json:"promotion_list_id"`
	InputProductName      string             `json:"input_product_name"`
	InputUnitName         string             `json:"input_unit_name"`
	ResolvedProductID     uint               `json:"resolved_product_id,omitempty"`
	ResolvedProductName   string             `json:"resolved_product_name,omitempty"`
	ResolvedUnitName      string             `json:"resolved_unit_name,omitempty"`
	ResolvedProductUnitID uint               `json:"resolved_product_unit_id,omitempty"`
	MatchStrategy         string             `json:"match_strategy,omitempty"`
	Status                string             `json:"status"`
	GroupKey              string             `json:"group_key,omitempty"`
	Values                promotion.SheetRow `json:"values"`
	Errors                []i18n.Message     `json:"errors,omitempty"`
	Warnings              []i18n.Message     `json:"warnings,omitempty"`
}

func (r *ImportPreviewRow) fail(msg i18n.Message) {
	r.Status = ImportRowInvalid
	r.Errors = append(r.Errors, msg)
}

// ImportIssue 行级错误/警告
type ImportIssue struct {
	RowNumber int          `json:"row_number"`
	Message   i18n.Message `json:"message"`
}

// ImportBatch 待提交的一个活动及其来源行
type ImportBatch struct {
	RowNumbers []int             `json:"row_numbers"`
	Payload    promotion.Payload `json:"payload"`
}

// ImportPreview 导入预览（确认前不写入任何数据）
type ImportPreview struct {
	ID              string             `json:"id"`
	PromotionListID uint               `json:"promotion_list_id"`
	PromotionType   string             `json:"promotion_type"`
	FileName        string             `json:"file_name"`
	Rows            []ImportPreviewRow `json:"rows"`
	Total           int                `json:"total"`
	Valid           int                `json:"valid"`
	Invalid         int                `json:"invalid"`
	Errors          []ImportIssue      `json:"errors"`
	Warnings        []ImportIssue      `json:"warnings"`
	Batches         []ImportBatch      `json:"batches"`
	// Applying 确认提交进行中，锁过期后仍拒绝重复确认
	Applying  bool      `json:"applying"`
	CreatedAt time.Time `json:"created_at"`
}

// Localize 渲染预览中的全部消息
func (p *ImportPreview) Localize(locale string) {
	for i := range p.Rows {
		p.Rows[i].Errors = i18n.LocalizeAll(p.Rows[i].Errors, locale)
		p.Rows[i].Warnings = i18n.LocalizeAll(p.Rows[i].Warnings, locale)
	}
	for i := range p.Errors {
		p.Errors[i].Message = p.Errors[i].Message.Localized(locale)
	}
	for i := range p.Warnings {
		p.Warnings[i].Message = p.Warnings[i].Message.Localized(locale)
	}
}

// ImportFailure 提交失败的活动
type ImportFailure struct {
	RowNumbers []int          `json:"row_numbers"`
	Messages   []i18n.Message `json:"messages"`
}

// ImportResult 导入结果；部分成功不会回滚
type ImportResult struct {
	Imported     int             `json:"imported"`
	Failed       int             `json:"failed"`
	PromotionIDs []uint          `json:"promotion_ids"`
	Failures     []ImportFailure `json:"failures"`
}

// Localize 渲染失败原因
func (r *ImportResult) Localize(locale string) {
	for i := range r.Failures {
		r.Failures[i].Messages = i18n.LocalizeAll(r.Failures[i].Messages, locale)
	}
}

// PromotionImportService 表格导入/导出服务
type PromotionImportService struct {
	store     cache.Store
	admin     *PromotionAdminService
	listRepo  repository.PromotionListRepository
	promoRepo repository.PromotionRepository
	matcher   *matching.Matcher
	opts      ImportOptions
	now       func() time.Time
}

// NewPromotionImportService 创建导入服务
func NewPromotionImportService(
	store cache.Store,
	admin *PromotionAdminService,
	listRepo repository.PromotionListRepository,
	promoRepo repository.PromotionRepository,
	matcher *matching.Matcher,
	opts ImportOptions,
) *PromotionImportService {
	return &PromotionImportService{
		store:     store,
		admin:     admin,
		listRepo:  listRepo,
		promoRepo: promoRepo,
		matcher:   matcher,
		opts:      opts.normalized(),
		now:       time.Now,
	}
}

// NewRepositoryCatalog 以仓库实现匹配所需的商品目录
func NewRepositoryCatalog(products repository.ProductRepository, units repository.ProductUnitRepository) *RepositoryCatalog {
	return &RepositoryCatalog{products: products, units: units}
}

// RepositoryCatalog 基于仓库的商品目录
type RepositoryCatalog struct {
	products repository.ProductRepository
	units    repository.ProductUnitRepository
}

// Search 搜索商品
func (c *RepositoryCatalog) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	return c.products.Search(ctx, query, limit)
}

// List 全量扫描（按固定顺序）
func (c *RepositoryCatalog) List(ctx context.Context, limit int) ([]models.Product, error) {
	rows, _, err := c.products.List(ctx, repository.ProductListFilter{Page: 1, PageSize: limit})
	return rows, err
}

// UnitsFor 商品单位
func (c *RepositoryCatalog) UnitsFor(ctx context.Context, productID uint) ([]models.ProductUnit, error) {
	return c.units.ListByProduct(ctx, productID)
}

// Template 输出指定活动列表类型的空模板
func (s *PromotionImportService) Template(ctx context.Context, promotionListID uint, w io.Writer) (*models.PromotionList, error) {
	list, err := s.targetList(ctx, promotionListID)
	if err != nil {
		return nil, err
	}
	if err := spreadsheet.Write(w, promotion.Headers(list.Type), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return list, nil
}

// Export 按同一列布局导出活动列表中的全部活动
func (s *PromotionImportService) Export(ctx context.Context, promotionListID uint, w io.Writer) (*models.PromotionList, error) {
	list, err := s.targetList(ctx, promotionListID)
	if err != nil {
		return nil, err
	}
	rows := make([][]interface{}, 0)
	for page := 1; ; page++ {
		promotions, total, err := s.promoRepo.List(ctx, repository.PromotionFilter{
			Page:            page,
			PageSize:        exportPageSize,
			PromotionListID: list.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
		}
		for i := range promotions {
			for _, row := range promotion.ExportRows(&promotions[i], s.opts.Locale) {
				rows = append(rows, row.Row(list.Type))
			}
		}
		if len(promotions) == 0 || int64(page*exportPageSize) >= total {
			break
		}
	}
	if err := spreadsheet.Write(w, promotion.Headers(list.Type), rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	logger.FromContext(ctx).Infow("promotions_exported", "promotion_list_id", list.ID, "rows", len(rows))
	return list, nil
}

// Preview 解析并逐行匹配，结果存入会话存储；不写入任何活动
func (s *PromotionImportService) Preview(ctx context.Context, promotionListID uint, fileName string, r io.Reader) (*ImportPreview, error) {
	target, err := s.targetList(ctx, promotionListID)
	if err != nil {
		return nil, err
	}
	sheetRows, err := spreadsheet.Read(r)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrNoRows) {
			return nil, ErrImportEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrImportFileInvalid, err)
	}
	dataRows := make([]spreadsheet.Row, 0, len(sheetRows))
	for _, row := range sheetRows {
		if !promotion.IsBlank(row.Cells) {
			dataRows = append(dataRows, row)
		}
	}
	if len(dataRows) == 0 {
		return nil, ErrImportEmpty
	}
	if len(dataRows) > s.opts.MaxRows {
		return nil, fmt.Errorf("%w: %d > %d", ErrImportTooManyRows, len(dataRows), s.opts.MaxRows)
	}

	preview := &ImportPreview{
		ID:              uuid.NewString(),
		PromotionListID: target.ID,
		PromotionType:   target.Type,
		FileName:        fileName,
		Rows:            make([]ImportPreviewRow, len(dataRows)),
		CreatedAt:       s.now(),
	}
	lists := newListLookup(s.listRepo, target)
	parsed := make([]promotion.SheetRow, len(dataRows))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.opts.Concurrency)
	for i := range dataRows {
		i := i
		group.Go(func() error {
			parsed[i] = s.resolveRow(groupCtx, target, lists, dataRows[i], &preview.Rows[i])
			return nil
		})
	}
	_ = group.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	preview.Batches = s.buildBatches(target, preview.Rows, parsed)
	summarize(preview)

	if err := s.store.SetJSON(ctx, cache.ImportPreviewKey(preview.ID), preview, s.opts.PreviewTTL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	logger.FromContext(ctx).Infow("import_previewed",
		"preview_id", preview.ID,
		"promotion_list_id", target.ID,
		"total", preview.Total,
		"valid", preview.Valid,
		"invalid", preview.Invalid,
	)
	return preview, nil
}

// resolveRow 解析单行：列值、活动列表、商品与单位；任何失败只影响本行
func (s *PromotionImportService) resolveRow(ctx context.Context, target *models.PromotionList, lists *listLookup, raw spreadsheet.Row, out *ImportPreviewRow) promotion.SheetRow {
	*out = ImportPreviewRow{RowNumber: raw.Number, PromotionListID: target.ID, Status: ImportRowValid}
	row, msg := promotion.ParseSheetRow(target.Type, raw.Number, raw.Cells)
	out.Values = row
	out.InputProductName = row.ProductName
	out.InputUnitName = row.UnitName
	if msg != nil {
		out.fail(*msg)
		return row
	}

	listID, msg := lists.resolve(ctx, row.PromotionListID)
	if msg != nil {
		out.fail(*msg)
		return row
	}
	out.PromotionListID = listID

	match, err := s.matcher.Resolve(ctx, row.ProductName, row.UnitName)
	if err != nil {
		if matchErr, ok := matching.AsMatchError(err); ok {
			out.fail(matchErr.Message)
		} else {
			out.fail(i18n.NewMessage("import.catalog_unavailable", err.Error()))
		}
		return row
	}
	out.ResolvedProductID = match.Product.ID
	out.ResolvedProductName = match.Name
	out.ResolvedProductUnitID = match.Unit.ID
	out.ResolvedUnitName = match.Unit.UnitName
	out.MatchStrategy = match.Strategy
	out.Warnings = append(out.Warnings, match.Warnings...)
	return row
}

// buildBatches 生成待提交活动；任选活动按组合并，其余类型一行一个活动
func (s *PromotionImportService) buildBatches(target *models.PromotionList, rows []ImportPreviewRow, parsed []promotion.SheetRow) []ImportBatch {
	batches := make([]ImportBatch, 0)
	if target.Type != constants.PromotionTypeAssortedItems {
		for i := range rows {
			if rows[i].Status != ImportRowValid {
				continue
			}
			payload := parsed[i].Payload(target.Type, rows[i].PromotionListID, refOf(rows[i]))
			if errs := promotion.ValidatePayload(payload); !errs.Empty() {
				for _, key := range sortedErrorKeys(errs) {
					rows[i].fail(i18n.NewMessage(key))
				}
				continue
			}
			batches = append(batches, ImportBatch{RowNumbers: []int{rows[i].RowNumber}, Payload: payload})
		}
		return batches
	}

	order := make([]string, 0)
	members := map[string][]int{}
	for i := range rows {
		if rows[i].Status != ImportRowValid {
			continue
		}
		key := parsed[i].GroupKey(rows[i].PromotionListID)
		rows[i].GroupKey = key
		if _, seen := members[key]; !seen {
			order = append(order, key)
		}
		members[key] = append(members[key], i)
	}
	for _, key := range order {
		idxs := members[key]
		if len(idxs) < 2 {
			for _, idx := range idxs {
				rows[idx].fail(i18n.NewMessage("import.group_too_small"))
			}
			continue
		}
		first := idxs[0]
		payload := parsed[first].Payload(target.Type, rows[first].PromotionListID, refOf(rows[first]))
		rowNumbers := []int{rows[first].RowNumber}
		for _, idx := range idxs[1:] {
			payload.ProductUnits = append(payload.ProductUnits, refOf(rows[idx]))
			rowNumbers = append(rowNumbers, rows[idx].RowNumber)
		}
		if errs := promotion.ValidatePayload(payload); !errs.Empty() {
			for _, idx := range idxs {
				for _, errKey := range sortedErrorKeys(errs) {
					rows[idx].fail(i18n.NewMessage(errKey))
				}
			}
			continue
		}
		batches = append(batches, ImportBatch{RowNumbers: rowNumbers, Payload: payload})
	}
	return batches
}

// Get 读取预览
func (s *PromotionImportService) Get(ctx context.Context, id string) (*ImportPreview, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrImportPreviewNotFound
	}
	var preview ImportPreview
	found, err := s.store.GetJSON(ctx, cache.ImportPreviewKey(id), &preview)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	if !found {
		return nil, ErrImportPreviewNotFound
	}
	return &preview, nil
}

// Cancel 立即丢弃预览；进行中的确认完成后不会写回预览
func (s *PromotionImportService) Cancel(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Del(ctx, cache.ImportPreviewKey(id)); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	logger.FromContext(ctx).Infow("import_cancelled", "preview_id", id)
	return nil
}

// Apply 并发提交全部有效活动，不保证顺序且不回滚；
// 全部成功时删除预览，否则预览只保留失败的活动以便重试
func (s *PromotionImportService) Apply(ctx context.Context, id string) (*ImportResult, error) {
	var result *ImportResult
	err := cache.WithLock(ctx, s.store, cache.ImportPreviewKey(id), s.opts.LockTTL, func() error {
		preview, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if preview.Applying {
			return ErrImportBusy
		}
		preview.Applying = true
		if err := s.replacePreview(ctx, preview); err != nil {
			return err
		}

		result = s.submitBatches(ctx, preview.Batches)

		if result.Failed == 0 {
			if err := s.store.Del(ctx, cache.ImportPreviewKey(id)); err != nil {
				logger.FromContext(ctx).Warnw("import_preview_cleanup_failed", "preview_id", id, "error", err)
			}
		} else {
			preview.Applying = false
			preview.Batches = failedBatches(preview.Batches, result.Failures)
			if err := s.replacePreview(ctx, preview); err != nil && !errors.Is(err, ErrImportPreviewNotFound) {
				logger.FromContext(ctx).Warnw("import_preview_retain_failed", "preview_id", id, "error", err)
			}
		}
		logger.FromContext(ctx).Infow("import_applied",
			"preview_id", id,
			"imported", result.Imported,
			"failed", result.Failed,
		)
		return nil
	})
	if errors.Is(err, cache.ErrLocked) {
		return nil, ErrImportBusy
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// replacePreview 仅覆盖仍存在的预览，已取消的预览不会被写回
func (s *PromotionImportService) replacePreview(ctx context.Context, preview *ImportPreview) error {
	replaced, err := s.store.ReplaceJSON(ctx, cache.ImportPreviewKey(preview.ID), preview, s.opts.PreviewTTL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStoreUnavailable, err)
	}
	if !replaced {
		logger.FromContext(ctx).Infow("import_preview_discarded_after_cancel", "preview_id", preview.ID)
		return ErrImportPreviewNotFound
	}
	return nil
}

func (s *PromotionImportService) submitBatches(ctx context.Context, batches []ImportBatch) *ImportResult {
	result := &ImportResult{PromotionIDs: []uint{}, Failures: []ImportFailure{}}
	var mu sync.Mutex
	var group errgroup.Group
	group.SetLimit(s.opts.Concurrency)
	for _, batch := range batches {
		batch := batch
		group.Go(func() error {
			saved, err := s.admin.Save(ctx, 0, batch.Payload)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.ImportApplied.WithLabelValues(metrics.ResultFailed).Inc()
				logger.FromContext(ctx).Warnw("import_row_submit_failed", "rows", batch.RowNumbers, "error", err)
				result.Failed++
				result.Failures = append(result.Failures, ImportFailure{
					RowNumbers: batch.RowNumbers,
					Messages:   failureMessages(err),
				})
				return nil
			}
			metrics.ImportApplied.WithLabelValues(metrics.ResultOK).Inc()
			result.Imported++
			result.PromotionIDs = append(result.PromotionIDs, saved.ID)
			return nil
		})
	}
	_ = group.Wait()
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].RowNumbers[0] < result.Failures[j].RowNumbers[0]
	})
	sort.Slice(result.PromotionIDs, func(i, j int) bool { return result.PromotionIDs[i] < result.PromotionIDs[j] })
	return result
}

// FailedRowNumbers 全部失败的行号
func (r *ImportResult) FailedRowNumbers() []int {
	out := make([]int, 0)
	for _, failure := range r.Failures {
		out = append(out, failure.RowNumbers...)
	}
	sort.Ints(out)
	return out
}

func (s *PromotionImportService) targetList(ctx context.Context, id uint) (*models.PromotionList, error) {
	if id == 0 {
		return nil, ErrPromotionListNotFound
	}
	list, err := s.listRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPromotionListFetchFailed, err)
	}
	if list == nil {
		return nil, ErrPromotionListNotFound
	}
	return list, nil
}

// listLookup 请求内的活动列表缓存（行内填写的列表 ID）
type listLookup struct {
	mu     sync.Mutex
	repo   repository.PromotionListRepository
	target *models.PromotionList
	cache  map[uint]*models.PromotionList
}

func newListLookup(repo repository.PromotionListRepository, target *models.PromotionList) *listLookup {
	return &listLookup{
		repo:   repo,
		target: target,
		cache:  map[uint]*models.PromotionList{target.ID: target},
	}
}

// resolve 空值取目标列表；否则必须是同类型的已存在列表
func (l *listLookup) resolve(ctx context.Context, raw string) (uint, *i18n.Message) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return l.target.ID, nil
	}
	id, err := strconv.ParseUint(strings.TrimSuffix(raw, ".0"), 10, 64)
	if err != nil || id == 0 {
		msg := i18n.NewMessage("import.list_not_found", raw)
		return 0, &msg
	}
	list, err := l.get(ctx, uint(id))
	if err != nil {
		msg := i18n.NewMessage("import.catalog_unavailable", err.Error())
		return 0, &msg
	}
	if list == nil {
		msg := i18n.NewMessage("import.list_not_found", raw)
		return 0, &msg
	}
	if list.Type != l.target.Type {
		msg := i18n.NewMessage("import.list_mismatch", raw)
		return 0, &msg
	}
	return list.ID, nil
}

func (l *listLookup) get(ctx context.Context, id uint) (*models.PromotionList, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if list, ok := l.cache[id]; ok {
		return list, nil
	}
	list, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.cache[id] = list
	return list, nil
}

func summarize(preview *ImportPreview) {
	preview.Total = len(preview.Rows)
	preview.Errors = []ImportIssue{}
	preview.Warnings = []ImportIssue{}
	for _, row := range preview.Rows {
		if row.Status == ImportRowValid {
			preview.Valid++
		} else {
			preview.Invalid++
		}
		for _, msg := range row.Errors {
			preview.Errors = append(preview.Errors, ImportIssue{RowNumber: row.RowNumber, Message: msg})
		}
		for _, msg := range row.Warnings {
			preview.Warnings = append(preview.Warnings, ImportIssue{RowNumber: row.RowNumber, Message: msg})
		}
	}
	metrics.ImportRows.WithLabelValues(ImportRowValid).Add(float64(preview.Valid))
	metrics.ImportRows.WithLabelValues(ImportRowInvalid).Add(float64(preview.Invalid))
}

func refOf(row ImportPreviewRow) promotion.ProductUnitRef {
	return promotion.ProductUnitRef{ProductID: row.ResolvedProductID, ProductUnitID: row.ResolvedProductUnitID}
}

func sortedErrorKeys(errs promotion.FieldErrors) []string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	keys := make([]string, 0, len(fields))
	for _, field := range fields {
		keys = append(keys, errs[field])
	}
	return keys
}

func failureMessages(err error) []i18n.Message {
	if validationErr, ok := AsValidationError(err); ok {
		keys := sortedErrorKeys(validationErr.Errors)
		out := make([]i18n.Message, 0, len(keys))
		for _, key := range keys {
			out = append(out, i18n.NewMessage(key))
		}
		return out
	}
	switch {
	case errors.Is(err, ErrPromotionListNotFound):
		return []i18n.Message{i18n.NewMessage("error.promotion_list_not_found")}
	case errors.Is(err, ErrPromotionCreateFailed):
		return []i18n.Message{i18n.NewMessage("error.promotion_create_failed")}
	}
	return []i18n.Message{i18n.NewMessage("error.import_apply_failed")}
}

func failedBatches(batches []ImportBatch, failures []ImportFailure) []ImportBatch {
	failed := map[int]bool{}
	for _, failure := range failures {
		failed[failure.RowNumbers[0]] = true
	}
	out := make([]ImportBatch, 0, len(failures))
	for _, batch := range batches {
		if failed[batch.RowNumbers[0]] {
			out = append(out, batch)
		}
	}
	return out
}
