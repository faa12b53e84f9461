package service

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/freshcart-admin/internal/cache"
	"github.com/freshcart-admin/internal/i18n"
	"github.com/freshcart-admin/internal/matching"
	"github.com/freshcart-admin/internal/models"
	"github.com/freshcart-admin/internal/promotion"
	"github.com/freshcart-admin/internal/repository"
	"github.com/freshcart-admin/internal/spreadsheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowByNumber(t *testing.T, preview *ImportPreview, number int) ImportPreviewRow {
	t.Helper()
	for _, row := range preview.Rows {
		if row.RowNumber == number {
			return row
		}
	}
	t.Fatalf("row %d not in preview", number)
	return ImportPreviewRow{}
}

// cacheLocked 在持有预览锁期间执行 fn
func cacheLocked(ctx context.Context, f *serviceFixture, previewID string, fn func() error) error {
	var inner error
	if err := cache.WithLock(ctx, f.store, cache.ImportPreviewKey(previewID), time.Minute, func() error {
		inner = fn()
		return nil
	}); err != nil {
		return err
	}
	return inner
}

func firstErrorKey(row ImportPreviewRow) string {
	if len(row.Errors) == 0 {
		return ""
	}
	return row.Errors[0].Key
}

func TestImportPreviewClassifiesRows(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()
	bulkID := strconv.FormatUint(uint64(f.bulkList.ID), 10)
	book := buildWorkbook(t, "fixed_price", [][]interface{}{
		{"", "nadec yoghurt", "tray", "", "", "", "", "4.50"},
		{"", "Almarai Milk", "", 1, 6, "", "", "3.25"},
		{"", "64b7f0c2a1e4d5f6a7b8c9d0", "", "", "", "", "", "2"},
		{"", "Dragonfruit", "", "", "", "", "", "2"},
		{"", "Tomato", "", "", "", "", "", "2"},
		{bulkID, "Almarai Milk", "", "", "", "", "", "2"},
		{"", "Basmati Rice 5kg", "crate", "", "", "", "", "7"},
		{"", "Almarai Milk", "", "", "", "", "", "abc"},
	})

	preview, err := f.importer.Preview(ctx, f.fixedList.ID, "fixed.xlsx", book)
	require.NoError(t, err)
	assert.Equal(t, 8, preview.Total)
	assert.Equal(t, 2, preview.Valid)
	assert.Equal(t, 6, preview.Invalid)
	assert.Len(t, preview.Batches, 2)

	fuzzy := rowByNumber(t, preview, 2)
	assert.Equal(t, ImportRowValid, fuzzy.Status)
	assert.Equal(t, f.yoghurt.ID, fuzzy.ResolvedProductID)
	assert.Equal(t, f.yoghurtTray.ID, fuzzy.ResolvedProductUnitID)
	assert.Equal(t, matching.StrategyFuzzy, fuzzy.MatchStrategy)
	require.Len(t, fuzzy.Warnings, 1)
	assert.Equal(t, "import.fuzzy_match", fuzzy.Warnings[0].Key)

	exact := rowByNumber(t, preview, 3)
	assert.Equal(t, matching.StrategyExact, exact.MatchStrategy)
	assert.Equal(t, f.milkBottle.ID, exact.ResolvedProductUnitID)

	assert.Equal(t, "import.id_detected", firstErrorKey(rowByNumber(t, preview, 4)))
	assert.Equal(t, "import.product_not_found", firstErrorKey(rowByNumber(t, preview, 5)))
	assert.Equal(t, "import.product_no_units", firstErrorKey(rowByNumber(t, preview, 6)))
	assert.Equal(t, "import.list_mismatch", firstErrorKey(rowByNumber(t, preview, 7)))
	assert.Equal(t, "import.unit_not_found", firstErrorKey(rowByNumber(t, preview, 8)))
	assert.NotEmpty(t, firstErrorKey(rowByNumber(t, preview, 9)))

	assert.Len(t, preview.Errors, 6)
	assert.Len(t, preview.Warnings, 1)
	assert.Zero(t, countPromotions(t, f, f.fixedList.ID), "preview must not write promotions")

	stored, err := f.importer.Get(ctx, preview.ID)
	require.NoError(t, err)
	assert.Equal(t, preview.Valid, stored.Valid)

	stored.Localize(i18n.LocaleAR)
	assert.NotEmpty(t, stored.Rows[2].Errors[0].Text)
}

func TestImportPreviewGroupsAssortedRows(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()
	book := buildWorkbook(t, "assorted_items", [][]interface{}{
		{"", "NADEC FRESH YOGHURT", "cup", "", "", "", "", 2, "10"},
		{"", "Almarai Milk", "", "", "", "", "", 2, "10"},
		{"", "Basmati Rice 5kg", "", "", "", "", "", 2, "7"},
	})

	preview, err := f.importer.Preview(ctx, f.assortedList.ID, "assorted.xlsx", book)
	require.NoError(t, err)
	require.Len(t, preview.Batches, 1)
	batch := preview.Batches[0]
	assert.Equal(t, []int{2, 3}, batch.RowNumbers)
	require.Len(t, batch.Payload.ProductUnits, 2)
	assert.Equal(t, f.yoghurtCup.ID, batch.Payload.ProductUnits[0].ProductUnitID)
	assert.Equal(t, f.milkBottle.ID, batch.Payload.ProductUnits[1].ProductUnitID)

	lonely := rowByNumber(t, preview, 4)
	assert.Equal(t, ImportRowInvalid, lonely.Status)
	assert.Equal(t, "import.group_too_small", firstErrorKey(lonely))
	assert.Equal(t, rowByNumber(t, preview, 2).GroupKey, rowByNumber(t, preview, 3).GroupKey)

	result, err := f.importer.Apply(ctx, preview.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Failed)
	assert.EqualValues(t, 1, countPromotions(t, f, f.assortedList.ID))

	_, err = f.importer.Get(ctx, preview.ID)
	assert.ErrorIs(t, err, ErrImportPreviewNotFound)
}

func TestImportApplyKeepsSuccessesWhenSomeBatchesFail(t *testing.T) {
	rejecting := &rejectingPromotionRepository{}
	f := newServiceFixture(t, func(inner repository.PromotionRepository) repository.PromotionRepository {
		rejecting.PromotionRepository = inner
		return rejecting
	})
	rejecting.rejectProductID = f.rice.ID
	ctx := context.Background()
	book := buildWorkbook(t, "fixed_price", [][]interface{}{
		{"", "NADEC FRESH YOGHURT", "", "", "", "", "", "4.50"},
		{"", "Basmati Rice 5kg", "", "", "", "", "", "19.90"},
		{"", "Almarai Milk", "", "", "", "", "", "3.25"},
	})

	preview, err := f.importer.Preview(ctx, f.fixedList.ID, "fixed.xlsx", book)
	require.NoError(t, err)
	require.Len(t, preview.Batches, 3)

	result, err := f.importer.Apply(ctx, preview.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.PromotionIDs, 2)
	assert.Equal(t, []int{3}, result.FailedRowNumbers())
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "error.promotion_create_failed", result.Failures[0].Messages[0].Key)
	assert.EqualValues(t, 2, countPromotions(t, f, f.fixedList.ID), "successful rows are not rolled back")

	retained, err := f.importer.Get(ctx, preview.ID)
	require.NoError(t, err)
	require.Len(t, retained.Batches, 1)
	assert.Equal(t, []int{3}, retained.Batches[0].RowNumbers)

	rejecting.rejectProductID = 0
	retry, err := f.importer.Apply(ctx, preview.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, retry.Imported)
	assert.EqualValues(t, 3, countPromotions(t, f, f.fixedList.ID))
}

func TestImportApplyBusyAndCancel(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()
	book := buildWorkbook(t, "fixed_price", [][]interface{}{
		{"", "Almarai Milk", "", "", "", "", "", "3.25"},
	})
	preview, err := f.importer.Preview(ctx, f.fixedList.ID, "fixed.xlsx", book)
	require.NoError(t, err)

	err = cacheLocked(ctx, f, preview.ID, func() error {
		_, applyErr := f.importer.Apply(ctx, preview.ID)
		return applyErr
	})
	assert.ErrorIs(t, err, ErrImportBusy)

	require.NoError(t, f.importer.Cancel(ctx, preview.ID))
	_, err = f.importer.Apply(ctx, preview.ID)
	assert.ErrorIs(t, err, ErrImportPreviewNotFound)
	assert.Zero(t, countPromotions(t, f, f.fixedList.ID))
}

func TestImportCancelDuringApplyIsNotUndone(t *testing.T) {
	hooked := &hookedPromotionRepository{}
	f := newServiceFixture(t, func(inner repository.PromotionRepository) repository.PromotionRepository {
		hooked.PromotionRepository = inner
		return hooked
	})
	ctx := context.Background()
	book := buildWorkbook(t, "fixed_price", [][]interface{}{
		{"", "Almarai Milk", "", "", "", "", "", "3.25"},
		{"", "Basmati Rice 5kg", "", "", "", "", "", "19.90"},
	})
	preview, err := f.importer.Preview(ctx, f.fixedList.ID, "fixed.xlsx", book)
	require.NoError(t, err)

	var cancelOnce sync.Once
	hooked.beforeCreate = func(p *models.Promotion) error {
		cancelOnce.Do(func() {
			assert.NoError(t, f.importer.Cancel(ctx, preview.ID))
		})
		if p.Items[0].ProductID == f.rice.ID {
			return errors.New("backend rejected rice")
		}
		return nil
	}

	result, err := f.importer.Apply(ctx, preview.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	_, err = f.importer.Get(ctx, preview.ID)
	assert.ErrorIs(t, err, ErrImportPreviewNotFound, "cancelled preview must not come back with the failed rows")
	_, err = f.importer.Apply(ctx, preview.ID)
	assert.ErrorIs(t, err, ErrImportPreviewNotFound)
	assert.EqualValues(t, 1, countPromotions(t, f, f.fixedList.ID))
}

func TestImportApplyRejectsSecondConfirmAfterLockExpiry(t *testing.T) {
	hooked := &hookedPromotionRepository{}
	f := newServiceFixture(t, func(inner repository.PromotionRepository) repository.PromotionRepository {
		hooked.PromotionRepository = inner
		return hooked
	})
	f.importer.opts.LockTTL = 50 * time.Millisecond
	ctx := context.Background()
	book := buildWorkbook(t, "fixed_price", [][]interface{}{
		{"", "Almarai Milk", "", "", "", "", "", "3.25"},
	})
	preview, err := f.importer.Preview(ctx, f.fixedList.ID, "fixed.xlsx", book)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	hooked.beforeCreate = func(*models.Promotion) error {
		close(entered)
		<-release
		return nil
	}

	type applyOutcome struct {
		result *ImportResult
		err    error
	}
	first := make(chan applyOutcome, 1)
	go func() {
		result, err := f.importer.Apply(ctx, preview.ID)
		first <- applyOutcome{result: result, err: err}
	}()
	<-entered
	time.Sleep(150 * time.Millisecond)

	_, err = f.importer.Apply(ctx, preview.ID)
	assert.ErrorIs(t, err, ErrImportBusy, "a confirm already in flight must block a second one after the lock expires")

	close(release)
	outcome := <-first
	require.NoError(t, outcome.err)
	assert.Equal(t, 1, outcome.result.Imported)
	assert.EqualValues(t, 1, countPromotions(t, f, f.fixedList.ID))
}

func TestImportPreviewRejectsBadFiles(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	_, err := f.importer.Preview(ctx, f.fixedList.ID, "notes.txt", bytes.NewBufferString("not a workbook"))
	assert.ErrorIs(t, err, ErrImportFileInvalid)

	_, err = f.importer.Preview(ctx, f.fixedList.ID, "empty.xlsx", buildWorkbook(t, "fixed_price", nil))
	assert.ErrorIs(t, err, ErrImportEmpty)

	_, err = f.importer.Preview(ctx, 9999, "fixed.xlsx", buildWorkbook(t, "fixed_price", nil))
	assert.ErrorIs(t, err, ErrPromotionListNotFound)

	f.importer.opts.MaxRows = 1
	_, err = f.importer.Preview(ctx, f.fixedList.ID, "big.xlsx", buildWorkbook(t, "fixed_price", [][]interface{}{
		{"", "Almarai Milk", "", "", "", "", "", "3"},
		{"", "Tomato", "", "", "", "", "", "3"},
	}))
	assert.ErrorIs(t, err, ErrImportTooManyRows)
}

func TestExportUsesImportLayout(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()
	book := buildWorkbook(t, "bulk_purchase", [][]interface{}{
		{"", "Almarai Milk", "", "", "", "2026-03-01", "2026-03-31", 3, 1, ""},
	})
	preview, err := f.importer.Preview(ctx, f.bulkList.ID, "bulk.xlsx", book)
	require.NoError(t, err)
	require.Equal(t, 1, preview.Valid)
	_, err = f.importer.Apply(ctx, preview.ID)
	require.NoError(t, err)

	var out bytes.Buffer
	list, err := f.importer.Export(ctx, f.bulkList.ID, &out)
	require.NoError(t, err)
	assert.Equal(t, f.bulkList.ID, list.ID)

	rows, err := spreadsheet.Read(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	parsed, msg := promotion.ParseSheetRow(list.Type, rows[0].Number, rows[0].Cells)
	require.Nil(t, msg)
	assert.Equal(t, "Almarai Milk", parsed.ProductName)
	assert.Equal(t, "bottle", parsed.UnitName)
	require.NotNil(t, parsed.RequiredQty)
	assert.Equal(t, 3, *parsed.RequiredQty)
	require.NotNil(t, parsed.EndDate)
	assert.Equal(t, "2026-03-31", parsed.EndDate.Format("2006-01-02"))

	reimport, err := f.importer.Preview(ctx, f.bulkList.ID, "roundtrip.xlsx", bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, reimport.Valid)

	var template bytes.Buffer
	_, err = f.importer.Template(ctx, f.assortedList.ID, &template)
	require.NoError(t, err)
	_, err = spreadsheet.Read(bytes.NewReader(template.Bytes()))
	assert.ErrorIs(t, err, spreadsheet.ErrNoRows)
}
