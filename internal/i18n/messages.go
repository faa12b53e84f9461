package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"success": "success",

		"error.bad_request":                 "Invalid request parameters",
		"error.not_found":                   "Resource not found",
		"error.internal":                    "Internal server error",
		"error.session_store_unavailable":   "Session storage is unavailable, please retry",
		"error.wizard_not_found":            "Promotion wizard session not found or expired",
		"error.wizard_busy":                 "Another action is still in progress for this wizard",
		"error.wizard_closed":               "Promotion wizard session is already finished",
		"error.wizard_field_invalid":        "Invalid field or value",
		"error.wizard_step_invalid":         "Invalid wizard step",
		"error.wizard_validation_failed":    "Please fix the highlighted fields",
		"error.promotion_invalid":           "Promotion parameters are invalid",
		"error.promotion_not_found":         "Promotion not found",
		"error.promotion_create_failed":     "Failed to create promotion",
		"error.promotion_update_failed":     "Failed to update promotion",
		"error.promotion_delete_failed":     "Failed to delete promotion",
		"error.promotion_fetch_failed":      "Failed to load promotions",
		"error.promotion_list_not_found":    "Promotion list not found",
		"error.promotion_list_fetch_failed": "Failed to load promotion lists",
		"error.category_fetch_failed":       "Failed to load categories",
		"error.product_fetch_failed":        "Failed to load products",
		"error.product_not_found":           "Product not found",
		"error.import_file_invalid":         "The uploaded spreadsheet could not be read",
		"error.import_preview_not_found":    "Import preview not found or expired",
		"error.import_apply_failed":         "Import failed",
		"error.import_partial":              "Imported %d, see %d errors",
		"error.export_failed":               "Failed to export promotions",
		"error.import_busy":                 "This import is already being applied",
		"error.import_too_many_rows":        "The spreadsheet has too many rows",
		"error.import_empty":                "The spreadsheet has no data rows",
		"error.import_file_too_large":       "The uploaded file is too large",
		"error.too_many_requests":           "Too many requests, please slow down",

		"promotion.type_invalid":                "Promotion type is invalid.",
		"promotion.list_required":               "A promotion list must be selected.",
		"promotion.value_required":              "Value is required.",
		"promotion.value_positive":              "Value must be greater than 0.",
		"promotion.value_non_negative":          "Value cannot be negative.",
		"promotion.min_qty_invalid":             "Minimum quantity must be at least 1.",
		"promotion.max_qty_invalid":             "Maximum quantity must be at least 1.",
		"promotion.qty_range_invalid":           "Minimum quantity cannot exceed maximum quantity.",
		"promotion.date_range_invalid":          "Start date must be before end date.",
		"promotion.product_exactly_one":         "Exactly one product must be selected.",
		"promotion.products_min_two":            "At least 2 products must be selected.",
		"promotion.products_required":           "At least one product must be selected.",
		"promotion.categories_required":         "At least one category must be selected.",
		"promotion.unit_required":               "Select a unit for every selected product.",
		"promotion.required_item_count_invalid": "Required item count must be at least 2.",
		"promotion.bulk_qualifier_required":     "Either required quantity or minimum purchase amount must be greater than 0.",
		"promotion.free_qty_required":           "Free quantity must be greater than 0.",
		"promotion.selection_mode_invalid":      "Selection mode is invalid.",
		"promotion.list_type_mismatch":          "The promotion list does not accept this promotion type.",

		"import.product_name_required":     "Product name is required.",
		"import.id_detected":               "ID detected instead of name: \"%s\". Please use the product name.",
		"import.product_not_found":         "Product \"%s\" not found.",
		"import.product_not_found_similar": "Product \"%s\" not found. Similar products: %s",
		"import.product_no_units":          "Product \"%s\" has no units.",
		"import.unit_not_found":            "Unit \"%s\" not found for product \"%s\". Available units: %s",
		"import.fuzzy_match":               "\"%s\" was matched to \"%s\" by word overlap, please review.",
		"import.fallback_match":            "\"%s\" was matched to the first search result \"%s\", please review.",
		"import.catalog_unavailable":       "Catalog lookup failed: %s",
		"import.list_not_found":            "Promotion list %s does not exist.",
		"import.list_mismatch":             "Promotion list %s does not match the target list type.",
		"import.number_invalid":            "Column %s has an invalid number: \"%s\".",
		"import.date_invalid":              "Column %s has an invalid date: \"%s\".",
		"import.group_too_small":           "Assorted promotion group needs at least 2 valid products.",
		"import.empty_file":                "The spreadsheet has no data rows.",
	},
	LocaleAR: {
		"success": "تم بنجاح",

		"error.bad_request":                 "معاملات الطلب غير صالحة",
		"error.not_found":                   "المورد غير موجود",
		"error.internal":                    "خطأ داخلي في الخادم",
		"error.session_store_unavailable":   "تخزين الجلسات غير متاح، يرجى المحاولة مرة أخرى",
		"error.wizard_not_found":            "جلسة معالج العرض غير موجودة أو منتهية",
		"error.wizard_busy":                 "هناك إجراء آخر قيد التنفيذ لهذا المعالج",
		"error.wizard_closed":               "جلسة معالج العرض منتهية بالفعل",
		"error.wizard_field_invalid":        "حقل أو قيمة غير صالحة",
		"error.wizard_step_invalid":         "خطوة غير صالحة",
		"error.wizard_validation_failed":    "يرجى تصحيح الحقول المحددة",
		"error.promotion_invalid":           "بيانات العرض غير صالحة",
		"error.promotion_not_found":         "العرض غير موجود",
		"error.promotion_create_failed":     "فشل إنشاء العرض",
		"error.promotion_update_failed":     "فشل تحديث العرض",
		"error.promotion_delete_failed":     "فشل حذف العرض",
		"error.promotion_fetch_failed":      "فشل تحميل العروض",
		"error.promotion_list_not_found":    "قائمة العروض غير موجودة",
		"error.promotion_list_fetch_failed": "فشل تحميل قوائم العروض",
		"error.category_fetch_failed":       "فشل تحميل الفئات",
		"error.product_fetch_failed":        "فشل تحميل المنتجات",
		"error.product_not_found":           "المنتج غير موجود",
		"error.import_file_invalid":         "تعذرت قراءة الملف المرفوع",
		"error.import_preview_not_found":    "معاينة الاستيراد غير موجودة أو منتهية",
		"error.import_apply_failed":         "فشل الاستيراد",
		"error.import_partial":              "تم استيراد %d، راجع %d أخطاء",
		"error.export_failed":               "فشل تصدير العروض",
		"error.import_busy":                 "يتم تطبيق هذا الاستيراد بالفعل",
		"error.import_too_many_rows":        "يحتوي الملف على عدد كبير جدًا من الصفوف",
		"error.import_empty":                "لا يحتوي الملف على صفوف بيانات",
		"error.import_file_too_large":       "الملف المرفوع كبير جدًا",
		"error.too_many_requests":           "طلبات كثيرة جدًا، يرجى التمهل",

		"promotion.type_invalid":                "نوع العرض غير صالح.",
		"promotion.list_required":               "يجب اختيار قائمة عروض.",
		"promotion.value_required":              "القيمة مطلوبة.",
		"promotion.value_positive":              "يجب أن تكون القيمة أكبر من 0.",
		"promotion.value_non_negative":          "لا يمكن أن تكون القيمة سالبة.",
		"promotion.min_qty_invalid":             "يجب أن تكون الكمية الدنيا 1 على الأقل.",
		"promotion.max_qty_invalid":             "يجب أن تكون الكمية القصوى 1 على الأقل.",
		"promotion.qty_range_invalid":           "لا يمكن أن تتجاوز الكمية الدنيا الكمية القصوى.",
		"promotion.date_range_invalid":          "يجب أن يكون تاريخ البدء قبل تاريخ الانتهاء.",
		"promotion.product_exactly_one":         "يجب اختيار منتج واحد فقط.",
		"promotion.products_min_two":            "يجب اختيار منتجين على الأقل.",
		"promotion.products_required":           "يجب اختيار منتج واحد على الأقل.",
		"promotion.categories_required":         "يجب اختيار فئة واحدة على الأقل.",
		"promotion.unit_required":               "اختر وحدة لكل منتج محدد.",
		"promotion.required_item_count_invalid": "يجب أن يكون عدد العناصر المطلوبة 2 على الأقل.",
		"promotion.bulk_qualifier_required":     "يجب أن تكون الكمية المطلوبة أو الحد الأدنى للشراء أكبر من 0.",
		"promotion.free_qty_required":           "يجب أن تكون الكمية المجانية أكبر من 0.",
		"promotion.selection_mode_invalid":      "وضع الاختيار غير صالح.",
		"promotion.list_type_mismatch":          "قائمة العروض لا تقبل هذا النوع من العروض.",

		"import.product_name_required":     "اسم المنتج مطلوب.",
		"import.id_detected":               "تم اكتشاف معرف بدلاً من الاسم: \"%s\". يرجى استخدام اسم المنتج.",
		"import.product_not_found":         "المنتج \"%s\" غير موجود.",
		"import.product_not_found_similar": "المنتج \"%s\" غير موجود. منتجات مشابهة: %s",
		"import.product_no_units":          "المنتج \"%s\" ليس له وحدات.",
		"import.unit_not_found":            "الوحدة \"%s\" غير موجودة للمنتج \"%s\". الوحدات المتاحة: %s",
		"import.fuzzy_match":               "تمت مطابقة \"%s\" مع \"%s\" بتداخل الكلمات، يرجى المراجعة.",
		"import.fallback_match":            "تمت مطابقة \"%s\" مع أول نتيجة بحث \"%s\"، يرجى المراجعة.",
		"import.catalog_unavailable":       "فشل البحث في الكتالوج: %s",
		"import.list_not_found":            "قائمة العروض %s غير موجودة.",
		"import.list_mismatch":             "قائمة العروض %s لا تطابق نوع القائمة المستهدفة.",
		"import.number_invalid":            "العمود %s يحتوي على رقم غير صالح: \"%s\".",
		"import.date_invalid":              "العمود %s يحتوي على تاريخ غير صالح: \"%s\".",
		"import.group_too_small":           "تحتاج مجموعة العرض المتنوع إلى منتجين صالحين على الأقل.",
		"import.empty_file":                "لا يحتوي الملف على صفوف بيانات.",
	},
}
