// Package matching resolves free-text product names and unit labels from import rows to
// catalog product units through an ordered cascade of search and comparison strategies.
package matching

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/freshcart-admin/internal/i18n"
	"github.com/freshcart-admin/internal/models"
)

// 匹配策略
const (
	StrategyExact      = "exact"
	StrategyNormalized = "normalized"
	StrategyContains   = "contains"
	StrategyContained  = "contained"
	StrategyFuzzy      = "fuzzy"
	StrategyFallback   = "fallback"
)

// 失败原因
const (
	CodeNameRequired       = "name_required"
	CodeIDDetected         = "id_detected"
	CodeProductNotFound    = "product_not_found"
	CodeNoUnits            = "no_units"
	CodeUnitNotFound       = "unit_not_found"
	CodeCatalogUnavailable = "catalog_unavailable"
)

var hexIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Catalog 商品目录查询
type Catalog interface {
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
	List(ctx context.Context, limit int) ([]models.Product, error)
}

// UnitSource 商品单位查询
type UnitSource interface {
	UnitsFor(ctx context.Context, productID uint) ([]models.ProductUnit, error)
}

// Config 匹配阈值
type Config struct {
	MinOverlapWords     int
	OverlapRatio        float64
	MinSearchWordLen    int
	SearchLimit         int
	FallbackScanLimit   int
	MaxSuggestions      int
	MinContainedNameLen int
	Locale              string
}

// DefaultConfig 默认阈值
func DefaultConfig() Config {
	return Config{
		MinOverlapWords:     2,
		OverlapRatio:        0.6,
		MinSearchWordLen:    3,
		SearchLimit:         20,
		FallbackScanLimit:   1000,
		MaxSuggestions:      3,
		MinContainedNameLen: 3,
		Locale:              i18n.LocaleEN,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.MinOverlapWords <= 0 {
		c.MinOverlapWords = def.MinOverlapWords
	}
	if c.OverlapRatio <= 0 {
		c.OverlapRatio = def.OverlapRatio
	}
	if c.MinSearchWordLen <= 0 {
		c.MinSearchWordLen = def.MinSearchWordLen
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = def.SearchLimit
	}
	if c.FallbackScanLimit <= 0 {
		c.FallbackScanLimit = def.FallbackScanLimit
	}
	if c.MaxSuggestions <= 0 {
		c.MaxSuggestions = def.MaxSuggestions
	}
	if c.MinContainedNameLen < 0 {
		c.MinContainedNameLen = def.MinContainedNameLen
	}
	if i18n.NormalizeLocale(c.Locale) == "" {
		c.Locale = def.Locale
	}
	return c
}

// MatchError 匹配失败诊断
type MatchError struct {
	Code           string
	Message        i18n.Message
	Suggestions    []string
	AvailableUnits []string
	Err            error
}

func (e *MatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Message.String()
}

func (e *MatchError) Unwrap() error { return e.Err }

// AsMatchError 提取匹配诊断
func AsMatchError(err error) (*MatchError, bool) {
	var target *MatchError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// ProductMatch 商品匹配结果
type ProductMatch struct {
	Product  models.Product
	Name     string
	Strategy string
	Warning  *i18n.Message
}

// Match 商品 + 单位匹配结果
type Match struct {
	Product  models.Product
	Name     string
	Unit     models.ProductUnit
	Strategy string
	Warnings []i18n.Message
}

// Option 匹配器选项
type Option func(*Matcher)

// WithStrategyObserver 每次命中策略时回调（用于指标统计）
func WithStrategyObserver(fn func(strategy string)) Option {
	return func(m *Matcher) {
		m.observe = fn
	}
}

// Matcher 商品/单位匹配器
type Matcher struct {
	catalog Catalog
	units   UnitSource
	cfg     Config
	observe func(strategy string)
}

// NewMatcher 创建匹配器
func NewMatcher(catalog Catalog, units UnitSource, cfg Config, opts ...Option) *Matcher {
	m := &Matcher{catalog: catalog, units: units, cfg: cfg.normalized()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve 解析商品名称与单位标签
func (m *Matcher) Resolve(ctx context.Context, name, unitLabel string) (*Match, error) {
	productMatch, err := m.ResolveProduct(ctx, name)
	if err != nil {
		return nil, err
	}
	unit, err := m.ResolveUnit(ctx, productMatch.Product, productMatch.Name, unitLabel)
	if err != nil {
		return nil, err
	}
	match := &Match{
		Product:  productMatch.Product,
		Name:     productMatch.Name,
		Unit:     *unit,
		Strategy: productMatch.Strategy,
	}
	if productMatch.Warning != nil {
		match.Warnings = append(match.Warnings, *productMatch.Warning)
	}
	return match, nil
}

// ResolveProduct 按级联策略解析商品，策略顺序决定最终命中
func (m *Matcher) ResolveProduct(ctx context.Context, name string) (*ProductMatch, error) {
	input := strings.TrimSpace(name)
	if input == "" {
		return nil, &MatchError{Code: CodeNameRequired, Message: i18n.NewMessage("import.product_name_required")}
	}
	if hexIDPattern.MatchString(input) {
		return nil, &MatchError{Code: CodeIDDetected, Message: i18n.NewMessage("import.id_detected", input)}
	}

	candidates, err := m.catalog.Search(ctx, input, m.cfg.SearchLimit)
	if err != nil {
		return nil, m.unavailable(err)
	}
	if len(candidates) == 0 {
		candidates, err = m.searchByWords(ctx, input)
		if err != nil {
			return nil, m.unavailable(err)
		}
	}
	if len(candidates) == 0 {
		scanned, err := m.catalog.List(ctx, m.cfg.FallbackScanLimit)
		if err != nil {
			return nil, m.unavailable(err)
		}
		candidates = m.substringCandidates(scanned, input)
		if len(candidates) == 0 {
			return nil, m.notFound(input, scanned)
		}
	}

	match := m.pick(candidates, input)
	if m.observe != nil {
		m.observe(match.Strategy)
	}
	return match, nil
}

func (m *Matcher) searchByWords(ctx context.Context, input string) ([]models.Product, error) {
	for _, word := range strings.Fields(input) {
		if utf8.RuneCountInString(word) < m.cfg.MinSearchWordLen {
			continue
		}
		found, err := m.catalog.Search(ctx, word, m.cfg.SearchLimit)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return found, nil
		}
	}
	return nil, nil
}

func (m *Matcher) substringCandidates(scanned []models.Product, input string) []models.Product {
	lowerInput := strings.ToLower(input)
	kept := make([]models.Product, 0)
	for _, product := range scanned {
		candidate := strings.ToLower(m.displayName(product))
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, lowerInput) || strings.Contains(lowerInput, candidate) {
			kept = append(kept, product)
		}
	}
	return kept
}

// pick 在候选集中依次尝试：精确、空白归一、候选包含输入、输入包含候选、词重叠、首个结果
func (m *Matcher) pick(candidates []models.Product, input string) *ProductMatch {
	lowerInput := strings.ToLower(input)
	normalizedInput := normalizeSpaces(lowerInput)
	names := make([]string, len(candidates))
	for i, product := range candidates {
		names[i] = m.displayName(product)
	}
	found := func(idx int, strategy string) *ProductMatch {
		return &ProductMatch{Product: candidates[idx], Name: names[idx], Strategy: strategy}
	}

	for i, name := range names {
		if strings.EqualFold(name, input) {
			return found(i, StrategyExact)
		}
	}
	for i, name := range names {
		if normalizeSpaces(strings.ToLower(name)) == normalizedInput {
			return found(i, StrategyNormalized)
		}
	}
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), lowerInput) {
			return found(i, StrategyContains)
		}
	}
	for i, name := range names {
		if utf8.RuneCountInString(name) > m.cfg.MinContainedNameLen && strings.Contains(lowerInput, strings.ToLower(name)) {
			return found(i, StrategyContained)
		}
	}
	for i, name := range names {
		if m.wordsOverlap(name, lowerInput) {
			match := found(i, StrategyFuzzy)
			warning := i18n.NewMessage("import.fuzzy_match", input, name)
			match.Warning = &warning
			return match
		}
	}
	match := found(0, StrategyFallback)
	warning := i18n.NewMessage("import.fallback_match", input, names[0])
	match.Warning = &warning
	return match
}

// wordsOverlap 重叠词数 >= min(MinOverlapWords, OverlapRatio * 输入词数)；
// 输入词包含候选词时，候选词长度须达到 MinSearchWordLen
func (m *Matcher) wordsOverlap(candidate, lowerInput string) bool {
	inputWords := strings.Fields(lowerInput)
	if len(inputWords) == 0 {
		return false
	}
	candidateWords := strings.Fields(strings.ToLower(candidate))
	overlap := 0
	for _, word := range inputWords {
		for _, other := range candidateWords {
			if strings.Contains(other, word) {
				overlap++
				break
			}
			// 过短的候选词（"1"、"kg"）几乎包含于任何输入词
			if utf8.RuneCountInString(other) >= m.cfg.MinSearchWordLen && strings.Contains(word, other) {
				overlap++
				break
			}
		}
	}
	threshold := m.cfg.OverlapRatio * float64(len(inputWords))
	if float64(m.cfg.MinOverlapWords) < threshold {
		threshold = float64(m.cfg.MinOverlapWords)
	}
	return overlap > 0 && float64(overlap) >= threshold
}

func (m *Matcher) notFound(input string, scanned []models.Product) error {
	suggestions := m.suggestions(scanned, input)
	if len(suggestions) == 0 {
		return &MatchError{Code: CodeProductNotFound, Message: i18n.NewMessage("import.product_not_found", input)}
	}
	return &MatchError{
		Code:        CodeProductNotFound,
		Message:     i18n.NewMessage("import.product_not_found_similar", input, strings.Join(suggestions, ", ")),
		Suggestions: suggestions,
	}
}

// suggestions 与输入共享至少一个长词的目录商品（按目录顺序）
func (m *Matcher) suggestions(scanned []models.Product, input string) []string {
	words := make([]string, 0)
	for _, word := range strings.Fields(strings.ToLower(input)) {
		if utf8.RuneCountInString(word) >= m.cfg.MinSearchWordLen {
			words = append(words, word)
		}
	}
	if len(words) == 0 {
		return nil
	}
	out := make([]string, 0, m.cfg.MaxSuggestions)
	for _, product := range scanned {
		name := m.displayName(product)
		lowerName := strings.ToLower(name)
		for _, word := range words {
			if strings.Contains(lowerName, word) {
				out = append(out, name)
				break
			}
		}
		if len(out) >= m.cfg.MaxSuggestions {
			break
		}
	}
	return out
}

func (m *Matcher) unavailable(err error) error {
	return &MatchError{
		Code:    CodeCatalogUnavailable,
		Message: i18n.NewMessage("import.catalog_unavailable", err.Error()),
		Err:     err,
	}
}

func (m *Matcher) displayName(product models.Product) string {
	return product.DisplayName(m.cfg.Locale, i18n.DefaultFallbackChain...)
}

func normalizeSpaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
