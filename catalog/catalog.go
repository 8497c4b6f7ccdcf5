// Package catalog is the read-only accessor over the usaha_llm view, the
// union of the geotag and prelist origin tables with left-joined region and
// KBLI lookups.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"usaha-chatbot/models"
)

// Filter is a conjunction over region, categories and status. Zero values
// mean "no constraint". Region matches the kecamatan or kabupaten name, or
// the raw address, the way the upstream data is actually queried.
type Filter struct {
	Region     string
	Categories []string
	Status     string
}

func (f Filter) IsZero() bool {
	return f.Region == "" && len(f.Categories) == 0 && f.Status == ""
}

type Store struct {
	db *gorm.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an existing gorm handle. Tests use it to run the
// catalog against sqlite.
func NewStoreWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) applyFilter(query *gorm.DB, filter Filter) *gorm.DB {
	if filter.Region != "" {
		pattern := "%" + strings.ToLower(filter.Region) + "%"
		query = query.Where(
			"LOWER(nmkec) LIKE ? OR LOWER(nmkab) LIKE ? OR LOWER(alamat) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if len(filter.Categories) > 0 {
		lowered := make([]string, len(filter.Categories))
		for i, c := range filter.Categories {
			lowered[i] = strings.ToLower(c)
		}
		query = query.Where("LOWER(kategori) IN ?", lowered)
	}
	if filter.Status != "" {
		query = query.Where("LOWER(status) = ?", strings.ToLower(filter.Status))
	}

	return query
}

// Count returns the number of businesses matching the filter. An empty
// filter counts the whole view, both sources included.
func (s *Store) Count(ctx context.Context, filter Filter) (int64, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&models.Business{})
	if err := s.applyFilter(query, filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count businesses: %w", err)
	}

	return count, nil
}

// List returns at most limit businesses matching the filter. With a region
// or category constraint, exact matches rank before substring matches;
// within a rank, ordering is nama_usaha ascending.
func (s *Store) List(ctx context.Context, filter Filter, limit int) ([]models.Business, error) {
	if limit <= 0 {
		limit = 10
	}

	query := s.applyFilter(s.db.WithContext(ctx).Model(&models.Business{}), filter)

	var orderParts []string
	var orderVars []interface{}
	if filter.Region != "" {
		region := strings.ToLower(filter.Region)
		orderParts = append(orderParts, "CASE WHEN LOWER(nmkec) = ? OR LOWER(nmkab) = ? THEN 0 ELSE 1 END")
		orderVars = append(orderVars, region, region)
	}
	if len(filter.Categories) > 0 {
		orderParts = append(orderParts, "CASE WHEN LOWER(kategori) = ? THEN 0 ELSE 1 END")
		orderVars = append(orderVars, strings.ToLower(filter.Categories[0]))
	}
	orderParts = append(orderParts, "nama_usaha ASC")

	query = query.Clauses(clause.OrderBy{
		Expression: clause.Expr{
			SQL:                strings.Join(orderParts, ", "),
			Vars:               orderVars,
			WithoutParentheses: true,
		},
	})

	var businesses []models.Business
	if err := query.Limit(limit).Find(&businesses).Error; err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}

	return businesses, nil
}

// FindByName looks a business up by name, case-insensitive and whitespace
// normalized, over both the registered and commercial names. A multi-word
// miss falls back to the longest word of the query. When several rows share
// a name, the most recently updated wins; geotag beats prelist on a tie,
// since geotag is the authoritative live source. Returns nil without error
// when nothing matches.
func (s *Store) FindByName(ctx context.Context, name string) (*models.Business, error) {
	normalized := normalizeName(name)
	if normalized == "" {
		return nil, nil
	}

	business, err := s.findByPattern(ctx, "%"+normalized+"%")
	if err != nil {
		return nil, err
	}
	if business != nil {
		return business, nil
	}

	words := strings.Fields(normalized)
	if len(words) < 2 {
		return nil, nil
	}
	longest := words[0]
	for _, w := range words[1:] {
		if len(w) > len(longest) {
			longest = w
		}
	}
	if len(longest) <= 3 {
		return nil, nil
	}

	return s.findByPattern(ctx, "%"+longest+"%")
}

func (s *Store) findByPattern(ctx context.Context, pattern string) (*models.Business, error) {
	var businesses []models.Business
	err := s.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("LOWER(nama_usaha) LIKE ? OR LOWER(nama_komersial_usaha) LIKE ?", pattern, pattern).
		Order("updated_at DESC").
		Order("CASE WHEN source = 'geotag' THEN 0 ELSE 1 END").
		Limit(1).
		Find(&businesses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search business by name: %w", err)
	}
	if len(businesses) == 0 {
		return nil, nil
	}

	return &businesses[0], nil
}

// TotalsBySource returns the per-source row counts of the view.
func (s *Store) TotalsBySource(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Source string
		Total  int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Business{}).
		Select("source, COUNT(*) as total").
		Group("source").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count businesses by source: %w", err)
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.Source] = row.Total
	}

	return totals, nil
}

// RegionNames returns the distinct resolved region names at the province,
// kabupaten and kecamatan levels. Unresolved (null) names are skipped.
func (s *Store) RegionNames(ctx context.Context) ([]string, error) {
	var names []string
	for _, column := range []string{"nmprov", "nmkab", "nmkec"} {
		var values []string
		err := s.db.WithContext(ctx).
			Model(&models.Business{}).
			Where(column + " IS NOT NULL AND " + column + " <> ''").
			Distinct().
			Pluck(column, &values).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load %s names: %w", column, err)
		}
		names = append(names, values...)
	}

	return dedupe(names), nil
}

// Categories returns the distinct category values of the view.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	var values []string
	err := s.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("kategori <> ''").
		Distinct().
		Pluck("kategori", &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	return dedupe(values), nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}

	return out
}
