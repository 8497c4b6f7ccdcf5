package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"usaha-chatbot/models"
)

func ptr(s string) *string {
	return &s
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Business{}))

	base := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	seeds := []models.Business{
		{
			UsahaID: "G-001", Source: models.SourceGeotag,
			NamaUsaha: "SEMBAKO MUKHLAS", Alamat: "Jl. Mulawarman No. 12",
			Kategori: "Perdagangan", Status: "aktif",
			NmProv: ptr("Kalimantan Timur"), NmKab: ptr("Balikpapan"), NmKec: ptr("Balikpapan Timur"),
			UpdatedAt: base,
		},
		{
			UsahaID: "P-001", Source: models.SourcePrelist,
			NamaUsaha: "SEMBAKO MUKHLAS", Alamat: "Jl. Mulawarman No. 12",
			Kategori: "Perdagangan", Status: "aktif",
			NmProv: ptr("Kalimantan Timur"), NmKab: ptr("Balikpapan"), NmKec: ptr("Balikpapan Timur"),
			UpdatedAt: base,
		},
		{
			UsahaID: "G-002", Source: models.SourceGeotag,
			NamaUsaha: "TOKO MEGA JAYA", Alamat: "Jl. Sudirman No. 3",
			Kategori: "Perdagangan", Status: "nonaktif",
			NmProv: ptr("Kalimantan Timur"), NmKab: ptr("Balikpapan"), NmKec: ptr("Balikpapan Selatan"),
			UpdatedAt: base.Add(time.Hour),
		},
		{
			UsahaID: "P-002", Source: models.SourcePrelist,
			NamaUsaha: "BERKAH JAYA MOTOR", Alamat: "Jl. Soekarno Hatta KM 5",
			Kategori: "Jasa", Status: "aktif",
			NmProv: ptr("Kalimantan Timur"), NmKab: ptr("Balikpapan"), NmKec: ptr("Balikpapan Utara"),
			UpdatedAt: base.Add(2 * time.Hour),
		},
		{
			UsahaID: "P-003", Source: models.SourcePrelist,
			NamaUsaha: "WARUNG BAKSO PAK JOYO", Alamat: "Jl. Mawar No. 8",
			Kategori: "Makanan", Status: "aktif",
			NmProv: ptr("Jawa Timur"), NmKab: ptr("Malang"), NmKec: ptr("Lowokwaru"),
			UpdatedAt: base.Add(3 * time.Hour),
		},
	}
	require.NoError(t, db.Create(&seeds).Error)

	return NewStoreWithDB(db)
}

func TestCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter Filter
		want   int64
	}{
		{"unfiltered counts both sources", Filter{}, 5},
		{"region matches kabupaten", Filter{Region: "Balikpapan"}, 4},
		{"region matches kecamatan", Filter{Region: "balikpapan timur"}, 2},
		{"category", Filter{Categories: []string{"perdagangan"}}, 3},
		{"status", Filter{Status: "nonaktif"}, 1},
		{"region and status", Filter{Region: "Balikpapan", Status: "aktif"}, 3},
		{"unknown region", Filter{Region: "Surabaya"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountMatchesTotalsBySource(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	total, err := store.Count(ctx, Filter{})
	require.NoError(t, err)

	totals, err := store.TotalsBySource(ctx)
	require.NoError(t, err)

	var sum int64
	for _, n := range totals {
		sum += n
	}
	assert.Equal(t, total, sum)
	assert.Equal(t, int64(2), totals[models.SourceGeotag])
	assert.Equal(t, int64(3), totals[models.SourcePrelist])
}

func TestList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("exact kecamatan matches rank first", func(t *testing.T) {
		businesses, err := store.List(ctx, Filter{Region: "Balikpapan Timur"}, 10)
		require.NoError(t, err)
		require.Len(t, businesses, 2)
		for _, b := range businesses {
			assert.Equal(t, "Balikpapan Timur", *b.NmKec)
		}
	})

	t.Run("ordered by name within rank", func(t *testing.T) {
		businesses, err := store.List(ctx, Filter{Region: "Balikpapan"}, 10)
		require.NoError(t, err)
		require.Len(t, businesses, 4)
		assert.Equal(t, "BERKAH JAYA MOTOR", businesses[0].NamaUsaha)
	})

	t.Run("limit applies", func(t *testing.T) {
		businesses, err := store.List(ctx, Filter{}, 2)
		require.NoError(t, err)
		assert.Len(t, businesses, 2)
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		businesses, err := store.List(ctx, Filter{Region: "Surabaya"}, 10)
		require.NoError(t, err)
		assert.Empty(t, businesses)
	})
}

func TestFindByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		business, err := store.FindByName(ctx, "  sembako   MUKHLAS ")
		require.NoError(t, err)
		require.NotNil(t, business)
		assert.Equal(t, "SEMBAKO MUKHLAS", business.NamaUsaha)
	})

	t.Run("geotag wins on equal recency", func(t *testing.T) {
		business, err := store.FindByName(ctx, "sembako mukhlas")
		require.NoError(t, err)
		require.NotNil(t, business)
		assert.Equal(t, models.SourceGeotag, business.Source)
	})

	t.Run("falls back to longest word", func(t *testing.T) {
		business, err := store.FindByName(ctx, "kios sembako murah")
		require.NoError(t, err)
		require.NotNil(t, business)
		assert.Equal(t, "SEMBAKO MUKHLAS", business.NamaUsaha)
	})

	t.Run("absent name is nil without error", func(t *testing.T) {
		business, err := store.FindByName(ctx, "tidak terdaftar")
		require.NoError(t, err)
		assert.Nil(t, business)
	})

	t.Run("blank name is nil", func(t *testing.T) {
		business, err := store.FindByName(ctx, "   ")
		require.NoError(t, err)
		assert.Nil(t, business)
	})
}

func TestRegionNamesAndCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	regions, err := store.RegionNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, regions, "Balikpapan")
	assert.Contains(t, regions, "Balikpapan Timur")
	assert.Contains(t, regions, "Kalimantan Timur")
	assert.Contains(t, regions, "Lowokwaru")

	categories, err := store.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Perdagangan", "Jasa", "Makanan"}, categories)
}
