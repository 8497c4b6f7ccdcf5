package intent

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usaha-chatbot/catalog"
	"usaha-chatbot/models"
)

type fakeCatalog struct {
	count      int64
	countErr   error
	lastFilter catalog.Filter

	businesses []models.Business
	listErr    error

	byName  map[string]*models.Business
	findErr error
}

func (f *fakeCatalog) Count(ctx context.Context, filter catalog.Filter) (int64, error) {
	f.lastFilter = filter
	return f.count, f.countErr
}

func (f *fakeCatalog) List(ctx context.Context, filter catalog.Filter, limit int) ([]models.Business, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit < len(f.businesses) {
		return f.businesses[:limit], nil
	}
	return f.businesses, nil
}

func (f *fakeCatalog) FindByName(ctx context.Context, name string) (*models.Business, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byName[name], nil
}

func testEngine(cat *fakeCatalog) *Engine {
	return NewEngine(cat, testExtractor())
}

func TestChatCount(t *testing.T) {
	cat := &fakeCatalog{count: 8}
	engine := testEngine(cat)

	resp := engine.Chat(context.Background(), "Berapa usaha di Balikpapan?")

	assert.True(t, resp.Success)
	assert.Equal(t, models.MessageTypeCount, resp.MessageType)
	require.NotNil(t, resp.Count)
	assert.Equal(t, int64(8), *resp.Count)
	assert.Contains(t, resp.Response, "8")
	assert.Contains(t, resp.Response, "Balikpapan")
	assert.Equal(t, "Balikpapan", cat.lastFilter.Region)
}

func TestChatCountUnfiltered(t *testing.T) {
	cat := &fakeCatalog{count: 120}
	engine := testEngine(cat)

	resp := engine.Chat(context.Background(), "Berapa jumlah seluruh data?")

	assert.True(t, resp.Success)
	assert.Equal(t, models.MessageTypeCount, resp.MessageType)
	assert.Contains(t, resp.Response, "120")
	assert.True(t, cat.lastFilter.IsZero())
}

func TestChatList(t *testing.T) {
	cat := &fakeCatalog{businesses: []models.Business{
		{NamaUsaha: "SEMBAKO MUKHLAS", Kategori: "Perdagangan", Alamat: "Jl. Mulawarman No. 12", Status: "aktif"},
		{NamaUsaha: "TOKO MEGA JAYA", Kategori: "Perdagangan", Alamat: "Jl. Sudirman No. 3", Status: "nonaktif"},
	}}
	engine := testEngine(cat)

	resp := engine.Chat(context.Background(), "Daftar usaha perdagangan")

	assert.True(t, resp.Success)
	assert.Equal(t, models.MessageTypeList, resp.MessageType)
	require.NotNil(t, resp.Count)
	assert.Equal(t, int64(2), *resp.Count)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "SEMBAKO MUKHLAS", resp.Items[0].NamaUsaha)
	assert.Contains(t, resp.Response, "1. SEMBAKO MUKHLAS")
	assert.Contains(t, resp.Response, "2. TOKO MEGA JAYA")
	assert.Equal(t, []string{"Perdagangan"}, cat.lastFilter.Categories)
}

func TestChatListEmptyResult(t *testing.T) {
	cat := &fakeCatalog{}
	engine := testEngine(cat)

	resp := engine.Chat(context.Background(), "Tampilkan usaha di Malang")

	assert.True(t, resp.Success)
	assert.Equal(t, models.MessageTypeList, resp.MessageType)
	require.NotNil(t, resp.Count)
	assert.Equal(t, int64(0), *resp.Count)
	assert.Empty(t, resp.Items)
}

func TestChatListWithoutEntitiesIsOutOfScope(t *testing.T) {
	cat := &fakeCatalog{}
	engine := testEngine(cat)

	resp := engine.Chat(context.Background(), "Tampilkan semuanya dong")

	assert.True(t, resp.Success)
	assert.Equal(t, models.MessageTypeOutOfScope, resp.MessageType)
}

func TestChatBusinessInfo(t *testing.T) {
	cat := &fakeCatalog{byName: map[string]*models.Business{
		"sembako mukhlas": {
			NamaUsaha:   "SEMBAKO MUKHLAS",
			Kategori:    "Perdagangan",
			Alamat:      "Jl. Mulawarman No. 12",
			ProdukUtama: "Sembako",
			Status:      "aktif",
		},
	}}
	engine := testEngine(cat)

	resp := engine.Chat(context.Background(), "Apa itu Sembako Mukhlas?")

	assert.True(t, resp.Success)
	assert.Equal(t, models.MessageTypeBusinessInfo, resp.MessageType)
	require.NotNil(t, resp.BusinessData)
	assert.Equal(t, "SEMBAKO MUKHLAS", resp.BusinessData.NamaUsaha)
	assert.Contains(t, resp.Response, "SEMBAKO MUKHLAS")
	assert.Contains(t, resp.Response, "Jl. Mulawarman No. 12")
	assert.Contains(t, resp.Response, "aktif")
}

func TestChatBusinessInfoNotFound(t *testing.T) {
	cat := &fakeCatalog{}
	engine := testEngine(cat)

	resp := engine.Chat(context.Background(), "Apa itu Kedai Kenangan?")

	assert.True(t, resp.Success)
	assert.Equal(t, models.MessageTypeBusinessInfo, resp.MessageType)
	assert.Nil(t, resp.BusinessData)
	assert.Contains(t, resp.Response, "tidak menemukan")
	assert.Contains(t, resp.Response, "kedai kenangan")
}

func TestChatOutOfScope(t *testing.T) {
	cat := &fakeCatalog{}
	engine := testEngine(cat)

	resp := engine.Chat(context.Background(), "What's the weather today?")

	assert.True(t, resp.Success)
	assert.Equal(t, models.MessageTypeOutOfScope, resp.MessageType)
	assert.NotEmpty(t, resp.Response)
}

func TestChatCatalogFailureIsGeneric(t *testing.T) {
	boom := fmt.Errorf("pq: connection refused")

	tests := []struct {
		name    string
		cat     *fakeCatalog
		message string
	}{
		{"count failure", &fakeCatalog{countErr: boom}, "Berapa usaha di Balikpapan?"},
		{"list failure", &fakeCatalog{listErr: boom}, "Daftar usaha perdagangan"},
		{"lookup failure", &fakeCatalog{findErr: boom}, "Apa itu Sembako Mukhlas?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testEngine(tt.cat).Chat(context.Background(), tt.message)

			assert.False(t, resp.Success)
			assert.Equal(t, models.MessageTypeError, resp.MessageType)
			assert.Equal(t, "Terjadi kesalahan internal. Silakan coba lagi.", resp.Response)
			// Backend details never leak into the answer.
			assert.NotContains(t, resp.Response, "connection")
			assert.NotContains(t, strings.ToUpper(resp.Response), "SELECT")
		})
	}
}

func TestSamples(t *testing.T) {
	engine := testEngine(&fakeCatalog{})

	samples := engine.Samples()
	assert.Len(t, samples, 7)
	for _, s := range samples {
		assert.NotEqual(t, models.MessageTypeOutOfScope, Classify(s), s)
	}
}
