package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"Berapa usaha di Balikpapan?", IntentCount},
		{"Jumlah toko aktif", IntentCount},
		{"total usaha perdagangan", IntentCount},
		{"Hitung usaha di Malang", IntentCount},
		{"Ada banyak usaha makanan?", IntentCount},

		{"Daftar usaha kategori perdagangan", IntentList},
		{"Tampilkan usaha di Balikpapan Selatan", IntentList},
		{"Sebutkan usaha dengan status nonaktif", IntentList},
		{"tunjukkan warung di malang", IntentList},

		{"Apa itu Sembako Mukhlas?", IntentBusinessInfo},
		{"Jelaskan tentang Toko Mega Jaya", IntentBusinessInfo},
		{"Deskripsikan usaha Berkah Jaya", IntentBusinessInfo},
		{"cari info warung bakso pak joyo", IntentBusinessInfo},
		{"Ceritakan tentang usaha itu", IntentBusinessInfo},

		{"What's the weather today?", IntentOutOfScope},
		{"Halo, apa kabar?", IntentOutOfScope},
		{"", IntentOutOfScope},

		// Counting beats listing beats describing.
		{"Berapa daftar usaha di Balikpapan?", IntentCount},
		{"Tampilkan dan jelaskan usaha perdagangan", IntentList},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "count", IntentCount.String())
	assert.Equal(t, "list", IntentList.String())
	assert.Equal(t, "business_info", IntentBusinessInfo.String())
	assert.Equal(t, "out_of_scope", IntentOutOfScope.String())
}
