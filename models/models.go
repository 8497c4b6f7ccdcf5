package models

import (
	"strings"
	"time"
)

// Source tags where a business row originated. The unified view unions both
// origin tables; usaha_id is only unique within a source.
const (
	SourceGeotag  = "geotag"
	SourcePrelist = "prelist"
)

// Business is one row of the usaha_llm view: the union of the geotag and
// prelist origin tables, left-joined against the region and KBLI lookups.
// Lookup misses leave the resolved fields nil, never drop the row.
type Business struct {
	UsahaID string `gorm:"column:usaha_id" json:"usaha_id"`
	Source  string `gorm:"column:source" json:"source"`

	NamaUsaha          string  `gorm:"column:nama_usaha" json:"nama_usaha"`
	NamaKomersialUsaha *string `gorm:"column:nama_komersial_usaha" json:"nama_komersial_usaha,omitempty"`
	Alamat             string  `gorm:"column:alamat" json:"alamat"`
	Kategori           string  `gorm:"column:kategori" json:"kategori"`
	ProdukUtama        string  `gorm:"column:produk_utama" json:"produk_utama"`

	KbliSection     string  `gorm:"column:kbli_section" json:"kbli_section"`
	KbliCode        string  `gorm:"column:kbli_code" json:"kbli_code"`
	KbliTitle       *string `gorm:"column:kbli_title" json:"kbli_title,omitempty"`
	KbliSectionName *string `gorm:"column:kbli_section_name" json:"kbli_section_name,omitempty"`

	KdProv string `gorm:"column:kdprov" json:"kdprov"`
	KdKab  string `gorm:"column:kdkab" json:"kdkab"`
	KdKec  string `gorm:"column:kdkec" json:"kdkec"`
	KdDesa string `gorm:"column:kddesa" json:"kddesa"`
	KdSls  string `gorm:"column:kdsls" json:"kdsls"`

	NmProv *string `gorm:"column:nmprov" json:"nmprov,omitempty"`
	NmKab  *string `gorm:"column:nmkab" json:"nmkab,omitempty"`
	NmKec  *string `gorm:"column:nmkec" json:"nmkec,omitempty"`
	NmDesa *string `gorm:"column:nmdesa" json:"nmdesa,omitempty"`
	NmSls  *string `gorm:"column:nmsls" json:"nmsls,omitempty"`

	Latitude  float64 `gorm:"column:latitude" json:"latitude"`
	Longitude float64 `gorm:"column:longitude" json:"longitude"`

	Status    string    `gorm:"column:status" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Business) TableName() string {
	return "usaha_llm"
}

// RegionPath joins the resolved region names, most specific first, skipping
// unresolved levels.
func (b *Business) RegionPath() string {
	var parts []string
	for _, p := range []*string{b.NmDesa, b.NmKec, b.NmKab, b.NmProv} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, ", ")
}

func (b *Business) Summary() BusinessSummary {
	return BusinessSummary{
		NamaUsaha: b.NamaUsaha,
		Alamat:    b.Alamat,
		Kategori:  b.Kategori,
		Status:    b.Status,
	}
}

// BusinessSummary is the compact shape used in list answers.
type BusinessSummary struct {
	NamaUsaha string `json:"nama_usaha"`
	Alamat    string `json:"alamat"`
	Kategori  string `json:"kategori"`
	Status    string `json:"status"`
}

// GeocodeResult is a resolved reverse-geocoding lookup. Jalan may be empty;
// Ringkas and Full are always populated, degrading to a coordinate phrase
// when the provider is unavailable.
type GeocodeResult struct {
	Ringkas string `json:"ringkas"`
	Jalan   string `json:"jalan"`
	Full    string `json:"full"`
}

// MessageType is the closed set of terminal chat outcomes.
type MessageType string

const (
	MessageTypeCount        MessageType = "count"
	MessageTypeList         MessageType = "list"
	MessageTypeBusinessInfo MessageType = "business_info"
	MessageTypeError        MessageType = "error"
	MessageTypeOutOfScope   MessageType = "out_of_scope"
)

// ChatResponse is the chat pipeline's answer. It never carries the structured
// query that produced it, only the rendered text and the optional payload for
// its message type.
type ChatResponse struct {
	Success      bool              `json:"success"`
	Response     string            `json:"response"`
	MessageType  MessageType       `json:"message_type"`
	Count        *int64            `json:"count,omitempty"`
	Items        []BusinessSummary `json:"items,omitempty"`
	BusinessData *Business         `json:"business_data,omitempty"`
}
